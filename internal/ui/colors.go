// Package ui provides terminal output helpers for abr.
package ui

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Message colors.
var (
	Success = color.New(color.FgGreen, color.Bold)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow, color.Bold)
	Info    = color.New(color.FgCyan)
	Header  = color.New(color.FgMagenta, color.Bold)
	Muted   = color.New(color.FgHiBlack)
	Strong  = color.New(color.Bold)
)

// Item and provenance colors.
var (
	ItemName    = color.New(color.FgWhite, color.Bold)
	ItemVersion = color.New(color.FgGreen)
	SourceName  = color.New(color.FgCyan)
	Installed   = color.New(color.FgGreen)
	BackupOnly  = color.New(color.FgYellow)
	Both        = color.New(color.FgCyan)
)

// Out receives every message printed by this package.
var Out io.Writer = os.Stdout

// Status symbols. Init swaps them for ASCII when unicode is off.
var (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "!"
	SymbolInfo    = "→"
	SymbolPending = "○"
	SymbolArrow   = "→"
)

var (
	colorsOn  = true
	unicodeOn = true
)

// Init applies the output settings. Color is also turned off for NO_COLOR
// and when stdout is not a terminal.
func Init(useColors, useUnicode bool) {
	colorsOn = useColors && os.Getenv("NO_COLOR") == "" && Interactive()
	color.NoColor = !colorsOn

	unicodeOn = useUnicode
	if !useUnicode {
		SymbolSuccess, SymbolError, SymbolWarning = "[OK]", "[ERROR]", "[WARN]"
		SymbolInfo, SymbolPending, SymbolArrow = "->", "[ ]", "->"
	}
}

// Interactive reports whether stdout is a terminal.
func Interactive() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func message(c *color.Color, prefix, format string, args ...any) {
	if prefix != "" {
		format = prefix + " " + format
	}
	c.Fprintf(Out, format+"\n", args...)
}

// SuccessMsg prints a success message.
func SuccessMsg(format string, args ...any) { message(Success, SymbolSuccess, format, args...) }

// ErrorMsg prints an error message.
func ErrorMsg(format string, args ...any) { message(Error, SymbolError, format, args...) }

// WarningMsg prints a warning message.
func WarningMsg(format string, args ...any) { message(Warning, SymbolWarning, format, args...) }

// InfoMsg prints an info message.
func InfoMsg(format string, args ...any) { message(Info, SymbolInfo, format, args...) }

// HeaderMsg prints a header preceded by a blank line.
func HeaderMsg(format string, args ...any) { message(Header, "", "\n"+format, args...) }

// MutedMsg prints a dim message.
func MutedMsg(format string, args ...any) { message(Muted, "", format, args...) }
