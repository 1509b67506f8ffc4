package ui

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner shows activity on stderr while a long listing or backup runs.
// It is silent when stderr is not a terminal.
type Spinner struct {
	s *spinner.Spinner
}

// NewSpinner creates a stopped spinner showing message.
func NewSpinner(message string) *Spinner {
	charSet := spinner.CharSets[14]
	if !unicodeOn {
		charSet = spinner.CharSets[9]
	}

	s := spinner.New(charSet, 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	if colorsOn {
		_ = s.Color("cyan")
	}
	return &Spinner{s: s}
}

// Start starts the animation.
func (sp *Spinner) Start() { sp.s.Start() }

// Stop stops the animation and clears the line.
func (sp *Spinner) Stop() { sp.s.Stop() }

// UpdateMessage replaces the text after the spinner.
func (sp *Spinner) UpdateMessage(message string) {
	sp.s.Lock()
	sp.s.Suffix = " " + message
	sp.s.Unlock()
}

// Progress shows a done/total counter after label.
func (sp *Spinner) Progress(label string, done, total int) {
	sp.UpdateMessage(fmt.Sprintf("%s (%d/%d)", label, done, total))
}
