// Package envpath expands environment variables and ~ in path templates.
package envpath

import (
	"os"
	"path"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
)

var (
	windowsVar = regexp.MustCompile(`%([^%]+)%`)
	posixVar   = regexp.MustCompile(`\$(?:\{([A-Za-z_][A-Za-z0-9_]*)\}|([A-Za-z_][A-Za-z0-9_]*))`)
)

// Resolver expands path templates for one platform.
// Unset variables are left in place so later existence checks simply miss.
type Resolver struct {
	GOOS   string
	Lookup func(key string) (string, bool)
	Home   func() (string, error)
}

// Default returns a resolver for the running process.
func Default() *Resolver {
	return &Resolver{
		GOOS:   runtime.GOOS,
		Lookup: os.LookupEnv,
		Home:   os.UserHomeDir,
	}
}

// Resolve expands template with the process environment.
func Resolve(template string) string {
	return Default().Resolve(template)
}

// Resolve expands %VAR% on Windows, or $VAR, ${VAR} and a leading ~ elsewhere,
// then cleans the result.
func (r *Resolver) Resolve(template string) string {
	if template == "" {
		return ""
	}

	if r.GOOS == "windows" {
		s := windowsVar.ReplaceAllStringFunc(template, func(tok string) string {
			if v, ok := r.lookup(tok[1 : len(tok)-1]); ok {
				return v
			}
			return tok
		})
		return cleanWindows(s)
	}

	s := posixVar.ReplaceAllStringFunc(template, func(tok string) string {
		m := posixVar.FindStringSubmatch(tok)
		name := m[1]
		if name == "" {
			name = m[2]
		}
		if v, ok := r.lookup(name); ok {
			return v
		}
		return tok
	})

	if s == "~" || strings.HasPrefix(s, "~/") {
		if home, err := r.home(); err == nil && home != "" {
			s = home + s[1:]
		}
	}
	return path.Clean(s)
}

// ResolveAll expands every template.
func (r *Resolver) ResolveAll(templates []string) []string {
	out := make([]string, 0, len(templates))
	for _, t := range templates {
		out = append(out, r.Resolve(t))
	}
	return out
}

func (r *Resolver) lookup(key string) (string, bool) {
	if r.Lookup == nil {
		return "", false
	}
	v, ok := r.Lookup(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (r *Resolver) home() (string, error) {
	if r.Home == nil {
		return os.UserHomeDir()
	}
	return r.Home()
}

// cleanWindows normalizes separators to backslashes and removes redundant
// elements, keeping a drive or UNC prefix intact.
func cleanWindows(s string) string {
	if runtime.GOOS == "windows" {
		return filepath.Clean(s)
	}
	s = strings.ReplaceAll(s, "/", `\`)
	prefix := ""
	switch {
	case strings.HasPrefix(s, `\\`):
		prefix, s = `\\`, s[2:]
	case len(s) >= 2 && s[1] == ':':
		prefix, s = s[:2], s[2:]
	}
	cleaned := path.Clean(strings.ReplaceAll(s, `\`, "/"))
	if cleaned == "." && prefix != "" {
		cleaned = ""
	}
	return prefix + strings.ReplaceAll(cleaned, "/", `\`)
}
