//go:build windows

package executor

import (
	"os/exec"
	"path/filepath"
	"strings"
)

// wrapCommand routes batch shims such as code.cmd through cmd.exe,
// which CreateProcess cannot start directly.
func wrapCommand(name string, args []string) (string, []string) {
	path, err := exec.LookPath(name)
	if err != nil {
		return name, args
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cmd", ".bat":
		return "cmd", append([]string{"/c", path}, args...)
	}
	return path, args
}
