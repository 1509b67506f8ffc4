package restore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
)

// Shebang heads every non-PowerShell script.
const Shebang = "#!/usr/bin/env bash"

// Script renders commands one per line. PowerShell scripts get CRLF line
// endings and no shebang.
func Script(cmds []manager.Command, powershell bool) string {
	lines := make([]string, 0, len(cmds)+1)
	if !powershell {
		lines = append(lines, Shebang)
	}
	for _, c := range cmds {
		lines = append(lines, c.String())
	}
	eol := "\n"
	if powershell {
		eol = "\r\n"
	}
	return strings.Join(lines, eol)
}

// Preview renders the script for req as it would be written on platform.
func Preview(req Request, b CommandBuilder, platform manager.Platform) (string, error) {
	cmds, err := Commands(req, b)
	if err != nil {
		return "", err
	}
	return Script(cmds, platform == manager.Windows), nil
}

// DefaultScriptPath returns abr_install_<unix millis>.<ps1|sh> in the temp directory.
func DefaultScriptPath(platform manager.Platform, now time.Time) string {
	ext := ".sh"
	if platform == manager.Windows {
		ext = ".ps1"
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("abr_install_%d%s", now.UnixMilli(), ext))
}

// WriteScript writes the script for req to outputPath, or to DefaultScriptPath
// when outputPath is blank, and returns the path written. A .ps1 path gets a
// PowerShell script; anything else gets an executable bash script.
func WriteScript(req Request, b CommandBuilder, outputPath string, platform manager.Platform) (string, error) {
	cmds, err := Commands(req, b)
	if err != nil {
		return "", err
	}

	path := strings.TrimSpace(outputPath)
	if path == "" {
		path = DefaultScriptPath(platform, time.Now())
	}
	powershell := strings.EqualFold(filepath.Ext(path), ".ps1")

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create script directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(Script(cmds, powershell)), 0644); err != nil {
		return "", fmt.Errorf("failed to write script: %w", err)
	}
	if !powershell {
		if err := os.Chmod(path, 0755); err != nil {
			return "", fmt.Errorf("failed to mark script executable: %w", err)
		}
	}
	return path, nil
}
