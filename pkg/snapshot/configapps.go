package snapshot

import (
	"fmt"
	"path/filepath"

	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
)

// ConfigApp is an application whose only backed-up state is a few config files.
// File templates use the same syntax as envpath.
type ConfigApp struct {
	ID    string
	Label string
	Files map[manager.Platform][]string
}

var configApps = []ConfigApp{
	{
		ID:    "git",
		Label: "Git",
		Files: map[manager.Platform][]string{
			manager.Windows: {`%USERPROFILE%\.gitconfig`},
			manager.Darwin:  {"~/.gitconfig"},
			manager.Linux:   {"~/.gitconfig"},
		},
	},
	{
		ID:    "ssh",
		Label: "SSH",
		Files: map[manager.Platform][]string{
			manager.Windows: {`%USERPROFILE%\.ssh\config`},
			manager.Darwin:  {"~/.ssh/config"},
			manager.Linux:   {"~/.ssh/config"},
		},
	},
	{
		ID:    "npm",
		Label: "npm",
		Files: map[manager.Platform][]string{
			manager.Windows: {`%USERPROFILE%\.npmrc`},
			manager.Darwin:  {"~/.npmrc"},
			manager.Linux:   {"~/.npmrc"},
		},
	},
	{
		ID:    "bash",
		Label: "Bash",
		Files: map[manager.Platform][]string{
			manager.Darwin: {"~/.bashrc", "~/.bash_profile"},
			manager.Linux:  {"~/.bashrc", "~/.bash_profile", "~/.profile"},
		},
	},
	{
		ID:    "zsh",
		Label: "Zsh",
		Files: map[manager.Platform][]string{
			manager.Darwin: {"~/.zshrc", "~/.zprofile"},
			manager.Linux:  {"~/.zshrc", "~/.zprofile"},
		},
	},
	{
		ID:    "powershell",
		Label: "PowerShell",
		Files: map[manager.Platform][]string{
			manager.Windows: {`%USERPROFILE%\Documents\PowerShell\Microsoft.PowerShell_profile.ps1`},
			manager.Darwin:  {"~/.config/powershell/Microsoft.PowerShell_profile.ps1"},
			manager.Linux:   {"~/.config/powershell/Microsoft.PowerShell_profile.ps1"},
		},
	},
	{
		ID:    "wsl",
		Label: "WSL",
		Files: map[manager.Platform][]string{
			manager.Windows: {`%USERPROFILE%\.wslconfig`},
		},
	},
}

// ConfigApps returns every config app in display order.
func ConfigApps() []ConfigApp {
	out := make([]ConfigApp, len(configApps))
	copy(out, configApps)
	return out
}

// LookupConfigApp returns the config app named id.
func LookupConfigApp(id string) (ConfigApp, error) {
	for _, app := range configApps {
		if app.ID == id {
			return app, nil
		}
	}
	return ConfigApp{}, fmt.Errorf("%w: config app %q", manager.ErrUnknownSource, id)
}

// FilesFor returns the file templates for p.
func (a ConfigApp) FilesFor(p manager.Platform) []string {
	return a.Files[p]
}

// BackupPath returns where a resolved source file is stored: <root>/<app>/<basename>.
func (s *Store) BackupPath(dir, source string) string {
	return filepath.Join(s.root, dir, filepath.Base(source))
}
