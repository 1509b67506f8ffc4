// Package hostapp lists and restores extensions of editors built on the VS Code platform.
package hostapp

import (
	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
)

// Host describes an editor exposing the VS Code extension CLI.
// Path templates use %VAR% on Windows and $VAR or ~ elsewhere.
type Host struct {
	ID      manager.ID
	Label   string
	Command string
	// MacApp is the application bundle name under /Applications, without ".app".
	MacApp string
	// Settings is the per-platform directory holding settings.json and keybindings.json.
	Settings map[manager.Platform]string
	// Extra lists per-platform auxiliary files backed up alongside the settings.
	Extra map[manager.Platform][]string
}

// SettingsFiles are copied from the settings directory when present.
var SettingsFiles = []string{"settings.json", "keybindings.json"}

var hosts = []Host{
	{
		ID:       manager.VSCode,
		Label:    "Visual Studio Code",
		Command:  "code",
		MacApp:   "Visual Studio Code",
		Settings: userDirs("Code"),
		Extra: map[manager.Platform][]string{
			manager.Windows: {`%APPDATA%\Code\User\mcp.json`},
			manager.Darwin:  {"~/Library/Application Support/Code/User/mcp.json"},
			manager.Linux:   {"~/.config/Code/User/mcp.json"},
		},
	},
	{
		ID:       manager.Cursor,
		Label:    "Cursor",
		Command:  "cursor",
		MacApp:   "Cursor",
		Settings: userDirs("Cursor"),
		Extra: map[manager.Platform][]string{
			manager.Windows: {`%USERPROFILE%\.cursor\mcp.json`},
			manager.Darwin:  {"~/.cursor/mcp.json"},
			manager.Linux:   {"~/.cursor/mcp.json"},
		},
	},
	{
		ID:       manager.Antigravity,
		Label:    "Antigravity",
		Command:  "antigravity",
		MacApp:   "Antigravity",
		Settings: userDirs("Antigravity"),
		Extra: map[manager.Platform][]string{
			manager.Windows: {`%USERPROFILE%\.gemini\antigravity\mcp_config.json`},
			manager.Darwin:  {"~/.gemini/antigravity/mcp_config.json"},
			manager.Linux:   {"~/.gemini/antigravity/mcp_config.json"},
		},
	},
	{
		ID:       manager.VoidEditor,
		Label:    "Void",
		Command:  "void",
		MacApp:   "Void",
		Settings: userDirs("Void"),
	},
}

func userDirs(product string) map[manager.Platform]string {
	return map[manager.Platform]string{
		manager.Windows: `%APPDATA%\` + product + `\User`,
		manager.Darwin:  "~/Library/Application Support/" + product + "/User",
		manager.Linux:   "~/.config/" + product + "/User",
	}
}

// Hosts returns every known host in display order.
func Hosts() []Host {
	out := make([]Host, len(hosts))
	copy(out, hosts)
	return out
}

// Lookup returns the host definition for id.
func Lookup(id manager.ID) (Host, bool) {
	for _, h := range hosts {
		if h.ID == id {
			return h, true
		}
	}
	return Host{}, false
}

// BundleBinary returns the CLI path inside the macOS application bundle,
// or "" when the host is not packaged as an app.
func (h Host) BundleBinary() string {
	if h.MacApp == "" {
		return ""
	}
	return "/Applications/" + h.MacApp + ".app/Contents/Resources/app/bin/" + h.Command
}

// SettingsDir returns the unresolved settings directory template for p.
func (h Host) SettingsDir(p manager.Platform) string {
	return h.Settings[p]
}

// ExtraFiles returns the unresolved auxiliary file templates for p.
func (h Host) ExtraFiles(p manager.Platform) []string {
	return h.Extra[p]
}
