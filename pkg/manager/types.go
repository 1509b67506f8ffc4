// Package manager provides the core abstraction for package sources and extension hosts.
package manager

import (
	"fmt"
	"runtime"
	"strings"
)

// ID identifies a package manager family or an extension host application.
type ID string

// Package manager families.
const (
	Winget     ID = "winget"
	MSStore    ID = "msstore"
	Scoop      ID = "scoop"
	Chocolatey ID = "chocolatey"
	Homebrew   ID = "homebrew"
	APT        ID = "apt"
	YUM        ID = "yum"
	DNF        ID = "dnf"
	Pacman     ID = "pacman"
	Zypper     ID = "zypper"
	Snap       ID = "snap"
	Flatpak    ID = "flatpak"
)

// Extension host applications.
const (
	VSCode      ID = "vscode"
	Cursor      ID = "cursor"
	Antigravity ID = "antigravity"
	VoidEditor  ID = "voideditor"
)

// Kind separates package managers from extension hosts.
type Kind string

const (
	// KindPackage is an OS-level package manager.
	KindPackage Kind = "package"
	// KindHost is an editor exposing an extension CLI.
	KindHost Kind = "host"
)

// Platform is an operating system the engine knows how to drive.
type Platform string

const (
	Windows Platform = "windows"
	Darwin  Platform = "darwin"
	Linux   Platform = "linux"
)

// CurrentPlatform returns the platform the process is running on.
func CurrentPlatform() Platform {
	return Platform(runtime.GOOS)
}

// Def is the static description of a source.
type Def struct {
	ID        ID
	Label     string
	Kind      Kind
	Binary    string // executable used for detection and install commands
	Platforms []Platform
}

// SupportedOn reports whether the source is meaningful on p.
func (d Def) SupportedOn(p Platform) bool {
	for _, candidate := range d.Platforms {
		if candidate == p {
			return true
		}
	}
	return false
}

var defs = []Def{
	{ID: Winget, Label: "Winget", Kind: KindPackage, Binary: "winget", Platforms: []Platform{Windows}},
	{ID: MSStore, Label: "Microsoft Store", Kind: KindPackage, Binary: "winget", Platforms: []Platform{Windows}},
	{ID: Scoop, Label: "Scoop", Kind: KindPackage, Binary: "scoop", Platforms: []Platform{Windows}},
	{ID: Chocolatey, Label: "Chocolatey", Kind: KindPackage, Binary: "choco", Platforms: []Platform{Windows}},
	{ID: Homebrew, Label: "Homebrew", Kind: KindPackage, Binary: "brew", Platforms: []Platform{Darwin, Linux}},
	{ID: APT, Label: "APT", Kind: KindPackage, Binary: "apt", Platforms: []Platform{Linux}},
	{ID: YUM, Label: "YUM", Kind: KindPackage, Binary: "yum", Platforms: []Platform{Linux}},
	{ID: DNF, Label: "DNF", Kind: KindPackage, Binary: "dnf", Platforms: []Platform{Linux}},
	{ID: Pacman, Label: "Pacman", Kind: KindPackage, Binary: "pacman", Platforms: []Platform{Linux}},
	{ID: Zypper, Label: "Zypper", Kind: KindPackage, Binary: "zypper", Platforms: []Platform{Linux}},
	{ID: Snap, Label: "Snap", Kind: KindPackage, Binary: "snap", Platforms: []Platform{Linux}},
	{ID: Flatpak, Label: "Flatpak", Kind: KindPackage, Binary: "flatpak", Platforms: []Platform{Linux}},
	{ID: VSCode, Label: "Visual Studio Code", Kind: KindHost, Binary: "code", Platforms: []Platform{Windows, Darwin, Linux}},
	{ID: Cursor, Label: "Cursor", Kind: KindHost, Binary: "cursor", Platforms: []Platform{Windows, Darwin, Linux}},
	{ID: Antigravity, Label: "Antigravity", Kind: KindHost, Binary: "antigravity", Platforms: []Platform{Windows, Darwin, Linux}},
	{ID: VoidEditor, Label: "Void", Kind: KindHost, Binary: "void", Platforms: []Platform{Windows, Darwin, Linux}},
}

// Defs returns every known source in display order.
func Defs() []Def {
	out := make([]Def, len(defs))
	copy(out, defs)
	return out
}

// Lookup returns the definition for id.
func Lookup(id ID) (Def, bool) {
	for _, d := range defs {
		if d.ID == id {
			return d, true
		}
	}
	return Def{}, false
}

// ParseID validates a user-supplied source name.
func ParseID(s string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := Lookup(id); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSource, s)
	}
	return id, nil
}

// IsHost reports whether id names an extension host.
func (id ID) IsHost() bool {
	d, ok := Lookup(id)
	return ok && d.Kind == KindHost
}

// String implements fmt.Stringer.
func (id ID) String() string {
	return string(id)
}

// Command is a single external program invocation.
type Command struct {
	Program string   `json:"program"`
	Args    []string `json:"args"`
}

// Argv returns the program followed by its arguments.
func (c Command) Argv() []string {
	return append([]string{c.Program}, c.Args...)
}

// String renders the command as a space-joined line.
func (c Command) String() string {
	return strings.Join(c.Argv(), " ")
}
