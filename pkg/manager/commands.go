package manager

import "fmt"

// DefaultElevation is the prefix used for managers that install system-wide.
const DefaultElevation = "sudo"

// DefaultFlatpakRemote is the remote Flatpak installs from.
const DefaultFlatpakRemote = "flathub"

// InstallOptions tunes the shape of synthesized install commands.
// The zero value is completed by Defaults.
type InstallOptions struct {
	// Elevation prefixes system-wide installs. "none" disables the prefix.
	Elevation string
	// FlatpakRemote is the remote passed to flatpak install.
	FlatpakRemote string
	// AcceptAgreements adds winget's non-interactive agreement flags.
	AcceptAgreements bool
}

// Defaults fills unset fields.
func (o InstallOptions) Defaults() InstallOptions {
	if o.Elevation == "" {
		o.Elevation = DefaultElevation
	}
	if o.FlatpakRemote == "" {
		o.FlatpakRemote = DefaultFlatpakRemote
	}
	return o
}

// InstallCommand builds the install command for identifier using default options.
func InstallCommand(id ID, identifier, version string) Command {
	return BuildInstallCommand(id, identifier, version, InstallOptions{})
}

// BuildInstallCommand builds the install command for identifier on source id.
// Version is honored only where the manager accepts a pinned version.
// It panics when id is not a known source.
func BuildInstallCommand(id ID, identifier, version string, opts InstallOptions) Command {
	opts = opts.Defaults()

	switch id {
	case Winget, MSStore:
		args := []string{"install", identifier}
		if opts.AcceptAgreements {
			args = append(args, "--accept-package-agreements", "--accept-source-agreements")
		}
		return Command{Program: "winget", Args: args}
	case Scoop:
		return Command{Program: "scoop", Args: []string{"install", identifier}}
	case Chocolatey:
		args := []string{"install", identifier}
		if version != "" {
			args = append(args, "--version", version)
		}
		return Command{Program: "choco", Args: args}
	case Homebrew:
		return Command{Program: "brew", Args: []string{"install", identifier}}
	case APT:
		return elevated(opts.Elevation, "apt", "install", "-y", identifier)
	case YUM:
		return elevated(opts.Elevation, "yum", "install", "-y", identifier)
	case DNF:
		return elevated(opts.Elevation, "dnf", "install", "-y", identifier)
	case Pacman:
		return elevated(opts.Elevation, "pacman", "-S", "--noconfirm", identifier)
	case Zypper:
		return elevated(opts.Elevation, "zypper", "install", "-y", identifier)
	case Snap:
		return elevated(opts.Elevation, "snap", "install", identifier)
	case Flatpak:
		return Command{Program: "flatpak", Args: []string{"install", "-y", opts.FlatpakRemote, identifier}}
	}

	if d, ok := Lookup(id); ok && d.Kind == KindHost {
		return Command{Program: d.Binary, Args: []string{"--install-extension", identifier}}
	}
	panic(fmt.Sprintf("manager: no install command for source %q", id))
}

func elevated(prefix, program string, args ...string) Command {
	if prefix == "none" {
		return Command{Program: program, Args: args}
	}
	return Command{Program: prefix, Args: append([]string{program}, args...)}
}
