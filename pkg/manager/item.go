package manager

import (
	"encoding/json"
	"fmt"
)

// Item is a normalized record produced by a source listing.
// Each concrete record type picks exactly one identity field.
type Item interface {
	Identity() string
	DisplayName() string
	VersionString() string
}

// WingetItem is a Winget or Microsoft Store package.
type WingetItem struct {
	PackageID string `json:"PackageId"`
	Name      string `json:"Name"`
	Version   string `json:"Version"`
}

func (w WingetItem) Identity() string      { return w.PackageID }
func (w WingetItem) DisplayName() string   { return orFallback(w.Name, w.PackageID) }
func (w WingetItem) VersionString() string { return w.Version }

// ScoopItem is a Scoop app.
type ScoopItem struct {
	Name    string `json:"Name"`
	Version string `json:"Version"`
	Source  string `json:"Source,omitempty"`
}

func (s ScoopItem) Identity() string      { return s.Name }
func (s ScoopItem) DisplayName() string   { return s.Name }
func (s ScoopItem) VersionString() string { return s.Version }

// ChocolateyItem is a Chocolatey package.
type ChocolateyItem struct {
	PackageID string `json:"PackageId"`
	Title     string `json:"Title"`
	Version   string `json:"Version"`
}

func (c ChocolateyItem) Identity() string      { return c.PackageID }
func (c ChocolateyItem) DisplayName() string   { return orFallback(c.Title, c.PackageID) }
func (c ChocolateyItem) VersionString() string { return c.Version }

// HomebrewItem is a Homebrew formula or cask.
type HomebrewItem struct {
	Name               string `json:"Name"`
	Version            string `json:"Version"`
	InstalledOnRequest bool   `json:"InstalledOnRequest,omitempty"`
}

func (h HomebrewItem) Identity() string      { return h.Name }
func (h HomebrewItem) DisplayName() string   { return h.Name }
func (h HomebrewItem) VersionString() string { return h.Version }

// AptItem is a dpkg package.
type AptItem struct {
	Package      string `json:"Package"`
	Version      string `json:"Version"`
	Architecture string `json:"Architecture,omitempty"`
}

func (a AptItem) Identity() string      { return a.Package }
func (a AptItem) DisplayName() string   { return a.Package }
func (a AptItem) VersionString() string { return a.Version }

// YumItem is an RPM package as reported by yum, dnf or zypper.
type YumItem struct {
	Name         string `json:"Name"`
	Version      string `json:"Version"`
	Release      string `json:"Release,omitempty"`
	Architecture string `json:"Architecture,omitempty"`
}

func (y YumItem) Identity() string    { return y.Name }
func (y YumItem) DisplayName() string { return y.Name }

func (y YumItem) VersionString() string {
	if y.Release == "" {
		return y.Version
	}
	return y.Version + "-" + y.Release
}

// PacmanItem is a pacman package.
type PacmanItem struct {
	Name       string `json:"Name"`
	Version    string `json:"Version"`
	Repository string `json:"Repository,omitempty"`
}

func (p PacmanItem) Identity() string      { return p.Name }
func (p PacmanItem) DisplayName() string   { return p.Name }
func (p PacmanItem) VersionString() string { return p.Version }

// SnapItem is an installed snap.
type SnapItem struct {
	Name     string `json:"Name"`
	Version  string `json:"Version"`
	Revision string `json:"Revision,omitempty"`
	Tracking string `json:"Tracking,omitempty"`
}

func (s SnapItem) Identity() string      { return s.Name }
func (s SnapItem) DisplayName() string   { return s.Name }
func (s SnapItem) VersionString() string { return s.Version }

// FlatpakItem is an installed Flatpak application.
// Identity is the application ID since that is what flatpak install accepts.
type FlatpakItem struct {
	Name        string `json:"Name"`
	Application string `json:"Application"`
	Version     string `json:"Version"`
	Branch      string `json:"Branch,omitempty"`
	Origin      string `json:"Origin,omitempty"`
}

func (f FlatpakItem) Identity() string      { return f.Application }
func (f FlatpakItem) DisplayName() string   { return orFallback(f.Name, f.Application) }
func (f FlatpakItem) VersionString() string { return f.Version }

// ExtensionItem is an extension installed in a host application.
type ExtensionItem struct {
	ID      string `json:"id"`
	Version string `json:"version,omitempty"`
}

func (e ExtensionItem) Identity() string      { return e.ID }
func (e ExtensionItem) DisplayName() string   { return e.ID }
func (e ExtensionItem) VersionString() string { return e.Version }

func orFallback(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// DecodeItems decodes a persisted record list for id into its concrete record type.
// Records without an identity value are dropped.
func DecodeItems(id ID, data []byte) ([]Item, error) {
	switch id {
	case Winget, MSStore:
		return decodeAs[WingetItem](data)
	case Scoop:
		return decodeAs[ScoopItem](data)
	case Chocolatey:
		return decodeAs[ChocolateyItem](data)
	case Homebrew:
		return decodeAs[HomebrewItem](data)
	case APT:
		return decodeAs[AptItem](data)
	case YUM, DNF, Zypper:
		return decodeAs[YumItem](data)
	case Pacman:
		return decodeAs[PacmanItem](data)
	case Snap:
		return decodeAs[SnapItem](data)
	case Flatpak:
		return decodeAs[FlatpakItem](data)
	case VSCode, Cursor, Antigravity, VoidEditor:
		return decodeAs[ExtensionItem](data)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSource, id)
}

func decodeAs[T Item](data []byte) ([]Item, error) {
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(records))
	for _, r := range records {
		if r.Identity() == "" {
			continue
		}
		items = append(items, r)
	}
	return items, nil
}

// Identities returns the identity value of every item, preserving order.
func Identities(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Identity())
	}
	return out
}

// FilterByIdentity keeps only items whose identity is in keep.
// An empty keep list returns items unchanged.
func FilterByIdentity(items []Item, keep []string) []Item {
	if len(keep) == 0 {
		return items
	}
	set := make(map[string]bool, len(keep))
	for _, k := range keep {
		set[k] = true
	}
	out := make([]Item, 0, len(keep))
	for _, it := range items {
		if set[it.Identity()] {
			out = append(out, it)
		}
	}
	return out
}
