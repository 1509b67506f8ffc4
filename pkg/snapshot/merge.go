package snapshot

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
)

// Provenance tells where a merged item was seen.
type Provenance string

const (
	ProvenanceInstalled  Provenance = "installed"   // Only in the live listing
	ProvenanceBackupOnly Provenance = "backup_only" // Only in the snapshot
	ProvenanceBoth       Provenance = "both"        // In both
)

// Symbol returns a one-character marker for tables.
func (p Provenance) Symbol() string {
	switch p {
	case ProvenanceInstalled:
		return "+"
	case ProvenanceBackupOnly:
		return "-"
	case ProvenanceBoth:
		return "="
	default:
		return "?"
	}
}

// MergedItem is one row of the reconciled view.
type MergedItem struct {
	ID          string     `json:"id" yaml:"id"`
	DisplayName string     `json:"display_name" yaml:"display_name"`
	Version     string     `json:"version,omitempty" yaml:"version,omitempty"`
	IsInstalled bool       `json:"is_installed" yaml:"is_installed"`
	Provenance  Provenance `json:"provenance" yaml:"provenance"`
}

// Accessors extract the identity, display name and version of a record.
type Accessors[T any] struct {
	Identity func(T) string
	Name     func(T) string
	Version  func(T) string
}

// ItemAccessors reads the manager.Item methods.
var ItemAccessors = Accessors[manager.Item]{
	Identity: manager.Item.Identity,
	Name:     manager.Item.DisplayName,
	Version:  manager.Item.VersionString,
}

// Merge reconciles a live listing against a snapshot using root-locale collation.
func Merge(installed, backedUp []manager.Item) []MergedItem {
	return MergeWith(language.Und, installed, backedUp, ItemAccessors)
}

// MergeWith reconciles installed against backedUp.
//
// Every identity appears exactly once. When an identity is on both sides the
// installed copy supplies the name and version. Installed items sort first,
// then by display name using the collation rules of tag. Records with an empty
// identity are ignored, and the first record wins when an identity repeats
// within one side.
func MergeWith[T any](tag language.Tag, installed, backedUp []T, acc Accessors[T]) []MergedItem {
	live := index(installed, acc.Identity)
	backup := index(backedUp, acc.Identity)

	merged := make([]MergedItem, 0, len(live.order)+len(backup.order))
	for _, id := range live.order {
		rec := live.byID[id]
		prov := ProvenanceInstalled
		if _, ok := backup.byID[id]; ok {
			prov = ProvenanceBoth
		}
		merged = append(merged, newMergedItem(id, rec, acc, true, prov))
	}
	for _, id := range backup.order {
		if _, ok := live.byID[id]; ok {
			continue
		}
		merged = append(merged, newMergedItem(id, backup.byID[id], acc, false, ProvenanceBackupOnly))
	}

	Sort(tag, merged)
	return merged
}

// Sort orders items installed-first, then by display name under tag's collation.
// Names that collate equal fall back to byte order, then to the id.
func Sort(tag language.Tag, items []MergedItem) {
	c := collate.New(tag, collate.IgnoreCase)
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.IsInstalled != b.IsInstalled {
			return a.IsInstalled
		}
		if r := c.CompareString(a.DisplayName, b.DisplayName); r != 0 {
			return r < 0
		}
		if a.DisplayName != b.DisplayName {
			return a.DisplayName < b.DisplayName
		}
		return a.ID < b.ID
	})
}

// Installed returns the items eligible for backup.
func Installed(items []MergedItem) []MergedItem {
	return filter(items, true)
}

// Missing returns the items eligible for restore.
func Missing(items []MergedItem) []MergedItem {
	return filter(items, false)
}

// IDs returns the identity of every item in order.
func IDs(items []MergedItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

// Versions maps identity to version for items that carry one.
func Versions(items []MergedItem) map[string]string {
	out := make(map[string]string)
	for _, it := range items {
		if it.Version != "" {
			out[it.ID] = it.Version
		}
	}
	return out
}

func filter(items []MergedItem, installed bool) []MergedItem {
	var out []MergedItem
	for _, it := range items {
		if it.IsInstalled == installed {
			out = append(out, it)
		}
	}
	return out
}

type indexed[T any] struct {
	byID  map[string]T
	order []string
}

func index[T any](records []T, identity func(T) string) indexed[T] {
	idx := indexed[T]{byID: make(map[string]T, len(records))}
	for _, r := range records {
		id := identity(r)
		if id == "" {
			continue
		}
		if _, dup := idx.byID[id]; dup {
			continue
		}
		idx.byID[id] = r
		idx.order = append(idx.order, id)
	}
	return idx
}

func newMergedItem[T any](id string, rec T, acc Accessors[T], installed bool, prov Provenance) MergedItem {
	name := acc.Name(rec)
	if name == "" {
		name = id
	}
	var version string
	if acc.Version != nil {
		version = acc.Version(rec)
	}
	return MergedItem{
		ID:          id,
		DisplayName: name,
		Version:     version,
		IsInstalled: installed,
		Provenance:  prov,
	}
}
