package inventory

import (
	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
	"github.com/kakehashi-inc/app-backup-restore/pkg/manager/hostapp"
	"github.com/kakehashi-inc/app-backup-restore/pkg/manager/native"
	"github.com/kakehashi-inc/app-backup-restore/pkg/manager/universal"
)

// AdapterOptions tunes the install commands of the registered adapters.
type AdapterOptions struct {
	// Elevation overrides the elevation prefix per source.
	Elevation map[manager.ID]string
	// FlatpakRemote is the remote used by flatpak install.
	FlatpakRemote string
	// AcceptAgreements adds winget's agreement flags.
	AcceptAgreements bool
}

func (o AdapterOptions) installOptions(id manager.ID) manager.InstallOptions {
	return manager.InstallOptions{
		Elevation:        o.Elevation[id],
		FlatpakRemote:    o.FlatpakRemote,
		AcceptAgreements: o.AcceptAgreements,
	}
}

// NewRegistry registers an adapter for every known source.
// resolver supplies winget display names and may be nil.
func NewRegistry(runner manager.Runner, resolver native.NameResolver, opts AdapterOptions) *manager.Registry {
	reg := manager.NewRegistry()

	natives := []interface {
		manager.Manager
		SetInstallOptions(manager.InstallOptions)
	}{
		native.NewWinget(runner, resolver),
		native.NewMSStore(runner, resolver),
		native.NewScoop(runner),
		native.NewChocolatey(runner),
		native.NewBrew(runner),
		native.NewAPT(runner),
		native.NewYUM(runner),
		native.NewDNF(runner),
		native.NewPacman(runner),
		native.NewZypper(runner),
	}
	for _, m := range natives {
		m.SetInstallOptions(opts.installOptions(m.ID()))
		reg.Register(m)
	}

	snap := universal.NewSnap(runner)
	if e := opts.Elevation[manager.Snap]; e != "" {
		snap.SetElevation(e)
	}
	reg.Register(snap)
	reg.Register(universal.NewFlatpak(runner, opts.FlatpakRemote))

	for _, h := range hostapp.Hosts() {
		a, err := hostapp.New(h.ID, runner)
		if err != nil {
			continue
		}
		reg.Register(a)
	}

	return reg
}
