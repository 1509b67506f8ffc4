package inventory

import (
	"fmt"
	"path"

	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
	"github.com/kakehashi-inc/app-backup-restore/pkg/manager/hostapp"
	"github.com/kakehashi-inc/app-backup-restore/pkg/snapshot"
)

// FileMapping pairs a file on this machine with its copy in the backup directory.
type FileMapping struct {
	Template string `json:"template"`
	Local    string `json:"local"`
	Backup   string `json:"backup"`
	// LocalExists and BackedUp report which side currently exists.
	LocalExists bool `json:"local_exists"`
	BackedUp    bool `json:"backed_up"`
}

// HostFiles maps the settings and auxiliary files of a host.
func (s *Service) HostFiles(id manager.ID) ([]FileMapping, error) {
	host, ok := hostapp.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an extension host", manager.ErrUnknownSource, id)
	}
	if s.store == nil {
		return nil, ErrNoBackupDir
	}

	var templates []string
	if dir := host.SettingsDir(s.platform); dir != "" {
		for _, name := range hostapp.SettingsFiles {
			templates = append(templates, joinTemplate(s.platform, dir, name))
		}
	}
	templates = append(templates, host.ExtraFiles(s.platform)...)
	return s.mapFiles(string(id), templates), nil
}

// ConfigFiles maps the files of a config app.
func (s *Service) ConfigFiles(appID string) ([]FileMapping, error) {
	app, err := snapshot.LookupConfigApp(appID)
	if err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, ErrNoBackupDir
	}
	return s.mapFiles(app.ID, app.FilesFor(s.platform)), nil
}

// RestoreHostSettings copies a host's backed-up settings back into place.
func (s *Service) RestoreHostSettings(id manager.ID) ([]string, error) {
	return s.copyHostFiles(id, true)
}

// BackupHostSettings copies a host's settings into the backup directory without listing extensions.
func (s *Service) BackupHostSettings(id manager.ID) ([]string, error) {
	written, err := s.copyHostFiles(id, false)
	if err == nil {
		s.touch(string(id))
	}
	return written, err
}

// ConfigAppAvailability reports, per config app, whether any of its files exist here.
func (s *Service) ConfigAppAvailability() map[string]bool {
	out := make(map[string]bool)
	for _, app := range snapshot.ConfigApps() {
		available := false
		for _, f := range s.paths.ResolveAll(app.FilesFor(s.platform)) {
			if snapshot.FileExists(f) {
				available = true
				break
			}
		}
		out[app.ID] = available
	}
	return out
}

// BackupConfigApp copies the existing files of a config app into <backup>/<app>/.
func (s *Service) BackupConfigApp(appID string) ([]string, error) {
	files, err := s.ConfigFiles(appID)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no config files defined for %s on %s", appID, s.platform)
	}
	written, err := copyMappings(files, false)
	if err == nil {
		s.touch(appID)
	}
	return written, err
}

// RestoreConfigApp copies the backed-up files of a config app back into place.
func (s *Service) RestoreConfigApp(appID string) ([]string, error) {
	files, err := s.ConfigFiles(appID)
	if err != nil {
		return nil, err
	}
	return copyMappings(files, true)
}

func (s *Service) copyHostFiles(id manager.ID, restore bool) ([]string, error) {
	files, err := s.HostFiles(id)
	if err != nil {
		return nil, err
	}
	return copyMappings(files, restore)
}

func (s *Service) mapFiles(dir string, templates []string) []FileMapping {
	out := make([]FileMapping, 0, len(templates))
	for _, t := range templates {
		local := s.paths.Resolve(t)
		backup := s.store.BackupPath(dir, baseName(s.platform, local))
		out = append(out, FileMapping{
			Template:    t,
			Local:       local,
			Backup:      backup,
			LocalExists: snapshot.FileExists(local),
			BackedUp:    snapshot.FileExists(backup),
		})
	}
	return out
}

func (s *Service) touch(target string) {
	if err := s.store.Touch(target); err != nil {
		s.logger.Warn().Err(err).Str("target", target).Msg("backup metadata not updated")
	}
}

// copyMappings copies every mapping whose source side exists. Missing sources are skipped.
func copyMappings(files []FileMapping, restore bool) ([]string, error) {
	var written []string
	for _, f := range files {
		src, dest, exists := f.Local, f.Backup, f.LocalExists
		if restore {
			src, dest, exists = f.Backup, f.Local, f.BackedUp
		}
		if !exists {
			continue
		}
		if err := snapshot.CopyFile(src, dest); err != nil {
			return written, err
		}
		written = append(written, dest)
	}
	return written, nil
}

// joinTemplate appends name to a directory template using the platform's separator.
func joinTemplate(p manager.Platform, dir, name string) string {
	if p == manager.Windows {
		return dir + `\` + name
	}
	return path.Join(dir, name)
}

// baseName returns the last element of a path written for platform p.
func baseName(p manager.Platform, full string) string {
	if p == manager.Windows {
		for i := len(full) - 1; i >= 0; i-- {
			if full[i] == '\\' || full[i] == '/' {
				return full[i+1:]
			}
		}
		return full
	}
	return path.Base(full)
}
