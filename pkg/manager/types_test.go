package manager

import (
	"errors"
	"testing"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		input   string
		want    ID
		wantErr bool
	}{
		{"apt", APT, false},
		{" Winget ", Winget, false},
		{"VOIDEDITOR", VoidEditor, false},
		{"npm", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseID(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownSource) {
					t.Errorf("ParseID(%q) error = %v, want ErrUnknownSource", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseID(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDefsCoverEverySource(t *testing.T) {
	all := Defs()
	if len(all) != 16 {
		t.Fatalf("expected 16 sources, got %d", len(all))
	}

	hosts := 0
	for _, d := range all {
		if d.Binary == "" {
			t.Errorf("%s has no binary", d.ID)
		}
		if d.Kind == KindHost {
			hosts++
			if !d.ID.IsHost() {
				t.Errorf("%s should report IsHost", d.ID)
			}
		}
	}
	if hosts != 4 {
		t.Errorf("expected 4 extension hosts, got %d", hosts)
	}
}

func TestDefSupportedOn(t *testing.T) {
	d, _ := Lookup(Chocolatey)
	if !d.SupportedOn(Windows) || d.SupportedOn(Linux) {
		t.Errorf("chocolatey platforms = %v", d.Platforms)
	}

	d, _ = Lookup(Homebrew)
	if !d.SupportedOn(Darwin) || !d.SupportedOn(Linux) {
		t.Errorf("homebrew platforms = %v", d.Platforms)
	}
}

func TestInstallCommand(t *testing.T) {
	tests := []struct {
		id         ID
		identifier string
		version    string
		want       string
	}{
		{Chocolatey, "git", "2.40", "choco install git --version 2.40"},
		{Chocolatey, "git", "", "choco install git"},
		{APT, "curl", "", "sudo apt install -y curl"},
		{APT, "curl", "7.81", "sudo apt install -y curl"},
		{YUM, "bash", "", "sudo yum install -y bash"},
		{DNF, "bash", "", "sudo dnf install -y bash"},
		{Pacman, "vim", "", "sudo pacman -S --noconfirm vim"},
		{Zypper, "git", "", "sudo zypper install -y git"},
		{Snap, "core", "", "sudo snap install core"},
		{Flatpak, "org.gimp.GIMP", "", "flatpak install -y flathub org.gimp.GIMP"},
		{Homebrew, "jq", "1.7", "brew install jq"},
		{Winget, "Git.Git", "2.43.0", "winget install Git.Git"},
		{MSStore, "9NBLGGH4NNS1", "", "winget install 9NBLGGH4NNS1"},
		{Scoop, "7zip", "", "scoop install 7zip"},
		{VSCode, "ms-python.python", "", "code --install-extension ms-python.python"},
		{Cursor, "golang.go", "", "cursor --install-extension golang.go"},
	}

	for _, tt := range tests {
		t.Run(string(tt.id)+"/"+tt.identifier+"@"+tt.version, func(t *testing.T) {
			got := InstallCommand(tt.id, tt.identifier, tt.version).String()
			if got != tt.want {
				t.Errorf("InstallCommand() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildInstallCommandOptions(t *testing.T) {
	cmd := BuildInstallCommand(APT, "curl", "", InstallOptions{Elevation: "none"})
	if cmd.String() != "apt install -y curl" {
		t.Errorf("elevation none: got %q", cmd.String())
	}

	cmd = BuildInstallCommand(Flatpak, "org.gimp.GIMP", "", InstallOptions{FlatpakRemote: "fedora"})
	if cmd.String() != "flatpak install -y fedora org.gimp.GIMP" {
		t.Errorf("flatpak remote: got %q", cmd.String())
	}

	cmd = BuildInstallCommand(Winget, "Git.Git", "", InstallOptions{AcceptAgreements: true})
	want := "winget install Git.Git --accept-package-agreements --accept-source-agreements"
	if cmd.String() != want {
		t.Errorf("agreements: got %q, want %q", cmd.String(), want)
	}
}

func TestInstallCommandUnknownSourcePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for an unknown source")
		}
	}()
	InstallCommand(ID("npm"), "left-pad", "")
}

func TestCommandArgv(t *testing.T) {
	cmd := Command{Program: "sudo", Args: []string{"apt", "install", "-y", "curl"}}
	argv := cmd.Argv()
	if len(argv) != 5 || argv[0] != "sudo" || argv[4] != "curl" {
		t.Errorf("Argv() = %v", argv)
	}
}

func TestDecodeItems(t *testing.T) {
	data := []byte(`[
		{"PackageId": "Git.Git", "Name": "Git", "Version": "2.43.0"},
		{"PackageId": "", "Name": "orphan"},
		{"PackageId": "Microsoft.PowerToys", "Version": "latest"}
	]`)

	items, err := DecodeItems(Winget, data)
	if err != nil {
		t.Fatalf("DecodeItems() error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].DisplayName() != "Git" {
		t.Errorf("DisplayName() = %q", items[0].DisplayName())
	}
	if items[1].DisplayName() != "Microsoft.PowerToys" {
		t.Errorf("DisplayName() should fall back to the id, got %q", items[1].DisplayName())
	}
}

func TestDecodeItemsPerSource(t *testing.T) {
	tests := []struct {
		id   ID
		data string
		want string
	}{
		{APT, `[{"package":"curl","version":"7.81","architecture":"amd64"}]`, "curl"},
		{Flatpak, `[{"name":"GIMP","application":"org.gimp.GIMP","version":"2.10"}]`, "org.gimp.GIMP"},
		{VSCode, `[{"id":"ms-python.python","version":"2024.1.0"}]`, "ms-python.python"},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			items, err := DecodeItems(tt.id, []byte(tt.data))
			if err != nil {
				t.Fatalf("DecodeItems() error: %v", err)
			}
			if len(items) != 1 || items[0].Identity() != tt.want {
				t.Errorf("DecodeItems() = %v", items)
			}
		})
	}
}

func TestDecodeItemsErrors(t *testing.T) {
	if _, err := DecodeItems(ID("npm"), []byte(`[]`)); !errors.Is(err, ErrUnknownSource) {
		t.Errorf("expected ErrUnknownSource, got %v", err)
	}
	if _, err := DecodeItems(APT, []byte(`{not json`)); err == nil {
		t.Error("expected a decode error")
	}
}

func TestFilterByIdentity(t *testing.T) {
	items := []Item{
		AptItem{Package: "curl"},
		AptItem{Package: "git"},
		AptItem{Package: "vim"},
	}

	got := FilterByIdentity(items, []string{"vim", "curl", "missing"})
	ids := Identities(got)
	if len(ids) != 2 || ids[0] != "curl" || ids[1] != "vim" {
		t.Errorf("FilterByIdentity() = %v", ids)
	}

	if len(FilterByIdentity(items, nil)) != 3 {
		t.Error("empty keep list should return every item")
	}
}

func TestYumItemVersionString(t *testing.T) {
	if v := (YumItem{Version: "4.2.46", Release: "34.el7"}).VersionString(); v != "4.2.46-34.el7" {
		t.Errorf("VersionString() = %q", v)
	}
	if v := (YumItem{Version: "9.0.1-1.1"}).VersionString(); v != "9.0.1-1.1" {
		t.Errorf("VersionString() without release = %q", v)
	}
}

func TestExecutionError(t *testing.T) {
	err := &ExecutionError{Source: APT, Program: "dpkg", ExitCode: 2, Stderr: "dpkg: error\nmore"}
	if err.Error() != "apt: dpkg exited with code 2: dpkg: error" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !IsExecutionError(err) || IsParseError(err) {
		t.Error("error predicates disagree")
	}

	parseErr := &ParseError{Source: Scoop, Err: errors.New("bad json")}
	if !IsParseError(parseErr) || errors.Unwrap(parseErr).Error() != "bad json" {
		t.Error("ParseError should unwrap to its cause")
	}
}

func TestClassifyInstallFailure(t *testing.T) {
	tests := []struct {
		output string
		want   FailureKind
	}{
		{"E: Unable to locate package nosuchpkg", FailureNotFound},
		{"error: target not found: foo", FailureNotFound},
		{"E: Could not get lock /var/lib/dpkg/lock-frontend", FailureLocked},
		{"error: unable to lock database", FailureLocked},
		{"E: Are you root?", FailurePermission},
		{"Could not resolve host: deb.debian.org", FailureNetwork},
		{"Warning: git 2.43.0 is already installed", FailureAlreadyInstalled},
		{"something else went wrong", FailureUnknown},
		{"", FailureUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			got := ClassifyInstallFailure(tt.output)
			if got.Kind != tt.want {
				t.Errorf("ClassifyInstallFailure(%q) = %v, want %v", tt.output, got.Kind, tt.want)
			}
			if got.Kind == FailureNotFound && got.Suggestion == "" {
				t.Error("not-found failures should carry a suggestion")
			}
		})
	}
}
