// Package detector identifies the host platform and, on Linux, the distribution.
package detector

import (
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// OSType is a GOOS value this program knows how to serve.
type OSType string

const (
	OSLinux   OSType = "linux"
	OSDarwin  OSType = "darwin"
	OSWindows OSType = "windows"
	OSUnknown OSType = "unknown"
)

// SystemInfo describes the host.
type SystemInfo struct {
	OS           OSType
	Arch         string
	Distribution string   // os-release ID, or "macos"/"windows"
	DistroFamily []string // os-release ID_LIKE
	PrettyName   string
	VersionID    string

	// HasWSL is set on Windows when wsl.exe is on PATH.
	HasWSL bool
	// InWSL is set on Linux when running inside a WSL guest.
	InWSL bool
}

// Paths read during detection; tests point them elsewhere.
var (
	osReleasePaths = []string{"/etc/os-release", "/usr/lib/os-release"}
	procVersion    = "/proc/version"
)

// Detect inspects the running system.
func Detect() (*SystemInfo, error) {
	info := &SystemInfo{Arch: runtime.GOARCH, OS: OSType(runtime.GOOS)}

	switch info.OS {
	case OSLinux:
		info.Distribution, info.PrettyName = "unknown", "Linux"
		for _, p := range osReleasePaths {
			data, err := os.ReadFile(p)
			if err != nil {
				continue
			}
			applyOSRelease(info, string(data))
			break
		}
		if v, err := os.ReadFile(procVersion); err == nil {
			info.InWSL = strings.Contains(strings.ToLower(string(v)), "microsoft")
		}
	case OSDarwin:
		info.Distribution, info.PrettyName = "macos", "macOS"
	case OSWindows:
		info.Distribution, info.PrettyName = "windows", "Windows"
		_, err := exec.LookPath("wsl")
		info.HasWSL = err == nil
	default:
		info.PrettyName = runtime.GOOS
		info.OS = OSUnknown
	}

	return info, nil
}

// applyOSRelease fills distribution fields from os-release(5) text.
func applyOSRelease(info *SystemInfo, text string) {
	for _, line := range strings.Split(text, "\n") {
		k, v, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok || strings.HasPrefix(k, "#") {
			continue
		}
		v = strings.Trim(v, `"'`)
		switch k {
		case "ID":
			info.Distribution = strings.ToLower(v)
		case "ID_LIKE":
			info.DistroFamily = strings.Fields(strings.ToLower(v))
		case "VERSION_ID":
			info.VersionID = v
		case "PRETTY_NAME":
			info.PrettyName = v
		}
	}
}

// IsWindows reports whether the host runs Windows.
func (s *SystemInfo) IsWindows() bool { return s.OS == OSWindows }

// Native returns the source ID of the platform's own package manager, or "".
// On Linux the distribution ID is tried before its ID_LIKE family.
func (s *SystemInfo) Native() string {
	switch s.OS {
	case OSDarwin:
		return "homebrew"
	case OSWindows:
		return "winget"
	case OSLinux:
		for _, id := range append([]string{s.Distribution}, s.DistroFamily...) {
			if m := nativeByDistro[id]; m != "" {
				return m
			}
		}
	}
	return ""
}

var nativeByDistro = map[string]string{
	"debian": "apt", "ubuntu": "apt", "linuxmint": "apt", "pop": "apt",
	"elementary": "apt", "zorin": "apt", "kali": "apt", "raspbian": "apt",

	"fedora": "dnf", "rhel": "dnf", "centos": "dnf", "rocky": "dnf", "almalinux": "dnf",
	"amzn": "yum", "ol": "yum",

	"arch": "pacman", "manjaro": "pacman", "endeavouros": "pacman", "cachyos": "pacman",

	"opensuse": "zypper", "opensuse-leap": "zypper", "opensuse-tumbleweed": "zypper",
	"sles": "zypper", "suse": "zypper",
}
