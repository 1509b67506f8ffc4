package manager

import (
	"regexp"
	"strings"
)

// FailureKind classifies why an install command failed.
type FailureKind int

const (
	FailureUnknown FailureKind = iota
	FailureNotFound
	FailureLocked
	FailurePermission
	FailureNetwork
	FailureAlreadyInstalled
)

// String returns a short label for the kind.
func (k FailureKind) String() string {
	switch k {
	case FailureNotFound:
		return "not found"
	case FailureLocked:
		return "locked"
	case FailurePermission:
		return "permission denied"
	case FailureNetwork:
		return "network"
	case FailureAlreadyInstalled:
		return "already installed"
	}
	return "unknown"
}

// Failure is a classified install failure with an optional hint for the user.
type Failure struct {
	Kind       FailureKind
	Suggestion string
}

type failurePattern struct {
	re         *regexp.Regexp
	kind       FailureKind
	suggestion string
}

// Patterns are checked in order; the first match wins.
var failurePatterns = []failurePattern{
	{regexp.MustCompile(`(?i)already installed|is already the newest version|no available upgrade found`), FailureAlreadyInstalled, ""},
	{regexp.MustCompile(`(?i)unable to lock database|could not get lock|dpkg was interrupted|another (?:app|instance) is currently holding the yum lock|system management is locked`), FailureLocked,
		"Another package manager may be running. Wait for it to finish and retry"},
	{regexp.MustCompile(`(?i)target not found|unable to locate package|no package .* available|no match for argument|not found in any of the sources|no package found matching|couldn't find manifest|not found: package|extension '[^']+' not found|error: no ref|snap "[^"]+" not found|the package was not found`), FailureNotFound,
		"The identifier may have been renamed or removed from its source"},
	{regexp.MustCompile(`(?i)permission denied|are you root|requires (?:root|administrator|elevation)|access is denied|operation not permitted`), FailurePermission,
		"Re-run with elevated privileges"},
	{regexp.MustCompile(`(?i)could not resolve host|temporary failure in name resolution|network is unreachable|connection (?:timed out|refused)|failed to download`), FailureNetwork,
		"Check the network connection and retry"},
}

// ClassifyInstallFailure inspects install output and returns a classified failure.
// Output that matches no known pattern yields FailureUnknown.
func ClassifyInstallFailure(output string) Failure {
	text := strings.TrimSpace(output)
	if text == "" {
		return Failure{Kind: FailureUnknown}
	}
	for _, p := range failurePatterns {
		if p.re.MatchString(text) {
			return Failure{Kind: p.kind, Suggestion: p.suggestion}
		}
	}
	return Failure{Kind: FailureUnknown}
}
