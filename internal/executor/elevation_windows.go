//go:build windows

package executor

import "golang.org/x/sys/windows"

var elevationTools = []string{"gsudo", "sudo"}

// isElevated checks the elevation flag of the process token, which is set
// only when UAC granted the administrator token.
func isElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}
