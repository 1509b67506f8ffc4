//go:build !windows

package executor

import "os"

var elevationTools = []string{"sudo", "doas", "run0"}

func isElevated() bool {
	return os.Geteuid() == 0
}
