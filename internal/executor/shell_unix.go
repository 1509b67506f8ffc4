//go:build !windows

package executor

// wrapCommand returns the program and arguments to start.
// POSIX systems execute programs directly.
func wrapCommand(name string, args []string) (string, []string) {
	return name, args
}
