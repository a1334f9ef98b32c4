//go:build unix

package notify

import (
	"fmt"
	"syscall"

	"github.com/mitchellh/go-ps"
)

// Refresh sends SIGUSR1 to every running process whose executable matches
// one of the viewer names. An empty list falls back to DefaultViewers. It
// returns the number of processes signalled; zero with a nil error means no
// viewer was running.
func Refresh(viewers []string) (int, error) {
	wanted := viewerSet(viewers)

	// Find viewer process PIDs using native Go.
	processes, err := ps.Processes()
	if err != nil {
		return 0, fmt.Errorf("failed to get process list: %w", err)
	}

	signalled := 0
	for _, p := range processes {
		if _, ok := wanted[p.Executable()]; !ok {
			continue
		}
		if err := syscall.Kill(p.Pid(), syscall.SIGUSR1); err != nil {
			return signalled, fmt.Errorf("failed to send refresh signal to %s (PID %d): %w", p.Executable(), p.Pid(), err)
		}
		signalled++
	}

	return signalled, nil
}
