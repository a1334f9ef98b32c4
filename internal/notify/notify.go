// Package notify refreshes running image viewers after an output file has
// been rewritten, so an open preview picks up the new content.
package notify

import "strings"

// DefaultViewers returns the viewer executables refreshed when the caller
// does not name any. Both reload their current image on SIGUSR1.
func DefaultViewers() []string {
	return []string{"feh", "imv"}
}

// viewerSet normalizes viewer names for matching against process
// executables. Blank entries are dropped and an empty result falls back to
// DefaultViewers.
func viewerSet(viewers []string) map[string]struct{} {
	set := make(map[string]struct{}, len(viewers))
	for _, v := range viewers {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	if len(set) == 0 {
		for _, v := range DefaultViewers() {
			set[v] = struct{}{}
		}
	}
	return set
}
