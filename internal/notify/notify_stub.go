//go:build !unix

package notify

// Refresh is a no-op on platforms without Unix signals.
func Refresh(viewers []string) (int, error) {
	return 0, nil
}
