//go:build !darwin && !linux

package notify

// Desktop notifications are only wired up for Linux and macOS.
func newPlatformNotifier() Notifier {
	return nil
}
