//go:build linux

package notify

import (
	"context"
	"fmt"
	"os/exec"
)

// linuxNotifier shells out to notify-send.
type linuxNotifier struct{}

func newPlatformNotifier() Notifier {
	return &linuxNotifier{}
}

func (n *linuxNotifier) Send(title, message string) error {
	return n.run(title, message, false)
}

// SendWithSound raises the urgency hint; whether that plays a sound is up
// to the notification daemon.
func (n *linuxNotifier) SendWithSound(title, message string) error {
	return n.run(title, message, true)
}

func (n *linuxNotifier) IsSupported() bool {
	_, err := exec.LookPath("notify-send")
	return err == nil
}

func (n *linuxNotifier) run(title, message string, sound bool) error {
	args := []string{"--app-name=todo", "--expire-time=2000"}
	if sound {
		args = append(args, "--urgency=normal")
	}
	args = append(args, title, message)

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if err := exec.CommandContext(ctx, "notify-send", args...).Run(); err != nil {
		return fmt.Errorf("notify-send failed: %w", err)
	}
	return nil
}
