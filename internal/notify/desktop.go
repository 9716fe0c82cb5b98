package notify

import (
	"sync"
	"time"
)

// sendTimeout bounds how long a platform tool may run per notice.
const sendTimeout = 3 * time.Second

// Notifier sends desktop notifications.
type Notifier interface {
	// Send sends a notification with the given title and message.
	Send(title, message string) error

	// SendWithSound sends a notification with sound.
	SendWithSound(title, message string) error

	// IsSupported returns true if notifications are supported on this platform.
	IsSupported() bool
}

type noopNotifier struct{}

func (n *noopNotifier) Send(title, message string) error          { return nil }
func (n *noopNotifier) SendWithSound(title, message string) error { return nil }
func (n *noopNotifier) IsSupported() bool                         { return false }

// New creates a platform-specific notifier.
// Returns a no-op notifier if the platform doesn't support notifications.
func New() Notifier {
	n := newPlatformNotifier()
	if n == nil || !n.IsSupported() {
		return &noopNotifier{}
	}
	return n
}

// DesktopOptions controls which notices reach the desktop.
type DesktopOptions struct {
	Title string
	Sound bool
	// MinLevel filters out quieter notices. Info notices such as
	// "Task deleted" are usually too chatty for a popup.
	MinLevel Level
	// OnError is called from the delivery goroutine when the platform
	// tool fails.
	OnError func(error)
}

// desktopQueue is how many notices may wait for delivery. Further notices
// are dropped until the queue drains.
const desktopQueue = 16

// DesktopSink delivers notices to a Notifier on its own goroutine so a
// slow platform tool never holds up the caller. A nil *DesktopSink drops
// everything.
type DesktopSink struct {
	n    Notifier
	opts DesktopOptions

	mu     sync.Mutex
	closed bool
	queue  chan Notice
	done   chan struct{}
}

// Desktop adapts a Notifier to a Sink. Close must be called to deliver
// what is still queued.
func Desktop(n Notifier, opts DesktopOptions) *DesktopSink {
	if opts.Title == "" {
		opts.Title = "todo"
	}
	d := &DesktopSink{
		n:     n,
		opts:  opts,
		queue: make(chan Notice, desktopQueue),
		done:  make(chan struct{}),
	}
	go d.run()
	return d
}

// Notify implements Sink. It never blocks.
func (d *DesktopSink) Notify(notice Notice) {
	if d == nil || notice.Level < d.opts.MinLevel {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	select {
	case d.queue <- notice:
	default:
	}
}

// Close stops accepting notices and waits until the queued ones are sent.
func (d *DesktopSink) Close() {
	if d == nil {
		return
	}
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	<-d.done
}

func (d *DesktopSink) run() {
	defer close(d.done)
	send := d.n.Send
	if d.opts.Sound {
		send = d.n.SendWithSound
	}
	for notice := range d.queue {
		if err := send(d.opts.Title, notice.Message); err != nil && d.opts.OnError != nil {
			d.opts.OnError(err)
		}
	}
}
