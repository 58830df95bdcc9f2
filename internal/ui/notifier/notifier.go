// Package notifier wakes SSE streams when a chart may have changed.
package notifier

import "sync"

// Notifier pings subscribers grouped by session. A ping carries no data;
// the receiver re-reads the session's schedule.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan struct{}]string
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan struct{}]string),
	}
}

// Subscribe returns a channel that receives pings for session and for every broadcast.
// The caller must call Unsubscribe when done to prevent goroutine leaks.
func (n *Notifier) Subscribe(session string) chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.listeners[ch] = session
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan struct{}) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

// Broadcast pings every listener, e.g. after the watched file changed.
func (n *Notifier) Broadcast() {
	n.send(func(string) bool { return true })
}

// Notify pings the listeners of one session, e.g. other tabs after an upload.
func (n *Notifier) Notify(session string) {
	n.send(func(s string) bool { return s == session })
}

// Listeners returns the number of open subscriptions.
func (n *Notifier) Listeners() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

// send is non-blocking: a full channel already has a pending ping.
func (n *Notifier) send(match func(string) bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch, session := range n.listeners {
		if !match(session) {
			continue
		}
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
