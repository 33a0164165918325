// Package notifier fans a reload signal out to every connected browser tab.
package notifier

import "sync"

// Notifier delivers pings to subscribers. A subscriber that has not consumed
// its previous ping is not sent another one.
type Notifier struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

// New creates a Notifier with no subscribers.
func New() *Notifier {
	return &Notifier{subs: make(map[chan struct{}]struct{})}
}

// Subscribe registers a listener. The returned cancel func removes it and must
// be called once the listener is done.
func (n *Notifier) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.subs[ch] = struct{}{}
	n.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, ch)
			n.mu.Unlock()
		})
	}
}

// Broadcast pings every subscriber and reports how many were pinged.
func (n *Notifier) Broadcast() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	sent := 0
	for ch := range n.subs {
		select {
		case ch <- struct{}{}:
			sent++
		default:
		}
	}
	return sent
}

// Len returns the number of subscribers.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}
