// Package profile publishes user display-name changes to subscribed screens.
package profile

import "sync"

// Notifier is a per-user publish/subscribe hub for display names.
// Subscribers receive the latest known name immediately and then every change.
type Notifier struct {
	mu     sync.Mutex
	names  map[int]string
	subs   map[int]map[uint64]func(string)
	nextID uint64
}

// NewNotifier creates an empty Notifier.
func NewNotifier() *Notifier {
	return &Notifier{
		names: make(map[int]string),
		subs:  make(map[int]map[uint64]func(string)),
	}
}

// Subscribe registers fn for the user's display-name changes and returns the
// function that removes it. Calling the returned function more than once is safe.
func (n *Notifier) Subscribe(userID int, fn func(displayName string)) func() {
	n.mu.Lock()
	n.nextID++
	id := n.nextID
	if n.subs[userID] == nil {
		n.subs[userID] = make(map[uint64]func(string))
	}
	n.subs[userID][id] = fn
	name, known := n.names[userID]
	n.mu.Unlock()

	if known {
		fn(name)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.subs[userID], id)
			if len(n.subs[userID]) == 0 {
				delete(n.subs, userID)
			}
		})
	}
}

// Publish records the user's display name and delivers it to every subscriber.
// Callbacks run outside the lock.
func (n *Notifier) Publish(userID int, displayName string) {
	n.mu.Lock()
	n.names[userID] = displayName
	fns := make([]func(string), 0, len(n.subs[userID]))
	for _, fn := range n.subs[userID] {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(displayName)
	}
}

// Subscribers returns the number of active subscriptions for a user.
func (n *Notifier) Subscribers(userID int) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs[userID])
}
