package notifier

import (
	"context"
	"sync"

	"crowdsrc/internal/crowdsrc/models"
	"crowdsrc/internal/crowdsrc/ports"
)

// Inbox records the payload delivered to each email address. It is safe for
// many concurrent readers and one writer at a time.
type Inbox struct {
	mu       sync.RWMutex
	payloads map[models.EmailAddress]string
}

// NewInbox returns an empty inbox.
func NewInbox() *Inbox {
	return &Inbox{payloads: make(map[models.EmailAddress]string)}
}

// Put records payload for email, replacing any earlier one.
func (i *Inbox) Put(email models.EmailAddress, payload string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.payloads[email] = payload
}

// Get returns the payload recorded for email.
func (i *Inbox) Get(email models.EmailAddress) (string, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	payload, ok := i.payloads[email]
	return payload, ok
}

// Len returns the number of addresses that received a notification.
func (i *Inbox) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.payloads)
}

// Snapshot returns a copy of the recorded payloads.
func (i *Inbox) Snapshot() map[models.EmailAddress]string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make(map[models.EmailAddress]string, len(i.payloads))
	for k, v := range i.payloads {
		out[k] = v
	}
	return out
}

// Collecting records the welcome message of every created user in an Inbox.
type Collecting struct {
	inbox *Inbox
}

// NewCollecting returns a notifier writing into inbox.
func NewCollecting(inbox *Inbox) *Collecting {
	return &Collecting{inbox: inbox}
}

var _ ports.UserNotifier = (*Collecting)(nil)

func (c *Collecting) UserCreated(_ context.Context, user models.User) {
	c.inbox.Put(user.Email(), WelcomeFor(user).Body)
}
