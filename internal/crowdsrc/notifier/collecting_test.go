package notifier

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdsrc/internal/crowdsrc/models"
)

func TestCollecting(t *testing.T) {
	t.Run("records welcome message by email", func(t *testing.T) {
		inbox := NewInbox()
		user := newTestUser(t, "kristoffer", "kristoffer@example.com")

		NewCollecting(inbox).UserCreated(context.Background(), user)

		payload, ok := inbox.Get(user.Email())
		require.True(t, ok)
		assert.Equal(t, WelcomeFor(user).Body, payload)
		assert.Contains(t, payload, "kristoffer")
		assert.Equal(t, 1, inbox.Len())
	})

	t.Run("separate inboxes do not share state", func(t *testing.T) {
		a, b := NewInbox(), NewInbox()
		NewCollecting(a).UserCreated(context.Background(), newTestUser(t, "a", "a@example.com"))

		assert.Equal(t, 1, a.Len())
		assert.Zero(t, b.Len())
	})

	t.Run("snapshot is a copy", func(t *testing.T) {
		inbox := NewInbox()
		user := newTestUser(t, "kristoffer", "kristoffer@example.com")
		NewCollecting(inbox).UserCreated(context.Background(), user)

		snap := inbox.Snapshot()
		delete(snap, user.Email())
		assert.Equal(t, 1, inbox.Len())
	})

	t.Run("concurrent writers and readers", func(t *testing.T) {
		inbox := NewInbox()
		notifier := NewCollecting(inbox)
		const writers = 50

		users := make([]models.User, writers)
		for i := range users {
			users[i] = newTestUser(t, fmt.Sprintf("user%d", i), fmt.Sprintf("user%d@example.com", i))
		}

		var wg sync.WaitGroup
		for _, u := range users {
			wg.Add(2)
			go func() {
				defer wg.Done()
				notifier.UserCreated(context.Background(), u)
			}()
			go func() {
				defer wg.Done()
				_, _ = inbox.Get(u.Email())
				_ = inbox.Len()
			}()
		}
		wg.Wait()

		assert.Equal(t, writers, inbox.Len())
	})
}

func TestNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNoop().UserCreated(context.Background(), newTestUser(t, "kristoffer", "kristoffer@example.com"))
	})
}
