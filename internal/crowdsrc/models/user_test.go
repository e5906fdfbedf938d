package models

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewUserName_Invariants validates "trimmed, non-empty, no interior
// whitespace" at the trust boundary.
func TestNewUserName_Invariants(t *testing.T) {
	t.Run("rejects empty and whitespace-only input", func(t *testing.T) {
		for _, raw := range []string{"", " ", "  ", "\t", "\n\r ", " ", "  \t"} {
			_, err := NewUserName(raw)
			assert.ErrorIs(t, err, ErrUserNameEmpty, "input %q", raw)
		}
	})

	t.Run("rejects interior whitespace and reports the untrimmed input", func(t *testing.T) {
		for _, raw := range []string{"a b", "  a b  ", "first\tlast", "x\ny", " a b"} {
			_, err := NewUserName(raw)
			var wsErr *UserNameWhitespaceError
			require.ErrorAs(t, err, &wsErr, "input %q", raw)
			assert.Equal(t, raw, wsErr.InvalidUserName)
		}
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		name, err := NewUserName("  Kristoffer\t")
		require.NoError(t, err)
		assert.Equal(t, "Kristoffer", name.String())
	})

	t.Run("accepts unicode names", func(t *testing.T) {
		name, err := NewUserName("Åsa_ø-1")
		require.NoError(t, err)
		assert.Equal(t, "Åsa_ø-1", name.String())
		assert.False(t, name.IsZero())
	})
}

func TestNewEmailAddress_Invariants(t *testing.T) {
	t.Run("rejects malformed addresses", func(t *testing.T) {
		for _, raw := range []string{"", "plainaddress", "@example.com", "user@", "user@@example.com", "user example@example.com", "user@exa mple.com", "x@[300.1.1.1]", "x@[192.168.0.1", "x@[IPv6:not-an-ip]", "x@-b"} {
			_, err := NewEmailAddress(raw)
			var emailErr *EmailAddressError
			require.ErrorAs(t, err, &emailErr, "input %q", raw)
			assert.Equal(t, raw, emailErr.InvalidEmail)
			assert.NotEmpty(t, emailErr.Message)
		}
	})

	t.Run("accepted addresses round-trip unchanged", func(t *testing.T) {
		for _, raw := range []string{"kristoffer@example.com", "x@y.com", "first.last+tag@sub.example.org", "a@b", "x@[192.168.0.1]", "x@[IPv6:::1]"} {
			email, err := NewEmailAddress(raw)
			require.NoError(t, err, "input %q", raw)
			assert.Equal(t, raw, email.String())

			again, err := NewEmailAddress(email.String())
			require.NoError(t, err)
			assert.Equal(t, email, again)
		}
	})

	t.Run("is usable as a map key", func(t *testing.T) {
		a, err := NewEmailAddress("a@example.com")
		require.NoError(t, err)
		b, err := NewEmailAddress("a@example.com")
		require.NoError(t, err)

		seen := map[EmailAddress]string{a: "first"}
		seen[b] = "second"
		assert.Len(t, seen, 1)
		assert.Equal(t, "second", seen[a])
	})
}

func TestNewUser(t *testing.T) {
	name, err := NewUserName("user")
	require.NoError(t, err)
	email, err := NewEmailAddress("user@example.com")
	require.NoError(t, err)
	id := uuid.New()
	createdAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	user := NewUser(id, name, email, createdAt)

	assert.Equal(t, id, user.ID())
	assert.Equal(t, name, user.UserName())
	assert.Equal(t, email, user.Email())
	assert.Equal(t, createdAt, user.CreatedAt())
}

func TestAsCreateUserError(t *testing.T) {
	name, _ := NewUserName("user")
	email, _ := NewEmailAddress("user@example.com")

	t.Run("recovers wrapped variants", func(t *testing.T) {
		dup := &DuplicateUserNameError{UserName: name}
		wrapped := errors.Join(errors.New("context"), dup)
		assert.Same(t, dup, AsCreateUserError(wrapped))

		dupEmail := &DuplicateEmailError{Email: email}
		assert.Same(t, dupEmail, AsCreateUserError(dupEmail))
	})

	t.Run("foreign errors become unknown with cause intact", func(t *testing.T) {
		cause := errors.New("boom")
		got := AsCreateUserError(cause)
		unknown, ok := got.(*UnknownError)
		require.True(t, ok)
		assert.ErrorIs(t, unknown, cause)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, AsCreateUserError(nil))
		assert.Nil(t, NewUnknownError(nil))
	})
}
