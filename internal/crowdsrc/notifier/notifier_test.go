package notifier

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"crowdsrc/internal/crowdsrc/models"
)

func newTestUser(t *testing.T, username, email string) models.User {
	t.Helper()
	name, err := models.NewUserName(username)
	require.NoError(t, err)
	addr, err := models.NewEmailAddress(email)
	require.NoError(t, err)
	return models.NewUser(uuid.New(), name, addr, time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC))
}
