package notifier

import (
	"context"

	"crowdsrc/internal/crowdsrc/models"
	"crowdsrc/internal/crowdsrc/ports"
)

// Noop discards every notification.
type Noop struct{}

// NewNoop returns a notifier that does nothing.
func NewNoop() Noop { return Noop{} }

var _ ports.UserNotifier = Noop{}

func (Noop) UserCreated(context.Context, models.User) {}
