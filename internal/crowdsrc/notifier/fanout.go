package notifier

import (
	"context"
	"log/slog"

	"crowdsrc/internal/crowdsrc/models"
	"crowdsrc/internal/crowdsrc/ports"
)

// Fanout delivers each notification to every wrapped notifier in order. A
// notifier that panics is logged and skipped; the rest still run.
type Fanout struct {
	notifiers []ports.UserNotifier
	logger    *slog.Logger
}

// NewFanout returns a notifier that calls each non-nil notifier.
func NewFanout(logger *slog.Logger, notifiers ...ports.UserNotifier) *Fanout {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Fanout{logger: logger}
	for _, n := range notifiers {
		if n != nil {
			f.notifiers = append(f.notifiers, n)
		}
	}
	return f
}

var _ ports.UserNotifier = (*Fanout)(nil)

func (f *Fanout) UserCreated(ctx context.Context, user models.User) {
	for _, n := range f.notifiers {
		deliver(ctx, f.logger, n, user)
	}
}
