package notifier

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"crowdsrc/internal/crowdsrc/metrics"
	"crowdsrc/internal/crowdsrc/models"
	"crowdsrc/internal/crowdsrc/ports"
)

const (
	DefaultTimeout     = 5 * time.Second
	DefaultMaxInFlight = 64
)

// Async runs the wrapped notifier on its own goroutine so a slow transport
// never delays the caller. At most maxInFlight deliveries run at once; a
// notification arriving while all slots are busy is dropped and counted.
//
// Deliveries are detached from the caller's cancellation and bounded by
// timeout instead.
type Async struct {
	next    ports.UserNotifier
	slots   *semaphore.Weighted
	timeout time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
	wg      sync.WaitGroup
}

// AsyncOption configures an Async notifier.
type AsyncOption func(*Async)

// WithTimeout bounds each delivery.
func WithTimeout(d time.Duration) AsyncOption {
	return func(a *Async) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithMaxInFlight caps concurrent deliveries.
func WithMaxInFlight(n int64) AsyncOption {
	return func(a *Async) {
		if n > 0 {
			a.slots = semaphore.NewWeighted(n)
		}
	}
}

// WithLogger sets the logger used to report dropped and panicked deliveries.
func WithLogger(logger *slog.Logger) AsyncOption {
	return func(a *Async) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithMetrics records dropped notifications.
func WithMetrics(m *metrics.Metrics) AsyncOption {
	return func(a *Async) {
		a.metrics = m
	}
}

// NewAsync wraps next for background delivery.
func NewAsync(next ports.UserNotifier, opts ...AsyncOption) *Async {
	a := &Async{
		next:    next,
		slots:   semaphore.NewWeighted(DefaultMaxInFlight),
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var _ ports.UserNotifier = (*Async)(nil)

func (a *Async) UserCreated(ctx context.Context, user models.User) {
	if !a.slots.TryAcquire(1) {
		a.logger.WarnContext(ctx, "notification dropped: too many in flight",
			"user_id", user.ID().String(),
		)
		if a.metrics != nil {
			a.metrics.IncrementNotificationsDropped()
		}
		return
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer a.slots.Release(1)

		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
		defer cancel()
		deliver(dctx, a.logger, a.next, user)
	}()
}

// Wait blocks until every in-flight delivery finished or ctx is done.
func (a *Async) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// deliver calls n and turns a panic into a warning so a broken transport
// cannot take the process down.
func deliver(ctx context.Context, logger *slog.Logger, n ports.UserNotifier, user models.User) {
	defer func() {
		if r := recover(); r != nil {
			logger.WarnContext(ctx, "notifier panicked",
				"user_id", user.ID().String(),
				"panic", r,
			)
		}
	}()
	n.UserCreated(ctx, user)
}
