package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Conflict field labels.
const (
	FieldUserName = "username"
	FieldEmail    = "email"
)

// Metrics provides observability for user registration.
type Metrics struct {
	UsersCreated         prometheus.Counter
	UserConflicts        *prometheus.CounterVec
	CreateUserFailures   prometheus.Counter
	CreateUserDuration   prometheus.Histogram
	NotificationsDropped prometheus.Counter
}

// New registers all metrics with the default Prometheus registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers all metrics with reg. Tests pass a fresh
// prometheus.NewRegistry() so repeated construction does not collide.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UsersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "crowdsrc_users_created_total",
			Help: "Total number of users created",
		}),
		UserConflicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "crowdsrc_user_conflicts_total",
			Help: "Create-user attempts rejected by a uniqueness constraint",
		}, []string{"field"}),
		CreateUserFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "crowdsrc_create_user_failures_total",
			Help: "Create-user attempts that failed for reasons other than a conflict",
		}),
		CreateUserDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "crowdsrc_create_user_duration_seconds",
			Help:    "Duration of CreateUser operations including notification dispatch",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		NotificationsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "crowdsrc_notifications_dropped_total",
			Help: "Notifications skipped because the dispatch limit was reached",
		}),
	}
}

// IncrementUsersCreated records a successful registration.
func (m *Metrics) IncrementUsersCreated() {
	m.UsersCreated.Inc()
}

// IncrementConflict records a uniqueness conflict on field.
func (m *Metrics) IncrementConflict(field string) {
	m.UserConflicts.WithLabelValues(field).Inc()
}

// IncrementFailure records an unexpected create-user failure.
func (m *Metrics) IncrementFailure() {
	m.CreateUserFailures.Inc()
}

// IncrementNotificationsDropped records a notification that was not dispatched.
func (m *Metrics) IncrementNotificationsDropped() {
	m.NotificationsDropped.Inc()
}

// ObserveCreateUser records the duration of a CreateUser operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveCreateUser(start time.Time) {
	m.CreateUserDuration.Observe(time.Since(start).Seconds())
}
