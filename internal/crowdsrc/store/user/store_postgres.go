package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"crowdsrc/internal/crowdsrc/models"
	"crowdsrc/internal/crowdsrc/ports"
	"crowdsrc/pkg/platform/tx"
)

const (
	uniqueViolationCode = "23505"

	// Constraint names created by the users migration.
	usernameConstraint = "users_username_key"
	emailConstraint    = "users_email_key"
)

const insertUserSQL = `INSERT INTO users (id, email, username, created_at) VALUES ($1, $2, $3, $4)`

// Clock returns the current time.
type Clock func() time.Time

// IDGenerator returns a fresh user identifier.
type IDGenerator func() uuid.UUID

// PostgresStore persists users in PostgreSQL. Uniqueness of username and
// email is enforced by table constraints, not by a read before the write.
type PostgresStore struct {
	db    *sql.DB
	tx    *tx.Runner
	clock Clock
	newID IDGenerator
}

// PostgresOption configures a PostgresStore.
type PostgresOption func(*PostgresStore)

// WithClock sets the clock used for created_at.
func WithClock(clock Clock) PostgresOption {
	return func(s *PostgresStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator sets the identifier source.
func WithIDGenerator(gen IDGenerator) PostgresOption {
	return func(s *PostgresStore) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithTxTimeout bounds each write transaction.
func WithTxTimeout(timeout time.Duration) PostgresOption {
	return func(s *PostgresStore) {
		s.tx = tx.NewRunner(s.db, timeout)
	}
}

// NewPostgres constructs a PostgreSQL-backed user store.
func NewPostgres(db *sql.DB, opts ...PostgresOption) *PostgresStore {
	s := &PostgresStore{
		db:    db,
		tx:    tx.NewRunner(db, tx.DefaultTimeout),
		clock: time.Now,
		newID: uuid.New,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

var _ ports.UserRepository = (*PostgresStore)(nil)

// CreateUser inserts a user inside a transaction. A unique violation is
// classified by constraint name; any other failure becomes *models.UnknownError.
func (s *PostgresStore) CreateUser(ctx context.Context, req models.CreateUserRequest) (models.User, error) {
	var created models.User
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		id, createdAt, err := s.saveUser(ctx, req)
		if err != nil {
			return err
		}
		created = models.NewUser(id, req.UserName(), req.Email(), createdAt)
		return nil
	})
	if err != nil {
		if pqErr, ok := uniqueViolation(err); ok {
			return models.User{}, classifyConflict(pqErr, req)
		}
		return models.User{}, models.NewUnknownError(fmt.Errorf(
			"failed to save user with username %q and email %q: %w",
			req.UserName().String(), req.Email().String(), err))
	}
	return created, nil
}

func (s *PostgresStore) saveUser(ctx context.Context, req models.CreateUserRequest) (uuid.UUID, time.Time, error) {
	q, ok := tx.From(ctx)
	if !ok {
		return uuid.Nil, time.Time{}, errors.New("save user: no transaction in context")
	}
	id := s.newID()
	// timestamptz keeps microseconds; truncate so the returned User matches the row
	createdAt := s.clock().UTC().Truncate(time.Microsecond)
	if _, err := q.ExecContext(ctx, insertUserSQL, id, req.Email().String(), req.UserName().String(), createdAt); err != nil {
		return uuid.Nil, time.Time{}, err
	}
	return id, createdAt, nil
}

// Health reports whether the database is reachable.
func (s *PostgresStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func uniqueViolation(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
		return pqErr, true
	}
	return nil, false
}

// classifyConflict maps the violated constraint to a domain error. Only the
// username constraint is recognised explicitly; every other unique violation,
// including one without a constraint name, is reported as a duplicate email.
func classifyConflict(pqErr *pq.Error, req models.CreateUserRequest) models.CreateUserError {
	switch pqErr.Constraint {
	case usernameConstraint:
		return &models.DuplicateUserNameError{UserName: req.UserName()}
	case emailConstraint:
		return &models.DuplicateEmailError{Email: req.Email()}
	default:
		return &models.DuplicateEmailError{Email: req.Email()}
	}
}
