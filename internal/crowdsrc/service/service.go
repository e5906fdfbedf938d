package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"crowdsrc/internal/crowdsrc/metrics"
	"crowdsrc/internal/crowdsrc/models"
	"crowdsrc/internal/crowdsrc/ports"
)

const tracerName = "crowdsrc/internal/crowdsrc/service"

// Service is the canonical implementation of ports.Service. It orchestrates
// the user repository and the notifier; it does not translate errors.
type Service struct {
	users    ports.UserRepository
	notifier ports.UserNotifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// New constructs a Service.
func New(users ports.UserRepository, notifier ports.UserNotifier, opts ...Option) *Service {
	s := &Service{users: users, notifier: notifier}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s
}

var _ ports.Service = (*Service)(nil)

// CreateUser persists the user described by req and notifies on success.
//
// Repository errors are returned unchanged. The notifier runs exactly once
// after a successful write and never on failure.
func (s *Service) CreateUser(ctx context.Context, req models.CreateUserRequest) (models.User, error) {
	start := time.Now()
	defer s.observeCreateUser(start)

	ctx, span := s.tracer.Start(ctx, "crowdsrc.CreateUser",
		trace.WithAttributes(attribute.String("user.name", req.UserName().String())))
	defer span.End()

	user, err := s.users.CreateUser(ctx, req)
	if err != nil {
		s.recordFailure(ctx, span, req, err)
		return models.User{}, err
	}

	span.SetAttributes(attribute.String("user.id", user.ID().String()))
	s.incrementUsersCreated()
	if s.notifier != nil {
		s.notifier.UserCreated(ctx, user)
	}
	return user, nil
}

func (s *Service) recordFailure(ctx context.Context, span trace.Span, req models.CreateUserRequest, err error) {
	switch models.AsCreateUserError(err).(type) {
	case *models.DuplicateUserNameError:
		span.SetAttributes(attribute.String("conflict.field", metrics.FieldUserName))
		s.incrementConflict(metrics.FieldUserName)
		s.log(ctx, slog.LevelInfo, "username already taken", "username", req.UserName().String())
	case *models.DuplicateEmailError:
		span.SetAttributes(attribute.String("conflict.field", metrics.FieldEmail))
		s.incrementConflict(metrics.FieldEmail)
		s.log(ctx, slog.LevelInfo, "email already registered", "username", req.UserName().String())
	case *models.UnknownError:
		span.RecordError(err)
		span.SetStatus(codes.Error, "create user failed")
		if s.metrics != nil {
			s.metrics.IncrementFailure()
		}
	}
}

func (s *Service) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Log(ctx, level, msg, args...)
}

func (s *Service) incrementUsersCreated() {
	if s.metrics != nil {
		s.metrics.IncrementUsersCreated()
	}
}

func (s *Service) incrementConflict(field string) {
	if s.metrics != nil {
		s.metrics.IncrementConflict(field)
	}
}

func (s *Service) observeCreateUser(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveCreateUser(start)
	}
}
