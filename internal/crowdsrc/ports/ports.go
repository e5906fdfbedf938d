// Package ports declares the contracts through which the crowdsrc domain is
// consumed and through which it reaches storage and notification backends.
//
// Every implementation must be safe for concurrent use by independent
// request handlers.
package ports

import (
	"context"

	"crowdsrc/internal/crowdsrc/models"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks Service,UserRepository,UserNotifier

// Service is the public API of the crowdsrc domain.
type Service interface {
	// CreateUser persists the user described by req and triggers
	// notifications. Failures are models.CreateUserError variants.
	CreateUser(ctx context.Context, req models.CreateUserRequest) (models.User, error)
}

// UserRepository is a uniqueness-enforcing store of users.
//
// Implementations MUST:
//   - check and insert atomically, so two concurrent calls with the same
//     username or email never both succeed
//   - assign the identifier and creation timestamp at write time
//   - return *models.DuplicateUserNameError or *models.DuplicateEmailError for
//     the colliding field, and *models.UnknownError for anything else
type UserRepository interface {
	CreateUser(ctx context.Context, req models.CreateUserRequest) (models.User, error)
}

// UserNotifier dispatches side effects for a newly created user.
//
// It is invoked at most once per successful creation, after the write has
// committed. Implementations swallow their own failures.
type UserNotifier interface {
	UserCreated(ctx context.Context, user models.User)
}
