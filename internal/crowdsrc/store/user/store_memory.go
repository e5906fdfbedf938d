package user

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"crowdsrc/internal/crowdsrc/models"
	"crowdsrc/internal/crowdsrc/ports"
)

// InMemoryStore keeps users in process memory. A single mutex makes the
// uniqueness check and the insert one atomic step.
type InMemoryStore struct {
	mu         sync.RWMutex
	users      map[uuid.UUID]models.User
	byUserName map[models.UserName]uuid.UUID
	byEmail    map[models.EmailAddress]uuid.UUID
	clock      Clock
	newID      IDGenerator
}

// New constructs an empty in-memory user store.
func New() *InMemoryStore {
	return &InMemoryStore{
		users:      make(map[uuid.UUID]models.User),
		byUserName: make(map[models.UserName]uuid.UUID),
		byEmail:    make(map[models.EmailAddress]uuid.UUID),
		clock:      time.Now,
		newID:      uuid.New,
	}
}

var _ ports.UserRepository = (*InMemoryStore)(nil)

// CreateUser stores a new user. Email is checked before username, the same
// order in which the users table declares its constraints.
func (s *InMemoryStore) CreateUser(ctx context.Context, req models.CreateUserRequest) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, models.NewUnknownError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[req.Email()]; taken {
		return models.User{}, &models.DuplicateEmailError{Email: req.Email()}
	}
	if _, taken := s.byUserName[req.UserName()]; taken {
		return models.User{}, &models.DuplicateUserNameError{UserName: req.UserName()}
	}

	user := models.NewUser(s.newID(), req.UserName(), req.Email(), s.clock().UTC())
	s.users[user.ID()] = user
	s.byUserName[user.UserName()] = user.ID()
	s.byEmail[user.Email()] = user.ID()
	return user, nil
}

// FindByID returns the user with id.
func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	return user, ok
}

// Count returns the number of stored users.
func (s *InMemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// Health always succeeds for the in-memory store.
func (s *InMemoryStore) Health(context.Context) error {
	return nil
}
