package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// User is a registered crowdsourcing participant.
//
// Invariants:
//   - ID and CreatedAt are assigned by the persistence layer at write time
//   - UserName and Email are validated value objects
//   - A User is never mutated after construction
type User struct {
	id        uuid.UUID
	username  UserName
	email     EmailAddress
	createdAt time.Time
}

// NewUser assembles a User from already-validated parts. Only repositories
// call this, after a successful write.
func NewUser(id uuid.UUID, username UserName, email EmailAddress, createdAt time.Time) User {
	return User{
		id:        id,
		username:  username,
		email:     email,
		createdAt: createdAt,
	}
}

func (u User) ID() uuid.UUID { return u.id }
func (u User) UserName() UserName { return u.username }
func (u User) Email() EmailAddress { return u.email }
func (u User) CreatedAt() time.Time { return u.createdAt }

// UserName is a trimmed, non-empty name without whitespace.
type UserName struct {
	value string
}

// ErrUserNameEmpty is returned when a username is empty after trimming.
var ErrUserNameEmpty = errors.New("username cannot be empty")

// UserNameWhitespaceError reports a username that still contains whitespace
// after trimming. InvalidUserName is the raw input, untrimmed.
type UserNameWhitespaceError struct {
	InvalidUserName string
}

func (e *UserNameWhitespaceError) Error() string {
	return fmt.Sprintf("username cannot contain whitespace: '%s'", e.InvalidUserName)
}

// NewUserName trims raw and validates the result.
func NewUserName(raw string) (UserName, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return UserName{}, ErrUserNameEmpty
	}
	if strings.IndexFunc(trimmed, unicode.IsSpace) >= 0 {
		return UserName{}, &UserNameWhitespaceError{InvalidUserName: raw}
	}
	return UserName{value: trimmed}, nil
}

func (n UserName) String() string { return n.value }

// IsZero reports whether n was not produced by NewUserName.
func (n UserName) IsZero() bool { return n.value == "" }

// EmailAddress is a syntactically valid email address. It is comparable and
// safe to use as a map key.
type EmailAddress struct {
	value string
}

// EmailAddressError reports an input that is not a valid email address.
type EmailAddressError struct {
	InvalidEmail string
	Message      string
}

func (e *EmailAddressError) Error() string {
	return fmt.Sprintf("'%s' is not a valid email address: %s", e.InvalidEmail, e.Message)
}

var emailValidator = validator.New(validator.WithRequiredStructEnabled())

// NewEmailAddress validates raw against the email address grammar. Besides
// the common dotted-domain form it accepts single-label domains (a@b) and
// bracketed IP literals (x@[192.168.0.1], x@[IPv6:::1]).
func NewEmailAddress(raw string) (EmailAddress, error) {
	if raw == "" {
		return EmailAddress{}, &EmailAddressError{InvalidEmail: raw, Message: "email address is empty"}
	}
	if !isEmailAddress(raw) {
		return EmailAddress{}, &EmailAddressError{InvalidEmail: raw, Message: emailFailureReason(raw)}
	}
	return EmailAddress{value: raw}, nil
}

// isEmailAddress checks raw with the validator's email rule and, when that
// rejects it, checks the local part and the domain separately. The email rule
// requires a dotted domain and knows nothing about address literals.
func isEmailAddress(raw string) bool {
	if emailValidator.Var(raw, "email") == nil {
		return true
	}
	at := strings.LastIndexByte(raw, '@')
	if at <= 0 || at == len(raw)-1 {
		return false
	}
	local, domain := raw[:at], raw[at+1:]
	if emailValidator.Var(local+"@example.com", "email") != nil {
		return false
	}
	return isEmailDomain(domain)
}

func isEmailDomain(domain string) bool {
	if literal, ok := strings.CutPrefix(domain, "["); ok {
		literal, ok = strings.CutSuffix(literal, "]")
		if !ok {
			return false
		}
		if v6, ok := strings.CutPrefix(literal, "IPv6:"); ok {
			return emailValidator.Var(v6, "ipv6") == nil
		}
		return emailValidator.Var(literal, "ipv4") == nil
	}
	return emailValidator.Var(domain, "hostname_rfc1123") == nil
}

func emailFailureReason(raw string) string {
	at := strings.LastIndexByte(raw, '@')
	switch {
	case at < 0:
		return "missing separator character '@'"
	case at == 0:
		return "local part is empty"
	case at == len(raw)-1:
		return "domain is empty"
	default:
		return "address does not match the email grammar"
	}
}

func (e EmailAddress) String() string { return e.value }

// CreateUserRequest is the validated intent to create a User.
type CreateUserRequest struct {
	username UserName
	email    EmailAddress
}

func NewCreateUserRequest(username UserName, email EmailAddress) CreateUserRequest {
	return CreateUserRequest{username: username, email: email}
}

func (r CreateUserRequest) UserName() UserName { return r.username }
func (r CreateUserRequest) Email() EmailAddress { return r.email }
