package notifier

import (
	"fmt"
	"time"

	"crowdsrc/internal/crowdsrc/models"
)

// EventUserCreated is the type carried by every published UserCreatedEvent.
const EventUserCreated = "user.created"

// Welcome is the message sent to a newly registered user.
type Welcome struct {
	Subject string
	Body    string
}

// WelcomeFor renders the welcome message for user.
func WelcomeFor(user models.User) Welcome {
	return Welcome{
		Subject: "Welcome to crowdsrc",
		Body: fmt.Sprintf(
			"Hi %s,\n\nyour crowdsrc account is ready. You can now sign in with %s.\n",
			user.UserName(), user.Email()),
	}
}

// UserCreatedEvent is the JSON payload published to queues and channels.
type UserCreatedEvent struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	UserName  string    `json:"username"`
	Email     string    `json:"email_address"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserCreatedEvent builds the event for user.
func NewUserCreatedEvent(user models.User) UserCreatedEvent {
	return UserCreatedEvent{
		Type:      EventUserCreated,
		ID:        user.ID().String(),
		UserName:  user.UserName().String(),
		Email:     user.Email().String(),
		CreatedAt: user.CreatedAt(),
	}
}
