package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"crowdsrc/internal/crowdsrc/models"
	"crowdsrc/internal/crowdsrc/ports"
	"crowdsrc/pkg/platform/sentinel"
)

// Redis publishes a UserCreatedEvent on a pub/sub channel.
type Redis struct {
	client  redis.UniversalClient
	channel string
	logger  *slog.Logger
}

// NewRedis returns a notifier publishing to channel.
func NewRedis(client redis.UniversalClient, channel string, logger *slog.Logger) (*Redis, error) {
	if client == nil || channel == "" {
		return nil, fmt.Errorf("redis notifier: client and channel required: %w", sentinel.ErrUnavailable)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Redis{client: client, channel: channel, logger: logger}, nil
}

var _ ports.UserNotifier = (*Redis)(nil)

func (r *Redis) UserCreated(ctx context.Context, user models.User) {
	payload, err := json.Marshal(NewUserCreatedEvent(user))
	if err != nil {
		r.logger.WarnContext(ctx, "encode user created event", "user_id", user.ID().String(), "error", err)
		return
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		r.logger.WarnContext(ctx, "publish user created event failed",
			"channel", r.channel,
			"user_id", user.ID().String(),
			"error", err,
		)
	}
}
