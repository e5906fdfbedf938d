package main

import (
	"context"
	"fmt"
	"log/slog"

	"crowdsrc/internal/crowdsrc/notifier"
	"crowdsrc/internal/crowdsrc/ports"
	"crowdsrc/internal/crowdsrc/store/user"
	"crowdsrc/internal/platform/config"
	"crowdsrc/internal/platform/kafka"
	"crowdsrc/internal/platform/postgres"
	"crowdsrc/internal/platform/redis"
	"crowdsrc/internal/platform/ses"
)

// userStore is a repository that can also report its health.
type userStore interface {
	ports.UserRepository
	Health(ctx context.Context) error
}

func buildStore(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger, closers *closerStack) (userStore, error) {
	if cfg.Store == config.StoreMemory {
		log.Warn("using in-memory user store; data is lost on restart")
		return user.New(), nil
	}

	db, err := postgres.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	closers.push(db.Close)

	if cfg.Migrate {
		if err := postgres.Migrate(db); err != nil {
			return nil, err
		}
		log.Info("database migrations applied")
	}
	return user.NewPostgres(db, user.WithTxTimeout(cfg.TxTimeout)), nil
}

func buildNotifier(ctx context.Context, cfg config.Config, log *slog.Logger, closers *closerStack) (ports.UserNotifier, error) {
	var notifiers []ports.UserNotifier
	for _, kind := range cfg.Notify.Kinds {
		n, err := buildOneNotifier(ctx, kind, cfg, log, closers)
		if err != nil {
			return nil, fmt.Errorf("%s notifier: %w", kind, err)
		}
		notifiers = append(notifiers, n)
	}
	if len(notifiers) == 1 {
		return notifiers[0], nil
	}
	return notifier.NewFanout(log, notifiers...), nil
}

func buildOneNotifier(ctx context.Context, kind string, cfg config.Config, log *slog.Logger, closers *closerStack) (ports.UserNotifier, error) {
	switch kind {
	case config.NotifierCollecting:
		return notifier.NewCollecting(notifier.NewInbox()), nil
	case config.NotifierSES:
		client, err := ses.New(ctx, cfg.SES)
		if err != nil {
			return nil, err
		}
		return notifier.NewSES(client, cfg.SES.From, log)
	case config.NotifierKafka:
		client, err := kafka.New(ctx, cfg.Kafka)
		if err != nil {
			return nil, err
		}
		closers.push(func() error { client.Close(); return nil })
		if err := kafka.EnsureTopic(ctx, client, cfg.Kafka.Topic, cfg.Kafka.Partitions); err != nil {
			return nil, err
		}
		return notifier.NewKafka(client, cfg.Kafka.Topic, log)
	case config.NotifierRedis:
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		closers.push(client.Close)
		return notifier.NewRedis(client.Client, cfg.Redis.Channel, log)
	default:
		return notifier.NewNoop(), nil
	}
}
