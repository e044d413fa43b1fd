package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"authorportal/internal/session"
)

// LogoutBus publishes logout signals on a redis channel so that every portal
// instance hears them. Received signals are handed to the local bus; a
// signal published here reaches local subscribers only through Run.
type LogoutBus struct {
	client  *redis.Client
	channel string
	local   *session.LocalBus
	logger  zerolog.Logger
	ready   chan struct{}
}

func NewLogoutBus(client *redis.Client, channel string, logger zerolog.Logger) *LogoutBus {
	return &LogoutBus{
		client:  client,
		channel: channel,
		local:   session.NewLocalBus(),
		logger:  logger.With().Str("channel", channel).Logger(),
		ready:   make(chan struct{}),
	}
}

func (b *LogoutBus) Publish(ctx context.Context, signal session.LogoutSignal) error {
	payload, err := json.Marshal(signal)
	if err != nil {
		return fmt.Errorf("encode logout signal: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish logout signal: %w", err)
	}
	return nil
}

func (b *LogoutBus) Subscribe(handler func(session.LogoutSignal)) func() {
	return b.local.Subscribe(handler)
}

// Ready is closed once Run holds a confirmed subscription.
func (b *LogoutBus) Ready() <-chan struct{} {
	return b.ready
}

// Run listens on the channel until ctx is done.
func (b *LogoutBus) Run(ctx context.Context) error {
	pubsub := b.client.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}
	close(b.ready)
	b.logger.Info().Msg("listening for logout signals")

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			b.handle(msg)
		}
	}
}

func (b *LogoutBus) handle(msg *redis.Message) {
	var signal session.LogoutSignal
	if err := json.Unmarshal([]byte(msg.Payload), &signal); err != nil {
		b.logger.Error().Err(err).Str("payload", msg.Payload).Msg("decode logout signal failed")
		return
	}
	if signal.AuthorID == 0 {
		b.logger.Warn().Str("origin", signal.Origin).Msg("logout signal without author")
		return
	}
	b.local.Dispatch(signal)
}
