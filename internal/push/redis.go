package push

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NewRedisClient connects to Redis and verifies the connection with a ping.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return rdb, nil
}

// RedisPublisher publishes messages on a Redis pub/sub channel.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

func NewRedisPublisher(rdb *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, msg Message) error {
	payload, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("encode push message: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", p.channel, err)
	}
	return nil
}

// Worker receives messages from a Redis channel and runs the registered
// background-message handler for each.
type Worker struct {
	rdb     *redis.Client
	channel string
	logger  zerolog.Logger
	handler Handler
}

func NewWorker(rdb *redis.Client, channel string, logger zerolog.Logger) *Worker {
	return &Worker{
		rdb:     rdb,
		channel: channel,
		logger:  logger.With().Str("component", "push-worker").Logger(),
	}
}

// OnBackgroundMessage registers the handler run for every received message.
// A later call replaces the earlier handler.
func (w *Worker) OnBackgroundMessage(h Handler) {
	w.handler = h
}

// Run subscribes and processes messages until ctx is cancelled. Handler errors
// and undecodable payloads are logged and skipped.
func (w *Worker) Run(ctx context.Context) error {
	if w.handler == nil {
		return fmt.Errorf("push worker: no background message handler registered")
	}

	sub := w.rdb.Subscribe(ctx, w.channel)
	defer sub.Close()

	// Wait for the subscription to be confirmed before reading messages.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to %s: %w", w.channel, err)
	}
	w.logger.Info().Str("channel", w.channel).Msg("push worker subscribed")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("push worker stopped")
			return nil
		case rm, ok := <-ch:
			if !ok {
				return nil
			}
			w.handle(ctx, rm.Payload)
		}
	}
}

func (w *Worker) handle(ctx context.Context, payload string) {
	msg, err := Decode([]byte(payload))
	if err != nil {
		w.logger.Warn().Err(err).Msg("dropping malformed push message")
		return
	}
	if err := w.handler(ctx, msg); err != nil {
		w.logger.Error().Err(err).
			Str("collection", msg.Collection).
			Str("slug", msg.Slug).
			Msg("background message handler failed")
		return
	}
	w.logger.Debug().Str("event", msg.Event).Str("slug", msg.Slug).Msg("notification displayed")
}
