package push

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"schoolhub/backend/internal/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// TokenPruner deletes the clients registered with a push token
type TokenPruner interface {
	DeleteByPushToken(ctx context.Context, token string) (int64, error)
}

// FeedbackConsumer removes clients whose tokens the push gateway reports as
// permanently unreachable. Reports arrive on a Redis stream as {token, reason}.
type FeedbackConsumer struct {
	client     *redis.Client
	stream     string
	group      string
	consumerID string
	pruner     TokenPruner
	block      time.Duration
	retryDelay time.Duration
}

// NewFeedbackConsumer creates a consumer in group reading stream
func NewFeedbackConsumer(client *redis.Client, stream, group string, pruner TokenPruner) *FeedbackConsumer {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "worker"
	}

	return &FeedbackConsumer{
		client:     client,
		stream:     stream,
		group:      group,
		consumerID: fmt.Sprintf("%s-%s", host, uuid.NewString()[:8]),
		pruner:     pruner,
		block:      5 * time.Second,
		retryDelay: 5 * time.Second,
	}
}

// Run consumes feedback until ctx is cancelled. Entries whose client could not
// be deleted stay pending and are retried before new entries are read.
func (c *FeedbackConsumer) Run(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	log.Info().
		Str("stream", c.stream).
		Str("group", c.group).
		Str("consumer", c.consumerID).
		Msg("Push feedback consumer connected")
	defer log.Info().Str("stream", c.stream).Msg("Push feedback consumer disconnected")

	for {
		if ctx.Err() != nil {
			return nil
		}

		// "0" replays this consumer's unacknowledged entries and never blocks
		pending, err := c.read(ctx, "0", -1)
		if err != nil {
			if !c.pause(ctx, time.Second) {
				return nil
			}
			continue
		}
		failed := c.process(ctx, pending)

		fresh, err := c.read(ctx, ">", c.block)
		if err != nil {
			if !c.pause(ctx, time.Second) {
				return nil
			}
			continue
		}
		failed += c.process(ctx, fresh)

		if failed > 0 && !c.pause(ctx, c.retryDelay) {
			return nil
		}
	}
}

// read fetches entries for this consumer starting at id. A negative block does not wait.
func (c *FeedbackConsumer) read(ctx context.Context, id string, block time.Duration) ([]redis.XMessage, error) {
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.group,
		Consumer: c.consumerID,
		Streams:  []string{c.stream, id},
		Count:    50,
		Block:    block,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		if ctx.Err() == nil {
			metrics.RecordError("push", "feedback_read")
			log.Error().Err(err).Str("stream", c.stream).Msg("Error reading push feedback")
		}
		return nil, err
	}

	var msgs []redis.XMessage
	for _, s := range streams {
		msgs = append(msgs, s.Messages...)
	}
	return msgs, nil
}

// process handles and acks msgs, returning how many are left pending
func (c *FeedbackConsumer) process(ctx context.Context, msgs []redis.XMessage) int {
	failed := 0
	for _, msg := range msgs {
		if err := c.handle(ctx, msg.Values); err != nil {
			failed++
			log.Error().Err(err).Str("message_id", msg.ID).Msg("Failed to process push feedback")
			continue
		}
		if err := c.client.XAck(ctx, c.stream, c.group, msg.ID).Err(); err != nil {
			log.Warn().Err(err).Str("message_id", msg.ID).Msg("Failed to ack push feedback")
		}
	}
	return failed
}

// pause waits for d and reports false if ctx ended first
func (c *FeedbackConsumer) pause(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

// handle deletes the client owning the reported token. Malformed entries are
// dropped so they are acked and not redelivered.
func (c *FeedbackConsumer) handle(ctx context.Context, values map[string]interface{}) error {
	token, _ := values["token"].(string)
	token = strings.TrimSpace(token)
	if token == "" {
		log.Warn().Interface("values", values).Msg("Push feedback without a token")
		return nil
	}
	reason, _ := values["reason"].(string)

	deleted, err := c.pruner.DeleteByPushToken(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to delete client for token: %w", err)
	}

	metrics.RecordTokensPruned(deleted)

	log.Info().
		Str("reason", reason).
		Int64("clients_deleted", deleted).
		Msg("Unreachable push token pruned")
	return nil
}
