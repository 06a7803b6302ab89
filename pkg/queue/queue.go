package queue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sellora/sellora-backend/config"
	"github.com/sellora/sellora-backend/pkg/logger"
)

const keyPrefix = "queue:"

// Publisher is the send side of the job queue. Handlers depend on this
// interface so tests can swap in a fake.
type Publisher interface {
	Send(ctx context.Context, name string, payload []byte) error
}

// Queue is a Redis-list backed job queue. Each event name maps to its own
// list; consumers block on BRPOP across the names they care about.
type Queue struct {
	client *redis.Client
}

// Init connects to Redis and verifies the connection.
func Init(cfg *config.RedisConfig) (*Queue, error) {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return &Queue{client: client}, nil
}

// Send pushes a payload onto the list for the given event name.
func (q *Queue) Send(ctx context.Context, name string, payload []byte) error {
	if err := q.client.LPush(ctx, keyPrefix+name, payload).Err(); err != nil {
		logger.Error("Failed to enqueue event", err, map[string]interface{}{
			"event": name,
		})
		return err
	}

	logger.Debug("Event enqueued", map[string]interface{}{
		"event": name,
		"bytes": len(payload),
	})
	return nil
}

// Receive blocks until a payload arrives on any of the given event names,
// or the timeout elapses (zero means block forever). It returns the event
// name the payload was queued under.
func (q *Queue) Receive(ctx context.Context, names []string, timeout time.Duration) (string, []byte, error) {
	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = keyPrefix + name
	}

	result, err := q.client.BRPop(ctx, timeout, keys...).Result()
	if err != nil {
		return "", nil, err
	}

	// BRPOP returns [key, value]
	name := strings.TrimPrefix(result[0], keyPrefix)
	return name, []byte(result[1]), nil
}

// Close closes the Redis connection.
func (q *Queue) Close() error {
	logger.Info("Closing Redis connection")
	return q.client.Close()
}
