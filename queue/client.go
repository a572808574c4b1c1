package queue

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// HeartbeatTTL is how long a backend counts as healthy after a heartbeat.
const HeartbeatTTL = 30 * time.Second

// Client defines the interface for handing netlist setups to simulation
// backends through Redis.
type Client interface {
	// Push adds a job to the end of its backend's queue (LPUSH).
	Push(ctx context.Context, job Job) error

	// Pop removes and returns a job from the front of a backend's queue (BRPOP).
	// Blocks until a job is available or context is cancelled.
	Pop(ctx context.Context, backend string) (*Job, error)

	// Publish sends a result to the job's results channel.
	Publish(ctx context.Context, result Result) error

	// Subscribe creates a subscription to a job's results channel.
	// Returns a channel that receives results until ctx is cancelled.
	Subscribe(ctx context.Context, jobID string) (<-chan Result, error)

	// RegisterBackend writes backend metadata and adds it to the backend set.
	RegisterBackend(ctx context.Context, meta BackendMeta) error

	// ListBackends returns metadata for all registered backends, sorted by name.
	ListBackends(ctx context.Context) ([]BackendMeta, error)

	// Heartbeat updates the health key for a backend with HeartbeatTTL.
	Heartbeat(ctx context.Context, backend string) error

	// Healthy reports whether the backend sent a heartbeat within HeartbeatTTL.
	Healthy(ctx context.Context, backend string) (bool, error)

	// QueueLength returns the number of jobs waiting for a backend.
	QueueLength(ctx context.Context, backend string) (int64, error)

	// Close closes the Redis connection.
	Close() error
}

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379")
	URL string

	// TLS configuration for secure connections
	TLS *tls.Config

	// ConnectTimeout is the maximum time to wait for connection establishment
	ConnectTimeout time.Duration

	// ReadTimeout is the maximum time to wait for read operations
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait for write operations
	WriteTimeout time.Duration

	// Logger receives subscription decode failures. Defaults to slog.Default().
	Logger *slog.Logger
}

// RedisClient implements the Client interface using go-redis/v9.
type RedisClient struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisClient creates a new Redis queue client with the given options.
func NewRedisClient(opts RedisOptions) (*RedisClient, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 30 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	redisOpts.TLSConfig = opts.TLS
	redisOpts.DialTimeout = opts.ConnectTimeout
	redisOpts.ReadTimeout = opts.ReadTimeout
	redisOpts.WriteTimeout = opts.WriteTimeout
	redisOpts.ContextTimeoutEnabled = true

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{client: client, logger: opts.Logger}, nil
}

// Push adds a job to the end of its backend's queue.
func (c *RedisClient) Push(ctx context.Context, job Job) error {
	if err := job.IsValid(); err != nil {
		return fmt.Errorf("invalid job: %w", err)
	}
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	key := QueueKey(job.Backend)
	if err := c.client.LPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("failed to push to queue %s: %w", key, err)
	}
	return nil
}

// Pop removes and returns a job from the front of a backend's queue.
// Blocks until a job is available or context is cancelled.
func (c *RedisClient) Pop(ctx context.Context, backend string) (*Job, error) {
	key := QueueKey(backend)
	// BRPOP returns [queue_name, value]
	result, err := c.client.BRPop(ctx, 0, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pop from queue %s: %w", key, err)
	}

	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP result length: %d", len(result))
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	return &job, nil
}

// Publish sends a result to the job's results channel.
func (c *RedisClient) Publish(ctx context.Context, result Result) error {
	if err := result.IsValid(); err != nil {
		return fmt.Errorf("invalid result: %w", err)
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	channel := ResultsChannel(result.JobID)
	if err := c.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish to channel %s: %w", channel, err)
	}
	return nil
}

// Subscribe creates a subscription to a job's results channel.
func (c *RedisClient) Subscribe(ctx context.Context, jobID string) (<-chan Result, error) {
	channel := ResultsChannel(jobID)
	pubsub := c.client.Subscribe(ctx, channel)

	// Wait for subscription confirmation
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to channel %s: %w", channel, err)
	}

	resultChan := make(chan Result)

	go func() {
		defer close(resultChan)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var result Result
				if err := json.Unmarshal([]byte(msg.Payload), &result); err != nil {
					c.logger.Warn("dropping undecodable result",
						"channel", channel,
						"error", err)
					continue
				}

				select {
				case resultChan <- result:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return resultChan, nil
}

// RegisterBackend writes backend metadata to Redis and adds it to the backend set.
func (c *RedisClient) RegisterBackend(ctx context.Context, meta BackendMeta) error {
	if err := meta.IsValid(); err != nil {
		return fmt.Errorf("invalid backend metadata: %w", err)
	}

	analysesJSON, err := json.Marshal(meta.Analyses)
	if err != nil {
		return fmt.Errorf("failed to marshal analyses: %w", err)
	}

	// HSET values must be strings
	metaMap := map[string]string{
		"name":         meta.Name,
		"version":      meta.Version,
		"description":  meta.Description,
		"simulator":    meta.Simulator,
		"analyses":     string(analysesJSON),
		"worker_count": strconv.Itoa(meta.WorkerCount),
	}
	args := make([]any, 0, len(metaMap)*2)
	for k, v := range metaMap {
		args = append(args, k, v)
	}

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, MetaKey(meta.Name), args...)
		pipe.SAdd(ctx, BackendsKey, meta.Name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to register backend %s: %w", meta.Name, err)
	}
	return nil
}

// ListBackends returns metadata for all registered backends.
func (c *RedisClient) ListBackends(ctx context.Context) ([]BackendMeta, error) {
	names, err := c.client.SMembers(ctx, BackendsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get registered backends: %w", err)
	}
	sort.Strings(names)

	backends := make([]BackendMeta, 0, len(names))
	for _, name := range names {
		metaMap, err := c.client.HGetAll(ctx, MetaKey(name)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to get metadata for backend %s: %w", name, err)
		}
		if len(metaMap) == 0 {
			c.logger.Debug("skipping backend without metadata", "backend", name)
			continue
		}

		meta := BackendMeta{
			Name:        metaMap["name"],
			Version:     metaMap["version"],
			Description: metaMap["description"],
			Simulator:   metaMap["simulator"],
		}
		if s, ok := metaMap["analyses"]; ok && s != "" {
			if err := json.Unmarshal([]byte(s), &meta.Analyses); err != nil {
				c.logger.Warn("ignoring malformed analyses list", "backend", name, "error", err)
			}
		}
		if s, ok := metaMap["worker_count"]; ok {
			if n, err := strconv.Atoi(s); err == nil {
				meta.WorkerCount = n
			}
		}
		backends = append(backends, meta)
	}
	return backends, nil
}

// Heartbeat updates the health key for a backend with HeartbeatTTL.
func (c *RedisClient) Heartbeat(ctx context.Context, backend string) error {
	if err := c.client.Set(ctx, HealthKey(backend), "ok", HeartbeatTTL).Err(); err != nil {
		return fmt.Errorf("failed to set heartbeat for backend %s: %w", backend, err)
	}
	return nil
}

// Healthy reports whether the backend's health key is still live.
func (c *RedisClient) Healthy(ctx context.Context, backend string) (bool, error) {
	n, err := c.client.Exists(ctx, HealthKey(backend)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check health of backend %s: %w", backend, err)
	}
	return n > 0, nil
}

// QueueLength returns the number of jobs waiting for a backend.
func (c *RedisClient) QueueLength(ctx context.Context, backend string) (int64, error) {
	n, err := c.client.LLen(ctx, QueueKey(backend)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get length of queue for backend %s: %w", backend, err)
	}
	return n, nil
}

// Close closes the Redis connection.
func (c *RedisClient) Close() error {
	return c.client.Close()
}

// formatKeyName joins key segments with ':'.
func formatKeyName(parts ...string) string {
	return strings.Join(parts, ":")
}
