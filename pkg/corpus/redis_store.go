package corpus

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps documents in Redis.
//
// Every document is a hash <prefix>:doc:<id> holding its category and text;
// the list <prefix>:docs records ids in insertion order.
type RedisStore struct {
	client *redis.Client
	config *RedisConfig
	logger hclog.Logger
}

// RedisConfig holds Redis corpus configuration
type RedisConfig struct {
	RedisURL    string `json:"redis_url" yaml:"redis_url"`
	KeyPrefix   string `json:"key_prefix" yaml:"key_prefix"`
	DatabaseNum int    `json:"database_num" yaml:"database_num"`
	BatchSize   int    `json:"batch_size" yaml:"batch_size"`
}

// DefaultRedisConfig returns default Redis configuration
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		RedisURL:    "redis://localhost:6379",
		KeyPrefix:   "nbclass:corpus",
		DatabaseNum: 0,
		BatchSize:   100,
	}
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(ctx context.Context, config *RedisConfig, logger hclog.Logger) (*RedisStore, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	opt, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid Redis URL")
	}

	opt.DB = config.DatabaseNum
	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "Redis connection failed")
	}

	return &RedisStore{
		client: client,
		config: config,
		logger: logger.Named("corpus-redis"),
	}, nil
}

// LoadAll fetches every stored document in insertion order
func (rs *RedisStore) LoadAll(ctx context.Context) ([]Document, error) {
	ids, err := rs.client.LRange(ctx, rs.listKey(), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list documents")
	}

	docs := make([]Document, 0, len(ids))

	for start := 0; start < len(ids); start += rs.config.BatchSize {
		end := min(start+rs.config.BatchSize, len(ids))

		pipe := rs.client.Pipeline()
		cmds := make([]*redis.MapStringStringCmd, 0, end-start)
		for _, id := range ids[start:end] {
			cmds = append(cmds, pipe.HGetAll(ctx, rs.docKey(id)))
		}

		if _, err := pipe.Exec(ctx); err != nil {
			return nil, errors.Wrap(err, "failed to fetch documents")
		}

		for i, cmd := range cmds {
			fields := cmd.Val()
			if len(fields) == 0 {
				rs.logger.Warn("document listed but missing", "id", ids[start+i])
				continue
			}
			docs = append(docs, Document{Category: fields["category"], Text: fields["text"]})
		}
	}

	rs.logger.Info("loaded training documents", "count", len(docs))
	return docs, nil
}

// appendScript claims the id and records the document in one atomic step.
// KEYS: doc hash, id list. ARGV: id, category, text, created.
var appendScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return 0
end
redis.call("HSET", KEYS[1], "category", ARGV[2], "text", ARGV[3], "created", ARGV[4])
redis.call("RPUSH", KEYS[2], ARGV[1])
return 1
`)

// Append stores a document and returns its id
func (rs *RedisStore) Append(ctx context.Context, category, content, suggestedName string) (string, error) {
	if err := ValidateCategory(category); err != nil {
		return "", err
	}

	id := suggestedName
	if id == "" {
		id = uuid.NewString()
	}

	created, err := appendScript.Run(ctx, rs.client,
		[]string{rs.docKey(id), rs.listKey()},
		id, category, content, time.Now().Unix()).Int()
	if err != nil {
		return "", errors.Wrap(err, "failed to store document")
	}
	if created == 0 {
		return "", errors.Wrapf(ErrDocumentExists, "id %s", id)
	}

	rs.logger.Info("added training document", "id", id, "category", category)
	return id, nil
}

// Reset deletes every stored document
func (rs *RedisStore) Reset(ctx context.Context) error {
	ids, err := rs.client.LRange(ctx, rs.listKey(), 0, -1).Result()
	if err != nil {
		return errors.Wrap(err, "failed to list documents")
	}

	pipe := rs.client.Pipeline()
	count := 0

	for _, id := range ids {
		pipe.Del(ctx, rs.docKey(id))
		count++

		// Execute in batches
		if count >= rs.config.BatchSize {
			if _, err := pipe.Exec(ctx); err != nil {
				return errors.Wrap(err, "failed to delete documents")
			}
			pipe = rs.client.Pipeline()
			count = 0
		}
	}

	pipe.Del(ctx, rs.listKey())
	_, err = pipe.Exec(ctx)
	return errors.Wrap(err, "failed to delete documents")
}

// Close closes the Redis connection
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}

func (rs *RedisStore) listKey() string {
	return fmt.Sprintf("%s:docs", rs.config.KeyPrefix)
}

func (rs *RedisStore) docKey(id string) string {
	return fmt.Sprintf("%s:doc:%s", rs.config.KeyPrefix, id)
}

var (
	_ Store    = (*RedisStore)(nil)
	_ Resetter = (*RedisStore)(nil)
)
