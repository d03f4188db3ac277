package store

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/sidedock/pkg/errors"
	"github.com/matzehuels/sidedock/pkg/observability"
)

const backendRedis = "redis"

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	// URL is a redis:// URL. When set it overrides Addr, Password and DB.
	URL      string
	Addr     string
	Password string
	DB       int
	// Prefix namespaces the keys. Defaults to "sidedock:layout:".
	Prefix string
}

// RedisStore keeps one JSON value per station. Keys never expire.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and checks the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	opts := &redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to redis at %s", opts.Addr)
	}
	return NewRedisStoreFromClient(client, cfg.Prefix), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "sidedock:layout:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(id string) string { return s.prefix + id }

// Load reads the document saved for id.
func (s *RedisStore) Load(ctx context.Context, id string) (*Document, error) {
	start := time.Now()
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		observability.Store().OnLoad(ctx, backendRedis, false, time.Since(start))
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "redis get %s", id)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "parse layout %s", id)
	}
	observability.Store().OnLoad(ctx, backendRedis, true, time.Since(start))
	return &doc, nil
}

// Save stores doc without expiry.
func (s *RedisStore) Save(ctx context.Context, doc *Document) (err error) {
	start := time.Now()
	var data []byte
	defer func() { observability.Store().OnSave(ctx, backendRedis, len(data), time.Since(start), err) }()

	if err := errors.ValidateStationID(doc.Station); err != nil {
		return err
	}
	data, err = json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal layout: %w", err)
	}
	if err := s.client.Set(ctx, s.key(doc.Station), data, 0).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "redis set %s", doc.Station)
	}
	return nil
}

// Delete removes the document saved for id.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	var err error
	if e := s.client.Del(ctx, s.key(id)).Err(); e != nil {
		err = errors.Wrap(errors.ErrCodeStore, e, "redis del %s", id)
	}
	observability.Store().OnDelete(ctx, backendRedis, err)
	return err
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
