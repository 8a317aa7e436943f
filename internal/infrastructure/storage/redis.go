package storage

import (
	"context"
	"strings"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/nivaran/storefront/internal/core/ports"
	"github.com/sirupsen/logrus"
)

// RedisStore implements ports.KeyValueStore on a Redis backend. Per the store
// contract every backend error is logged and swallowed: a failing Get reads
// as a miss, a failing Set is a no-op. Change notification rides on a pub/sub
// channel, so subscribers also see writes from other processes sharing the
// same prefix.
type RedisStore struct {
	r      redis.UniversalClient
	prefix string
	logger *logrus.Logger

	subMu  sync.Mutex
	subs   map[int]func(key string)
	nextID int

	cancel context.CancelFunc
}

func NewRedisStore(client redis.UniversalClient, prefix string, logger *logrus.Logger) *RedisStore {
	s := &RedisStore{
		r:      client,
		prefix: prefix,
		logger: logger,
		subs:   make(map[int]func(key string)),
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.listen(ctx)

	return s
}

func (s *RedisStore) namespaced(key string) string {
	return s.prefix + ":" + key
}

func (s *RedisStore) channel() string {
	return s.prefix + ":events"
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool) {
	val, err := s.r.Get(ctx, s.namespaced(key)).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		if s.logger != nil {
			s.logger.WithField("key", key).WithError(err).Warn("kv: get failed, treating as miss")
		}
		return "", false
	}
	return val, true
}

func (s *RedisStore) Set(ctx context.Context, key, value string) {
	if err := s.r.Set(ctx, s.namespaced(key), value, 0).Err(); err != nil {
		if s.logger != nil {
			s.logger.WithField("key", key).WithError(err).Warn("kv: set failed, value dropped")
		}
		return
	}
	s.publish(ctx, key)
}

func (s *RedisStore) Remove(ctx context.Context, key string) {
	if err := s.r.Del(ctx, s.namespaced(key)).Err(); err != nil {
		if s.logger != nil {
			s.logger.WithField("key", key).WithError(err).Warn("kv: remove failed")
		}
		return
	}
	s.publish(ctx, key)
}

func (s *RedisStore) Keys(ctx context.Context) []string {
	var keys []string
	iter := s.r.Scan(ctx, 0, s.prefix+":*", 0).Iterator()
	for iter.Next(ctx) {
		k := iter.Val()
		if k == s.channel() {
			continue
		}
		keys = append(keys, strings.TrimPrefix(k, s.prefix+":"))
	}
	if err := iter.Err(); err != nil && s.logger != nil {
		s.logger.WithError(err).Warn("kv: key scan failed")
	}
	return keys
}

func (s *RedisStore) Subscribe(fn func(key string)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// Close stops the pub/sub listener. The underlying client is owned by the caller.
func (s *RedisStore) Close() {
	s.cancel()
}

func (s *RedisStore) publish(ctx context.Context, key string) {
	if err := s.r.Publish(ctx, s.channel(), key).Err(); err != nil && s.logger != nil {
		s.logger.WithField("key", key).WithError(err).Debug("kv: change publish failed")
	}
}

// listen fans pub/sub change events out to local subscribers. Our own
// publishes come back through here too, which keeps local and remote writes
// on one notification path.
func (s *RedisStore) listen(ctx context.Context) {
	pubsub := s.r.Subscribe(ctx, s.channel())
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
			s.subMu.Lock()
			fns := make([]func(string), 0, len(s.subs))
			for _, fn := range s.subs {
				fns = append(fns, fn)
			}
			s.subMu.Unlock()
			for _, fn := range fns {
				fn(msg.Payload)
			}
		}
	}
}

var _ ports.KeyValueStore = (*RedisStore)(nil)
