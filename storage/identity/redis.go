package identity

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/session"
	"github.com/trezcool/masomo/core/user"
)

const redisTimeout = 3 * time.Second

// RedisStore keeps the identity under a single Redis key, without expiry.
type RedisStore struct {
	client redis.UniversalClient
	key    string
}

func NewRedisStore(client redis.UniversalClient, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// NewRedisClient connects to the configured Redis server.
func NewRedisClient(ctx context.Context, conf core.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Address,
		Password: conf.Password,
		DB:       conf.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "pinging redis at %s", conf.Address)
	}
	return client, nil
}

// RedisStores opens one RedisStore per session, under `<prefix>session:<key>:user`.
func RedisStores(client redis.UniversalClient, prefix string) session.StoreFactory {
	return func(key string) session.IdentityStore {
		return NewRedisStore(client, prefix+"session:"+key+":"+Key)
	}
}

func (s *RedisStore) Load() (*user.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "getting %s", s.key)
	}
	return decode(data)
}

func (s *RedisStore) Save(usr user.User) error {
	data, err := encode(usr)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	return errors.Wrapf(s.client.Set(ctx, s.key, data, 0).Err(), "setting %s", s.key)
}

func (s *RedisStore) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	return errors.Wrapf(s.client.Del(ctx, s.key).Err(), "deleting %s", s.key)
}
