package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
)

const (
	fieldValue    = "value"
	fieldRevision = "revision"
)

// Redis stores each key as a hash {value, revision} under namespace:key.
type Redis struct {
	client    *redis.Client
	namespace string
}

func NewRedis(client *redis.Client, namespace string) *Redis {
	return &Redis{client: client, namespace: namespace}
}

func (r *Redis) key(k string) string {
	if r.namespace == "" {
		return k
	}
	return r.namespace + ":" + k
}

func (r *Redis) Load(ctx context.Context, key string) ([]byte, int64, error) {
	vals, err := r.client.HMGet(ctx, r.key(key), fieldValue, fieldRevision).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("load %s: %w", key, err)
	}
	data, ok := vals[0].(string)
	if !ok {
		return nil, 0, nil
	}
	rev, err := parseRevision(vals[1])
	if err != nil {
		return nil, 0, fmt.Errorf("load %s: %w", key, err)
	}
	return []byte(data), rev, nil
}

func (r *Redis) Save(ctx context.Context, key string, data []byte, expectedRev int64) (int64, error) {
	k := r.key(key)
	var newRev int64

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.HGet(ctx, k, fieldRevision).Result()
		if err != nil && err != redis.Nil {
			return err
		}
		rev, err := parseRevision(cur)
		if err != nil {
			return err
		}
		if rev != expectedRev {
			return ErrRevisionConflict
		}
		newRev = rev + 1

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, k, fieldValue, data, fieldRevision, newRev)
			return nil
		})
		return err
	}, k)

	switch {
	case err == nil:
		return newRev, nil
	case errors.Is(err, redis.TxFailedErr), errors.Is(err, ErrRevisionConflict):
		return 0, ErrRevisionConflict
	default:
		return 0, fmt.Errorf("save %s: %w", key, err)
	}
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func parseRevision(v interface{}) (int64, error) {
	s, _ := v.(string)
	if s == "" {
		return 0, nil
	}
	rev, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad revision %q: %w", s, err)
	}
	return rev, nil
}
