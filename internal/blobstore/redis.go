package blobstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/iqnite-app/iqnite-api/internal/apperror"
)

// Store holds base64 image blobs for questions. The relational schema only
// keeps the blob key; the payload itself lives here.
type Store interface {
	Put(ctx context.Context, id string, data string) error
	Get(ctx context.Context, id string) (string, error)
	Delete(ctx context.Context, id string) error
}

func MustConnect(addr, password string, db int) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(context.Background()).Err(); err != nil {
		panic(err)
	}
	return client
}

type redisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Put(ctx context.Context, id string, data string) error {
	if err := s.client.Set(ctx, key(id), data, 0).Err(); err != nil {
		return fmt.Errorf("%w: image store write failed", apperror.ErrUnavailable)
	}
	return nil
}

func (s *redisStore) Get(ctx context.Context, id string) (string, error) {
	data, err := s.client.Get(ctx, key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w: image %s", apperror.ErrNotFound, id)
	}
	if err != nil {
		return "", fmt.Errorf("%w: image store read failed", apperror.ErrUnavailable)
	}
	return data, nil
}

func (s *redisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("%w: image store delete failed", apperror.ErrUnavailable)
	}
	return nil
}

func key(id string) string {
	return "question:image:" + id
}
