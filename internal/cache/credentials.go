package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Credentials stores one bearer token per browsing context under
// <prefix>credential:<context id>. Keys expire with the token.
type Credentials struct {
	client *redis.Client
	prefix string
}

func NewCredentials(client *redis.Client, prefix string) *Credentials {
	return &Credentials{client: client, prefix: prefix}
}

func (c *Credentials) key(contextID string) string {
	return c.prefix + "credential:" + contextID
}

func (c *Credentials) Get(ctx context.Context, contextID string) (string, error) {
	token, err := c.client.Get(ctx, c.key(contextID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get credential: %w", err)
	}
	return token, nil
}

func (c *Credentials) Set(ctx context.Context, contextID string, token string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(contextID), token, ttl).Err(); err != nil {
		return fmt.Errorf("set credential: %w", err)
	}
	return nil
}

func (c *Credentials) Delete(ctx context.Context, contextID string) error {
	if err := c.client.Del(ctx, c.key(contextID)).Err(); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}
