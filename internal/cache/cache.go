package cache

import (
	"context"
	"time"
)

// ReferenceTTL bounds how long geo and profession lists stay cached.
const ReferenceTTL = 10 * time.Minute

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	// DelPrefix drops every key starting with prefix.
	DelPrefix(ctx context.Context, prefix string) error
}

// Noop never hits. Used when no Redis is configured.
type Noop struct{}

func (Noop) GetJSON(context.Context, string, any) (bool, error) { return false, nil }
func (Noop) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (Noop) Del(context.Context, ...string) error { return nil }
func (Noop) DelPrefix(context.Context, string) error { return nil }
