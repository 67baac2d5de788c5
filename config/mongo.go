package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/singleflight"
)

// MongoManager owns the shared client. The driver connects lazily, so the
// client exists from the first Connect on; ready flips once a ping
// succeeds and the OnReady hook returned nil. Concurrent Connect calls
// share one dial.
type MongoManager struct {
	uri    string
	dbName string

	mu      sync.RWMutex
	client  *mongo.Client
	ready   bool
	group   singleflight.Group
	onReady func(context.Context, *mongo.Database) error
}

func NewMongoManager(uri, dbName string) *MongoManager {
	return &MongoManager{uri: uri, dbName: dbName}
}

// OnReady registers fn to run before the manager first reports ready.
// A failing fn keeps the manager not ready, so the next Connect runs it
// again.
func (m *MongoManager) OnReady(fn func(context.Context, *mongo.Database) error) {
	m.mu.Lock()
	m.onReady = fn
	m.mu.Unlock()
}

// Connect returns the database once the server answered a ping. A failed
// ping keeps the client so later calls retry on the same pool.
func (m *MongoManager) Connect(ctx context.Context) (*mongo.Database, error) {
	m.mu.RLock()
	ready, client := m.ready, m.client
	m.mu.RUnlock()
	if ready {
		return client.Database(m.dbName), nil
	}
	if m.uri == "" {
		return nil, ErrMissingMongoURI
	}

	_, err, _ := m.group.Do("connect", func() (any, error) {
		return nil, m.dial(ctx)
	})
	if err != nil {
		return nil, err
	}
	return m.Database(), nil
}

func (m *MongoManager) dial(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	m.mu.Lock()
	if m.ready {
		m.mu.Unlock()
		return nil
	}
	if m.client == nil {
		// timeouts in the URI win over these defaults
		clientOpts := options.Client().
			SetServerSelectionTimeout(20 * time.Second).
			SetConnectTimeout(15 * time.Second).
			SetMaxPoolSize(10).
			SetMinPoolSize(1).
			ApplyURI(m.uri)

		client, err := mongo.Connect(ctx, clientOpts)
		if err != nil {
			m.mu.Unlock()
			return fmt.Errorf("mongo connect: %w", err)
		}
		m.client = client
	}
	client, hook := m.client, m.onReady
	m.mu.Unlock()

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongo unreachable: %w", err)
	}
	if hook != nil {
		if err := hook(ctx, client.Database(m.dbName)); err != nil {
			return fmt.Errorf("mongo on ready: %w", err)
		}
	}

	m.mu.Lock()
	m.ready = true
	m.mu.Unlock()
	return nil
}

// KeepConnecting retries Connect every interval until the manager is ready
// or ctx ends. onErr receives each failed attempt.
func (m *MongoManager) KeepConnecting(ctx context.Context, every time.Duration, onErr func(error)) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for !m.Ready() {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if _, err := m.Connect(ctx); err != nil && onErr != nil && ctx.Err() == nil {
			onErr(err)
		}
	}
}

// Database returns the configured database, or nil before the first Connect.
func (m *MongoManager) Database() *mongo.Database {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.client == nil {
		return nil
	}
	return m.client.Database(m.dbName)
}

func (m *MongoManager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ready
}

func (m *MongoManager) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	c := m.client
	m.client, m.ready = nil, false
	m.mu.Unlock()
	if c == nil {
		return nil
	}
	return c.Disconnect(ctx)
}
