package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Fixed keys the application state lives under.
const (
	SnapshotKey = "disaster-relief-data"
	ChatKey     = "ai.assistant.chat.v2"
)

var ErrNotFound = errors.New("key not found")

// Store is a durable key-value store holding one JSON blob per key.
// Save overwrites the whole value; there are no partial writes.
// List returns the keys starting with prefix in no particular order.
// Deleting a missing key is not an error.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

type Backend string

const (
	BackendFile      Backend = "file"
	BackendRedis     Backend = "redis"
	BackendFirestore Backend = "firestore"
	BackendMemory    Backend = "memory"
)

type Options struct {
	Backend Backend
	// file
	DataDir string
	// redis
	RedisURL string
	// firestore, base64 encoded service account JSON
	FirebaseCredentials string
	FirestoreCollection string
}

// Open returns the store selected by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	backend := Backend(strings.ToLower(string(opts.Backend)))
	switch backend {
	case BackendFile, "":
		return NewFileStore(opts.DataDir)
	case BackendRedis:
		return NewRedisStore(ctx, opts.RedisURL)
	case BackendFirestore:
		return NewFirestoreStore(ctx, opts.FirebaseCredentials, opts.FirestoreCollection)
	case BackendMemory:
		logrus.Warn("Using in-memory store, state will not survive a restart")
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
