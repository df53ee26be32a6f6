// Package storage provides the durable key-value capability used by the
// session stores and the guest language resolver. Components never touch the
// backing medium directly; they receive a Storage chosen at construction time.
package storage

import (
	"context"
	"errors"
	"fmt"

	json "github.com/json-iterator/go"
)

// Driver identifiers accepted by Open.
const (
	DriverNone   = "none"
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
)

// ErrNotFound is returned by Get when the key has never been written or was removed.
var ErrNotFound = errors.New("storage: key not found")

// Storage reads and writes opaque values by key.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// Options configures Open.
type Options struct {
	Driver        string
	Dir           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Open creates a Storage for the configured driver.
func Open(ctx context.Context, opts Options) (Storage, error) {
	switch opts.Driver {
	case DriverNone:
		return Noop{}, nil
	case DriverMemory:
		return NewMemory(), nil
	case "", DriverFile:
		return NewFile(opts.Dir)
	case DriverRedis:
		return NewRedis(ctx, RedisOptions{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
			Prefix:   opts.RedisPrefix,
		})
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", opts.Driver)
	}
}

// Available reports whether s persists anything at all.
func Available(s Storage) bool {
	if s == nil {
		return false
	}
	_, noop := s.(Noop)
	return !noop
}

// GetJSON decodes the value stored under key into v.
func GetJSON(ctx context.Context, s Storage, key string, v interface{}) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("storage: decode %s: %w", key, err)
	}
	return nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, s Storage, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", key, err)
	}
	return s.Set(ctx, key, data)
}
