// Package kv is the durable key-value layer behind the product snapshot.
// Writes are unversioned: concurrent writers race and the last one wins.
package kv

import "context"

type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
