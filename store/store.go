package store

import "context"

/**
 * Store keeps node trace records of runs, grouped by prefix.
 * It is an audit trail for inspection and rendering, runs are never resumed from it.
 */
type Store interface {
	Get(ctx context.Context, prefix, key string) ([]byte, error)
	Set(ctx context.Context, prefix, key string, value []byte) error
	/**
	 * Remove a prefix and key
	 * remove an unexists prefix + key would NOT return error
	 */
	Remove(ctx context.Context, prefix, key string) error

	List(ctx context.Context, prefix string, iterator func(key string) bool) error

	Close() error
}
