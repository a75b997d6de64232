// Package ports defines the interfaces the application services depend
// on, keeping the storage and messaging implementations swappable.
package ports

import "context"

// Page is one page of a paginated query. LastKey is an opaque
// continuation token; empty when no further pages exist.
type Page struct {
	Items   []map[string]interface{}
	LastKey string
}

// Store is the key-value access layer over the single logical table.
// Items travel as attribute maps; absence is a nil item, not an error.
type Store interface {
	// PutItemIfAbsent conditionally creates an item, failing with a
	// Conflict error when the composite key already exists.
	PutItemIfAbsent(ctx context.Context, item map[string]interface{}) error

	// GetItem fetches an item by primary key, returning nil when absent.
	GetItem(ctx context.Context, pk, sk string) (map[string]interface{}, error)

	// DeleteItem removes an item unconditionally. Callers needing a
	// presence guarantee check existence first.
	DeleteItem(ctx context.Context, pk, sk string) error

	// UpdateItem applies a partial SET update and returns the post-update
	// item attributes.
	UpdateItem(ctx context.Context, pk, sk string, set map[string]interface{}) (map[string]interface{}, error)

	// QueryByPartition pages through a partition, optionally narrowed by
	// a sort-key prefix.
	QueryByPartition(ctx context.Context, pk, skPrefix string, limit int32, lastKey string) (*Page, error)

	// QueryGSI1 pages through the secondary index newest-first.
	QueryGSI1(ctx context.Context, gsi1pk string, limit int32, lastKey string) (*Page, error)
}

// EventPublisher emits entity lifecycle events, best effort
type EventPublisher interface {
	Publish(ctx context.Context, detailType string, detail interface{})
}
