package vectordb

import "context"

// Backend is the narrow capability set the access layer needs from a vector
// database. Implementations must be safe for concurrent use; the connection
// manager shares one instance across all in-flight operations.
//
// Implementations return raw failures. Callers route them through Translate.
// Backends that are not gRPC based signal categories with the Err* category
// sentinels (ErrBackendNotFound, ErrBackendConflict, ...).
type Backend interface {
	// ListCollections returns the names of all collections.
	ListCollections(ctx context.Context) ([]string, error)

	// CollectionExists reports whether a collection with the given name exists.
	CollectionExists(ctx context.Context, name string) (bool, error)

	// GetCollection returns the live descriptor of a collection.
	GetCollection(ctx context.Context, name string) (Collection, error)

	// CreateCollection creates a collection.
	CreateCollection(ctx context.Context, spec CollectionSpec) error

	// DeleteCollection drops a collection and all of its points.
	DeleteCollection(ctx context.Context, name string) error

	// Upsert writes points and returns only after the write is acknowledged.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Retrieve returns the subset of ids that exist. Missing ids are omitted.
	Retrieve(ctx context.Context, collection string, ids []PointID, withPayload, withVector bool) ([]Point, error)

	// Delete removes points by id. Unknown ids are ignored.
	Delete(ctx context.Context, collection string, ids []PointID) error

	// Search returns hits ordered by descending score, at most params.Limit.
	Search(ctx context.Context, collection string, params SearchParams) ([]ScoredPoint, error)

	// Close releases the underlying connection.
	Close() error
}

// Connector hands out the shared backend. *connection.Manager implements it.
type Connector interface {
	// RequireConnection returns the live backend or a not_initialized error.
	RequireConnection() (Backend, error)

	// Scope returns the translation scope for an operation on collection.
	Scope(collection string) Scope
}
