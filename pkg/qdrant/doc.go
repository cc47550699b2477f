// Package qdrant implements vectordb.Backend on the official Qdrant gRPC
// client (github.com/qdrant/go-client). It serves the "server" and "cloud"
// connection modes.
//
// The backend is deliberately thin: it converts types and forwards calls.
// Validation happens in the access-layer components and raw gRPC failures
// are classified by vectordb.Translate.
//
// Point ids:
//
// Qdrant only accepts unsigned integers and UUIDs. Other string ids are
// mapped to a deterministic UUIDv5 and the caller's id is stored in the
// payload under PointIDKey. Reads restore the original id and strip the
// key, so callers never see it.
//
// Filters:
//
// Each equality condition becomes a Must clause: keyword match for
// strings, integer match for integers, bool match for booleans and a
// closed range [v, v] for floats.
//
// Timeouts:
//
// Options.Timeout installs a unary interceptor that bounds every call
// without its own deadline. There are no retries.
//
//	b, err := qdrant.New(qdrant.Options{Host: "localhost", Port: 6334, Timeout: 30 * time.Second})
//	if err != nil {
//		return err
//	}
//	defer b.Close()
//	names, err := b.ListCollections(ctx)
package qdrant
