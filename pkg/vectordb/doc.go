// Package vectordb holds the backend-agnostic vocabulary of the access layer.
//
// # Overview
//
// Every component of the access layer (connection manager, collection
// registry, point store, query engine and health monitor) talks to the
// vector database only through the narrow [Backend] capability interface
// defined here. Concrete backends live in their own packages:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  collections / points / search / health                     │
//	│  (depend on vectordb.Backend, no backend-specific imports)  │
//	└──────────────────────────┬──────────────────────────────────┘
//	                           │
//	                           ▼
//	┌─────────────────────────────────────────────────────────────┐
//	│                    vectordb.Backend                         │
//	│      (capability interface + DB-agnostic types + errors)    │
//	└──────────────────────────┬──────────────────────────────────┘
//	                           │
//	              ┌────────────┴────────────┐
//	              ▼                         ▼
//	      ┌───────────────┐         ┌────────────────┐
//	      │ qdrant.Backend│         │localstore.Store│
//	      │ (server/cloud)│         │  (local path)  │
//	      └───────────────┘         └────────────────┘
//
// # Error Taxonomy
//
// Failures surface as *[Error] values with a fixed [Kind]. Each kind maps
// to exactly one HTTP status:
//
//	| Kind                      | Code                       | Status |
//	|---------------------------|----------------------------|--------|
//	| KindNotInitialized        | not_initialized            | 503    |
//	| KindConnection            | qdrant_connection_error    | 503    |
//	| KindCollectionNotFound    | collection_not_found       | 404    |
//	| KindCollectionExists      | collection_already_exists  | 409    |
//	| KindVectorSizeMismatch    | vector_size_mismatch       | 422    |
//	| KindBatchSizeInvalid      | batch_size_invalid         | 400    |
//	| KindValidation            | validation_error           | 422    |
//
// Backend-originated failures are routed through [Translate]. Anything it
// cannot classify is returned unchanged so the boundary can map it to a
// generic server error.
//
// Matching works with the standard library:
//
//	if errors.Is(err, vectordb.ErrCollectionNotFound) {
//	    // 404
//	}
//
//	var verr *vectordb.Error
//	if errors.As(err, &verr) {
//	    w.WriteHeader(verr.Status())
//	    _ = json.NewEncoder(w).Encode(verr.Response())
//	}
package vectordb
