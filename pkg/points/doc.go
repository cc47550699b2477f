// Package points writes, reads and deletes points of a collection.
//
// Every operation requires an initialized connection and routes backend
// failures through vectordb.Translate. Upserts are validated against the
// live collection descriptor before anything is sent to the backend:
//
//	n, err := store.Upsert(ctx, "docs", []vectordb.Point{
//		{ID: vectordb.NewStringID("p1"), Vector: []float32{0.1, 0.2, 0.3, 0.4}},
//	})
//	if vectordb.IsVectorSizeMismatch(err) {
//		// nothing was written
//	}
package points
