package points

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/observability"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/vectordb"
)

// Store is the point access layer. It is safe for concurrent use.
type Store struct {
	conn vectordb.Connector
	inst observability.Instrumentation
}

// NewStore returns a Store over conn. tracer and observer may be nil.
func NewStore(conn vectordb.Connector, tracer observability.Tracer, observer observability.Observer) *Store {
	return &Store{
		conn: conn,
		inst: observability.Instrumentation{Component: "points", Tracer: tracer, Observer: observer},
	}
}

// Upsert writes a batch of 1 to 1000 points and returns how many were
// written. Vectors are checked against the collection's size first; on the
// first mismatch nothing is written.
func (s *Store) Upsert(ctx context.Context, collection string, points []vectordb.Point) (n int, err error) {
	ctx, op := s.inst.Start(ctx, "upsert_batch", collection)
	defer func() { op.Finish(err, int64(n), map[string]interface{}{"batch_size": len(points)}) }()

	return s.upsert(ctx, collection, points)
}

// UpsertOne writes a single point and returns it as stored.
func (s *Store) UpsertOne(ctx context.Context, collection string, point vectordb.Point) (p vectordb.Point, err error) {
	ctx, op := s.inst.Start(ctx, "upsert", collection)
	op.WithSubResource(point.ID.String())

	var n int
	defer func() { op.Finish(err, int64(n), nil) }()

	if n, err = s.upsert(ctx, collection, []vectordb.Point{point}); err != nil {
		return vectordb.Point{}, err
	}
	point.Payload = vectordb.NormalizePayload(point.Payload)
	return point, nil
}

func (s *Store) upsert(ctx context.Context, collection string, points []vectordb.Point) (int, error) {
	backend, err := s.conn.RequireConnection()
	if err != nil {
		return 0, err
	}
	if len(points) < vectordb.MinBatchSize || len(points) > vectordb.MaxBatchSize {
		return 0, vectordb.BatchSizeInvalid(len(points))
	}
	for i, p := range points {
		if err := vectordb.ValidatePointID(p.ID); err != nil {
			return 0, withIndex(err, i)
		}
		if err := vectordb.ValidatePayload(p.Payload); err != nil {
			return 0, withIndex(err, i)
		}
	}

	scope := s.conn.Scope(collection)
	c, err := backend.GetCollection(ctx, collection)
	if err != nil {
		return 0, vectordb.Translate(err, scope)
	}

	batch := make([]vectordb.Point, len(points))
	for i, p := range points {
		if len(p.Vector) != c.VectorSize {
			return 0, vectordb.VectorSizeMismatch(collection, c.VectorSize, len(p.Vector))
		}
		batch[i] = vectordb.Point{
			ID:      p.ID,
			Vector:  p.Vector,
			Payload: vectordb.NormalizePayload(p.Payload),
		}
	}

	if err := backend.Upsert(ctx, collection, batch); err != nil {
		return 0, vectordb.Translate(err, scope)
	}
	return len(batch), nil
}

// Get returns the point with the given id. found is false, with a nil
// error, when the collection has no such point.
func (s *Store) Get(ctx context.Context, collection string, id vectordb.PointID, withVector bool) (p vectordb.Point, found bool, err error) {
	ctx, op := s.inst.Start(ctx, "get", collection)
	op.WithSubResource(id.String())
	defer func() {
		op.Finish(err, boolSize(found), map[string]interface{}{"found": found})
	}()

	return s.get(ctx, collection, []vectordb.PointID{id}, withVector)
}

// Lookup returns the point addressed by raw text such as a URL path
// segment. All-digit text can name a numeric or a string id; both are
// fetched in one round-trip and the numeric id wins when both exist.
func (s *Store) Lookup(ctx context.Context, collection, raw string, withVector bool) (p vectordb.Point, found bool, err error) {
	ctx, op := s.inst.Start(ctx, "get", collection)
	op.WithSubResource(raw)
	defer func() {
		op.Finish(err, boolSize(found), map[string]interface{}{"found": found})
	}()

	return s.get(ctx, collection, vectordb.ParsePointIDs(raw), withVector)
}

// get retrieves the candidates and returns the first one, in candidate
// order, that exists.
func (s *Store) get(ctx context.Context, collection string, candidates []vectordb.PointID, withVector bool) (vectordb.Point, bool, error) {
	backend, err := s.conn.RequireConnection()
	if err != nil {
		return vectordb.Point{}, false, err
	}
	for _, id := range candidates {
		if err := vectordb.ValidatePointID(id); err != nil {
			return vectordb.Point{}, false, err
		}
	}

	got, err := backend.Retrieve(ctx, collection, candidates, true, withVector)
	if err != nil {
		return vectordb.Point{}, false, vectordb.Translate(err, s.conn.Scope(collection))
	}
	for _, id := range candidates {
		for _, p := range got {
			if p.ID == id {
				return p, true, nil
			}
		}
	}
	return vectordb.Point{}, false, nil
}

// Delete removes the given ids and returns the number requested. Unknown
// ids are not reported. An empty id list is a no-op.
func (s *Store) Delete(ctx context.Context, collection string, ids []vectordb.PointID) (n int, err error) {
	ctx, op := s.inst.Start(ctx, "delete", collection)
	defer func() { op.Finish(err, int64(n), nil) }()

	backend, err := s.conn.RequireConnection()
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if len(ids) > vectordb.MaxBatchSize {
		return 0, vectordb.BatchSizeInvalid(len(ids))
	}
	for i, id := range ids {
		if err := vectordb.ValidatePointID(id); err != nil {
			return 0, withIndex(err, i)
		}
	}

	if err := backend.Delete(ctx, collection, ids); err != nil {
		return 0, vectordb.Translate(err, s.conn.Scope(collection))
	}
	return len(ids), nil
}

// withIndex adds the offending position to a validation error.
func withIndex(err error, i int) error {
	var e *vectordb.Error
	if !errors.As(err, &e) {
		return err
	}
	details := map[string]any{"index": i}
	for k, v := range e.Details {
		details[k] = v
	}
	return vectordb.Validation(fmt.Sprintf("%s (index %d)", e.Message, i), details)
}

func boolSize(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
