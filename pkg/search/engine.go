package search

import (
	"context"
	"time"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/observability"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/vectordb"
)

// Logger is the subset of *logger.Logger the engine writes to.
type Logger interface {
	Warn(msg string, err error, fields ...map[string]interface{})
}

// Query is a similarity search request. Limit must lie in [1, 100];
// ScoreThreshold, when set, in [0, 1].
type Query struct {
	Vector         []float32
	Limit          int
	ScoreThreshold *float32
	Filter         vectordb.FilterSpec
	WithPayload    bool
	WithVector     bool
}

// Result is the outcome of a search. Results keep the backend order,
// best first.
type Result struct {
	Results   []vectordb.ScoredPoint
	Total     int
	Limit     int
	QueryTime time.Duration

	// IgnoredFilterKeys lists filter entries that could not be expressed
	// as equality conditions and were dropped.
	IgnoredFilterKeys []string
}

// Engine executes searches. It is safe for concurrent use.
type Engine struct {
	conn   vectordb.Connector
	logger Logger
	inst   observability.Instrumentation
}

// NewEngine returns an Engine over conn. logger, tracer and observer may be
// nil.
func NewEngine(conn vectordb.Connector, logger Logger, tracer observability.Tracer, observer observability.Observer) *Engine {
	return &Engine{
		conn:   conn,
		logger: logger,
		inst:   observability.Instrumentation{Component: "search", Tracer: tracer, Observer: observer},
	}
}

// Search validates q against the collection and forwards it. The backend
// applies the threshold, sorts by score and truncates to the limit.
func (e *Engine) Search(ctx context.Context, collection string, q Query) (res Result, err error) {
	ctx, op := e.inst.Start(ctx, "search", collection)
	defer func() {
		op.Finish(err, int64(res.Total), map[string]interface{}{"limit": q.Limit})
	}()

	start := time.Now()

	backend, err := e.conn.RequireConnection()
	if err != nil {
		return res, err
	}
	scope := e.conn.Scope(collection)

	c, err := backend.GetCollection(ctx, collection)
	if err != nil {
		return res, vectordb.Translate(err, scope)
	}
	if len(q.Vector) != c.VectorSize {
		return res, vectordb.VectorSizeMismatch(collection, c.VectorSize, len(q.Vector))
	}
	if err := vectordb.ValidateSearchLimit(q.Limit); err != nil {
		return res, err
	}
	if err := vectordb.ValidateScoreThreshold(q.ScoreThreshold); err != nil {
		return res, err
	}

	filter, ignored := TranslateFilter(q.Filter)
	if len(ignored) > 0 && e.logger != nil {
		e.logger.Warn("dropping non-scalar filter values", nil, map[string]interface{}{
			"collection": collection,
			"keys":       ignored,
		})
	}

	hits, err := backend.Search(ctx, collection, vectordb.SearchParams{
		Vector:         q.Vector,
		Limit:          q.Limit,
		ScoreThreshold: q.ScoreThreshold,
		Filter:         filter,
		WithPayload:    q.WithPayload,
		WithVector:     q.WithVector,
	})
	if err != nil {
		return res, vectordb.Translate(err, scope)
	}
	if hits == nil {
		hits = []vectordb.ScoredPoint{}
	}

	return Result{
		Results:           hits,
		Total:             len(hits),
		Limit:             q.Limit,
		QueryTime:         time.Since(start),
		IgnoredFilterKeys: ignored,
	}, nil
}
