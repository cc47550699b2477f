package collections

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/observability"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/vectordb"
)

// listConcurrency bounds parallel descriptor fetches in List.
const listConcurrency = 8

// CreateRequest describes a collection to create. An empty Distance means
// Cosine.
type CreateRequest struct {
	Name       string `json:"name"`
	VectorSize int    `json:"vector_size"`
	Distance   string `json:"distance"`
	OnDisk     bool   `json:"on_disk"`
}

// Registry manages collection lifecycle. It keeps no local state; every
// answer comes from the backend.
type Registry struct {
	conn vectordb.Connector
	inst observability.Instrumentation
}

// NewRegistry returns a registry over conn. tracer and observer may be nil.
func NewRegistry(conn vectordb.Connector, tracer observability.Tracer, observer observability.Observer) *Registry {
	return &Registry{
		conn: conn,
		inst: observability.Instrumentation{Component: "collections", Tracer: tracer, Observer: observer},
	}
}

// Exists reports whether name exists.
func (r *Registry) Exists(ctx context.Context, name string) (exists bool, err error) {
	ctx, op := r.inst.Start(ctx, "exists", name)
	defer func() { op.Finish(err, 0, nil) }()

	backend, err := r.conn.RequireConnection()
	if err != nil {
		return false, err
	}
	exists, err = backend.CollectionExists(ctx, name)
	return exists, vectordb.Translate(err, r.conn.Scope(name))
}

// Create validates req, refuses existing names and returns the live
// descriptor of the new collection.
func (r *Registry) Create(ctx context.Context, req CreateRequest) (c vectordb.Collection, err error) {
	ctx, op := r.inst.Start(ctx, "create", req.Name)
	defer func() { op.Finish(err, 0, map[string]interface{}{"vector_size": req.VectorSize}) }()

	backend, err := r.conn.RequireConnection()
	if err != nil {
		return c, err
	}
	spec, err := req.spec()
	if err != nil {
		return c, err
	}
	scope := r.conn.Scope(req.Name)

	exists, err := backend.CollectionExists(ctx, spec.Name)
	if err != nil {
		return c, vectordb.Translate(err, scope)
	}
	if exists {
		return c, vectordb.CollectionAlreadyExists(spec.Name)
	}

	if err := backend.CreateCollection(ctx, spec); err != nil {
		return c, vectordb.Translate(err, scope)
	}
	c, err = backend.GetCollection(ctx, spec.Name)
	return c, vectordb.Translate(err, scope)
}

func (req CreateRequest) spec() (vectordb.CollectionSpec, error) {
	if err := vectordb.ValidateCollectionName(req.Name); err != nil {
		return vectordb.CollectionSpec{}, err
	}
	if err := vectordb.ValidateVectorSize(req.VectorSize); err != nil {
		return vectordb.CollectionSpec{}, err
	}
	distance := vectordb.DistanceCosine
	if req.Distance != "" {
		d, err := vectordb.ParseDistance(req.Distance)
		if err != nil {
			return vectordb.CollectionSpec{}, err
		}
		distance = d
	}
	return vectordb.CollectionSpec{
		Name:       req.Name,
		VectorSize: req.VectorSize,
		Distance:   distance,
		OnDisk:     req.OnDisk,
	}, nil
}

// Delete drops name and all of its points.
func (r *Registry) Delete(ctx context.Context, name string) (err error) {
	ctx, op := r.inst.Start(ctx, "delete", name)
	defer func() { op.Finish(err, 0, nil) }()

	backend, err := r.conn.RequireConnection()
	if err != nil {
		return err
	}
	scope := r.conn.Scope(name)

	exists, err := backend.CollectionExists(ctx, name)
	if err != nil {
		return vectordb.Translate(err, scope)
	}
	if !exists {
		return vectordb.CollectionNotFound(name)
	}
	return vectordb.Translate(backend.DeleteCollection(ctx, name), scope)
}

// Get returns the live descriptor of name.
func (r *Registry) Get(ctx context.Context, name string) (c vectordb.Collection, err error) {
	ctx, op := r.inst.Start(ctx, "get", name)
	defer func() { op.Finish(err, 0, nil) }()

	backend, err := r.conn.RequireConnection()
	if err != nil {
		return c, err
	}
	return r.get(ctx, backend, name)
}

func (r *Registry) get(ctx context.Context, backend vectordb.Backend, name string) (vectordb.Collection, error) {
	scope := r.conn.Scope(name)
	exists, err := backend.CollectionExists(ctx, name)
	if err != nil {
		return vectordb.Collection{}, vectordb.Translate(err, scope)
	}
	if !exists {
		return vectordb.Collection{}, vectordb.CollectionNotFound(name)
	}
	c, err := backend.GetCollection(ctx, name)
	if err != nil {
		return vectordb.Collection{}, vectordb.Translate(err, scope)
	}
	return c, nil
}

// List returns the descriptors of all collections in backend order.
// Descriptors are fetched concurrently; a collection dropped between the
// listing and its fetch is skipped.
func (r *Registry) List(ctx context.Context) (out []vectordb.Collection, err error) {
	ctx, op := r.inst.Start(ctx, "list", "")
	defer func() { op.Finish(err, int64(len(out)), nil) }()

	backend, err := r.conn.RequireConnection()
	if err != nil {
		return nil, err
	}
	names, err := backend.ListCollections(ctx)
	if err != nil {
		return nil, vectordb.Translate(err, r.conn.Scope(""))
	}

	found := make([]*vectordb.Collection, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listConcurrency)
	for i, name := range names {
		g.Go(func() error {
			c, err := backend.GetCollection(gctx, name)
			if err != nil {
				err = vectordb.Translate(err, r.conn.Scope(name))
				if vectordb.IsNotFound(err) {
					return nil
				}
				return err
			}
			found[i] = &c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out = make([]vectordb.Collection, 0, len(names))
	for _, c := range found {
		if c != nil {
			out = append(out, *c)
		}
	}
	return out, nil
}

// Ensure creates req.Name when it is missing and returns its descriptor.
// created reports whether this call created it. An existing collection is
// returned as is, even if its parameters differ from req.
func (r *Registry) Ensure(ctx context.Context, req CreateRequest) (c vectordb.Collection, created bool, err error) {
	c, err = r.Create(ctx, req)
	if err == nil {
		return c, true, nil
	}
	if !vectordb.IsAlreadyExists(err) {
		return c, false, err
	}
	c, err = r.Get(ctx, req.Name)
	return c, false, err
}
