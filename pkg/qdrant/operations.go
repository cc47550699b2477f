package qdrant

import (
	"context"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/vectordb"
)

// ListCollections implements vectordb.Backend.
func (b *Backend) ListCollections(ctx context.Context) ([]string, error) {
	return b.api.ListCollections(ctx)
}

// CollectionExists implements vectordb.Backend.
func (b *Backend) CollectionExists(ctx context.Context, name string) (bool, error) {
	return b.api.CollectionExists(ctx, name)
}

// GetCollection implements vectordb.Backend.
func (b *Backend) GetCollection(ctx context.Context, name string) (vectordb.Collection, error) {
	info, err := b.api.GetCollectionInfo(ctx, name)
	if err != nil {
		return vectordb.Collection{}, err
	}
	return fromCollectionInfo(name, info), nil
}

// CreateCollection implements vectordb.Backend.
func (b *Backend) CreateCollection(ctx context.Context, spec vectordb.CollectionSpec) error {
	onDisk := spec.OnDisk
	return b.api.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: spec.Name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(spec.VectorSize),
			Distance: toDistance(spec.Distance),
			OnDisk:   &onDisk,
		}),
	})
}

// DeleteCollection implements vectordb.Backend.
func (b *Backend) DeleteCollection(ctx context.Context, name string) error {
	return b.api.DeleteCollection(ctx, name)
}

// Upsert implements vectordb.Backend. The call waits until the write is
// applied.
func (b *Backend) Upsert(ctx context.Context, collection string, points []vectordb.Point) error {
	structs := make([]*qdrant.PointStruct, 0, len(points))
	for _, p := range points {
		ps, err := toPointStruct(p)
		if err != nil {
			return err
		}
		structs = append(structs, ps)
	}

	wait := true
	_, err := b.api.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         structs,
		Wait:           &wait,
	})
	return err
}

// Retrieve implements vectordb.Backend. The id alias is always fetched so
// opaque string ids survive the round trip.
func (b *Backend) Retrieve(ctx context.Context, collection string, ids []vectordb.PointID, withPayload, withVector bool) ([]vectordb.Point, error) {
	found, err := b.api.Get(ctx, &qdrant.GetPoints{
		CollectionName: collection,
		Ids:            toPointIDs(ids),
		WithPayload:    payloadSelector(withPayload),
		WithVectors:    qdrant.NewWithVectors(withVector),
	})
	if err != nil {
		return nil, err
	}

	points := make([]vectordb.Point, 0, len(found))
	for _, r := range found {
		p := vectordb.Point{ID: fromPointID(r.GetId(), r.GetPayload())}
		if withPayload {
			p.Payload = fromPayload(r.GetPayload())
		}
		if withVector {
			p.Vector = extractVector(r.GetVectors())
		}
		points = append(points, p)
	}
	return points, nil
}

// Delete implements vectordb.Backend.
func (b *Backend) Delete(ctx context.Context, collection string, ids []vectordb.PointID) error {
	wait := true
	_, err := b.api.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Wait:           &wait,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{Ids: toPointIDs(ids)},
			},
		},
	})
	return err
}

// Search implements vectordb.Backend. Ordering and the score threshold are
// applied by the server.
func (b *Backend) Search(ctx context.Context, collection string, params vectordb.SearchParams) ([]vectordb.ScoredPoint, error) {
	limit := uint64(params.Limit)

	found, err := b.api.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(params.Vector...),
		Limit:          &limit,
		ScoreThreshold: params.ScoreThreshold,
		Filter:         toFilter(params.Filter),
		WithPayload:    payloadSelector(params.WithPayload),
		WithVectors:    qdrant.NewWithVectors(params.WithVector),
	})
	if err != nil {
		return nil, err
	}

	hits := make([]vectordb.ScoredPoint, 0, len(found))
	for _, r := range found {
		hit := vectordb.ScoredPoint{
			ID:    fromPointID(r.GetId(), r.GetPayload()),
			Score: r.GetScore(),
		}
		if params.WithPayload {
			hit.Payload = fromPayload(r.GetPayload())
		}
		if params.WithVector {
			hit.Vector = extractVector(r.GetVectors())
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// payloadSelector returns the full payload, or only the id alias.
func payloadSelector(full bool) *qdrant.WithPayloadSelector {
	if full {
		return qdrant.NewWithPayload(true)
	}
	return &qdrant.WithPayloadSelector{
		SelectorOptions: &qdrant.WithPayloadSelector_Include{
			Include: &qdrant.PayloadIncludeSelector{Fields: []string{PointIDKey}},
		},
	}
}
