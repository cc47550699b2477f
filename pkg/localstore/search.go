package localstore

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/vectordb"
)

// Search implements vectordb.Backend with an exhaustive scan.
func (s *Store) Search(ctx context.Context, collection string, params vectordb.SearchParams) ([]vectordb.ScoredPoint, error) {
	row, err := s.collection(ctx, s.db, collection)
	if err != nil {
		return nil, err
	}
	if len(params.Vector) != row.vectorSize {
		return nil, fmt.Errorf("wrong input: vector dimension error: expected dim: %d, got %d: %w",
			row.vectorSize, len(params.Vector), vectordb.ErrBackendInvalid)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, vector, payload FROM points WHERE collection = ?`, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lowerIsBetter := row.distance == vectordb.DistanceEuclid
	hits := []vectordb.ScoredPoint{}
	for rows.Next() {
		var (
			key     string
			blob    []byte
			raw     sql.NullString
			payload map[string]any
		)
		if err := rows.Scan(&key, &blob, &raw); err != nil {
			return nil, err
		}

		if !params.Filter.IsEmpty() || params.WithPayload {
			if payload, err = decodePayload(raw.String); err != nil {
				return nil, err
			}
		}
		if !matches(payload, params.Filter) {
			continue
		}

		stored := decodeFloat32s(blob)
		score := similarity(row.distance, params.Vector, stored)
		if params.ScoreThreshold != nil {
			t := *params.ScoreThreshold
			if (lowerIsBetter && score > t) || (!lowerIsBetter && score < t) {
				continue
			}
		}

		hit := vectordb.ScoredPoint{ID: decodeID(key), Score: score}
		if params.WithPayload {
			hit.Payload = payload
		}
		if params.WithVector {
			hit.Vector = stored
		}
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if lowerIsBetter {
			return hits[i].Score < hits[j].Score
		}
		return hits[i].Score > hits[j].Score
	})
	if params.Limit > 0 && len(hits) > params.Limit {
		hits = hits[:params.Limit]
	}
	return hits, nil
}

func similarity(d vectordb.Distance, a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	switch d {
	case vectordb.DistanceDot:
		var dot float64
		for i := range a {
			dot += float64(a[i]) * float64(b[i])
		}
		return float32(dot)
	case vectordb.DistanceEuclid:
		var sum float64
		for i := range a {
			diff := float64(a[i]) - float64(b[i])
			sum += diff * diff
		}
		return float32(math.Sqrt(sum))
	default:
		var dot, normA, normB float64
		for i := range a {
			ai, bi := float64(a[i]), float64(b[i])
			dot += ai * bi
			normA += ai * ai
			normB += bi * bi
		}
		denom := math.Sqrt(normA) * math.Sqrt(normB)
		if denom == 0 {
			return 0
		}
		return float32(dot / denom)
	}
}

// matches applies the conjunction of equality conditions. Dotted field
// names address nested objects and an array field matches when any element
// equals the value, mirroring the server's payload matching.
func matches(payload map[string]any, f *vectordb.Filter) bool {
	if f.IsEmpty() {
		return true
	}
	for _, c := range f.Must {
		v, ok := lookup(payload, c.Field)
		if !ok || !valueMatches(v, c.Value) {
			return false
		}
	}
	return true
}

func lookup(payload map[string]any, field string) (any, bool) {
	if v, ok := payload[field]; ok {
		return v, true
	}
	head, rest, nested := strings.Cut(field, ".")
	if !nested {
		return nil, false
	}
	child, ok := payload[head].(map[string]any)
	if !ok {
		return nil, false
	}
	return lookup(child, rest)
}

func valueMatches(stored, want any) bool {
	if items, ok := stored.([]any); ok {
		for _, item := range items {
			if vectordb.ScalarEqual(item, want) {
				return true
			}
		}
		return false
	}
	return vectordb.ScalarEqual(stored, want)
}
