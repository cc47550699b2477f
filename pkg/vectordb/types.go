package vectordb

import (
	"strings"
)

// Limits enforced by the access layer before any backend call.
const (
	MinCollectionNameLength = 1
	MaxCollectionNameLength = 255

	MinVectorSize = 1
	MaxVectorSize = 65536

	MinBatchSize = 1
	MaxBatchSize = 1000

	DefaultSearchLimit = 10
	MinSearchLimit     = 1
	MaxSearchLimit     = 100
)

// Distance is the similarity metric of a collection.
type Distance string

const (
	DistanceCosine Distance = "Cosine"
	DistanceEuclid Distance = "Euclid"
	DistanceDot    Distance = "Dot"
)

// Distances lists the supported metrics in their canonical spelling.
var Distances = []Distance{DistanceCosine, DistanceEuclid, DistanceDot}

// ParseDistance resolves a metric name case-insensitively.
// "euclidean" is accepted as an alias of Euclid.
func ParseDistance(s string) (Distance, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cosine":
		return DistanceCosine, nil
	case "euclid", "euclidean":
		return DistanceEuclid, nil
	case "dot":
		return DistanceDot, nil
	}
	return "", Validation("unsupported distance metric", map[string]any{
		"distance":  s,
		"supported": Distances,
	})
}

// Collection describes a collection as currently reported by the backend.
type Collection struct {
	// Name is the unique identifier of the collection
	Name string `json:"name"`

	// VectorSize is the dimension every vector in the collection must have
	VectorSize int `json:"vector_size"`

	// Distance is the similarity metric (Cosine, Euclid, Dot)
	Distance Distance `json:"distance"`

	// OnDisk reports whether vectors are stored on disk instead of RAM
	OnDisk bool `json:"on_disk"`

	// Status is the backend health of the collection (green, yellow, red, grey)
	Status string `json:"status"`

	// VectorsCount is the number of indexed vectors
	VectorsCount uint64 `json:"vectors_count"`

	// PointsCount is the number of stored points
	PointsCount uint64 `json:"points_count"`
}

// CollectionSpec is the input for creating a collection.
type CollectionSpec struct {
	Name       string
	VectorSize int
	Distance   Distance
	OnDisk     bool
}

// Point is an identified vector with optional payload.
type Point struct {
	ID      PointID        `json:"id"`
	Vector  []float32      `json:"vector,omitempty"`
	Payload map[string]any `json:"payload"`
}

// ScoredPoint is a single search hit.
type ScoredPoint struct {
	ID      PointID        `json:"id"`
	Score   float32        `json:"score"`
	Payload map[string]any `json:"payload,omitempty"`
	Vector  []float32      `json:"vector,omitempty"`
}

// Condition is a single equality constraint on a payload field.
// Value is one of string, bool, int64 or float64.
type Condition struct {
	Field string
	Value any
}

// Filter is a conjunction of equality conditions. A nil or empty filter
// matches every point.
type Filter struct {
	Must []Condition
}

// IsEmpty reports whether the filter has no conditions.
func (f *Filter) IsEmpty() bool {
	return f == nil || len(f.Must) == 0
}

// SearchParams is a validated query handed to a Backend.
type SearchParams struct {
	Vector         []float32
	Limit          int
	ScoreThreshold *float32
	Filter         *Filter
	WithPayload    bool
	WithVector     bool
}

// FilterSpec is the caller-facing filter form: payload field to scalar
// value, ANDed. Values that are not string, bool, integer or float cannot
// be expressed as an equality condition.
type FilterSpec map[string]any
