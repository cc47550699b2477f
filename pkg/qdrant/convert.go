package qdrant

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/vectordb"
)

// PointIDKey is the reserved payload key that keeps the caller's id when
// it is neither an unsigned integer nor a UUID. Qdrant accepts only those
// two id forms.
const PointIDKey = vectordb.ReservedPayloadKey

// pointIDNamespace seeds the UUIDv5 derived from opaque string ids.
var pointIDNamespace = uuid.MustParse("6f1c2f43-4a8e-5d8b-9f3e-2b7c1e0d9a41")

// toPointID maps an id onto Qdrant. alias is non-empty when the original
// id must be kept in the payload.
func toPointID(id vectordb.PointID) (pid *qdrant.PointId, alias string) {
	if id.IsNumeric() {
		return qdrant.NewIDNum(id.Num()), ""
	}
	s := id.String()
	if u, err := uuid.Parse(s); err == nil && u.String() == s {
		return qdrant.NewID(s), ""
	}
	return qdrant.NewID(uuid.NewSHA1(pointIDNamespace, []byte(s)).String()), s
}

func toPointIDs(ids []vectordb.PointID) []*qdrant.PointId {
	out := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		out[i], _ = toPointID(id)
	}
	return out
}

// fromPointID restores the caller's id, preferring the payload alias.
func fromPointID(pid *qdrant.PointId, payload map[string]*qdrant.Value) vectordb.PointID {
	if v, ok := payload[PointIDKey]; ok {
		if s := v.GetStringValue(); s != "" {
			return vectordb.NewStringID(s)
		}
	}
	switch v := pid.GetPointIdOptions().(type) {
	case *qdrant.PointId_Num:
		return vectordb.NewNumericID(v.Num)
	case *qdrant.PointId_Uuid:
		return vectordb.NewStringID(v.Uuid)
	}
	return vectordb.PointID{}
}

func toPointStruct(p vectordb.Point) (*qdrant.PointStruct, error) {
	if _, reserved := p.Payload[PointIDKey]; reserved {
		return nil, fmt.Errorf("wrong input: payload key %q is reserved: %w", PointIDKey, vectordb.ErrBackendInvalid)
	}

	pid, alias := toPointID(p.ID)
	payload := p.Payload
	if alias != "" {
		payload = make(map[string]any, len(p.Payload)+1)
		for k, v := range p.Payload {
			payload[k] = v
		}
		payload[PointIDKey] = alias
	}

	values, err := qdrant.TryValueMap(payload)
	if err != nil {
		return nil, fmt.Errorf("wrong input: payload of point %s: %v: %w", p.ID, err, vectordb.ErrBackendInvalid)
	}
	return &qdrant.PointStruct{
		Id:      pid,
		Vectors: qdrant.NewVectors(p.Vector...),
		Payload: values,
	}, nil
}

// fromPayload converts a Qdrant payload, dropping the reserved id key.
func fromPayload(payload map[string]*qdrant.Value) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		if k == PointIDKey {
			continue
		}
		out[k] = extractValue(v)
	}
	return out
}

func extractValue(v *qdrant.Value) any {
	if v == nil {
		return nil
	}
	switch val := v.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_StructValue:
		if val.StructValue == nil {
			return nil
		}
		return fromPayload(val.StructValue.GetFields())
	case *qdrant.Value_ListValue:
		if val.ListValue == nil {
			return nil
		}
		items := make([]any, len(val.ListValue.GetValues()))
		for i, item := range val.ListValue.GetValues() {
			items[i] = extractValue(item)
		}
		return items
	}
	return nil
}

func extractVector(v *qdrant.VectorsOutput) []float32 {
	return v.GetVector().GetData()
}

// toFilter converts the equality conjunction. Qdrant keeps integer and
// float payloads apart, so a whole float also matches the integer form.
func toFilter(f *vectordb.Filter) *qdrant.Filter {
	if f.IsEmpty() {
		return nil
	}
	conditions := make([]*qdrant.Condition, 0, len(f.Must))
	for _, c := range f.Must {
		if cond := toCondition(c); cond != nil {
			conditions = append(conditions, cond)
		}
	}
	if len(conditions) == 0 {
		return nil
	}
	return &qdrant.Filter{Must: conditions}
}

func toCondition(c vectordb.Condition) *qdrant.Condition {
	switch v := c.Value.(type) {
	case string:
		return qdrant.NewMatch(c.Field, v)
	case bool:
		return qdrant.NewMatchBool(c.Field, v)
	case int:
		return qdrant.NewMatchInt(c.Field, int64(v))
	case int32:
		return qdrant.NewMatchInt(c.Field, int64(v))
	case int64:
		return qdrant.NewMatchInt(c.Field, v)
	case uint:
		return unsignedCondition(c.Field, uint64(v))
	case uint32:
		return qdrant.NewMatchInt(c.Field, int64(v))
	case uint64:
		return unsignedCondition(c.Field, v)
	case float32:
		return floatCondition(c.Field, float64(v))
	case float64:
		return floatCondition(c.Field, v)
	}
	return nil
}

// unsignedCondition matches values beyond the int64 range as doubles;
// Qdrant stores no integer payload that large.
func unsignedCondition(field string, v uint64) *qdrant.Condition {
	if v > math.MaxInt64 {
		return floatCondition(field, float64(v))
	}
	return qdrant.NewMatchInt(field, int64(v))
}

func floatCondition(field string, v float64) *qdrant.Condition {
	eq := qdrant.NewRange(field, &qdrant.Range{Gte: &v, Lte: &v})
	if v != math.Trunc(v) || math.Abs(v) > math.MaxInt64 {
		return eq
	}
	return &qdrant.Condition{
		ConditionOneOf: &qdrant.Condition_Filter{
			Filter: &qdrant.Filter{Should: []*qdrant.Condition{eq, qdrant.NewMatchInt(field, int64(v))}},
		},
	}
}

func toDistance(d vectordb.Distance) qdrant.Distance {
	switch d {
	case vectordb.DistanceEuclid:
		return qdrant.Distance_Euclid
	case vectordb.DistanceDot:
		return qdrant.Distance_Dot
	default:
		return qdrant.Distance_Cosine
	}
}

func fromDistance(d qdrant.Distance) vectordb.Distance {
	switch d {
	case qdrant.Distance_Euclid:
		return vectordb.DistanceEuclid
	case qdrant.Distance_Dot:
		return vectordb.DistanceDot
	case qdrant.Distance_Cosine:
		return vectordb.DistanceCosine
	}
	return vectordb.Distance(d.String())
}

func fromCollectionInfo(name string, info *qdrant.CollectionInfo) vectordb.Collection {
	c := vectordb.Collection{
		Name:         name,
		Status:       strings.ToLower(info.GetStatus().String()),
		VectorsCount: info.GetIndexedVectorsCount(),
		PointsCount:  info.GetPointsCount(),
	}
	if params := info.GetConfig().GetParams().GetVectorsConfig().GetParams(); params != nil {
		c.VectorSize = int(params.GetSize())
		c.Distance = fromDistance(params.GetDistance())
		c.OnDisk = params.GetOnDisk()
	}
	return c
}
