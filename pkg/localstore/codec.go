package localstore

import (
	"bytes"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/vectordb"
)

// Point ids are stored with a type prefix so the numeric id 7 and the
// string id "7" stay distinct, as they are on the server.
const (
	numericPrefix = "n:"
	stringPrefix  = "s:"
)

func encodeID(id vectordb.PointID) string {
	if id.IsNumeric() {
		return numericPrefix + strconv.FormatUint(id.Num(), 10)
	}
	return stringPrefix + id.String()
}

func decodeID(key string) vectordb.PointID {
	if rest, ok := strings.CutPrefix(key, numericPrefix); ok {
		if n, err := strconv.ParseUint(rest, 10, 64); err == nil {
			return vectordb.NewNumericID(n)
		}
	}
	return vectordb.NewStringID(strings.TrimPrefix(key, stringPrefix))
}

func encodeFloat32s(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeFloat32s(b []byte) []float32 {
	if len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}

func encodePayload(p map[string]any) (sql.NullString, error) {
	if len(p) == 0 {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

func decodePayload(raw string) (map[string]any, error) {
	if raw == "" {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var p map[string]any
	if err := dec.Decode(&p); err != nil {
		return nil, err
	}
	return vectordb.NormalizePayload(p), nil
}
