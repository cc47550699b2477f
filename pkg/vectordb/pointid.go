package vectordb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// PointID identifies a point within its collection. It is either an
// unsigned integer or a non-empty string.
type PointID struct {
	str     string
	num     uint64
	numeric bool
}

// NewStringID returns a string point id.
func NewStringID(s string) PointID {
	return PointID{str: s}
}

// NewNumericID returns an integer point id.
func NewNumericID(n uint64) PointID {
	return PointID{num: n, numeric: true}
}

// ParsePointIDs returns the ids raw text can name, e.g. a URL path
// segment. All-digit input names a numeric id or the string id with the
// same spelling, in that order. Anything else names a string id only.
func ParsePointIDs(raw string) []PointID {
	if n, err := strconv.ParseUint(raw, 10, 64); err == nil {
		return []PointID{NewNumericID(n), NewStringID(raw)}
	}
	return []PointID{NewStringID(raw)}
}

// IsNumeric reports whether the id is an integer id.
func (id PointID) IsNumeric() bool { return id.numeric }

// Num returns the integer value of a numeric id.
func (id PointID) Num() uint64 { return id.num }

// IsZero reports whether the id is unset.
func (id PointID) IsZero() bool { return !id.numeric && id.str == "" }

// String renders the id. Numeric ids are rendered in base 10.
func (id PointID) String() string {
	if id.numeric {
		return strconv.FormatUint(id.num, 10)
	}
	return id.str
}

// Value returns the id as a JSON-like scalar (uint64 or string).
func (id PointID) Value() any {
	if id.numeric {
		return id.num
	}
	return id.str
}

// MarshalJSON encodes numeric ids as JSON numbers and string ids as strings.
func (id PointID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(strconv.FormatUint(id.num, 10)), nil
	}
	return json.Marshal(id.str)
}

// UnmarshalJSON accepts a non-negative integer or a string.
func (id *PointID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = NewStringID(s)
		return nil
	}
	n, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("point id must be a string or a non-negative integer, got %s", data)
	}
	*id = NewNumericID(n)
	return nil
}

// ValidatePointID rejects unset ids.
func ValidatePointID(id PointID) error {
	if id.IsZero() {
		return Validation("point id must not be empty", nil)
	}
	return nil
}
