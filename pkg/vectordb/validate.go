package vectordb

import (
	"fmt"
	"unicode/utf8"
)

// ValidateCollectionName checks the name length bounds.
func ValidateCollectionName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < MinCollectionNameLength || n > MaxCollectionNameLength {
		return Validation("collection name must be between 1 and 255 characters", map[string]any{
			"collection": name,
			"length":     n,
		})
	}
	return nil
}

// ValidateVectorSize checks the dimensionality bounds of a collection.
func ValidateVectorSize(size int) error {
	if size < MinVectorSize || size > MaxVectorSize {
		return Validation("vector size must be between 1 and 65536", map[string]any{
			"vector_size": size,
		})
	}
	return nil
}

// ValidateSearchLimit checks the result limit bounds.
func ValidateSearchLimit(limit int) error {
	if limit < MinSearchLimit || limit > MaxSearchLimit {
		return Validation("limit must be between 1 and 100", map[string]any{
			"limit": limit,
		})
	}
	return nil
}

// ValidateScoreThreshold checks an optional score threshold lies in [0, 1].
func ValidateScoreThreshold(threshold *float32) error {
	if threshold == nil {
		return nil
	}
	if *threshold < 0 || *threshold > 1 {
		return Validation("score_threshold must be between 0 and 1", map[string]any{
			"score_threshold": *threshold,
		})
	}
	return nil
}

// ValidatePayload rejects payloads that use the reserved key.
func ValidatePayload(payload map[string]any) error {
	if _, ok := payload[ReservedPayloadKey]; ok {
		return Validation(fmt.Sprintf("payload key %q is reserved", ReservedPayloadKey), map[string]any{
			"key": ReservedPayloadKey,
		})
	}
	return nil
}
