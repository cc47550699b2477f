package vectordb

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindStatus(t *testing.T) {
	expected := map[Kind]int{
		KindNotInitialized:     http.StatusServiceUnavailable,
		KindConnection:         http.StatusServiceUnavailable,
		KindCollectionNotFound: http.StatusNotFound,
		KindCollectionExists:   http.StatusConflict,
		KindVectorSizeMismatch: http.StatusUnprocessableEntity,
		KindBatchSizeInvalid:   http.StatusBadRequest,
		KindValidation:         http.StatusUnprocessableEntity,
	}
	for kind, code := range expected {
		assert.Equal(t, code, kind.Status(), "kind %s", kind)
	}
	assert.Equal(t, http.StatusInternalServerError, Kind("bogus").Status())
}

func TestError_IsMatchesSentinelThroughWrapping(t *testing.T) {
	err := fmt.Errorf("upsert: %w", VectorSizeMismatch("docs", 4, 3))

	assert.True(t, errors.Is(err, ErrVectorSizeMismatch))
	assert.False(t, errors.Is(err, ErrCollectionNotFound))
	assert.True(t, IsVectorSizeMismatch(err))
}

func TestError_UnwrapKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := ConnectionFailed("server", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrConnection)
	assert.Equal(t, "server", err.Details["mode"])
}

func TestError_ResponseShape(t *testing.T) {
	resp := VectorSizeMismatch("docs", 4, 3).Response()

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "vector_size_mismatch", decoded["error"])
	assert.NotEmpty(t, decoded["message"])

	details, ok := decoded["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(4), details["expected"])
	assert.Equal(t, float64(3), details["got"])
	assert.Equal(t, "docs", details["collection"])
}

func TestError_ResponseDetailsNeverNil(t *testing.T) {
	resp := NotInitialized().Response()
	assert.NotNil(t, resp.Details)
}

func TestParseDistance(t *testing.T) {
	for in, want := range map[string]Distance{
		"Cosine":    DistanceCosine,
		"cosine":    DistanceCosine,
		"Euclid":    DistanceEuclid,
		"euclidean": DistanceEuclid,
		"DOT":       DistanceDot,
	} {
		got, err := ParseDistance(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseDistance("manhattan")
	assert.True(t, IsValidation(err))
}

func TestValidateBounds(t *testing.T) {
	assert.Error(t, ValidateCollectionName(""))
	assert.NoError(t, ValidateCollectionName("docs"))
	assert.Error(t, ValidateCollectionName(string(make([]byte, 256))))

	assert.Error(t, ValidateVectorSize(0))
	assert.NoError(t, ValidateVectorSize(1))
	assert.NoError(t, ValidateVectorSize(65536))
	assert.Error(t, ValidateVectorSize(65537))

	assert.Error(t, ValidateSearchLimit(0))
	assert.NoError(t, ValidateSearchLimit(100))
	assert.Error(t, ValidateSearchLimit(101))

	bad := float32(1.5)
	assert.Error(t, ValidateScoreThreshold(&bad))
	assert.NoError(t, ValidateScoreThreshold(nil))
}
