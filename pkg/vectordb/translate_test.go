package vectordb

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestTranslate_Nil(t *testing.T) {
	assert.NoError(t, Translate(nil, Scope{}))
}

func TestTranslate_GRPCCodes(t *testing.T) {
	scope := Scope{Collection: "docs", Mode: "server"}

	tests := []struct {
		name   string
		err    error
		kind   Kind
		status int
	}{
		{"unavailable", status.Error(codes.Unavailable, "connection refused"), KindConnection, http.StatusServiceUnavailable},
		{"unauthenticated", status.Error(codes.Unauthenticated, "bad api key"), KindConnection, http.StatusServiceUnavailable},
		{"deadline", status.Error(codes.DeadlineExceeded, "slow"), KindConnection, http.StatusServiceUnavailable},
		{"not found", status.Error(codes.NotFound, "Not found: Collection `docs` doesn't exist!"), KindCollectionNotFound, http.StatusNotFound},
		{"already exists", status.Error(codes.AlreadyExists, "exists"), KindCollectionExists, http.StatusConflict},
		{"conflict as invalid argument", status.Error(codes.InvalidArgument, "Wrong input: Collection `docs` already exists!"), KindCollectionExists, http.StatusConflict},
		{"malformed request", status.Error(codes.InvalidArgument, "Wrong input: bad payload"), KindValidation, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Translate(tt.err, scope)

			var verr *Error
			require.True(t, errors.As(got, &verr), "expected *Error, got %T", got)
			assert.Equal(t, tt.kind, verr.Kind)
			assert.Equal(t, tt.status, verr.Status())
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestTranslate_ConnectionErrorCarriesMode(t *testing.T) {
	got := Translate(status.Error(codes.Unavailable, "down"), Scope{Mode: "cloud"})

	var verr *Error
	require.ErrorAs(t, got, &verr)
	assert.Equal(t, "cloud", verr.Details["mode"])
	assert.True(t, IsConnectionError(got))
}

func TestTranslate_NotFoundCarriesCollection(t *testing.T) {
	got := Translate(status.Error(codes.NotFound, "missing"), Scope{Collection: "products"})

	var verr *Error
	require.ErrorAs(t, got, &verr)
	assert.Equal(t, "products", verr.Details["collection"])
	assert.True(t, IsNotFound(got))
}

func TestTranslate_CategorySentinels(t *testing.T) {
	scope := Scope{Collection: "docs", Mode: "local"}

	assert.True(t, IsNotFound(Translate(fmt.Errorf("lookup: %w", ErrBackendNotFound), scope)))
	assert.True(t, IsAlreadyExists(Translate(fmt.Errorf("create: %w", ErrBackendConflict), scope)))
	assert.True(t, IsValidation(Translate(fmt.Errorf("insert: %w", ErrBackendInvalid), scope)))
	assert.True(t, IsConnectionError(Translate(fmt.Errorf("open: %w", ErrBackendUnavailable), scope)))
}

func TestTranslate_NetworkErrors(t *testing.T) {
	opErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("refused")}
	assert.True(t, IsConnectionError(Translate(opErr, Scope{})))

	wrapped := fmt.Errorf("dial: %w", syscall.ECONNREFUSED)
	assert.True(t, IsConnectionError(Translate(wrapped, Scope{})))
}

func TestTranslate_ContextErrors(t *testing.T) {
	canceled := fmt.Errorf("query: %w", context.Canceled)
	assert.Same(t, canceled, Translate(canceled, Scope{}))

	deadline := Translate(context.DeadlineExceeded, Scope{Mode: "server"})
	var verr *Error
	require.ErrorAs(t, deadline, &verr)
	assert.Equal(t, KindConnection, verr.Kind)
	assert.Equal(t, true, verr.Details["timeout"])
}

func TestTranslate_AlreadyClassifiedPassesThrough(t *testing.T) {
	in := VectorSizeMismatch("docs", 4, 3)
	assert.Same(t, in, Translate(in, Scope{}))
}

func TestTranslate_UnclassifiedPropagatesUnchanged(t *testing.T) {
	in := errors.New("something odd happened")
	got := Translate(in, Scope{Collection: "docs"})

	assert.Same(t, in, got)
	_, ok := KindOf(got)
	assert.False(t, ok)
}
