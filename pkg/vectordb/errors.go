package vectordb

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a member of the fixed failure taxonomy.
type Kind string

const (
	KindNotInitialized     Kind = "not_initialized"
	KindConnection         Kind = "qdrant_connection_error"
	KindCollectionNotFound Kind = "collection_not_found"
	KindCollectionExists   Kind = "collection_already_exists"
	KindVectorSizeMismatch Kind = "vector_size_mismatch"
	KindBatchSizeInvalid   Kind = "batch_size_invalid"
	KindValidation         Kind = "validation_error"
)

// Sentinels for errors.Is matching. Every *Error unwraps to the sentinel of
// its kind.
var (
	// ErrNotInitialized is returned when an operation runs before Connect
	ErrNotInitialized = errors.New("vector database connection is not initialized")

	// ErrConnection is returned when the backend cannot be reached
	ErrConnection = errors.New("vector database connection error")

	// ErrCollectionNotFound is returned when a collection does not exist
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrCollectionExists is returned when creating a collection that exists
	ErrCollectionExists = errors.New("collection already exists")

	// ErrVectorSizeMismatch is returned when a vector length differs from the collection's size
	ErrVectorSizeMismatch = errors.New("vector size mismatch")

	// ErrBatchSizeInvalid is returned when a batch is empty or too large
	ErrBatchSizeInvalid = errors.New("batch size invalid")

	// ErrValidation is returned for any other rejected input
	ErrValidation = errors.New("validation error")
)

// Category sentinels let non-gRPC backends classify their own failures.
// Translate maps them onto the taxonomy.
var (
	ErrBackendNotFound    = errors.New("backend: not found")
	ErrBackendConflict    = errors.New("backend: conflict")
	ErrBackendInvalid     = errors.New("backend: invalid request")
	ErrBackendUnavailable = errors.New("backend: unavailable")
)

var kindSentinels = map[Kind]error{
	KindNotInitialized:     ErrNotInitialized,
	KindConnection:         ErrConnection,
	KindCollectionNotFound: ErrCollectionNotFound,
	KindCollectionExists:   ErrCollectionExists,
	KindVectorSizeMismatch: ErrVectorSizeMismatch,
	KindBatchSizeInvalid:   ErrBatchSizeInvalid,
	KindValidation:         ErrValidation,
}

var kindStatus = map[Kind]int{
	KindNotInitialized:     http.StatusServiceUnavailable,
	KindConnection:         http.StatusServiceUnavailable,
	KindCollectionNotFound: http.StatusNotFound,
	KindCollectionExists:   http.StatusConflict,
	KindVectorSizeMismatch: http.StatusUnprocessableEntity,
	KindBatchSizeInvalid:   http.StatusBadRequest,
	KindValidation:         http.StatusUnprocessableEntity,
}

// Status returns the HTTP status associated with the kind.
func (k Kind) Status() int {
	if s, ok := kindStatus[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error is the envelope carried by every classified failure.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the kind sentinel and the cause.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s, ok := kindSentinels[e.Kind]; ok {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Status returns the HTTP status code for the error.
func (e *Error) Status() int { return e.Kind.Status() }

// ErrorResponse is the wire form of an Error.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

// Response converts the error into its wire form. Details is never nil.
func (e *Error) Response() ErrorResponse {
	details := e.Details
	if details == nil {
		details = map[string]any{}
	}
	return ErrorResponse{
		Error:   string(e.Kind),
		Message: e.Message,
		Details: details,
	}
}

// NotInitialized builds the error returned before Connect succeeds.
func NotInitialized() *Error {
	return &Error{
		Kind:    KindNotInitialized,
		Message: "vector database client is not initialized, call Connect first",
	}
}

// ConnectionFailed wraps a connectivity failure. mode may be empty.
func ConnectionFailed(mode string, err error) *Error {
	details := map[string]any{}
	if mode != "" {
		details["mode"] = mode
	}
	msg := "failed to reach vector database"
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &Error{Kind: KindConnection, Message: msg, Details: details, Err: err}
}

// CollectionNotFound builds the not-found error for a collection.
func CollectionNotFound(name string) *Error {
	return &Error{
		Kind:    KindCollectionNotFound,
		Message: fmt.Sprintf("collection '%s' not found", name),
		Details: map[string]any{"collection": name},
	}
}

// CollectionAlreadyExists builds the conflict error for a collection.
func CollectionAlreadyExists(name string) *Error {
	return &Error{
		Kind:    KindCollectionExists,
		Message: fmt.Sprintf("collection '%s' already exists", name),
		Details: map[string]any{"collection": name},
	}
}

// VectorSizeMismatch builds the dimensionality error.
func VectorSizeMismatch(collection string, expected, got int) *Error {
	return &Error{
		Kind:    KindVectorSizeMismatch,
		Message: fmt.Sprintf("vector size mismatch: expected %d, got %d", expected, got),
		Details: map[string]any{
			"collection": collection,
			"expected":   expected,
			"got":        got,
		},
	}
}

// BatchSizeInvalid builds the batch bounds error.
func BatchSizeInvalid(got int) *Error {
	return &Error{
		Kind:    KindBatchSizeInvalid,
		Message: fmt.Sprintf("batch must contain between %d and %d points, got %d", MinBatchSize, MaxBatchSize, got),
		Details: map[string]any{
			"min": MinBatchSize,
			"max": MaxBatchSize,
			"got": got,
		},
	}
}

// Validation builds a generic input validation error.
func Validation(msg string, details map[string]any) *Error {
	return &Error{Kind: KindValidation, Message: msg, Details: details}
}

// KindOf returns the kind of a classified error and false otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsNotInitialized reports whether err is a not-initialized failure.
func IsNotInitialized(err error) bool { return errors.Is(err, ErrNotInitialized) }

// IsConnectionError reports whether err is a connectivity failure.
func IsConnectionError(err error) bool { return errors.Is(err, ErrConnection) }

// IsNotFound reports whether err is a collection-not-found failure.
func IsNotFound(err error) bool { return errors.Is(err, ErrCollectionNotFound) }

// IsAlreadyExists reports whether err is a collection conflict.
func IsAlreadyExists(err error) bool { return errors.Is(err, ErrCollectionExists) }

// IsVectorSizeMismatch reports whether err is a dimensionality failure.
func IsVectorSizeMismatch(err error) bool { return errors.Is(err, ErrVectorSizeMismatch) }

// IsBatchSizeInvalid reports whether err is a batch bounds failure.
func IsBatchSizeInvalid(err error) bool { return errors.Is(err, ErrBatchSizeInvalid) }

// IsValidation reports whether err is a generic validation failure.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
