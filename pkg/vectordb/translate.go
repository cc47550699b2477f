package vectordb

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Scope is the call-site context attached to translated errors.
type Scope struct {
	// Collection is the collection the failed call targeted, if any.
	Collection string
	// Mode is the connection mode (server, cloud, local), if known.
	Mode string
}

// Translate maps a raw backend failure onto the fixed taxonomy.
//
// Classification order:
//  1. already classified *Error values pass through
//  2. context cancellation passes through, deadlines become connection errors
//  3. gRPC status codes
//  4. backend category sentinels (ErrBackendNotFound, ...)
//  5. net.Error and syscall errno values
//  6. message patterns as a last resort
//
// Failures outside the taxonomy are returned unchanged.
func Translate(err error, scope Scope) error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return err
	}

	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return timeoutError(scope, err)
	}

	if st, ok := status.FromError(err); ok && st.Code() != codes.OK && st.Code() != codes.Unknown {
		if translated := translateStatus(st, scope, err); translated != nil {
			return translated
		}
	}

	switch {
	case errors.Is(err, ErrBackendNotFound):
		return withCause(CollectionNotFound(scope.Collection), err)
	case errors.Is(err, ErrBackendConflict):
		return withCause(CollectionAlreadyExists(scope.Collection), err)
	case errors.Is(err, ErrBackendInvalid):
		return withCause(Validation(err.Error(), collectionDetails(scope)), err)
	case errors.Is(err, ErrBackendUnavailable):
		return ConnectionFailed(scope.Mode, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return timeoutError(scope, err)
		}
		return ConnectionFailed(scope.Mode, err)
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ECONNABORTED,
			syscall.EHOSTUNREACH, syscall.ENETUNREACH, syscall.ETIMEDOUT, syscall.EPIPE:
			return ConnectionFailed(scope.Mode, err)
		}
	}

	if translated := translateByMessage(strings.ToLower(err.Error()), scope, err); translated != nil {
		return translated
	}
	return err
}

// translateStatus maps gRPC status codes. It returns nil when the code
// carries no taxonomy meaning.
func translateStatus(st *status.Status, scope Scope, err error) error {
	switch st.Code() {
	case codes.Unavailable, codes.Unauthenticated, codes.PermissionDenied, codes.ResourceExhausted, codes.Aborted:
		return ConnectionFailed(scope.Mode, err)
	case codes.DeadlineExceeded:
		return timeoutError(scope, err)
	case codes.Canceled:
		return err
	case codes.NotFound:
		return withCause(CollectionNotFound(scope.Collection), err)
	case codes.AlreadyExists:
		return withCause(CollectionAlreadyExists(scope.Collection), err)
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		msg := strings.ToLower(st.Message())
		if translated := translateByMessage(msg, scope, err); translated != nil {
			return translated
		}
		return withCause(Validation(st.Message(), collectionDetails(scope)), err)
	}
	return nil
}

// translateByMessage is the fallback for errors that only carry text.
// Qdrant reports several conflicts as InvalidArgument with a message,
// e.g. "Wrong input: Collection `docs` already exists!".
func translateByMessage(msg string, scope Scope, err error) error {
	switch {
	case strings.Contains(msg, "already exists"):
		return withCause(CollectionAlreadyExists(scope.Collection), err)
	case strings.Contains(msg, "doesn't exist"),
		strings.Contains(msg, "does not exist"),
		strings.Contains(msg, "collection") && strings.Contains(msg, "not found"):
		return withCause(CollectionNotFound(scope.Collection), err)
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "broken pipe"),
		strings.Contains(msg, "transport is closing"),
		strings.Contains(msg, "error reading server preface"):
		return ConnectionFailed(scope.Mode, err)
	case strings.Contains(msg, "i/o timeout"), strings.Contains(msg, "deadline exceeded"):
		return timeoutError(scope, err)
	}
	return nil
}

func timeoutError(scope Scope, err error) *Error {
	e := ConnectionFailed(scope.Mode, err)
	e.Message = "vector database request timed out"
	e.Details["timeout"] = true
	return e
}

func withCause(e *Error, cause error) *Error {
	e.Err = cause
	return e
}

func collectionDetails(scope Scope) map[string]any {
	if scope.Collection == "" {
		return nil
	}
	return map[string]any{"collection": scope.Collection}
}
