package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a DBError for programmatic handling.
type ErrorKind int

const (
	// ConfigError means the connection configuration is invalid (bad URL,
	// missing required field). Surfaced to the user; never retried.
	ConfigError ErrorKind = iota
	// ConnectFailed means the session could not be established (network,
	// auth, TLS). The connection is marked disconnected.
	ConnectFailed
	// Disconnected means the session was lost mid-call.
	Disconnected
	// QueryFailed means the driver returned an error; the driver's code and
	// message are propagated verbatim.
	QueryFailed
	// Cancelled means the caller cancelled the in-flight operation.
	Cancelled
	// UnsupportedOperation means the plugin declined a capability that is
	// semantically meaningless for its dialect.
	UnsupportedOperation
	// InternalError indicates an invariant violation, i.e. a bug.
	InternalError
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case ConfigError:
		return "config"
	case ConnectFailed:
		return "connect_failed"
	case Disconnected:
		return "disconnected"
	case QueryFailed:
		return "query_failed"
	case Cancelled:
		return "cancelled"
	case UnsupportedOperation:
		return "unsupported"
	default:
		return "internal"
	}
}

// DBError is the structured failure record surfaced by connections, plugins,
// and the state facade. Code and State carry dialect-specific detail when the
// driver provides them.
type DBError struct {
	Kind    ErrorKind
	Message string
	Code    string // driver error code, if any
	State   string // SQLSTATE, if any
	Err     error  // wrapped cause
}

func (e *DBError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (code %s)", e.Kind, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *DBError) Unwrap() error { return e.Err }

// NewDBError builds a DBError wrapping err.
func NewDBError(kind ErrorKind, err error) *DBError {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &DBError{Kind: kind, Message: msg, Err: err}
}

// DBErrorf builds a DBError from a format string.
func DBErrorf(kind ErrorKind, format string, args ...any) *DBError {
	return &DBError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// DBWrapf builds a DBError wrapping a cause with added context.
func DBWrapf(kind ErrorKind, err error, format string, args ...any) *DBError {
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &DBError{Kind: kind, Message: msg, Err: err}
}

// KindOf extracts the ErrorKind from an error chain.
// Unclassified errors report InternalError.
func KindOf(err error) ErrorKind {
	var dbErr *DBError
	if errors.As(err, &dbErr) {
		return dbErr.Kind
	}
	return InternalError
}
