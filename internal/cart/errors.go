package cart

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes cart operation errors.
type ErrorCode string

const (
	// CodeNotInitialized indicates an operation before the manager
	// reached Ready. No store call was issued.
	CodeNotInitialized ErrorCode = "NOT_INITIALIZED"

	// CodeStoreUnavailable indicates the backing store (or the session
	// identity store) failed. The in-memory projection is unchanged.
	CodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
)

// OpError is an error from a cart operation, carrying the operation name
// and a code for the caller to branch on. Unknown line IDs are not
// errors: they are silent no-ops at the manager boundary.
type OpError struct {
	Code ErrorCode
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *OpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Op)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// IsNotInitialized reports whether err is a NOT_INITIALIZED cart error.
// Uses errors.As to handle wrapped errors.
func IsNotInitialized(err error) bool {
	var oe *OpError
	return errors.As(err, &oe) && oe.Code == CodeNotInitialized
}

// IsStoreUnavailable reports whether err is a STORE_UNAVAILABLE cart error.
// Uses errors.As to handle wrapped errors.
func IsStoreUnavailable(err error) bool {
	var oe *OpError
	return errors.As(err, &oe) && oe.Code == CodeStoreUnavailable
}

func notInitialized(op string) *OpError {
	return &OpError{Code: CodeNotInitialized, Op: op}
}

func storeUnavailable(op string, err error) *OpError {
	return &OpError{Code: CodeStoreUnavailable, Op: op, Err: err}
}
