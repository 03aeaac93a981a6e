package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped into a PersistenceError when an update targets a row
// that does not exist.
var ErrNotFound = errors.New("row not found")

// PersistenceError is returned for every rejected remote operation: network
// failure, constraint violation or missing row. The caller decides whether to
// surface it; no retries happen here.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistErr(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}
