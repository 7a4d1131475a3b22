package registry

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates no product/record matched the lookup.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate indicates the product_key is already registered.
var ErrDuplicate = errors.New("product key already registered")

// StoreError indicates the record store was unreachable or rejected the
// request for a reason other than not-found/duplicate. Fatal to registration
// and timeline fetches; callers must not surface Body to end users.
type StoreError struct {
	Op     string // operation, e.g. "create product"
	Status int    // HTTP status, 0 when the request never completed
	Err    error
}

func (e *StoreError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("record store: %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("record store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
