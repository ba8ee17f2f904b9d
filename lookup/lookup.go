// Package lookup resolves barcodes to product records using a remote catalog.
package lookup

import (
	"context"
	"errors"
	"fmt"

	"github.com/observiq/barcode-relay/product"
)

// ErrLookup is matched by every error returned in a Result with StatusError.
var ErrLookup = errors.New("product lookup failed")

// Status is the outcome of a lookup.
type Status int

const (
	// StatusFound means the catalog returned a product.
	StatusFound Status = iota
	// StatusNotFound means the catalog has no product for the barcode.
	// It is a normal outcome, not a failure.
	StatusNotFound
	// StatusError means the catalog could not be queried or answered
	// with something that could not be understood.
	StatusError
)

// String returns the metric/log label for the status.
func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not_found"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Result is the outcome of resolving one barcode. Product is set only for
// StatusFound and Err only for StatusError.
type Result struct {
	Status  Status
	Product *product.Product
	Err     error
}

// Found returns a StatusFound result.
func Found(p *product.Product) Result {
	return Result{Status: StatusFound, Product: p}
}

// NotFound returns a StatusNotFound result.
func NotFound() Result {
	return Result{Status: StatusNotFound}
}

// Failed returns a StatusError result for barcode caused by err.
func Failed(barcode string, err error) Result {
	return Result{Status: StatusError, Err: &Error{Barcode: barcode, Err: err}}
}

// Resolver resolves a barcode to a product.
type Resolver interface {
	Resolve(ctx context.Context, barcode string) Result
}

// Error is a transport or protocol failure while resolving a barcode.
type Error struct {
	Barcode string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("lookup %s: %v", e.Barcode, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports ErrLookup as a match so callers can classify the failure
// without knowing the concrete type.
func (e *Error) Is(target error) bool {
	return target == ErrLookup
}
