// Package errors provides custom error types for catalog operations.
package errors

import "errors"

var (
	// ErrProductNotFound is returned when no product exists with the requested ID.
	ErrProductNotFound = errors.New("product not found")
	// ErrNoViewedProducts is returned when the most-viewed ranking is empty.
	ErrNoViewedProducts = errors.New("no viewed products")
)
