// Package repository holds the error values and result types shared by the Mongo
// repositories. Handlers never see these directly: services translate them.
package repository

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no document matches an id lookup.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique index.
var ErrDuplicate = errors.New("duplicate")

// WriteResult reports the effect of a filtered update or delete.
type WriteResult struct {
	Matched  int64 `json:"matchedCount"`
	Modified int64 `json:"modifiedCount"`
	Deleted  int64 `json:"deletedCount"`
}

// DefaultTimeout bounds every single-document operation.
const DefaultTimeout = 5 * time.Second

// WithTimeout derives an operation context from the caller's.
func WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, d)
}
