package domain

import (
	"context"
	"errors"
)

// Common domain errors
var (
	ErrNotFound = errors.New("resource not found")
	ErrConflict = errors.New("resource already exists")
)

// Transactor runs fn inside one database transaction. Repositories called
// with the ctx passed to fn take part in it; nested calls join the outer
// transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
