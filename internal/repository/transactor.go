package repository

import (
	"context"

	"gorm.io/gorm"
)

// Transactor runs a function with both repositories bound to a single
// database transaction, so existence and uniqueness checks are serialized
// with the write that depends on them.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, users UserRepository, posts PostRepository) error) error
}

type transactor struct {
	db *gorm.DB
}

// NewTransactor builds a GORM-backed Transactor.
func NewTransactor(db *gorm.DB) Transactor {
	return &transactor{db: db}
}

func (t *transactor) WithTransaction(ctx context.Context, fn func(ctx context.Context, users UserRepository, posts PostRepository) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewUserRepository(tx), NewPostRepository(tx))
	})
}
