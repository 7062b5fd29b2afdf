// Package quote persists quotes and their line items.
package quote

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrQuoteNotFound is returned when a quote record is not found.
var ErrQuoteNotFound = errors.New("quote not found")

// Repository provides CRUD operations on the quotes and quote_items tables.
//
// Rename, UpdateItem, Delete and DeleteItem do not check that the target
// exists; they succeed without effect for unknown ids.
type Repository interface {
	List(ctx context.Context) ([]Quote, error)
	ListPage(ctx context.Context, filter ListFilter) (*ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*Quote, error)
	Create(ctx context.Context, name string) (*Quote, error)
	Rename(ctx context.Context, id uuid.UUID, name string) error
	Delete(ctx context.Context, id uuid.UUID) error

	ListItems(ctx context.Context, quoteID uuid.UUID) ([]Item, error)
	CreateItem(ctx context.Context, quoteID uuid.UUID, fields ItemFields) (*Item, error)
	UpdateItem(ctx context.Context, itemID uuid.UUID, fields ItemFields) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
}
