package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/iyhunko/product-catalog-service/internal/model"
)

var (
	// ErrRecordNotFound is returned when no active record matches the lookup.
	ErrRecordNotFound = errors.New("record not found")
)

// ProductRepository defines the storage operations for products. Inactive (soft deleted) products are
// invisible to every read except ExistsByID.
type ProductRepository interface {
	Save(ctx context.Context, product *model.Product) (*model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindAll(ctx context.Context) ([]*model.Product, error)
	FindPage(ctx context.Context, page PageRequest) (*PageResult, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	ExistsActiveByID(ctx context.Context, id uuid.UUID) (bool, error)
	DeactivateByID(ctx context.Context, id uuid.UUID) error
}

// EventRepository defines the storage operations for outbox events.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	ListPending(ctx context.Context, limit int) ([]*model.Event, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.EventStatus) error
}

// Transactor runs fn with repositories bound to a single transaction. The transaction is committed
// when fn returns nil and rolled back otherwise.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(products ProductRepository, events EventRepository) error) error
}
