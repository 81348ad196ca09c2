package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// MsgNameRequired is returned when the product name is blank.
	MsgNameRequired = "Product name cannot be null or empty"
	// MsgDescriptionRequired is returned when the product description is blank.
	MsgDescriptionRequired = "Product description cannot be null or empty"
	// MsgInvalidPrice is returned when the price is missing or negative.
	MsgInvalidPrice = "Product price cannot be null or negative"
	// MsgInvalidStockQuantity is returned when the stock quantity is missing or negative.
	MsgInvalidStockQuantity = "Product stock quantity cannot be null or negative"
)

// ProductResourceName is the resource name used in not found errors.
const ProductResourceName = "Product"

// Product is the catalog aggregate. Its state can only be changed through Update and Deactivate,
// both of which keep the invariants intact.
type Product struct {
	ID            uuid.UUID
	Name          string
	Description   string
	Price         decimal.Decimal
	StockQuantity int
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewProduct creates a new active product with a freshly generated ID.
func NewProduct(name, description string, price decimal.Decimal, stockQuantity int) (*Product, error) {
	if err := validateProduct(name, description, price, stockQuantity); err != nil {
		return nil, err
	}

	p := &Product{
		Name:          name,
		Description:   description,
		Price:         price,
		StockQuantity: stockQuantity,
		Active:        true,
	}
	p.InitMeta()
	return p, nil
}

// ReconstituteProduct rebuilds a product loaded from storage. A nil active flag means active.
func ReconstituteProduct(
	id uuid.UUID,
	name, description string,
	price decimal.Decimal,
	stockQuantity int,
	active *bool,
	createdAt, updatedAt time.Time,
) (*Product, error) {
	if err := validateProduct(name, description, price, stockQuantity); err != nil {
		return nil, err
	}

	isActive := true
	if active != nil {
		isActive = *active
	}

	return &Product{
		ID:            id,
		Name:          name,
		Description:   description,
		Price:         price,
		StockQuantity: stockQuantity,
		Active:        isActive,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}, nil
}

// InitMeta initializes the product metadata including ID and timestamps.
func (p *Product) InitMeta() {
	p.ID = uuid.New()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
}

// Update replaces all mutable fields at once. The new values are validated before anything is
// assigned, so a failed update leaves the product exactly as it was.
func (p *Product) Update(name, description string, price decimal.Decimal, stockQuantity int) error {
	if err := validateProduct(name, description, price, stockQuantity); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.Price = price
	p.StockQuantity = stockQuantity
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Deactivate marks the product as soft deleted. Calling it more than once has no further effect.
func (p *Product) Deactivate() {
	if !p.Active {
		return
	}
	p.Active = false
	p.UpdatedAt = time.Now().UTC()
}

func validateProduct(name, description string, price decimal.Decimal, stockQuantity int) error {
	if strings.TrimSpace(name) == "" {
		return NewValidationError("name", MsgNameRequired)
	}
	if strings.TrimSpace(description) == "" {
		return NewValidationError("description", MsgDescriptionRequired)
	}
	if price.IsNegative() {
		return NewValidationError("price", MsgInvalidPrice)
	}
	if stockQuantity < 0 {
		return NewValidationError("stockQuantity", MsgInvalidStockQuantity)
	}
	return nil
}
