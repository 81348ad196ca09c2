package model

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("should create active product with generated id", func(t *testing.T) {
		// given
		price := decimal.RequireFromString("3500.00")

		// when
		p, err := NewProduct("Notebook", "Notebook Dell Inspiron 15", price, 10)

		// then
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, p.ID)
		assert.Equal(t, "Notebook", p.Name)
		assert.Equal(t, "Notebook Dell Inspiron 15", p.Description)
		assert.True(t, price.Equal(p.Price))
		assert.Equal(t, 10, p.StockQuantity)
		assert.True(t, p.Active)
		assert.False(t, p.CreatedAt.IsZero())
		assert.Equal(t, p.CreatedAt, p.UpdatedAt)
	})

	t.Run("should accept zero price and zero stock", func(t *testing.T) {
		// when
		p, err := NewProduct("Free", "Free sample", decimal.Zero, 0)

		// then
		require.NoError(t, err)
		assert.True(t, p.Price.IsZero())
		assert.Equal(t, 0, p.StockQuantity)
	})

	tests := []struct {
		name        string
		pName       string
		description string
		price       decimal.Decimal
		stock       int
		wantField   string
		wantMessage string
	}{
		{"empty name", "", "desc", decimal.NewFromInt(1), 1, "name", MsgNameRequired},
		{"blank name", "   ", "desc", decimal.NewFromInt(1), 1, "name", MsgNameRequired},
		{"empty description", "name", "", decimal.NewFromInt(1), 1, "description", MsgDescriptionRequired},
		{"blank description", "name", "\t\n", decimal.NewFromInt(1), 1, "description", MsgDescriptionRequired},
		{"negative price", "name", "desc", decimal.RequireFromString("-0.01"), 1, "price", MsgInvalidPrice},
		{"negative stock", "name", "desc", decimal.NewFromInt(1), -1, "stockQuantity", MsgInvalidStockQuantity},
	}

	for _, tt := range tests {
		t.Run("should reject "+tt.name, func(t *testing.T) {
			// when
			p, err := NewProduct(tt.pName, tt.description, tt.price, tt.stock)

			// then
			assert.Nil(t, p)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.wantField, vErr.Field)
			assert.Equal(t, tt.wantMessage, vErr.Error())
		})
	}
}

func TestReconstituteProduct(t *testing.T) {
	id := uuid.New()
	createdAt := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	updatedAt := createdAt.Add(time.Hour)

	t.Run("should default active to true when absent", func(t *testing.T) {
		// when
		p, err := ReconstituteProduct(id, "name", "desc", decimal.NewFromInt(5), 2, nil, createdAt, updatedAt)

		// then
		require.NoError(t, err)
		assert.Equal(t, id, p.ID)
		assert.True(t, p.Active)
		assert.Equal(t, createdAt, p.CreatedAt)
		assert.Equal(t, updatedAt, p.UpdatedAt)
	})

	t.Run("should keep stored active flag", func(t *testing.T) {
		// given
		inactive := false

		// when
		p, err := ReconstituteProduct(id, "name", "desc", decimal.NewFromInt(5), 2, &inactive, createdAt, updatedAt)

		// then
		require.NoError(t, err)
		assert.False(t, p.Active)
	})

	t.Run("should reject invalid stored state", func(t *testing.T) {
		// when
		p, err := ReconstituteProduct(id, "", "desc", decimal.NewFromInt(5), 2, nil, createdAt, updatedAt)

		// then
		assert.Nil(t, p)
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestProduct_Update(t *testing.T) {
	t.Run("should replace all mutable fields", func(t *testing.T) {
		// given
		p, err := NewProduct("Notebook", "Notebook Dell Inspiron 15", decimal.RequireFromString("3500.00"), 10)
		require.NoError(t, err)
		id, createdAt := p.ID, p.CreatedAt

		// when
		err = p.Update("Updated", "D2", decimal.RequireFromString("200.00"), 15)

		// then
		require.NoError(t, err)
		assert.Equal(t, id, p.ID)
		assert.Equal(t, createdAt, p.CreatedAt)
		assert.Equal(t, "Updated", p.Name)
		assert.Equal(t, "D2", p.Description)
		assert.True(t, decimal.NewFromInt(200).Equal(p.Price))
		assert.Equal(t, 15, p.StockQuantity)
		assert.False(t, p.UpdatedAt.Before(createdAt))
	})

	t.Run("should leave state untouched on validation failure", func(t *testing.T) {
		// given
		p, err := NewProduct("Notebook", "Notebook Dell Inspiron 15", decimal.RequireFromString("3500.00"), 10)
		require.NoError(t, err)
		before := *p

		// when
		err = p.Update("Updated", "D2", decimal.RequireFromString("200.00"), -5)

		// then
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, before, *p)
	})
}

func TestProduct_Deactivate(t *testing.T) {
	// given
	p, err := NewProduct("name", "desc", decimal.NewFromInt(1), 1)
	require.NoError(t, err)

	// when
	p.Deactivate()
	firstUpdate := p.UpdatedAt
	p.Deactivate()

	// then
	assert.False(t, p.Active)
	assert.Equal(t, firstUpdate, p.UpdatedAt)
}

func TestNotFoundError(t *testing.T) {
	// given
	id := uuid.MustParse("5f0c7c4e-8a3b-4b8f-9f0e-2d6a1c3b4e5f")

	// when
	err := NewNotFoundError(ProductResourceName, id)

	// then
	assert.Equal(t, "Product with id 5f0c7c4e-8a3b-4b8f-9f0e-2d6a1c3b4e5f not found", err.Error())
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))
}
