package service

import (
	"github.com/google/uuid"
	"github.com/iyhunko/product-catalog-service/internal/model"
	"github.com/iyhunko/product-catalog-service/internal/repository"
	"github.com/shopspring/decimal"
)

// CreateProductRequest holds the fields of a new product. Price and StockQuantity are pointers so that a
// missing value can be told apart from zero.
type CreateProductRequest struct {
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity *int             `json:"stockQuantity"`
}

// UpdateProductRequest holds the full replacement state of a product.
type UpdateProductRequest struct {
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity *int             `json:"stockQuantity"`
}

// ProductResponse is the public projection of a product.
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
}

// PageResponse is one page of products with its page metadata.
type PageResponse struct {
	Content       []ProductResponse `json:"content"`
	Page          int               `json:"page"`
	Size          int               `json:"size"`
	TotalElements int64             `json:"totalElements"`
	TotalPages    int               `json:"totalPages"`
	First         bool              `json:"first"`
	Last          bool              `json:"last"`
}

// NewPageResponse computes the page metadata. With no elements there are no pages, and the
// single empty page is both first and last.
func NewPageResponse(content []ProductResponse, page, size int, totalElements int64) PageResponse {
	if content == nil {
		content = []ProductResponse{}
	}
	totalPages := repository.TotalPages(totalElements, size)

	return PageResponse{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: totalElements,
		TotalPages:    totalPages,
		First:         page == 0,
		Last:          page >= totalPages-1,
	}
}

// ToProductResponse projects a product.
func ToProductResponse(p *model.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
	}
}

func toProductResponses(products []*model.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, ToProductResponse(p))
	}
	return out
}

// requireValues rejects missing price or stock quantity, which the aggregate cannot represent.
func requireValues(price *decimal.Decimal, stockQuantity *int) (decimal.Decimal, int, error) {
	if price == nil {
		return decimal.Decimal{}, 0, model.NewValidationError("price", model.MsgInvalidPrice)
	}
	if stockQuantity == nil {
		return decimal.Decimal{}, 0, model.NewValidationError("stockQuantity", model.MsgInvalidStockQuantity)
	}
	return *price, *stockQuantity, nil
}
