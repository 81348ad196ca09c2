package repository

import (
	"errors"
	"fmt"
	"math"

	"github.com/iyhunko/product-catalog-service/internal/model"
)

var (
	// ErrInvalidPage is returned for a negative page index.
	ErrInvalidPage = errors.New("page must be greater than or equal to 0")
	// ErrInvalidPageSize is returned for a page size outside [1, MaxPageSize].
	ErrInvalidPageSize = fmt.Errorf("size must be between 1 and %d", MaxPageSize)
)

const (
	// DefaultPage is the page index used when none is requested.
	DefaultPage = 0
	// DefaultPageSize is the number of items per page used when none is requested.
	DefaultPageSize = 20
	// MaxPageSize caps the number of items per page.
	MaxPageSize = 100
)

// PageRequest addresses one page of a listing. Page is zero based.
type PageRequest struct {
	Page int
	Size int
}

// NewPageRequest validates page and size.
func NewPageRequest(page, size int) (PageRequest, error) {
	if page < 0 {
		return PageRequest{}, ErrInvalidPage
	}
	if size < 1 || size > MaxPageSize {
		return PageRequest{}, ErrInvalidPageSize
	}
	return PageRequest{Page: page, Size: size}, nil
}

// Offset returns the number of records that precede the page. It is only meaningful when
// OffsetOverflows is false.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// OffsetOverflows reports whether Page*Size does not fit in an int. Such a page lies past any
// possible result set and is always empty.
func (p PageRequest) OffsetOverflows() bool {
	return p.Size > 0 && p.Page > math.MaxInt/p.Size
}

// PageResult is one page of products plus totals across all pages.
type PageResult struct {
	Content       []*model.Product
	TotalElements int64
	TotalPages    int
}

// NewPageResult builds a PageResult computing TotalPages from the total count and page size.
func NewPageResult(content []*model.Product, totalElements int64, size int) *PageResult {
	return &PageResult{
		Content:       content,
		TotalElements: totalElements,
		TotalPages:    TotalPages(totalElements, size),
	}
}

// TotalPages returns ceil(totalElements / size), or 0 when size is not positive.
func TotalPages(totalElements int64, size int) int {
	if size <= 0 || totalElements <= 0 {
		return 0
	}
	s := int64(size)
	return int((totalElements + s - 1) / s)
}
