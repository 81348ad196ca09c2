package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/iyhunko/product-catalog-service/internal/model"
	"github.com/iyhunko/product-catalog-service/internal/repository"
	"github.com/iyhunko/product-catalog-service/internal/service"
)

// ProductService is the set of use cases served over HTTP.
type ProductService interface {
	CreateProduct(ctx context.Context, req service.CreateProductRequest) (*service.ProductResponse, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*service.ProductResponse, error)
	ListProducts(ctx context.Context) ([]service.ProductResponse, error)
	ListProductsPage(ctx context.Context, page, size int) (*service.PageResponse, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req service.UpdateProductRequest) (*service.ProductResponse, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// ProductController handles HTTP requests for product operations.
type ProductController struct {
	productService ProductService
}

// NewProductController creates a new ProductController with the given product service.
func NewProductController(productService ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

// ListProductsRequest represents the query parameters for listing products.
type ListProductsRequest struct {
	Page int `form:"page,default=0"`
	Size int `form:"size,default=20"`
}

// CreateProduct handles the HTTP POST request for creating a new product.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorValidation, "Malformed request body")
		return
	}

	created, err := pc.productService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetProduct handles the HTTP GET request for a single active product.
func (pc *ProductController) GetProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	product, err := pc.productService.GetProductByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// ListProducts handles the HTTP GET request for one page of active products.
func (pc *ProductController) ListProducts(c *gin.Context) {
	req := ListProductsRequest{Page: repository.DefaultPage, Size: repository.DefaultPageSize}
	if err := c.ShouldBindQuery(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorValidation, "page and size must be integers")
		return
	}
	if _, err := repository.NewPageRequest(req.Page, req.Size); err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorValidation, err.Error())
		return
	}

	page, err := pc.productService.ListProductsPage(c.Request.Context(), req.Page, req.Size)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// ListAllProducts handles the HTTP GET request for every active product.
func (pc *ProductController) ListAllProducts(c *gin.Context) {
	products, err := pc.productService.ListProducts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// UpdateProduct handles the HTTP PUT request replacing a product.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorValidation, "Malformed request body")
		return
	}

	updated, err := pc.productService.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteProduct handles the HTTP DELETE request for deactivating a product by ID.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	if err := pc.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func productID(c *gin.Context) (uuid.UUID, bool) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorValidation, "Invalid "+model.ProductResourceName+" id: "+idParam)
		return uuid.Nil, false
	}
	return id, true
}
