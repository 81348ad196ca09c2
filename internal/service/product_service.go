package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/iyhunko/product-catalog-service/internal/cache"
	"github.com/iyhunko/product-catalog-service/internal/config"
	"github.com/iyhunko/product-catalog-service/internal/metrics"
	"github.com/iyhunko/product-catalog-service/internal/model"
	"github.com/iyhunko/product-catalog-service/internal/repository"
	"github.com/iyhunko/product-catalog-service/internal/sqs"
)

// Cache namespaces used by the product service.
const (
	ProductCacheName      = "product"
	ProductsPageCacheName = "productsPage"
)

// Option configures a ProductService.
type Option func(*ProductService)

// WithOutboxEvents makes every mutation write a notification event in the same transaction.
func WithOutboxEvents() Option {
	return func(ps *ProductService) {
		ps.outbox = true
	}
}

type ProductService struct {
	products     repository.ProductRepository
	transactor   repository.Transactor
	productCache *cache.Namespace[ProductResponse]
	pageCache    *cache.Namespace[PageResponse]
	outbox       bool
}

// NewProductService wires the service. A nil store disables caching.
func NewProductService(
	products repository.ProductRepository,
	transactor repository.Transactor,
	store cache.Store,
	cacheConf config.Cache,
	opts ...Option,
) *ProductService {
	if store == nil || !cacheConf.Enabled {
		store = cache.NopStore{}
	}
	productTTL := cacheConf.ProductTTL
	if productTTL <= 0 {
		productTTL = config.DefaultProductCacheTTL
	}
	pageTTL := cacheConf.PageTTL
	if pageTTL <= 0 {
		pageTTL = config.DefaultPageCacheTTL
	}

	ps := &ProductService{
		products:     products,
		transactor:   transactor,
		productCache: cache.NewNamespace[ProductResponse](store, ProductCacheName, productTTL),
		pageCache:    cache.NewNamespace[PageResponse](store, ProductsPageCacheName, pageTTL),
	}
	for _, opt := range opts {
		opt(ps)
	}
	return ps
}

func (ps *ProductService) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	price, stock, err := requireValues(req.Price, req.StockQuantity)
	if err != nil {
		return nil, err
	}
	product, err := model.NewProduct(req.Name, req.Description, price, stock)
	if err != nil {
		return nil, err
	}

	var saved *model.Product
	err = ps.transactor.WithinTransaction(ctx, func(products repository.ProductRepository, events repository.EventRepository) error {
		var err error
		saved, err = products.Save(ctx, product)
		if err != nil {
			return err
		}
		return ps.recordEvent(ctx, events, model.EventTypeProductCreated, sqs.ActionCreated, saved)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	metrics.ProductsCreated.Inc()
	ps.pageCache.Clear(ctx)
	slog.Debug("Product created", slog.String("product_id", saved.ID.String()))

	resp := ToProductResponse(saved)
	return &resp, nil
}

func (ps *ProductService) GetProductByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	if cached, ok := ps.productCache.Get(ctx, id.String()); ok {
		return &cached, nil
	}

	product, err := ps.products.FindByID(ctx, id)
	if err != nil {
		return nil, ps.mapNotFound(err, id)
	}

	resp := ToProductResponse(product)
	ps.productCache.Set(ctx, id.String(), resp)
	return &resp, nil
}

// ListProducts returns every active product, newest first. The result is not cached.
func (ps *ProductService) ListProducts(ctx context.Context) ([]ProductResponse, error) {
	products, err := ps.products.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return toProductResponses(products), nil
}

func (ps *ProductService) ListProductsPage(ctx context.Context, page, size int) (*PageResponse, error) {
	pageReq, err := repository.NewPageRequest(page, size)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidPage) {
			return nil, model.NewValidationError("page", err.Error())
		}
		return nil, model.NewValidationError("size", err.Error())
	}

	key := pageKey(page, size)
	if cached, ok := ps.pageCache.Get(ctx, key); ok {
		return &cached, nil
	}

	result, err := ps.products.FindPage(ctx, pageReq)
	if err != nil {
		return nil, fmt.Errorf("failed to list products page: %w", err)
	}

	resp := NewPageResponse(toProductResponses(result.Content), page, size, result.TotalElements)
	ps.pageCache.Set(ctx, key, resp)
	return &resp, nil
}

// UpdateProduct replaces the mutable state of an active product.
func (ps *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	price, stock, err := requireValues(req.Price, req.StockQuantity)
	if err != nil {
		return nil, err
	}

	product, err := ps.products.FindByID(ctx, id)
	if err != nil {
		return nil, ps.mapNotFound(err, id)
	}
	if err := product.Update(req.Name, req.Description, price, stock); err != nil {
		return nil, err
	}

	var saved *model.Product
	err = ps.transactor.WithinTransaction(ctx, func(products repository.ProductRepository, events repository.EventRepository) error {
		var err error
		saved, err = products.Save(ctx, product)
		if err != nil {
			return err
		}
		// deactivated since it was loaded
		if !saved.Active {
			return model.NewNotFoundError(model.ProductResourceName, id)
		}
		return ps.recordEvent(ctx, events, model.EventTypeProductUpdated, sqs.ActionUpdated, saved)
	})
	if errors.Is(err, model.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	metrics.ProductsUpdated.Inc()
	ps.productCache.Evict(ctx, id.String())
	ps.pageCache.Clear(ctx)
	slog.Debug("Product updated", slog.String("product_id", id.String()))

	resp := ToProductResponse(saved)
	return &resp, nil
}

// DeleteProduct soft deletes an active product. Deleting it again reports it as not found.
func (ps *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	err := ps.transactor.WithinTransaction(ctx, func(products repository.ProductRepository, events repository.EventRepository) error {
		exists, err := products.ExistsActiveByID(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return model.NewNotFoundError(model.ProductResourceName, id)
		}

		// the notification carries the last active state
		var last *model.Product
		if ps.outbox {
			if last, err = products.FindByID(ctx, id); err != nil {
				return err
			}
		}

		if err := products.DeactivateByID(ctx, id); err != nil {
			return err
		}
		return ps.recordEvent(ctx, events, model.EventTypeProductDeactivated, sqs.ActionDeactivated, last)
	})
	if err != nil {
		return ps.mapNotFound(err, id)
	}

	metrics.ProductsDeactivated.Inc()
	ps.productCache.Evict(ctx, id.String())
	ps.pageCache.Clear(ctx)
	slog.Debug("Product deactivated", slog.String("product_id", id.String()))

	return nil
}

// recordEvent stores the notification for product in the outbox when outbox events are enabled.
func (ps *ProductService) recordEvent(ctx context.Context, events repository.EventRepository, eventType, action string, product *model.Product) error {
	if !ps.outbox {
		return nil
	}

	event, err := model.NewEvent(eventType, sqs.ProductMessage{
		Action:        action,
		ProductID:     product.ID.String(),
		Name:          product.Name,
		Price:         product.Price,
		StockQuantity: product.StockQuantity,
	})
	if err != nil {
		return err
	}
	if _, err := events.Create(ctx, event); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (ps *ProductService) mapNotFound(err error, id uuid.UUID) error {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return err
	case errors.Is(err, repository.ErrRecordNotFound):
		return model.NewNotFoundError(model.ProductResourceName, id)
	default:
		return err
	}
}

func pageKey(page, size int) string {
	return strconv.Itoa(page) + ":" + strconv.Itoa(size)
}
