package service_test

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/iyhunko/product-catalog-service/internal/model"
	"github.com/iyhunko/product-catalog-service/internal/repository"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of repository.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Save(ctx context.Context, product *model.Product) (*model.Product, error) {
	args := m.Called(ctx, product)
	if fn, ok := args.Get(0).(func(context.Context, *model.Product) *model.Product); ok {
		return fn(ctx, product), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if fn, ok := args.Get(0).(func(context.Context, uuid.UUID) *model.Product); ok {
		return fn(ctx, id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context) ([]*model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Product), args.Error(1)
}

func (m *MockProductRepository) FindPage(ctx context.Context, page repository.PageRequest) (*repository.PageResult, error) {
	args := m.Called(ctx, page)
	if fn, ok := args.Get(0).(func(context.Context, repository.PageRequest) *repository.PageResult); ok {
		return fn(ctx, page), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult), args.Error(1)
}

func (m *MockProductRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) ExistsActiveByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) DeactivateByID(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEventRepository is a mock implementation of repository.EventRepository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventRepository) ListPending(ctx context.Context, limit int) ([]*model.Event, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

func (m *MockEventRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.EventStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockTransactor records the call and, unless an error is configured, runs fn against Products and Events.
type MockTransactor struct {
	mock.Mock
	Products repository.ProductRepository
	Events   repository.EventRepository
}

func (m *MockTransactor) WithinTransaction(ctx context.Context, fn func(repository.ProductRepository, repository.EventRepository) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m.Products, m.Events)
}

// MockPublisher is a mock implementation of service.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishRaw(ctx context.Context, body []byte) error {
	args := m.Called(ctx, body)
	return args.Error(0)
}

// inMemoryProducts is a map backed ProductRepository for scenario tests.
type inMemoryProducts struct {
	mu    sync.Mutex
	items map[uuid.UUID]model.Product
}

func newInMemoryProducts() *inMemoryProducts {
	return &inMemoryProducts{items: map[uuid.UUID]model.Product{}}
}

func (r *inMemoryProducts) Save(_ context.Context, product *model.Product) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	saved := *product
	if stored, ok := r.items[product.ID]; ok && !stored.Active {
		saved.Active = false
	}
	r.items[product.ID] = saved
	return &saved, nil
}

func (r *inMemoryProducts) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok || !p.Active {
		return nil, repository.ErrRecordNotFound
	}
	return &p, nil
}

func (r *inMemoryProducts) FindAll(_ context.Context) ([]*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active(), nil
}

func (r *inMemoryProducts) FindPage(_ context.Context, page repository.PageRequest) (*repository.PageResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.active()
	start := min(page.Offset(), len(all))
	end := min(start+page.Size, len(all))
	return repository.NewPageResult(all[start:end], int64(len(all)), page.Size), nil
}

func (r *inMemoryProducts) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.items[id]
	return ok, nil
}

func (r *inMemoryProducts) ExistsActiveByID(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	return ok && p.Active, nil
}

func (r *inMemoryProducts) DeactivateByID(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok || !p.Active {
		return repository.ErrRecordNotFound
	}
	p.Deactivate()
	r.items[id] = p
	return nil
}

// active returns copies of the active products, newest first.
func (r *inMemoryProducts) active() []*model.Product {
	out := make([]*model.Product, 0, len(r.items))
	for _, p := range r.items {
		if p.Active {
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() > out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// inMemoryEvents is a slice backed EventRepository for scenario tests.
type inMemoryEvents struct {
	mu     sync.Mutex
	events []*model.Event
}

func (r *inMemoryEvents) Create(_ context.Context, event *model.Event) (*model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event.InitMeta()
	r.events = append(r.events, event)
	return event, nil
}

func (r *inMemoryEvents) ListPending(_ context.Context, limit int) ([]*model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Event
	for _, e := range r.events {
		if e.Status == model.EventStatusPending && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *inMemoryEvents) UpdateStatus(_ context.Context, id uuid.UUID, status model.EventStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.ID == id {
			e.Status = status
			return nil
		}
	}
	return repository.ErrRecordNotFound
}

func (r *inMemoryEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType
	}
	return out
}

// inMemoryTransactor runs fn directly against the in-memory repositories.
type inMemoryTransactor struct {
	products *inMemoryProducts
	events   *inMemoryEvents
}

func (t inMemoryTransactor) WithinTransaction(_ context.Context, fn func(repository.ProductRepository, repository.EventRepository) error) error {
	return fn(t.products, t.events)
}
