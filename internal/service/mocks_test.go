package service

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/stridekart/catalog/internal/domain"
	"github.com/stridekart/catalog/internal/event"
	"github.com/stridekart/catalog/internal/repository"
	apperrors "github.com/stridekart/catalog/pkg/errors"
)

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepo) List(ctx context.Context, filter repository.ProductFilter, limit, skip int) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter, limit, skip)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *mockProductRepo) ListTopRated(ctx context.Context, n int) ([]domain.Product, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepo) Update(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProductRepo) SaveIfVersion(ctx context.Context, p *domain.Product, expectedVersion int64) (bool, error) {
	args := m.Called(ctx, p, expectedVersion)
	return args.Bool(0), args.Error(1)
}

func (m *mockProductRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockTopCache struct {
	mock.Mock
}

func (m *mockTopCache) Get(ctx context.Context, n int) ([]domain.Product, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockTopCache) Set(ctx context.Context, n int, products []domain.Product) error {
	args := m.Called(ctx, n, products)
	return args.Error(0)
}

func (m *mockTopCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type mockImageStore struct {
	mock.Mock
}

func (m *mockImageStore) Delete(ctx context.Context, imageRef string) error {
	args := m.Called(ctx, imageRef)
	return args.Error(0)
}

// noopCache satisfies the cache interface for tests that do not care about
// caching behavior.
type noopCache struct{}

func (noopCache) Get(context.Context, int) ([]domain.Product, error) { return nil, nil }
func (noopCache) Set(context.Context, int, []domain.Product) error   { return nil }
func (noopCache) Invalidate(context.Context) error                   { return nil }

// memStore is an in-memory product store with real compare-and-swap
// semantics, used for concurrency tests.
type memStore struct {
	mu       sync.Mutex
	products map[string]domain.Product
}

func newMemStore() *memStore {
	return &memStore{products: make(map[string]domain.Product)}
}

func (s *memStore) Create(_ context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = clone(p)
	return nil
}

func (s *memStore) GetByID(_ context.Context, id string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, apperrors.NotFound("product", id)
	}
	cp := cloneVal(p)
	return &cp, nil
}

func (s *memStore) List(context.Context, repository.ProductFilter, int, int) ([]domain.Product, int, error) {
	return nil, 0, nil
}

func (s *memStore) ListTopRated(context.Context, int) ([]domain.Product, error) {
	return nil, nil
}

func (s *memStore) Update(_ context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.Version++
	s.products[p.ID] = clone(p)
	return nil
}

func (s *memStore) SaveIfVersion(_ context.Context, p *domain.Product, expectedVersion int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.products[p.ID]
	if !ok || stored.Version != expectedVersion {
		return false, nil
	}
	p.Version = expectedVersion + 1
	s.products[p.ID] = clone(p)
	return true, nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return apperrors.NotFound("product", id)
	}
	delete(s.products, id)
	return nil
}

func clone(p *domain.Product) domain.Product {
	return cloneVal(*p)
}

func cloneVal(p domain.Product) domain.Product {
	reviews := make([]domain.Review, len(p.Reviews))
	copy(reviews, p.Reviews)
	p.Reviews = reviews
	return p
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testPublisher() *event.Publisher {
	return event.NewPublisher(nil, "", testLogger())
}
