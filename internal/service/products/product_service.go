package products

import (
	"context"
	"errors"

	"github.com/Domenick1991/tourledger/internal/catalog"
	"github.com/Domenick1991/tourledger/internal/domain"
	"github.com/Domenick1991/tourledger/internal/repository"
)

type ProductUseCase interface {
	List(ctx context.Context) ([]domain.Product, error)
	Products(ctx context.Context) (map[string]string, error)
}

type ProductCache interface {
	GetProducts(ctx context.Context) ([]domain.Product, error)
	SetProducts(ctx context.Context, products []domain.Product) error
}

// ProductService reads the catalog from the cache first and falls back to Postgres.
type ProductService struct {
	repo  repository.ProductRepository
	cache ProductCache
}

func NewProductService(repo repository.ProductRepository, cache ProductCache) *ProductService {
	return &ProductService{repo: repo, cache: cache}
}

func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetProducts(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetProducts(ctx, products)
	}
	return products, nil
}

// Products returns the catalog as a productId -> title map.
// An empty catalog is an error so a bad reload never wipes the snapshot.
func (s *ProductService) Products(ctx context.Context) (map[string]string, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, errors.New("product catalog is empty")
	}

	titles := make(map[string]string, len(list))
	for _, p := range list {
		titles[p.ID] = p.Title
	}
	return titles, nil
}

var (
	_ ProductUseCase = (*ProductService)(nil)
	_ catalog.Source = (*ProductService)(nil)
)
