package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/clothing-store/internal/model"
	"github.com/iliyamo/clothing-store/internal/repository"
)

// CatalogService manages categories and products.
type CatalogService struct {
	categories *repository.CategoryRepo
	products   *repository.ProductRepo
}

func NewCatalogService(categories *repository.CategoryRepo, products *repository.ProductRepo) *CatalogService {
	return &CatalogService{categories: categories, products: products}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	out, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

// GetCategory returns ErrNotFound for an unknown id.
func (s *CatalogService) GetCategory(ctx context.Context, id uint64) (model.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Category{}, fmt.Errorf("%w: category %d", ErrNotFound, id)
	}
	if err != nil {
		return model.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Category{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	id, err := s.categories.Create(ctx, name)
	if err != nil {
		return model.Category{}, fmt.Errorf("create category: %w", err)
	}
	return model.Category{ID: id, Name: name}, nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]model.Product, error) {
	out, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

// NewProduct holds the fields of a product to create.
type NewProduct struct {
	Name       string
	CategoryID uint64
	Price      decimal.Decimal
	Stock      int
}

// CreateProduct adds a product to an existing category.  Price and stock
// must not be negative.
func (s *CatalogService) CreateProduct(ctx context.Context, in NewProduct) (model.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	switch {
	case in.Name == "":
		return model.Product{}, fmt.Errorf("%w: name is required", ErrValidation)
	case in.Price.IsNegative():
		return model.Product{}, fmt.Errorf("%w: price must not be negative", ErrValidation)
	case in.Stock < 0:
		return model.Product{}, fmt.Errorf("%w: stock must not be negative", ErrValidation)
	}
	cat, err := s.GetCategory(ctx, in.CategoryID)
	if err != nil {
		return model.Product{}, err
	}
	price := in.Price.Round(2)
	id, err := s.products.Create(ctx, in.Name, cat.ID, price, in.Stock)
	if err != nil {
		return model.Product{}, fmt.Errorf("create product: %w", err)
	}
	return model.Product{
		ID:           id,
		Name:         in.Name,
		CategoryID:   cat.ID,
		CategoryName: cat.Name,
		Price:        price,
		Stock:        in.Stock,
	}, nil
}
