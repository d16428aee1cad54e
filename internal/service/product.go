package service

import (
	"context"
	"fmt"

	"github.com/uniclub/uniclub-api/internal/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, product domain.Product) (domain.Product, error)
	FindByID(ctx context.Context, id uint) (domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	ListByClubID(ctx context.Context, clubID uint) ([]domain.Product, error)
	Update(ctx context.Context, product domain.Product) (domain.Product, error)
}

type ProductService struct {
	repo ProductRepository
}

func NewProductService(repo ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

func (s *ProductService) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id uint) (domain.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return product, nil
}

func (s *ProductService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	return products, nil
}

func (s *ProductService) ListClubProducts(ctx context.Context, clubID uint) ([]domain.Product, error) {
	products, err := s.repo.ListByClubID(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListByClubID -> %w", err)
	}

	return products, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	if _, err := s.repo.FindByID(ctx, product.ID); err != nil {
		return domain.Product{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}
