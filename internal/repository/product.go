package repository

import (
	"context"
	"fmt"

	"github.com/uniclub/uniclub-api/internal/domain"
	"github.com/uniclub/uniclub-api/internal/repository/dao"
)

var ErrProductNotFound = dao.ErrProductNotFound

type ProductDAO interface {
	Insert(ctx context.Context, product dao.Product) (dao.Product, error)
	FindByID(ctx context.Context, id uint) (dao.Product, error)
	List(ctx context.Context) ([]dao.Product, error)
	ListByClubID(ctx context.Context, clubID uint) ([]dao.Product, error)
	Update(ctx context.Context, product dao.Product) (dao.Product, error)
}

type ProductRepository struct {
	dao ProductDAO
}

func NewProductRepository(dao ProductDAO) *ProductRepository {
	return &ProductRepository{
		dao: dao,
	}
}

func (r *ProductRepository) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(product))
	if err != nil {
		return domain.Product{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id uint) (domain.Product, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	products, err := r.dao.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	return r.daosToDomain(products), nil
}

func (r *ProductRepository) ListByClubID(ctx context.Context, clubID uint) ([]domain.Product, error) {
	products, err := r.dao.ListByClubID(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListByClubID -> %w", err)
	}

	return r.daosToDomain(products), nil
}

func (r *ProductRepository) Update(ctx context.Context, product domain.Product) (domain.Product, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(product))
	if err != nil {
		return domain.Product{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *ProductRepository) domainToDao(p domain.Product) dao.Product {
	return dao.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		ClubID:      p.ClubID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (r *ProductRepository) daoToDomain(p dao.Product) domain.Product {
	return domain.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		ClubID:      p.ClubID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (r *ProductRepository) daosToDomain(products []dao.Product) []domain.Product {
	domainProducts := make([]domain.Product, len(products))
	for i, p := range products {
		domainProducts[i] = r.daoToDomain(p)
	}

	return domainProducts
}
