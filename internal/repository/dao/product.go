package dao

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

type Product struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"not null"`
	Description string
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	// Kept as text on purpose: non-numeric values mean untracked stock.
	Quantity  string `gorm:"not null;default:'0'"`
	ClubID    *uint  `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ProductDAO struct {
	db *gorm.DB
}

func NewProductDAO(db *gorm.DB) *ProductDAO {
	return &ProductDAO{
		db: db,
	}
}

func (d *ProductDAO) Insert(ctx context.Context, product Product) (Product, error) {
	result := d.db.WithContext(ctx).Create(&product)
	if result.Error != nil {
		return Product{}, result.Error
	}

	return product, nil
}

func (d *ProductDAO) FindByID(ctx context.Context, id uint) (Product, error) {
	var product Product
	result := d.db.WithContext(ctx).First(&product, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Product{}, ErrProductNotFound
		}

		return Product{}, result.Error
	}

	return product, nil
}

func (d *ProductDAO) List(ctx context.Context) ([]Product, error) {
	var products []Product
	result := d.db.WithContext(ctx).Order("id").Find(&products)
	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

func (d *ProductDAO) ListByClubID(ctx context.Context, clubID uint) ([]Product, error) {
	var products []Product
	result := d.db.WithContext(ctx).Where("club_id = ?", clubID).Order("id").Find(&products)
	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

func (d *ProductDAO) Update(ctx context.Context, product Product) (Product, error) {
	result := d.db.WithContext(ctx).Save(&product)
	if result.Error != nil {
		return Product{}, result.Error
	}

	return product, nil
}
