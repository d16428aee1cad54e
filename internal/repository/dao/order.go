package dao

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Order struct {
	ID        uint            `gorm:"primaryKey"`
	Reference string          `gorm:"unique;not null"`
	UserID    uint            `gorm:"not null;index"`
	Status    string          `gorm:"not null"`
	Total     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Lines     []OrderLine     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	OrderedAt time.Time       `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderLine struct {
	ID        uint            `gorm:"primaryKey"`
	OrderID   uint            `gorm:"not null;index"`
	ProductID uint            `gorm:"not null"`
	Name      string          `gorm:"not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	LineTotal decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

// StockDecrement is one product-level stock adjustment applied inside
// the order-creation transaction.
type StockDecrement struct {
	ProductID uint
	Quantity  int
}

type OrderDAO struct {
	db *gorm.DB
}

func NewOrderDAO(db *gorm.DB) *OrderDAO {
	return &OrderDAO{
		db: db,
	}
}

// InsertWithStockDecrements creates the order with its lines and applies
// every stock decrement in one transaction. Each decrement is conditional
// on the product still holding enough numeric stock, so concurrent
// checkouts cannot oversell; a failed condition rolls the whole order
// back and returns ErrInsufficientStock.
func (d *OrderDAO) InsertWithStockDecrements(ctx context.Context, order Order, decrements []StockDecrement) (Order, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if result := tx.Create(&order); result.Error != nil {
			return result.Error
		}

		for _, dec := range decrements {
			result := tx.Model(&Product{}).
				Where("id = ? AND quantity ~ '^[0-9]+$' AND (quantity)::integer >= ?", dec.ProductID, dec.Quantity).
				Update("quantity", gorm.Expr("((quantity)::integer - ?)::text", dec.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrInsufficientStock
			}
		}

		return nil
	})
	if err != nil {
		return Order{}, err
	}

	return order, nil
}

func (d *OrderDAO) FindByID(ctx context.Context, id uint) (Order, error) {
	var order Order
	result := d.db.WithContext(ctx).Preload("Lines").First(&order, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Order{}, ErrOrderNotFound
		}

		return Order{}, result.Error
	}

	return order, nil
}

func (d *OrderDAO) ListByUserID(ctx context.Context, userID uint) ([]Order, error) {
	var orders []Order
	result := d.db.WithContext(ctx).
		Preload("Lines").
		Where("user_id = ?", userID).
		Order("ordered_at DESC").
		Find(&orders)
	if result.Error != nil {
		return nil, result.Error
	}

	return orders, nil
}

func (d *OrderDAO) UpdateStatus(ctx context.Context, orderID uint, status string) error {
	result := d.db.WithContext(ctx).
		Model(&Order{}).
		Where("id = ?", orderID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}
