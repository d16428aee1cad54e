package repository

import (
	"context"
	"fmt"

	"github.com/uniclub/uniclub-api/internal/domain"
	"github.com/uniclub/uniclub-api/internal/repository/dao"
)

var (
	ErrOrderNotFound     = dao.ErrOrderNotFound
	ErrInsufficientStock = dao.ErrInsufficientStock
)

type OrderDAO interface {
	InsertWithStockDecrements(ctx context.Context, order dao.Order, decrements []dao.StockDecrement) (dao.Order, error)
	FindByID(ctx context.Context, id uint) (dao.Order, error)
	ListByUserID(ctx context.Context, userID uint) ([]dao.Order, error)
	UpdateStatus(ctx context.Context, orderID uint, status string) error
}

// StockDecrement mirrors dao.StockDecrement at the domain boundary.
type StockDecrement struct {
	ProductID uint
	Quantity  int
}

type OrderRepository struct {
	dao OrderDAO
}

func NewOrderRepository(dao OrderDAO) *OrderRepository {
	return &OrderRepository{
		dao: dao,
	}
}

// CreateWithStockDecrements persists the order, its lines and the stock
// decrements as one transaction. Either everything commits or nothing does.
func (r *OrderRepository) CreateWithStockDecrements(ctx context.Context, order domain.Order, decrements []StockDecrement) (domain.Order, error) {
	daoDecrements := make([]dao.StockDecrement, len(decrements))
	for i, d := range decrements {
		daoDecrements[i] = dao.StockDecrement{
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
		}
	}

	created, err := r.dao.InsertWithStockDecrements(ctx, r.domainToDao(order), daoDecrements)
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.InsertWithStockDecrements -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uint) (domain.Order, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *OrderRepository) ListByUserID(ctx context.Context, userID uint) ([]domain.Order, error) {
	orders, err := r.dao.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListByUserID -> %w", err)
	}

	domainOrders := make([]domain.Order, len(orders))
	for i, o := range orders {
		domainOrders[i] = r.daoToDomain(o)
	}

	return domainOrders, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID uint, status domain.OrderStatus) error {
	if err := r.dao.UpdateStatus(ctx, orderID, string(status)); err != nil {
		return fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return nil
}

func (r *OrderRepository) domainToDao(o domain.Order) dao.Order {
	lines := make([]dao.OrderLine, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = dao.OrderLine{
			ID:        l.ID,
			OrderID:   l.OrderID,
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.LineTotal,
		}
	}

	return dao.Order{
		ID:        o.ID,
		Reference: o.Reference,
		UserID:    o.UserID,
		Status:    string(o.Status),
		Total:     o.Total,
		Lines:     lines,
		OrderedAt: o.OrderedAt,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func (r *OrderRepository) daoToDomain(o dao.Order) domain.Order {
	lines := make([]domain.OrderLine, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = domain.OrderLine{
			ID:        l.ID,
			OrderID:   l.OrderID,
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.LineTotal,
		}
	}

	return domain.Order{
		ID:        o.ID,
		Reference: o.Reference,
		UserID:    o.UserID,
		Status:    domain.OrderStatus(o.Status),
		Total:     o.Total,
		Lines:     lines,
		OrderedAt: o.OrderedAt,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
