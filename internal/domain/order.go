package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// ErrInvalidTransition is returned when an order status change is not
// allowed from the current status. CONFIRMED and CANCELLED are terminal.
var ErrInvalidTransition = errors.New("invalid order status transition")

type Order struct {
	ID        uint            `json:"id"`
	Reference string          `json:"reference"`
	UserID    uint            `json:"user_id"`
	Status    OrderStatus     `json:"status"`
	Lines     []OrderLine     `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	OrderedAt time.Time       `json:"ordered_at"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// OrderLine is immutable once the order is placed. UnitPrice is the
// product price at order time, not the current one.
type OrderLine struct {
	ID        uint            `json:"id"`
	OrderID   uint            `json:"order_id"`
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// OrderTotal sums the line totals. Order.Total must only ever be set
// from it so the total cannot drift from the lines.
func OrderTotal(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal)
	}

	return total
}

func (o *Order) Confirm() error {
	if o.Status != OrderPending {
		return ErrInvalidTransition
	}
	o.Status = OrderConfirmed

	return nil
}

func (o *Order) Cancel() error {
	if o.Status != OrderPending {
		return ErrInvalidTransition
	}
	o.Status = OrderCancelled

	return nil
}
