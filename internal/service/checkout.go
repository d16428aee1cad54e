package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/uniclub/uniclub-api/internal/domain"
	"github.com/uniclub/uniclub-api/internal/notification"
	"github.com/uniclub/uniclub-api/internal/repository"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNotAuthenticated  = errors.New("user not authenticated")
	ErrProductNotFound   = repository.ErrProductNotFound
	ErrInsufficientStock = repository.ErrInsufficientStock
	ErrOrderNotFound     = repository.ErrOrderNotFound
	ErrInvalidTransition = domain.ErrInvalidTransition
)

type CheckoutProductRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Product, error)
}

type CheckoutOrderRepository interface {
	CreateWithStockDecrements(ctx context.Context, order domain.Order, decrements []repository.StockDecrement) (domain.Order, error)
	FindByID(ctx context.Context, id uint) (domain.Order, error)
	ListByUserID(ctx context.Context, userID uint) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID uint, status domain.OrderStatus) error
}

type CartStore interface {
	GetCart(userID uint) domain.Cart
	Clear(userID uint)
}

type Notifier interface {
	SendOrderConfirmation(ctx context.Context, recipient string, summary notification.OrderSummary) error
}

// CheckoutService turns a cart into a persisted order. The flow is
// two-phase: every line is validated against current stock before any
// mutation, then the order, its lines and all stock decrements commit in
// one transaction. The confirmation email is best-effort and never
// fails a placed order.
type CheckoutService struct {
	products CheckoutProductRepository
	orders   CheckoutOrderRepository
	users    UserRepository
	cart     CartStore
	notifier Notifier
}

func NewCheckoutService(
	products CheckoutProductRepository,
	orders CheckoutOrderRepository,
	users UserRepository,
	cart CartStore,
	notifier Notifier,
) *CheckoutService {
	return &CheckoutService{
		products: products,
		orders:   orders,
		users:    users,
		cart:     cart,
		notifier: notifier,
	}
}

// CheckoutResult carries the placed order plus a human-readable warning
// when the confirmation email failed. The order stands regardless.
type CheckoutResult struct {
	Order   domain.Order
	Warning string
}

// Checkout places an order for the user's current cart.
func (s *CheckoutService) Checkout(ctx context.Context, userID uint) (CheckoutResult, error) {
	if userID == 0 {
		return CheckoutResult{}, ErrNotAuthenticated
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return CheckoutResult{}, ErrNotAuthenticated
		}

		return CheckoutResult{}, fmt.Errorf("s.users.FindByID -> %w", err)
	}

	cart := s.cart.GetCart(userID)
	if cart.IsEmpty() {
		return CheckoutResult{}, ErrEmptyCart
	}

	lines, decrements, err := s.buildLines(ctx, cart)
	if err != nil {
		return CheckoutResult{}, err
	}

	order := domain.Order{
		Reference: newOrderReference(),
		UserID:    userID,
		Status:    domain.OrderPending,
		Lines:     lines,
		Total:     domain.OrderTotal(lines),
		OrderedAt: time.Now(),
	}

	created, err := s.orders.CreateWithStockDecrements(ctx, order, decrements)
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			return CheckoutResult{}, ErrInsufficientStock
		}

		return CheckoutResult{}, fmt.Errorf("s.orders.CreateWithStockDecrements -> %w", err)
	}

	s.cart.Clear(userID)

	return CheckoutResult{
		Order:   created,
		Warning: s.notify(ctx, user, created),
	}, nil
}

// buildLines converts the cart into priced order lines and validates
// every line's stock before anything is persisted. A missing product
// fails loudly; skipping it would silently undercharge.
func (s *CheckoutService) buildLines(ctx context.Context, cart domain.Cart) ([]domain.OrderLine, []repository.StockDecrement, error) {
	lines := make([]domain.OrderLine, 0, len(cart.Lines))
	decrements := make([]repository.StockDecrement, 0, len(cart.Lines))

	for _, cl := range cart.Lines {
		product, err := s.products.FindByID(ctx, cl.ProductID)
		if err != nil {
			if errors.Is(err, ErrProductNotFound) {
				return nil, nil, fmt.Errorf("%w: product %v", ErrProductNotFound, cl.ProductID)
			}

			return nil, nil, fmt.Errorf("s.products.FindByID -> %w", err)
		}

		_, tracked, err := reserveStock(product, cl.Quantity)
		if err != nil {
			return nil, nil, err
		}
		if tracked {
			decrements = append(decrements, repository.StockDecrement{
				ProductID: product.ID,
				Quantity:  cl.Quantity,
			})
		}

		unitPrice := product.Price
		lines = append(lines, domain.OrderLine{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  cl.Quantity,
			UnitPrice: unitPrice,
			LineTotal: unitPrice.Mul(decimal.NewFromInt(int64(cl.Quantity))),
		})
	}

	return lines, decrements, nil
}

// reserveStock validates availability and computes the post-reservation
// stock level. Products whose quantity is not numeric are untracked and
// never block a purchase. Pure: persistence is the caller's problem.
func reserveStock(product domain.Product, requested int) (int, bool, error) {
	stock, tracked := product.Stock()
	if !tracked {
		return 0, false, nil
	}

	if requested > stock {
		return 0, true, fmt.Errorf("%w: product %q has %v left, %v requested",
			ErrInsufficientStock, product.Name, stock, requested)
	}

	return stock - requested, true, nil
}

// ConfirmOrder moves a PENDING order to CONFIRMED and re-sends the
// confirmation notification best-effort.
func (s *CheckoutService) ConfirmOrder(ctx context.Context, orderID uint) (CheckoutResult, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return CheckoutResult{}, fmt.Errorf("s.orders.FindByID -> %w", err)
	}

	if err = order.Confirm(); err != nil {
		return CheckoutResult{}, err
	}

	if err = s.orders.UpdateStatus(ctx, order.ID, order.Status); err != nil {
		return CheckoutResult{}, fmt.Errorf("s.orders.UpdateStatus -> %w", err)
	}

	result := CheckoutResult{Order: order}
	if user, uerr := s.users.FindByID(ctx, order.UserID); uerr == nil {
		result.Warning = s.notify(ctx, user, order)
	}

	return result, nil
}

// CancelOrder moves a PENDING order to CANCELLED.
func (s *CheckoutService) CancelOrder(ctx context.Context, orderID uint) (domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("s.orders.FindByID -> %w", err)
	}

	if err = order.Cancel(); err != nil {
		return domain.Order{}, err
	}

	if err = s.orders.UpdateStatus(ctx, order.ID, order.Status); err != nil {
		return domain.Order{}, fmt.Errorf("s.orders.UpdateStatus -> %w", err)
	}

	return order, nil
}

func (s *CheckoutService) GetOrder(ctx context.Context, orderID uint) (domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("s.orders.FindByID -> %w", err)
	}

	return order, nil
}

func (s *CheckoutService) ListOrders(ctx context.Context, userID uint) ([]domain.Order, error) {
	orders, err := s.orders.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.orders.ListByUserID -> %w", err)
	}

	return orders, nil
}

// notify sends the confirmation email. Failures are logged and surfaced
// as a warning message; they never roll the order back.
func (s *CheckoutService) notify(ctx context.Context, user domain.User, order domain.Order) string {
	err := s.notifier.SendOrderConfirmation(ctx, user.Email, notification.OrderSummary{
		Reference:     order.Reference,
		RecipientName: user.Name,
		Lines:         order.Lines,
		Total:         order.Total.StringFixed(2),
	})
	if err != nil {
		zap.L().Warn("order confirmation email failed",
			zap.String("reference", order.Reference),
			zap.Uint("user_id", user.ID),
			zap.Error(err))

		return "order placed, but the confirmation email could not be sent"
	}

	return ""
}

func newOrderReference() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}
