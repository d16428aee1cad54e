package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniclub/uniclub-api/internal/domain"
	"github.com/uniclub/uniclub-api/internal/notification"
	"github.com/uniclub/uniclub-api/internal/repository"
	"github.com/uniclub/uniclub-api/internal/service"
)

type fakeProductRepo struct {
	products map[uint]domain.Product
}

func (f *fakeProductRepo) FindByID(_ context.Context, id uint) (domain.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return domain.Product{}, repository.ErrProductNotFound
	}

	return product, nil
}

type fakeOrderRepo struct {
	nextID     uint
	created    []domain.Order
	decrements [][]repository.StockDecrement
	orders     map[uint]domain.Order
	statuses   map[uint]domain.OrderStatus
	createErr  error
}

func (f *fakeOrderRepo) CreateWithStockDecrements(_ context.Context, order domain.Order, decrements []repository.StockDecrement) (domain.Order, error) {
	if f.createErr != nil {
		return domain.Order{}, f.createErr
	}

	f.nextID++
	order.ID = f.nextID
	f.created = append(f.created, order)
	f.decrements = append(f.decrements, decrements)

	return order, nil
}

func (f *fakeOrderRepo) FindByID(_ context.Context, id uint) (domain.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return domain.Order{}, repository.ErrOrderNotFound
	}

	return order, nil
}

func (f *fakeOrderRepo) ListByUserID(_ context.Context, userID uint) ([]domain.Order, error) {
	var orders []domain.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}

	return orders, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, orderID uint, status domain.OrderStatus) error {
	if f.statuses == nil {
		f.statuses = make(map[uint]domain.OrderStatus)
	}
	f.statuses[orderID] = status

	return nil
}

type fakeUserRepo struct {
	users map[uint]domain.User
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

type fakeCartStore struct {
	carts   map[uint]domain.Cart
	cleared []uint
}

func (f *fakeCartStore) GetCart(userID uint) domain.Cart {
	return f.carts[userID]
}

func (f *fakeCartStore) Clear(userID uint) {
	f.cleared = append(f.cleared, userID)
	delete(f.carts, userID)
}

type fakeNotifier struct {
	sent []notification.OrderSummary
	err  error
}

func (f *fakeNotifier) SendOrderConfirmation(_ context.Context, _ string, summary notification.OrderSummary) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, summary)

	return nil
}

func price(t *testing.T, value string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(value)
	require.NoError(t, err)

	return d
}

type checkoutFixture struct {
	products *fakeProductRepo
	orders   *fakeOrderRepo
	users    *fakeUserRepo
	cart     *fakeCartStore
	notifier *fakeNotifier
	svc      *service.CheckoutService
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	f := &checkoutFixture{
		products: &fakeProductRepo{products: map[uint]domain.Product{
			1: {ID: 1, Name: "Club hoodie", Price: price(t, "5.00"), Quantity: "3"},
			2: {ID: 2, Name: "Sticker pack", Price: price(t, "10.00"), Quantity: "2"},
			3: {ID: 3, Name: "Bake sale cookie", Price: price(t, "1.50"), Quantity: "fresh daily"},
		}},
		orders:   &fakeOrderRepo{orders: map[uint]domain.Order{}},
		users:    &fakeUserRepo{users: map[uint]domain.User{7: {ID: 7, Email: "sam@example.edu", Name: "Sam"}}},
		cart:     &fakeCartStore{carts: map[uint]domain.Cart{}},
		notifier: &fakeNotifier{},
	}
	f.svc = service.NewCheckoutService(f.products, f.orders, f.users, f.cart, f.notifier)

	return f
}

func (f *checkoutFixture) fillCart(userID uint, lines ...domain.CartLine) {
	f.cart.carts[userID] = domain.Cart{UserID: userID, Lines: lines}
}

func TestCheckout(t *testing.T) {
	t.Run("places order, decrements tracked stock and clears the cart", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.fillCart(7,
			domain.CartLine{ProductID: 1, Quantity: 3},
			domain.CartLine{ProductID: 2, Quantity: 1},
		)

		result, err := f.svc.Checkout(context.Background(), 7)
		require.NoError(t, err)

		assert.Empty(t, result.Warning)
		assert.Equal(t, domain.OrderPending, result.Order.Status)
		assert.Equal(t, "25.00", result.Order.Total.StringFixed(2))
		assert.Len(t, result.Order.Lines, 2)
		assert.NotEmpty(t, result.Order.Reference)

		require.Len(t, f.orders.decrements, 1)
		assert.ElementsMatch(t, []repository.StockDecrement{
			{ProductID: 1, Quantity: 3},
			{ProductID: 2, Quantity: 1},
		}, f.orders.decrements[0])

		assert.Equal(t, []uint{7}, f.cart.cleared)
		require.Len(t, f.notifier.sent, 1)
		assert.Equal(t, "25.00", f.notifier.sent[0].Total)
	})

	t.Run("untracked products never block and are never decremented", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.fillCart(7, domain.CartLine{ProductID: 3, Quantity: 100})

		result, err := f.svc.Checkout(context.Background(), 7)
		require.NoError(t, err)

		assert.Equal(t, "150.00", result.Order.Total.StringFixed(2))
		require.Len(t, f.orders.decrements, 1)
		assert.Empty(t, f.orders.decrements[0])
	})

	t.Run("insufficient stock fails before anything is written", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.fillCart(7,
			domain.CartLine{ProductID: 1, Quantity: 1},
			domain.CartLine{ProductID: 2, Quantity: 5},
		)

		_, err := f.svc.Checkout(context.Background(), 7)

		assert.ErrorIs(t, err, service.ErrInsufficientStock)
		assert.Empty(t, f.orders.created)
		assert.Empty(t, f.cart.cleared)
		assert.Empty(t, f.notifier.sent)
	})

	t.Run("concurrent decrement loss surfaces as insufficient stock", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.fillCart(7, domain.CartLine{ProductID: 1, Quantity: 2})
		f.orders.createErr = repository.ErrInsufficientStock

		_, err := f.svc.Checkout(context.Background(), 7)

		assert.ErrorIs(t, err, service.ErrInsufficientStock)
		assert.Empty(t, f.cart.cleared)
	})

	t.Run("empty cart is rejected", func(t *testing.T) {
		f := newCheckoutFixture(t)

		_, err := f.svc.Checkout(context.Background(), 7)

		assert.ErrorIs(t, err, service.ErrEmptyCart)
	})

	t.Run("unknown user is not authenticated", func(t *testing.T) {
		f := newCheckoutFixture(t)

		_, err := f.svc.Checkout(context.Background(), 99)

		assert.ErrorIs(t, err, service.ErrNotAuthenticated)
	})

	t.Run("missing product fails the whole checkout", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.fillCart(7,
			domain.CartLine{ProductID: 1, Quantity: 1},
			domain.CartLine{ProductID: 42, Quantity: 1},
		)

		_, err := f.svc.Checkout(context.Background(), 7)

		assert.ErrorIs(t, err, service.ErrProductNotFound)
		assert.Empty(t, f.orders.created)
	})

	t.Run("notification failure keeps the order and returns a warning", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.fillCart(7, domain.CartLine{ProductID: 1, Quantity: 1})
		f.notifier.err = errors.New("smtp down")

		result, err := f.svc.Checkout(context.Background(), 7)
		require.NoError(t, err)

		assert.NotEmpty(t, result.Warning)
		assert.Len(t, f.orders.created, 1)
		assert.Equal(t, []uint{7}, f.cart.cleared)
	})
}

func TestConfirmOrder(t *testing.T) {
	t.Run("pending order confirms and persists the status", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.orders.orders[10] = domain.Order{ID: 10, UserID: 7, Status: domain.OrderPending}

		result, err := f.svc.ConfirmOrder(context.Background(), 10)
		require.NoError(t, err)

		assert.Equal(t, domain.OrderConfirmed, result.Order.Status)
		assert.Equal(t, domain.OrderConfirmed, f.orders.statuses[10])
	})

	t.Run("confirmed order cannot be confirmed again", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.orders.orders[10] = domain.Order{ID: 10, UserID: 7, Status: domain.OrderConfirmed}

		_, err := f.svc.ConfirmOrder(context.Background(), 10)

		assert.ErrorIs(t, err, service.ErrInvalidTransition)
		assert.Empty(t, f.orders.statuses)
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newCheckoutFixture(t)

		_, err := f.svc.ConfirmOrder(context.Background(), 99)

		assert.ErrorIs(t, err, service.ErrOrderNotFound)
	})
}

func TestCancelOrder(t *testing.T) {
	t.Run("pending order cancels", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.orders.orders[10] = domain.Order{ID: 10, UserID: 7, Status: domain.OrderPending}

		order, err := f.svc.CancelOrder(context.Background(), 10)
		require.NoError(t, err)

		assert.Equal(t, domain.OrderCancelled, order.Status)
		assert.Equal(t, domain.OrderCancelled, f.orders.statuses[10])
	})

	t.Run("cancelled order cannot be cancelled again", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.orders.orders[10] = domain.Order{ID: 10, UserID: 7, Status: domain.OrderCancelled}

		_, err := f.svc.CancelOrder(context.Background(), 10)

		assert.ErrorIs(t, err, service.ErrInvalidTransition)
	})
}
