package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniclub/uniclub-api/internal/domain"
	"github.com/uniclub/uniclub-api/internal/service"
)

func newCartService(t *testing.T) *service.CartService {
	return service.NewCartService(&fakeProductRepo{products: map[uint]domain.Product{
		1: {ID: 1, Name: "Club hoodie", Price: price(t, "25.00"), Quantity: "10"},
		2: {ID: 2, Name: "Sticker pack", Price: price(t, "2.50"), Quantity: "plenty"},
	}})
}

func TestCartAddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("adds a line with a price snapshot", func(t *testing.T) {
		svc := newCartService(t)

		cart, err := svc.AddItem(ctx, 7, 1, 2)
		require.NoError(t, err)

		require.Len(t, cart.Lines, 1)
		assert.Equal(t, "Club hoodie", cart.Lines[0].Name)
		assert.Equal(t, 2, cart.Lines[0].Quantity)
		assert.Equal(t, "50.00", cart.Total().StringFixed(2))
	})

	t.Run("same product merges into one line", func(t *testing.T) {
		svc := newCartService(t)

		_, err := svc.AddItem(ctx, 7, 1, 1)
		require.NoError(t, err)
		cart, err := svc.AddItem(ctx, 7, 1, 2)
		require.NoError(t, err)

		require.Len(t, cart.Lines, 1)
		assert.Equal(t, 3, cart.Lines[0].Quantity)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		svc := newCartService(t)

		_, err := svc.AddItem(ctx, 7, 1, 0)

		assert.ErrorIs(t, err, service.ErrInvalidQuantity)
	})

	t.Run("rejects unknown product", func(t *testing.T) {
		svc := newCartService(t)

		_, err := svc.AddItem(ctx, 7, 99, 1)

		assert.ErrorIs(t, err, service.ErrProductNotFound)
	})

	t.Run("carts are per user", func(t *testing.T) {
		svc := newCartService(t)

		_, err := svc.AddItem(ctx, 7, 1, 1)
		require.NoError(t, err)

		assert.True(t, svc.GetCart(8).IsEmpty())
	})
}

func TestCartDecrementItem(t *testing.T) {
	ctx := context.Background()

	t.Run("lowers the quantity by one", func(t *testing.T) {
		svc := newCartService(t)
		_, err := svc.AddItem(ctx, 7, 1, 3)
		require.NoError(t, err)

		cart := svc.DecrementItem(7, 1)

		require.Len(t, cart.Lines, 1)
		assert.Equal(t, 2, cart.Lines[0].Quantity)
	})

	t.Run("dropping below one removes the line", func(t *testing.T) {
		svc := newCartService(t)
		_, err := svc.AddItem(ctx, 7, 1, 1)
		require.NoError(t, err)

		cart := svc.DecrementItem(7, 1)

		assert.True(t, cart.IsEmpty())
	})

	t.Run("unknown product is a no-op", func(t *testing.T) {
		svc := newCartService(t)
		_, err := svc.AddItem(ctx, 7, 1, 1)
		require.NoError(t, err)

		cart := svc.DecrementItem(7, 99)

		assert.Len(t, cart.Lines, 1)
	})
}

func TestCartRemoveAndClear(t *testing.T) {
	ctx := context.Background()

	t.Run("remove deletes the whole line", func(t *testing.T) {
		svc := newCartService(t)
		_, err := svc.AddItem(ctx, 7, 1, 3)
		require.NoError(t, err)
		_, err = svc.AddItem(ctx, 7, 2, 1)
		require.NoError(t, err)

		cart := svc.RemoveItem(7, 1)

		require.Len(t, cart.Lines, 1)
		assert.Equal(t, uint(2), cart.Lines[0].ProductID)
	})

	t.Run("clear empties the cart", func(t *testing.T) {
		svc := newCartService(t)
		_, err := svc.AddItem(ctx, 7, 1, 3)
		require.NoError(t, err)

		svc.Clear(7)

		assert.True(t, svc.GetCart(7).IsEmpty())
	})
}

func TestCartSnapshotIsolation(t *testing.T) {
	ctx := context.Background()
	svc := newCartService(t)

	_, err := svc.AddItem(ctx, 7, 1, 1)
	require.NoError(t, err)

	snapshot := svc.GetCart(7)
	snapshot.Lines[0].Quantity = 99

	assert.Equal(t, 1, svc.GetCart(7).Lines[0].Quantity)
}
