package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniclub/uniclub-api/internal/domain"
)

func TestOrderConfirm(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.OrderStatus
		wantErr error
		want    domain.OrderStatus
	}{
		{
			name:   "pending order confirms",
			status: domain.OrderPending,
			want:   domain.OrderConfirmed,
		},
		{
			name:    "confirmed order stays confirmed",
			status:  domain.OrderConfirmed,
			wantErr: domain.ErrInvalidTransition,
			want:    domain.OrderConfirmed,
		},
		{
			name:    "cancelled order cannot be confirmed",
			status:  domain.OrderCancelled,
			wantErr: domain.ErrInvalidTransition,
			want:    domain.OrderCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := domain.Order{Status: tt.status}

			err := order.Confirm()

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.want, order.Status)
		})
	}
}

func TestOrderCancel(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.OrderStatus
		wantErr error
		want    domain.OrderStatus
	}{
		{
			name:   "pending order cancels",
			status: domain.OrderPending,
			want:   domain.OrderCancelled,
		},
		{
			name:    "confirmed order cannot be cancelled",
			status:  domain.OrderConfirmed,
			wantErr: domain.ErrInvalidTransition,
			want:    domain.OrderConfirmed,
		},
		{
			name:    "cancelled order stays cancelled",
			status:  domain.OrderCancelled,
			wantErr: domain.ErrInvalidTransition,
			want:    domain.OrderCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := domain.Order{Status: tt.status}

			err := order.Cancel()

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.want, order.Status)
		})
	}
}

func TestOrderTotal(t *testing.T) {
	line := func(price string, qty int) domain.OrderLine {
		unit, err := decimal.NewFromString(price)
		require.NoError(t, err)

		return domain.OrderLine{
			Quantity:  qty,
			UnitPrice: unit,
			LineTotal: unit.Mul(decimal.NewFromInt(int64(qty))),
		}
	}

	t.Run("sums line totals", func(t *testing.T) {
		lines := []domain.OrderLine{
			line("2.50", 3),
			line("1.00", 2),
		}

		assert.Equal(t, "9.50", domain.OrderTotal(lines).StringFixed(2))
	})

	t.Run("no lines is zero", func(t *testing.T) {
		assert.True(t, domain.OrderTotal(nil).IsZero())
	})
}
