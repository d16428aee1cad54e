package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uniclub/uniclub-api/internal/domain"
)

func TestProductStock(t *testing.T) {
	tests := []struct {
		name        string
		quantity    string
		wantStock   int
		wantTracked bool
	}{
		{
			name:        "numeric quantity is tracked",
			quantity:    "12",
			wantStock:   12,
			wantTracked: true,
		},
		{
			name:        "zero is tracked and sold out",
			quantity:    "0",
			wantStock:   0,
			wantTracked: true,
		},
		{
			name:        "surrounding whitespace is tolerated",
			quantity:    "  7 ",
			wantStock:   7,
			wantTracked: true,
		},
		{
			name:        "free text means untracked",
			quantity:    "plenty",
			wantTracked: false,
		},
		{
			name:        "empty quantity means untracked",
			quantity:    "",
			wantTracked: false,
		},
		{
			name:        "mixed text is untracked",
			quantity:    "10 boxes",
			wantTracked: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stock, tracked := domain.Product{Quantity: tt.quantity}.Stock()

			assert.Equal(t, tt.wantTracked, tracked)
			assert.Equal(t, tt.wantStock, stock)
		})
	}
}
