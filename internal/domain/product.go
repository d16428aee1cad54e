package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	// Quantity is stored as free text. A numeric value is a tracked stock
	// level; anything else means the product is always available and its
	// stock is never decremented. Inherited behavior, kept on purpose.
	Quantity  string    `json:"quantity"`
	ClubID    *uint     `json:"club_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Stock parses the textual quantity. The second return value reports
// whether the stock is tracked (numeric); untracked products never
// block a purchase.
func (p Product) Stock() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(p.Quantity))
	if err != nil {
		return 0, false
	}

	return n, true
}
