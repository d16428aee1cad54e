package response

import (
	"github.com/uniclub/uniclub-api/internal/domain"
)

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// CheckoutResponse reports the placed order. Warning is set when the
// order stands but the confirmation email failed.
type CheckoutResponse struct {
	Order   domain.Order `json:"order"`
	Warning string       `json:"warning,omitempty"`
}

type CartResponse struct {
	Cart  domain.Cart `json:"cart"`
	Total string      `json:"total"`
}

type PollResultsResponse struct {
	PollID     uint                  `json:"poll_id"`
	Question   string                `json:"question"`
	TotalVotes int                   `json:"total_votes"`
	Results    []domain.ChoiceResult `json:"results"`
}
