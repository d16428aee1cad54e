package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var (
	ErrQuestionTooShort     = errors.New("poll question must be at least 5 characters")
	ErrQuestionNotAQuestion = errors.New("poll question must end with a question mark")
	ErrNotEnoughChoices     = errors.New("poll must have at least 2 choices")
	ErrDuplicateChoices     = errors.New("poll choices must be distinct")
	ErrInvalidChoiceContent = errors.New("choice content must be 2-100 characters of letters, digits, spaces or basic punctuation")
)

var choiceContentPattern = regexp.MustCompile(`^[a-zA-Z0-9 .,!?'-]{2,100}$`)

type Poll struct {
	ID        uint       `json:"id"`
	Question  string     `json:"question"`
	CreatorID uint       `json:"creator_id"`
	ClubID    *uint      `json:"club_id,omitempty"`
	Choices   []Choice   `json:"choices"`
	Responses []Response `json:"responses,omitempty"`
	Comments  []Comment  `json:"comments,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type Choice struct {
	ID      uint   `json:"id"`
	PollID  uint   `json:"poll_id"`
	Content string `json:"content"`
}

// Response records one user's vote on a poll. A user holds at most one
// response per poll; voting again replaces the previous one.
type Response struct {
	ID       uint      `json:"id"`
	PollID   uint      `json:"poll_id"`
	ChoiceID uint      `json:"choice_id"`
	UserID   uint      `json:"user_id"`
	VotedAt  time.Time `json:"voted_at"`
}

// Validate checks the poll invariants before creation.
func (p Poll) Validate() error {
	question := strings.TrimSpace(p.Question)
	if len(question) < 5 {
		return ErrQuestionTooShort
	}
	if !strings.HasSuffix(question, "?") {
		return ErrQuestionNotAQuestion
	}
	if len(p.Choices) < 2 {
		return ErrNotEnoughChoices
	}

	seen := make(map[string]struct{}, len(p.Choices))
	for _, c := range p.Choices {
		if !choiceContentPattern.MatchString(c.Content) {
			return ErrInvalidChoiceContent
		}

		key := strings.ToLower(strings.TrimSpace(c.Content))
		if _, ok := seen[key]; ok {
			return ErrDuplicateChoices
		}
		seen[key] = struct{}{}
	}

	return nil
}

const (
	TierHigh   = "high"
	TierMedium = "medium"
	TierLow    = "low"
)

// ChoiceResult is the aggregated outcome for one choice. Percentage is
// rounded to the nearest integer; Tier bands it for display.
type ChoiceResult struct {
	ChoiceID   uint   `json:"choice_id"`
	Content    string `json:"content"`
	Votes      int    `json:"votes"`
	Percentage int    `json:"percentage"`
	Tier       string `json:"tier"`
}

// TierFor bands a vote percentage: >=70 high, >=40 medium, low otherwise.
// Downstream displays depend on these thresholds.
func TierFor(percentage int) string {
	switch {
	case percentage >= 70:
		return TierHigh
	case percentage >= 40:
		return TierMedium
	default:
		return TierLow
	}
}
