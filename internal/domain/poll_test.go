package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniclub/uniclub-api/internal/domain"
)

func pollWith(question string, choices ...string) domain.Poll {
	p := domain.Poll{Question: question}
	for _, c := range choices {
		p.Choices = append(p.Choices, domain.Choice{Content: c})
	}

	return p
}

func TestPollValidate(t *testing.T) {
	tests := []struct {
		name    string
		poll    domain.Poll
		wantErr error
	}{
		{
			name: "valid poll",
			poll: pollWith("Which event should we host next?", "Game night", "Movie night"),
		},
		{
			name:    "question too short",
			poll:    pollWith("Hm?", "Yes", "No"),
			wantErr: domain.ErrQuestionTooShort,
		},
		{
			name:    "question must end with a question mark",
			poll:    pollWith("Pick our next event.", "Game night", "Movie night"),
			wantErr: domain.ErrQuestionNotAQuestion,
		},
		{
			name:    "needs at least two choices",
			poll:    pollWith("Which event should we host next?", "Game night"),
			wantErr: domain.ErrNotEnoughChoices,
		},
		{
			name:    "duplicate choices rejected case-insensitively",
			poll:    pollWith("Which event should we host next?", "Game night", "game NIGHT"),
			wantErr: domain.ErrDuplicateChoices,
		},
		{
			name:    "choice content too short",
			poll:    pollWith("Which event should we host next?", "A", "Movie night"),
			wantErr: domain.ErrInvalidChoiceContent,
		},
		{
			name:    "choice content with forbidden characters",
			poll:    pollWith("Which event should we host next?", "<script>", "Movie night"),
			wantErr: domain.ErrInvalidChoiceContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.poll.Validate(), tt.wantErr)
		})
	}
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		percentage int
		want       string
	}{
		{percentage: 100, want: domain.TierHigh},
		{percentage: 70, want: domain.TierHigh},
		{percentage: 69, want: domain.TierMedium},
		{percentage: 40, want: domain.TierMedium},
		{percentage: 39, want: domain.TierLow},
		{percentage: 0, want: domain.TierLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.TierFor(tt.percentage), "percentage %d", tt.percentage)
	}
}

func TestCompetitionIsOpen(t *testing.T) {
	start := mustTime(t, "2026-03-01T00:00:00Z")
	end := mustTime(t, "2026-03-10T00:00:00Z")
	c := domain.Competition{StartsAt: start, EndsAt: end}

	assert.False(t, c.IsOpen(start.Add(-time.Hour)), "before start")
	assert.True(t, c.IsOpen(start), "at start")
	assert.True(t, c.IsOpen(start.Add(24*time.Hour)), "mid-window")
	assert.False(t, c.IsOpen(end), "at end")
	assert.False(t, c.IsOpen(end.Add(time.Hour)), "after end")
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()

	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)

	return parsed
}
