package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/uniclub/uniclub-api/internal/domain"
	"github.com/uniclub/uniclub-api/internal/repository"
)

var (
	ErrPollNotFound    = repository.ErrPollNotFound
	ErrChoiceNotFound  = repository.ErrChoiceNotFound
	ErrChoiceNotInPoll = errors.New("choice does not belong to this poll")
	ErrInvalidPoll     = errors.New("invalid poll")
)

type PollRepository interface {
	Create(ctx context.Context, poll domain.Poll) (domain.Poll, error)
	FindByID(ctx context.Context, id uint) (domain.Poll, error)
	List(ctx context.Context) ([]domain.Poll, error)
	ListResponses(ctx context.Context, pollID uint) ([]domain.Response, error)
	UpsertResponse(ctx context.Context, response domain.Response) (domain.Response, error)
	CreateComment(ctx context.Context, comment domain.Comment) (domain.Comment, error)
	ListComments(ctx context.Context, pollID uint) ([]domain.Comment, error)
}

type PollService struct {
	repo PollRepository
}

func NewPollService(repo PollRepository) *PollService {
	return &PollService{
		repo: repo,
	}
}

func (s *PollService) CreatePoll(ctx context.Context, poll domain.Poll) (domain.Poll, error) {
	if err := poll.Validate(); err != nil {
		return domain.Poll{}, fmt.Errorf("%w: %v", ErrInvalidPoll, err)
	}

	created, err := s.repo.Create(ctx, poll)
	if err != nil {
		return domain.Poll{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *PollService) GetPoll(ctx context.Context, id uint) (domain.Poll, error) {
	poll, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Poll{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return poll, nil
}

func (s *PollService) ListPolls(ctx context.Context) ([]domain.Poll, error) {
	polls, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	return polls, nil
}

// Vote records the user's choice. A second vote on the same poll
// replaces the previous response instead of adding a duplicate, so the
// poll's total vote count is unchanged by a revote.
func (s *PollService) Vote(ctx context.Context, pollID, choiceID, userID uint) (domain.Response, error) {
	poll, err := s.repo.FindByID(ctx, pollID)
	if err != nil {
		return domain.Response{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	found := false
	for _, c := range poll.Choices {
		if c.ID == choiceID {
			found = true
			break
		}
	}
	if !found {
		return domain.Response{}, ErrChoiceNotInPoll
	}

	response, err := s.repo.UpsertResponse(ctx, domain.Response{
		PollID:   pollID,
		ChoiceID: choiceID,
		UserID:   userID,
		VotedAt:  time.Now(),
	})
	if err != nil {
		return domain.Response{}, fmt.Errorf("s.repo.UpsertResponse -> %w", err)
	}

	return response, nil
}

// Results aggregates the poll's responses into per-choice vote counts,
// rounded percentages and display tiers. With zero votes every
// percentage is zero.
func (s *PollService) Results(ctx context.Context, pollID uint) (map[uint]domain.ChoiceResult, error) {
	poll, err := s.repo.FindByID(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	responses, err := s.repo.ListResponses(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListResponses -> %w", err)
	}

	votes := make(map[uint]int, len(poll.Choices))
	for _, r := range responses {
		votes[r.ChoiceID]++
	}
	total := len(responses)

	results := make(map[uint]domain.ChoiceResult, len(poll.Choices))
	for _, c := range poll.Choices {
		percentage := 0
		if total > 0 {
			percentage = int(math.Round(100 * float64(votes[c.ID]) / float64(total)))
		}

		results[c.ID] = domain.ChoiceResult{
			ChoiceID:   c.ID,
			Content:    c.Content,
			Votes:      votes[c.ID],
			Percentage: percentage,
			Tier:       domain.TierFor(percentage),
		}
	}

	return results, nil
}

func (s *PollService) AddComment(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
	if _, err := s.repo.FindByID(ctx, comment.PollID); err != nil {
		return domain.Comment{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	created, err := s.repo.CreateComment(ctx, comment)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("s.repo.CreateComment -> %w", err)
	}

	return created, nil
}

func (s *PollService) ListComments(ctx context.Context, pollID uint) ([]domain.Comment, error) {
	comments, err := s.repo.ListComments(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListComments -> %w", err)
	}

	return comments, nil
}
