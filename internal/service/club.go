package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uniclub/uniclub-api/internal/domain"
	"github.com/uniclub/uniclub-api/internal/repository"
)

var (
	ErrClubNotFound        = repository.ErrClubNotFound
	ErrCompetitionNotFound = repository.ErrCompetitionNotFound
	ErrCompetitionClosed   = errors.New("competition is not open for entries")
)

type ClubRepository interface {
	Create(ctx context.Context, club domain.Club) (domain.Club, error)
	FindByID(ctx context.Context, id uint) (domain.Club, error)
	List(ctx context.Context) ([]domain.Club, error)
	AddMember(ctx context.Context, clubID, userID uint) error
	CreateCompetition(ctx context.Context, competition domain.Competition) (domain.Competition, error)
	FindCompetitionByID(ctx context.Context, id uint) (domain.Competition, error)
	ListCompetitions(ctx context.Context) ([]domain.Competition, error)
	AddEntrant(ctx context.Context, competitionID, userID uint) error
}

type ClubService struct {
	repo ClubRepository
}

func NewClubService(repo ClubRepository) *ClubService {
	return &ClubService{
		repo: repo,
	}
}

func (s *ClubService) CreateClub(ctx context.Context, club domain.Club) (domain.Club, error) {
	created, err := s.repo.Create(ctx, club)
	if err != nil {
		return domain.Club{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *ClubService) GetClub(ctx context.Context, id uint) (domain.Club, error) {
	club, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Club{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return club, nil
}

func (s *ClubService) ListClubs(ctx context.Context) ([]domain.Club, error) {
	clubs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	return clubs, nil
}

func (s *ClubService) JoinClub(ctx context.Context, clubID, userID uint) error {
	if _, err := s.repo.FindByID(ctx, clubID); err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if err := s.repo.AddMember(ctx, clubID, userID); err != nil {
		return fmt.Errorf("s.repo.AddMember -> %w", err)
	}

	return nil
}

func (s *ClubService) CreateCompetition(ctx context.Context, competition domain.Competition) (domain.Competition, error) {
	if _, err := s.repo.FindByID(ctx, competition.ClubID); err != nil {
		return domain.Competition{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	created, err := s.repo.CreateCompetition(ctx, competition)
	if err != nil {
		return domain.Competition{}, fmt.Errorf("s.repo.CreateCompetition -> %w", err)
	}

	return created, nil
}

func (s *ClubService) ListCompetitions(ctx context.Context) ([]domain.Competition, error) {
	competitions, err := s.repo.ListCompetitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListCompetitions -> %w", err)
	}

	return competitions, nil
}

func (s *ClubService) EnterCompetition(ctx context.Context, competitionID, userID uint) error {
	competition, err := s.repo.FindCompetitionByID(ctx, competitionID)
	if err != nil {
		return fmt.Errorf("s.repo.FindCompetitionByID -> %w", err)
	}

	if !competition.IsOpen(time.Now()) {
		return ErrCompetitionClosed
	}

	if err := s.repo.AddEntrant(ctx, competitionID, userID); err != nil {
		return fmt.Errorf("s.repo.AddEntrant -> %w", err)
	}

	return nil
}
