package repository

import (
	"context"
	"fmt"

	"github.com/uniclub/uniclub-api/internal/domain"
	"github.com/uniclub/uniclub-api/internal/repository/dao"
)

var (
	ErrClubNotFound        = dao.ErrClubNotFound
	ErrCompetitionNotFound = dao.ErrCompetitionNotFound
)

type ClubDAO interface {
	Insert(ctx context.Context, club dao.Club) (dao.Club, error)
	FindByID(ctx context.Context, id uint) (dao.Club, error)
	List(ctx context.Context) ([]dao.Club, error)
	AddMember(ctx context.Context, clubID, userID uint) error
	InsertCompetition(ctx context.Context, competition dao.Competition) (dao.Competition, error)
	FindCompetitionByID(ctx context.Context, id uint) (dao.Competition, error)
	ListCompetitions(ctx context.Context) ([]dao.Competition, error)
	AddEntrant(ctx context.Context, competitionID, userID uint) error
}

type ClubRepository struct {
	dao   ClubDAO
	uRepo *UserRepository
}

func NewClubRepository(dao ClubDAO, uRepo *UserRepository) *ClubRepository {
	return &ClubRepository{
		dao:   dao,
		uRepo: uRepo,
	}
}

func (r *ClubRepository) Create(ctx context.Context, club domain.Club) (domain.Club, error) {
	created, err := r.dao.Insert(ctx, dao.Club{
		Name:        club.Name,
		Description: club.Description,
		Category:    club.Category,
		ManagerID:   club.ManagerID,
	})
	if err != nil {
		return domain.Club{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ClubRepository) FindByID(ctx context.Context, id uint) (domain.Club, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Club{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ClubRepository) List(ctx context.Context) ([]domain.Club, error) {
	clubs, err := r.dao.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	domainClubs := make([]domain.Club, len(clubs))
	for i, c := range clubs {
		domainClubs[i] = r.daoToDomain(c)
	}

	return domainClubs, nil
}

func (r *ClubRepository) AddMember(ctx context.Context, clubID, userID uint) error {
	if err := r.dao.AddMember(ctx, clubID, userID); err != nil {
		return fmt.Errorf("r.dao.AddMember -> %w", err)
	}

	return nil
}

func (r *ClubRepository) CreateCompetition(ctx context.Context, competition domain.Competition) (domain.Competition, error) {
	created, err := r.dao.InsertCompetition(ctx, dao.Competition{
		ClubID:      competition.ClubID,
		Title:       competition.Title,
		Description: competition.Description,
		StartsAt:    competition.StartsAt,
		EndsAt:      competition.EndsAt,
	})
	if err != nil {
		return domain.Competition{}, fmt.Errorf("r.dao.InsertCompetition -> %w", err)
	}

	return r.competitionDaoToDomain(created), nil
}

func (r *ClubRepository) FindCompetitionByID(ctx context.Context, id uint) (domain.Competition, error) {
	found, err := r.dao.FindCompetitionByID(ctx, id)
	if err != nil {
		return domain.Competition{}, fmt.Errorf("r.dao.FindCompetitionByID -> %w", err)
	}

	return r.competitionDaoToDomain(found), nil
}

func (r *ClubRepository) ListCompetitions(ctx context.Context) ([]domain.Competition, error) {
	competitions, err := r.dao.ListCompetitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListCompetitions -> %w", err)
	}

	domainCompetitions := make([]domain.Competition, len(competitions))
	for i, c := range competitions {
		domainCompetitions[i] = r.competitionDaoToDomain(c)
	}

	return domainCompetitions, nil
}

func (r *ClubRepository) AddEntrant(ctx context.Context, competitionID, userID uint) error {
	if err := r.dao.AddEntrant(ctx, competitionID, userID); err != nil {
		return fmt.Errorf("r.dao.AddEntrant -> %w", err)
	}

	return nil
}

func (r *ClubRepository) daoToDomain(c dao.Club) domain.Club {
	club := domain.Club{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Category:    c.Category,
		ManagerID:   c.ManagerID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}

	if len(c.Members) > 0 {
		club.Members = r.uRepo.daosToDomain(c.Members)
	}

	if len(c.Products) > 0 {
		club.Products = make([]domain.Product, len(c.Products))
		for i, p := range c.Products {
			club.Products[i] = domain.Product{
				ID:          p.ID,
				Name:        p.Name,
				Description: p.Description,
				Price:       p.Price,
				Quantity:    p.Quantity,
				ClubID:      p.ClubID,
				CreatedAt:   p.CreatedAt,
				UpdatedAt:   p.UpdatedAt,
			}
		}
	}

	return club
}

func (r *ClubRepository) competitionDaoToDomain(c dao.Competition) domain.Competition {
	competition := domain.Competition{
		ID:          c.ID,
		ClubID:      c.ClubID,
		Title:       c.Title,
		Description: c.Description,
		StartsAt:    c.StartsAt,
		EndsAt:      c.EndsAt,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}

	if len(c.Entrants) > 0 {
		competition.Entrants = r.uRepo.daosToDomain(c.Entrants)
	}

	return competition
}
