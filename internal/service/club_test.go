package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniclub/uniclub-api/internal/domain"
	"github.com/uniclub/uniclub-api/internal/repository"
	"github.com/uniclub/uniclub-api/internal/service"
)

type fakeClubRepo struct {
	nextID       uint
	clubs        map[uint]domain.Club
	competitions map[uint]domain.Competition
	members      map[uint][]uint
	entrants     map[uint][]uint
}

func newFakeClubRepo() *fakeClubRepo {
	return &fakeClubRepo{
		clubs:        make(map[uint]domain.Club),
		competitions: make(map[uint]domain.Competition),
		members:      make(map[uint][]uint),
		entrants:     make(map[uint][]uint),
	}
}

func (f *fakeClubRepo) Create(_ context.Context, club domain.Club) (domain.Club, error) {
	f.nextID++
	club.ID = f.nextID
	f.clubs[club.ID] = club

	return club, nil
}

func (f *fakeClubRepo) FindByID(_ context.Context, id uint) (domain.Club, error) {
	club, ok := f.clubs[id]
	if !ok {
		return domain.Club{}, repository.ErrClubNotFound
	}

	return club, nil
}

func (f *fakeClubRepo) List(_ context.Context) ([]domain.Club, error) {
	var clubs []domain.Club
	for _, c := range f.clubs {
		clubs = append(clubs, c)
	}

	return clubs, nil
}

func (f *fakeClubRepo) AddMember(_ context.Context, clubID, userID uint) error {
	f.members[clubID] = append(f.members[clubID], userID)

	return nil
}

func (f *fakeClubRepo) CreateCompetition(_ context.Context, competition domain.Competition) (domain.Competition, error) {
	f.nextID++
	competition.ID = f.nextID
	f.competitions[competition.ID] = competition

	return competition, nil
}

func (f *fakeClubRepo) FindCompetitionByID(_ context.Context, id uint) (domain.Competition, error) {
	competition, ok := f.competitions[id]
	if !ok {
		return domain.Competition{}, repository.ErrCompetitionNotFound
	}

	return competition, nil
}

func (f *fakeClubRepo) ListCompetitions(_ context.Context) ([]domain.Competition, error) {
	var competitions []domain.Competition
	for _, c := range f.competitions {
		competitions = append(competitions, c)
	}

	return competitions, nil
}

func (f *fakeClubRepo) AddEntrant(_ context.Context, competitionID, userID uint) error {
	f.entrants[competitionID] = append(f.entrants[competitionID], userID)

	return nil
}

func TestJoinClub(t *testing.T) {
	ctx := context.Background()
	repo := newFakeClubRepo()
	svc := service.NewClubService(repo)

	club, err := svc.CreateClub(ctx, domain.Club{Name: "Chess Club", ManagerID: 1})
	require.NoError(t, err)

	t.Run("member joins an existing club", func(t *testing.T) {
		require.NoError(t, svc.JoinClub(ctx, club.ID, 7))

		assert.Equal(t, []uint{7}, repo.members[club.ID])
	})

	t.Run("unknown club", func(t *testing.T) {
		err := svc.JoinClub(ctx, 99, 7)

		assert.ErrorIs(t, err, service.ErrClubNotFound)
	})
}

func TestEnterCompetition(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	seed := func(t *testing.T, startsAt, endsAt time.Time) (*fakeClubRepo, *service.ClubService, domain.Competition) {
		t.Helper()

		repo := newFakeClubRepo()
		svc := service.NewClubService(repo)

		club, err := svc.CreateClub(ctx, domain.Club{Name: "Chess Club", ManagerID: 1})
		require.NoError(t, err)

		competition, err := svc.CreateCompetition(ctx, domain.Competition{
			ClubID:   club.ID,
			Title:    "Spring Blitz",
			StartsAt: startsAt,
			EndsAt:   endsAt,
		})
		require.NoError(t, err)

		return repo, svc, competition
	}

	t.Run("open competition accepts entries", func(t *testing.T) {
		repo, svc, competition := seed(t, now.Add(-time.Hour), now.Add(time.Hour))

		require.NoError(t, svc.EnterCompetition(ctx, competition.ID, 7))

		assert.Equal(t, []uint{7}, repo.entrants[competition.ID])
	})

	t.Run("not yet open", func(t *testing.T) {
		repo, svc, competition := seed(t, now.Add(time.Hour), now.Add(2*time.Hour))

		err := svc.EnterCompetition(ctx, competition.ID, 7)

		assert.ErrorIs(t, err, service.ErrCompetitionClosed)
		assert.Empty(t, repo.entrants[competition.ID])
	})

	t.Run("already ended", func(t *testing.T) {
		_, svc, competition := seed(t, now.Add(-2*time.Hour), now.Add(-time.Hour))

		err := svc.EnterCompetition(ctx, competition.ID, 7)

		assert.ErrorIs(t, err, service.ErrCompetitionClosed)
	})

	t.Run("competition must belong to an existing club", func(t *testing.T) {
		repo := newFakeClubRepo()
		svc := service.NewClubService(repo)

		_, err := svc.CreateCompetition(ctx, domain.Competition{ClubID: 42, Title: "Orphan Cup"})

		assert.ErrorIs(t, err, service.ErrClubNotFound)
	})
}
