package repository

import (
	"context"
	"fmt"

	"github.com/uniclub/uniclub-api/internal/domain"
	"github.com/uniclub/uniclub-api/internal/repository/dao"
)

var (
	ErrPollNotFound   = dao.ErrPollNotFound
	ErrChoiceNotFound = dao.ErrChoiceNotFound
)

type PollDAO interface {
	Insert(ctx context.Context, poll dao.Poll) (dao.Poll, error)
	FindByID(ctx context.Context, id uint) (dao.Poll, error)
	List(ctx context.Context) ([]dao.Poll, error)
	ListResponses(ctx context.Context, pollID uint) ([]dao.Response, error)
	UpsertResponse(ctx context.Context, response dao.Response) (dao.Response, error)
	DeleteResponse(ctx context.Context, pollID, userID uint) error
	InsertComment(ctx context.Context, comment dao.Comment) (dao.Comment, error)
	ListComments(ctx context.Context, pollID uint) ([]dao.Comment, error)
}

type PollRepository struct {
	dao PollDAO
}

func NewPollRepository(dao PollDAO) *PollRepository {
	return &PollRepository{
		dao: dao,
	}
}

func (r *PollRepository) Create(ctx context.Context, poll domain.Poll) (domain.Poll, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(poll))
	if err != nil {
		return domain.Poll{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *PollRepository) FindByID(ctx context.Context, id uint) (domain.Poll, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Poll{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *PollRepository) List(ctx context.Context) ([]domain.Poll, error) {
	polls, err := r.dao.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	domainPolls := make([]domain.Poll, len(polls))
	for i, p := range polls {
		domainPolls[i] = r.daoToDomain(p)
	}

	return domainPolls, nil
}

func (r *PollRepository) ListResponses(ctx context.Context, pollID uint) ([]domain.Response, error) {
	responses, err := r.dao.ListResponses(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListResponses -> %w", err)
	}

	domainResponses := make([]domain.Response, len(responses))
	for i, resp := range responses {
		domainResponses[i] = r.responseDaoToDomain(resp)
	}

	return domainResponses, nil
}

func (r *PollRepository) UpsertResponse(ctx context.Context, response domain.Response) (domain.Response, error) {
	upserted, err := r.dao.UpsertResponse(ctx, dao.Response{
		PollID:   response.PollID,
		ChoiceID: response.ChoiceID,
		UserID:   response.UserID,
		VotedAt:  response.VotedAt,
	})
	if err != nil {
		return domain.Response{}, fmt.Errorf("r.dao.UpsertResponse -> %w", err)
	}

	return r.responseDaoToDomain(upserted), nil
}

func (r *PollRepository) DeleteResponse(ctx context.Context, pollID, userID uint) error {
	if err := r.dao.DeleteResponse(ctx, pollID, userID); err != nil {
		return fmt.Errorf("r.dao.DeleteResponse -> %w", err)
	}

	return nil
}

func (r *PollRepository) CreateComment(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
	created, err := r.dao.InsertComment(ctx, dao.Comment{
		PollID:   comment.PollID,
		AuthorID: comment.AuthorID,
		Content:  comment.Content,
	})
	if err != nil {
		return domain.Comment{}, fmt.Errorf("r.dao.InsertComment -> %w", err)
	}

	return r.commentDaoToDomain(created), nil
}

func (r *PollRepository) ListComments(ctx context.Context, pollID uint) ([]domain.Comment, error) {
	comments, err := r.dao.ListComments(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListComments -> %w", err)
	}

	domainComments := make([]domain.Comment, len(comments))
	for i, c := range comments {
		domainComments[i] = r.commentDaoToDomain(c)
	}

	return domainComments, nil
}

func (r *PollRepository) domainToDao(p domain.Poll) dao.Poll {
	choices := make([]dao.Choice, len(p.Choices))
	for i, c := range p.Choices {
		choices[i] = dao.Choice{
			ID:      c.ID,
			PollID:  c.PollID,
			Content: c.Content,
		}
	}

	return dao.Poll{
		ID:        p.ID,
		Question:  p.Question,
		CreatorID: p.CreatorID,
		ClubID:    p.ClubID,
		Choices:   choices,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (r *PollRepository) daoToDomain(p dao.Poll) domain.Poll {
	choices := make([]domain.Choice, len(p.Choices))
	for i, c := range p.Choices {
		choices[i] = domain.Choice{
			ID:      c.ID,
			PollID:  c.PollID,
			Content: c.Content,
		}
	}

	return domain.Poll{
		ID:        p.ID,
		Question:  p.Question,
		CreatorID: p.CreatorID,
		ClubID:    p.ClubID,
		Choices:   choices,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (r *PollRepository) responseDaoToDomain(resp dao.Response) domain.Response {
	return domain.Response{
		ID:       resp.ID,
		PollID:   resp.PollID,
		ChoiceID: resp.ChoiceID,
		UserID:   resp.UserID,
		VotedAt:  resp.VotedAt,
	}
}

func (r *PollRepository) commentDaoToDomain(c dao.Comment) domain.Comment {
	return domain.Comment{
		ID:        c.ID,
		PollID:    c.PollID,
		AuthorID:  c.AuthorID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}
