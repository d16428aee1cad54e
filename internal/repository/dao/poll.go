package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrPollNotFound   = errors.New("poll not found")
	ErrChoiceNotFound = errors.New("choice not found")
)

type Poll struct {
	ID        uint       `gorm:"primaryKey"`
	Question  string     `gorm:"not null"`
	CreatorID uint       `gorm:"not null;index"`
	ClubID    *uint      `gorm:"index"`
	Choices   []Choice   `gorm:"foreignKey:PollID;constraint:OnDelete:CASCADE"`
	Responses []Response `gorm:"foreignKey:PollID;constraint:OnDelete:CASCADE"`
	Comments  []Comment  `gorm:"foreignKey:PollID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Choice struct {
	ID      uint   `gorm:"primaryKey"`
	PollID  uint   `gorm:"not null;index"`
	Content string `gorm:"not null"`
}

type Response struct {
	ID       uint `gorm:"primaryKey"`
	PollID   uint `gorm:"not null;index"`
	ChoiceID uint `gorm:"not null;index"`
	UserID   uint `gorm:"not null;index"`
	VotedAt  time.Time
}

type Comment struct {
	ID        uint   `gorm:"primaryKey"`
	PollID    uint   `gorm:"not null;index"`
	AuthorID  uint   `gorm:"not null"`
	Content   string `gorm:"not null"`
	CreatedAt time.Time
}

type PollDAO struct {
	db *gorm.DB
}

func NewPollDAO(db *gorm.DB) *PollDAO {
	return &PollDAO{
		db: db,
	}
}

func (d *PollDAO) Insert(ctx context.Context, poll Poll) (Poll, error) {
	result := d.db.WithContext(ctx).Create(&poll)
	if result.Error != nil {
		return Poll{}, result.Error
	}

	return poll, nil
}

func (d *PollDAO) FindByID(ctx context.Context, id uint) (Poll, error) {
	var poll Poll
	result := d.db.WithContext(ctx).
		Preload("Choices").
		First(&poll, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Poll{}, ErrPollNotFound
		}

		return Poll{}, result.Error
	}

	return poll, nil
}

func (d *PollDAO) List(ctx context.Context) ([]Poll, error) {
	var polls []Poll
	result := d.db.WithContext(ctx).
		Preload("Choices").
		Order("created_at DESC").
		Find(&polls)
	if result.Error != nil {
		return nil, result.Error
	}

	return polls, nil
}

func (d *PollDAO) ListResponses(ctx context.Context, pollID uint) ([]Response, error) {
	var responses []Response
	result := d.db.WithContext(ctx).Where("poll_id = ?", pollID).Find(&responses)
	if result.Error != nil {
		return nil, result.Error
	}

	return responses, nil
}

// UpsertResponse replaces any previous vote by the user on the poll.
// Delete-then-insert runs in one transaction so a revote never leaves
// the user with zero or two responses.
func (d *PollDAO) UpsertResponse(ctx context.Context, response Response) (Response, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if result := tx.Where("poll_id = ? AND user_id = ?", response.PollID, response.UserID).
			Delete(&Response{}); result.Error != nil {
			return result.Error
		}

		if result := tx.Create(&response); result.Error != nil {
			return result.Error
		}

		return nil
	})
	if err != nil {
		return Response{}, err
	}

	return response, nil
}

func (d *PollDAO) DeleteResponse(ctx context.Context, pollID, userID uint) error {
	result := d.db.WithContext(ctx).
		Where("poll_id = ? AND user_id = ?", pollID, userID).
		Delete(&Response{})

	return result.Error
}

func (d *PollDAO) InsertComment(ctx context.Context, comment Comment) (Comment, error) {
	result := d.db.WithContext(ctx).Create(&comment)
	if result.Error != nil {
		return Comment{}, result.Error
	}

	return comment, nil
}

func (d *PollDAO) ListComments(ctx context.Context, pollID uint) ([]Comment, error) {
	var comments []Comment
	result := d.db.WithContext(ctx).
		Where("poll_id = ?", pollID).
		Order("created_at").
		Find(&comments)
	if result.Error != nil {
		return nil, result.Error
	}

	return comments, nil
}
