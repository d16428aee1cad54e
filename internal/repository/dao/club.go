package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrClubNotFound        = errors.New("club not found")
	ErrCompetitionNotFound = errors.New("competition not found")
)

type Club struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Description string
	Category    string
	ManagerID   uint      `gorm:"not null"`
	Members     []User    `gorm:"many2many:club_members;"`
	Products    []Product `gorm:"foreignKey:ClubID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Competition struct {
	ID          uint   `gorm:"primaryKey"`
	ClubID      uint   `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string
	StartsAt    time.Time `gorm:"not null"`
	EndsAt      time.Time `gorm:"not null"`
	Entrants    []User    `gorm:"many2many:competition_entrants;"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ClubDAO struct {
	db *gorm.DB
}

func NewClubDAO(db *gorm.DB) *ClubDAO {
	return &ClubDAO{
		db: db,
	}
}

func (d *ClubDAO) Insert(ctx context.Context, club Club) (Club, error) {
	result := d.db.WithContext(ctx).Create(&club)
	if result.Error != nil {
		return Club{}, result.Error
	}

	return club, nil
}

func (d *ClubDAO) FindByID(ctx context.Context, id uint) (Club, error) {
	var club Club
	result := d.db.WithContext(ctx).
		Preload("Members").
		Preload("Products").
		First(&club, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Club{}, ErrClubNotFound
		}

		return Club{}, result.Error
	}

	return club, nil
}

func (d *ClubDAO) List(ctx context.Context) ([]Club, error) {
	var clubs []Club
	result := d.db.WithContext(ctx).Order("name").Find(&clubs)
	if result.Error != nil {
		return nil, result.Error
	}

	return clubs, nil
}

func (d *ClubDAO) AddMember(ctx context.Context, clubID, userID uint) error {
	club := Club{ID: clubID}

	return d.db.WithContext(ctx).
		Model(&club).
		Association("Members").
		Append(&User{ID: userID})
}

func (d *ClubDAO) InsertCompetition(ctx context.Context, competition Competition) (Competition, error) {
	result := d.db.WithContext(ctx).Create(&competition)
	if result.Error != nil {
		return Competition{}, result.Error
	}

	return competition, nil
}

func (d *ClubDAO) FindCompetitionByID(ctx context.Context, id uint) (Competition, error) {
	var competition Competition
	result := d.db.WithContext(ctx).Preload("Entrants").First(&competition, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Competition{}, ErrCompetitionNotFound
		}

		return Competition{}, result.Error
	}

	return competition, nil
}

func (d *ClubDAO) ListCompetitions(ctx context.Context) ([]Competition, error) {
	var competitions []Competition
	result := d.db.WithContext(ctx).Order("starts_at DESC").Find(&competitions)
	if result.Error != nil {
		return nil, result.Error
	}

	return competitions, nil
}

func (d *ClubDAO) AddEntrant(ctx context.Context, competitionID, userID uint) error {
	competition := Competition{ID: competitionID}

	return d.db.WithContext(ctx).
		Model(&competition).
		Association("Entrants").
		Append(&User{ID: userID})
}
