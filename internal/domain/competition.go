package domain

import "time"

type Competition struct {
	ID          uint      `json:"id"`
	ClubID      uint      `json:"club_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Entrants    []User    `json:"entrants,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c Competition) IsOpen(now time.Time) bool {
	return !now.Before(c.StartsAt) && now.Before(c.EndsAt)
}
