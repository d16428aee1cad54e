package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateClubRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func (req *CreateClubRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 50)),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.Category, validation.Length(0, 50)),
	)
}

type CreateCompetitionRequest struct {
	ClubID      uint   `json:"club_id" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	StartsAt    string `json:"starts_at" binding:"required" format:"DD/MM/YYYY"`
	EndsAt      string `json:"ends_at" binding:"required" format:"DD/MM/YYYY"`
}

func (req *CreateCompetitionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ClubID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.Title, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.StartsAt, validation.Required),
		validation.Field(&req.EndsAt, validation.Required),
	)
}
