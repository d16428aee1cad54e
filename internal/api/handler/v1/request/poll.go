package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreatePollRequest struct {
	Question string   `json:"question" binding:"required"`
	ClubID   *uint    `json:"club_id"`
	Choices  []string `json:"choices" binding:"required"`
}

func (req *CreatePollRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Question, validation.Required, validation.Length(5, 200)),
		validation.Field(&req.Choices, validation.Required, validation.Length(2, 20)),
	)
}

type VoteRequest struct {
	ChoiceID uint `json:"choice_id" binding:"required"`
}

func (req *VoteRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ChoiceID, validation.Required, validation.Min(uint(1))),
	)
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

func (req *CreateCommentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Content, validation.Required, validation.Length(1, 500)),
	)
}
