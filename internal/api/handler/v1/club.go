package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uniclub/uniclub-api/internal/api/handler/v1/request"
	"github.com/uniclub/uniclub-api/internal/api/handler/v1/response"
	"github.com/uniclub/uniclub-api/internal/domain"
	"github.com/uniclub/uniclub-api/internal/service"
)

const competitionDateLayout = "02/01/2006"

type ClubService interface {
	CreateClub(ctx context.Context, club domain.Club) (domain.Club, error)
	GetClub(ctx context.Context, id uint) (domain.Club, error)
	ListClubs(ctx context.Context) ([]domain.Club, error)
	JoinClub(ctx context.Context, clubID, userID uint) error
	CreateCompetition(ctx context.Context, competition domain.Competition) (domain.Competition, error)
	ListCompetitions(ctx context.Context) ([]domain.Competition, error)
	EnterCompetition(ctx context.Context, competitionID, userID uint) error
}

type ClubHandler struct {
	svc  ClubService
	uSvc UserService
}

func NewClubHandler(svc ClubService, uSvc UserService) *ClubHandler {
	return &ClubHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleCreateClub godoc
// @Summary      Create a club
// @Tags         clubs
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateClubRequest  true  "club to create"
// @Success      201    {object}  domain.Club
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /clubs [post]
// @Security BearerAuth
func (h *ClubHandler) HandleCreateClub(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if user.Role != domain.RoleClubManager && user.Role != domain.RoleAdmin {
		response.RenderErr(ctx, response.ErrPermissionDenied())
		return
	}

	var input request.CreateClubRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	club, err := h.svc.CreateClub(ctx.Request.Context(), domain.Club{
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		ManagerID:   user.ID,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateClub -> h.svc.CreateClub -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, club)
}

// HandleListClubs godoc
// @Summary      List clubs
// @Tags         clubs
// @Produce      json
// @Success      200  {array}   domain.Club
// @Failure      500  {object}  response.Err
// @Router       /clubs [get]
// @Security BearerAuth
func (h *ClubHandler) HandleListClubs(ctx *gin.Context) {
	clubs, err := h.svc.ListClubs(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListClubs -> h.svc.ListClubs -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, clubs)
}

// HandleGetClub godoc
// @Summary      Get a club
// @Tags         clubs
// @Produce      json
// @Param        clubID  path      int  true  "club ID"
// @Success      200     {object}  domain.Club
// @Failure      400     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /clubs/{clubID} [get]
// @Security BearerAuth
func (h *ClubHandler) HandleGetClub(ctx *gin.Context) {
	clubID, err := strconv.ParseUint(ctx.Param("clubID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid club ID")))
		return
	}

	club, err := h.svc.GetClub(ctx.Request.Context(), uint(clubID))
	if err != nil {
		if errors.Is(err, service.ErrClubNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("club", "ID", clubID))
			return
		}

		err = fmt.Errorf("v1.HandleGetClub -> h.svc.GetClub -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, club)
}

// HandleJoinClub godoc
// @Summary      Join a club
// @Tags         clubs
// @Produce      json
// @Param        clubID  path  int  true  "club ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /clubs/{clubID}/join [post]
// @Security BearerAuth
func (h *ClubHandler) HandleJoinClub(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	clubID, err := strconv.ParseUint(ctx.Param("clubID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid club ID")))
		return
	}

	if err = h.svc.JoinClub(ctx.Request.Context(), uint(clubID), user.ID); err != nil {
		if errors.Is(err, service.ErrClubNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("club", "ID", clubID))
			return
		}

		err = fmt.Errorf("v1.HandleJoinClub -> h.svc.JoinClub -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleCreateCompetition godoc
// @Summary      Create a competition
// @Description  Dates use the DD/MM/YYYY format.
// @Tags         competitions
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateCompetitionRequest  true  "competition to create"
// @Success      201    {object}  domain.Competition
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /competitions [post]
// @Security BearerAuth
func (h *ClubHandler) HandleCreateCompetition(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if user.Role != domain.RoleClubManager && user.Role != domain.RoleAdmin {
		response.RenderErr(ctx, response.ErrPermissionDenied())
		return
	}

	var input request.CreateCompetitionRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	startsAt, err := time.Parse(competitionDateLayout, input.StartsAt)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("starts_at must be DD/MM/YYYY")))
		return
	}

	endsAt, err := time.Parse(competitionDateLayout, input.EndsAt)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("ends_at must be DD/MM/YYYY")))
		return
	}

	if !endsAt.After(startsAt) {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("ends_at must be after starts_at")))
		return
	}

	competition, err := h.svc.CreateCompetition(ctx.Request.Context(), domain.Competition{
		ClubID:      input.ClubID,
		Title:       input.Title,
		Description: input.Description,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
	})
	if err != nil {
		if errors.Is(err, service.ErrClubNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("club", "ID", input.ClubID))
			return
		}

		err = fmt.Errorf("v1.HandleCreateCompetition -> h.svc.CreateCompetition -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, competition)
}

// HandleListCompetitions godoc
// @Summary      List competitions
// @Tags         competitions
// @Produce      json
// @Success      200  {array}   domain.Competition
// @Failure      500  {object}  response.Err
// @Router       /competitions [get]
// @Security BearerAuth
func (h *ClubHandler) HandleListCompetitions(ctx *gin.Context) {
	competitions, err := h.svc.ListCompetitions(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListCompetitions -> h.svc.ListCompetitions -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, competitions)
}

// HandleEnterCompetition godoc
// @Summary      Enter a competition
// @Description  Entries are only accepted while the competition is open.
// @Tags         competitions
// @Produce      json
// @Param        competitionID  path  int  true  "competition ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /competitions/{competitionID}/enter [post]
// @Security BearerAuth
func (h *ClubHandler) HandleEnterCompetition(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	competitionID, err := strconv.ParseUint(ctx.Param("competitionID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid competition ID")))
		return
	}

	if err = h.svc.EnterCompetition(ctx.Request.Context(), uint(competitionID), user.ID); err != nil {
		switch {
		case errors.Is(err, service.ErrCompetitionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("competition", "ID", competitionID))
		case errors.Is(err, service.ErrCompetitionClosed):
			response.RenderErr(ctx, response.ErrConflict(service.ErrCompetitionClosed))
		default:
			err = fmt.Errorf("v1.HandleEnterCompetition -> h.svc.EnterCompetition -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}
