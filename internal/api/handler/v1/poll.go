package v1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/uniclub/uniclub-api/internal/api/handler/v1/request"
	"github.com/uniclub/uniclub-api/internal/api/handler/v1/response"
	"github.com/uniclub/uniclub-api/internal/domain"
	"github.com/uniclub/uniclub-api/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust this for production!
	},
}

type PollService interface {
	CreatePoll(ctx context.Context, poll domain.Poll) (domain.Poll, error)
	GetPoll(ctx context.Context, id uint) (domain.Poll, error)
	ListPolls(ctx context.Context) ([]domain.Poll, error)
	Vote(ctx context.Context, pollID, choiceID, userID uint) (domain.Response, error)
	Results(ctx context.Context, pollID uint) (map[uint]domain.ChoiceResult, error)
	AddComment(ctx context.Context, comment domain.Comment) (domain.Comment, error)
	ListComments(ctx context.Context, pollID uint) ([]domain.Comment, error)
}

// liveClient is one websocket subscriber to a poll's results stream.
type liveClient struct {
	conn   *websocket.Conn
	send   chan []byte
	pollID uint
}

type PollHandler struct {
	svc  PollService
	uSvc UserService

	clientsMutex sync.RWMutex
	clients      map[uint]map[*liveClient]struct{}
	register     chan *liveClient
	unregister   chan *liveClient
}

func NewPollHandler(svc PollService, uSvc UserService) *PollHandler {
	return &PollHandler{
		svc:        svc,
		uSvc:       uSvc,
		clients:    make(map[uint]map[*liveClient]struct{}),
		register:   make(chan *liveClient),
		unregister: make(chan *liveClient),
	}
}

// Run owns the subscriber registry. Meant to run once in its own
// goroutine for the server's lifetime.
func (h *PollHandler) Run() {
	for {
		select {
		case client := <-h.register:
			h.clientsMutex.Lock()
			if h.clients[client.pollID] == nil {
				h.clients[client.pollID] = make(map[*liveClient]struct{})
			}
			h.clients[client.pollID][client] = struct{}{}
			h.clientsMutex.Unlock()
		case client := <-h.unregister:
			h.clientsMutex.Lock()
			if subs, ok := h.clients[client.pollID]; ok {
				if _, ok := subs[client]; ok {
					delete(subs, client)
					close(client.send)
				}
				if len(subs) == 0 {
					delete(h.clients, client.pollID)
				}
			}
			h.clientsMutex.Unlock()
		}
	}
}

// publishResults pushes a fresh results snapshot to every subscriber of
// the poll. A slow client gets dropped rather than stalling the rest.
func (h *PollHandler) publishResults(ctx context.Context, pollID uint) {
	payload, err := h.resultsPayload(ctx, pollID)
	if err != nil {
		zap.L().Warn("live results refresh failed",
			zap.Uint("poll_id", pollID),
			zap.Error(err))
		return
	}

	message, err := json.Marshal(payload)
	if err != nil {
		zap.L().Warn("live results marshal failed", zap.Error(err))
		return
	}

	h.clientsMutex.Lock()
	defer h.clientsMutex.Unlock()

	for client := range h.clients[pollID] {
		select {
		case client.send <- message:
		default:
			close(client.send)
			delete(h.clients[pollID], client)
		}
	}
}

func (h *PollHandler) resultsPayload(ctx context.Context, pollID uint) (response.PollResultsResponse, error) {
	poll, err := h.svc.GetPoll(ctx, pollID)
	if err != nil {
		return response.PollResultsResponse{}, err
	}

	results, err := h.svc.Results(ctx, pollID)
	if err != nil {
		return response.PollResultsResponse{}, err
	}

	total := 0
	ordered := make([]domain.ChoiceResult, 0, len(poll.Choices))
	for _, c := range poll.Choices {
		result := results[c.ID]
		total += result.Votes
		ordered = append(ordered, result)
	}

	return response.PollResultsResponse{
		PollID:     poll.ID,
		Question:   poll.Question,
		TotalVotes: total,
		Results:    ordered,
	}, nil
}

// HandleCreatePoll godoc
// @Summary      Create a poll
// @Description  The question must be at least five characters and end with a
// @Description  question mark; choices must be distinct.
// @Tags         polls
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreatePollRequest  true  "poll to create"
// @Success      201    {object}  domain.Poll
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /polls [post]
// @Security BearerAuth
func (h *PollHandler) HandleCreatePoll(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.CreatePollRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	choices := make([]domain.Choice, 0, len(input.Choices))
	for _, content := range input.Choices {
		choices = append(choices, domain.Choice{Content: content})
	}

	poll, err := h.svc.CreatePoll(ctx.Request.Context(), domain.Poll{
		Question:  input.Question,
		CreatorID: user.ID,
		ClubID:    input.ClubID,
		Choices:   choices,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidPoll) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleCreatePoll -> h.svc.CreatePoll -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, poll)
}

// HandleListPolls godoc
// @Summary      List polls
// @Tags         polls
// @Produce      json
// @Success      200  {array}   domain.Poll
// @Failure      500  {object}  response.Err
// @Router       /polls [get]
// @Security BearerAuth
func (h *PollHandler) HandleListPolls(ctx *gin.Context) {
	polls, err := h.svc.ListPolls(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListPolls -> h.svc.ListPolls -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, polls)
}

// HandleGetPoll godoc
// @Summary      Get a poll
// @Tags         polls
// @Produce      json
// @Param        pollID  path      int  true  "poll ID"
// @Success      200     {object}  domain.Poll
// @Failure      400     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /polls/{pollID} [get]
// @Security BearerAuth
func (h *PollHandler) HandleGetPoll(ctx *gin.Context) {
	pollID, err := strconv.ParseUint(ctx.Param("pollID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid poll ID")))
		return
	}

	poll, err := h.svc.GetPoll(ctx.Request.Context(), uint(pollID))
	if err != nil {
		h.renderPollErr(ctx, "HandleGetPoll", pollID, err)
		return
	}

	ctx.JSON(http.StatusOK, poll)
}

// HandleVote godoc
// @Summary      Vote on a poll
// @Description  A second vote by the same user replaces the previous one.
// @Tags         polls
// @Accept       json
// @Produce      json
// @Param        pollID  path      int                  true  "poll ID"
// @Param        input   body      request.VoteRequest  true  "chosen option"
// @Success      200     {object}  domain.Response
// @Failure      400     {object}  response.Err
// @Failure      401     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /polls/{pollID}/vote [post]
// @Security BearerAuth
func (h *PollHandler) HandleVote(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	pollID, err := strconv.ParseUint(ctx.Param("pollID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid poll ID")))
		return
	}

	var input request.VoteRequest
	if err = ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	vote, err := h.svc.Vote(ctx.Request.Context(), uint(pollID), input.ChoiceID, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrChoiceNotInPoll) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrChoiceNotInPoll))
			return
		}

		h.renderPollErr(ctx, "HandleVote", pollID, err)
		return
	}

	h.publishResults(ctx.Request.Context(), uint(pollID))

	ctx.JSON(http.StatusOK, vote)
}

// HandleGetResults godoc
// @Summary      Get aggregated poll results
// @Tags         polls
// @Produce      json
// @Param        pollID  path      int  true  "poll ID"
// @Success      200     {object}  response.PollResultsResponse
// @Failure      400     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /polls/{pollID}/results [get]
// @Security BearerAuth
func (h *PollHandler) HandleGetResults(ctx *gin.Context) {
	pollID, err := strconv.ParseUint(ctx.Param("pollID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid poll ID")))
		return
	}

	payload, err := h.resultsPayload(ctx.Request.Context(), uint(pollID))
	if err != nil {
		h.renderPollErr(ctx, "HandleGetResults", pollID, err)
		return
	}

	ctx.JSON(http.StatusOK, payload)
}

// HandleLiveResults godoc
// @Summary      Stream live poll results over WebSocket
// @Description  Pushes a fresh results snapshot to the client after every vote.
// @Tags         polls
// @Produce      json
// @Param        pollID  path  int  true  "poll ID"
// @Success      101  {string}  string  "Switching Protocols to WebSocket"
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /polls/{pollID}/live [get]
// @Security BearerAuth
func (h *PollHandler) HandleLiveResults(ctx *gin.Context) {
	pollID, err := strconv.ParseUint(ctx.Param("pollID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid poll ID")))
		return
	}

	if _, err = h.svc.GetPoll(ctx.Request.Context(), uint(pollID)); err != nil {
		h.renderPollErr(ctx, "HandleLiveResults", pollID, err)
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &liveClient{
		conn:   conn,
		send:   make(chan []byte, 256),
		pollID: uint(pollID),
	}
	h.register <- client

	go client.writePump()
	go client.readPump(h)

	// Seed the new subscriber with the current standings.
	if payload, perr := h.resultsPayload(context.Background(), uint(pollID)); perr == nil {
		if message, merr := json.Marshal(payload); merr == nil {
			client.send <- message
		}
	}
}

// HandleAddComment godoc
// @Summary      Comment on a poll
// @Tags         polls
// @Accept       json
// @Produce      json
// @Param        pollID  path      int                           true  "poll ID"
// @Param        input   body      request.CreateCommentRequest  true  "comment"
// @Success      201     {object}  domain.Comment
// @Failure      400     {object}  response.Err
// @Failure      401     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /polls/{pollID}/comments [post]
// @Security BearerAuth
func (h *PollHandler) HandleAddComment(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	pollID, err := strconv.ParseUint(ctx.Param("pollID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid poll ID")))
		return
	}

	var input request.CreateCommentRequest
	if err = ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	comment, err := h.svc.AddComment(ctx.Request.Context(), domain.Comment{
		PollID:    uint(pollID),
		AuthorID:  user.ID,
		Content:   input.Content,
		CreatedAt: time.Now(),
	})
	if err != nil {
		h.renderPollErr(ctx, "HandleAddComment", pollID, err)
		return
	}

	ctx.JSON(http.StatusCreated, comment)
}

// HandleListComments godoc
// @Summary      List a poll's comments
// @Tags         polls
// @Produce      json
// @Param        pollID  path      int  true  "poll ID"
// @Success      200     {array}   domain.Comment
// @Failure      400     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /polls/{pollID}/comments [get]
// @Security BearerAuth
func (h *PollHandler) HandleListComments(ctx *gin.Context) {
	pollID, err := strconv.ParseUint(ctx.Param("pollID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid poll ID")))
		return
	}

	comments, err := h.svc.ListComments(ctx.Request.Context(), uint(pollID))
	if err != nil {
		err = fmt.Errorf("v1.HandleListComments -> h.svc.ListComments -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, comments)
}

func (h *PollHandler) renderPollErr(ctx *gin.Context, op string, pollID uint64, err error) {
	if errors.Is(err, service.ErrPollNotFound) {
		response.RenderErr(ctx, response.ErrNotFound("poll", "ID", pollID))
		return
	}

	err = fmt.Errorf("v1.%s -> %w", op, err)
	response.RenderErr(ctx, response.ErrInternalServerError(err))
}

func (c *liveClient) writePump() {
	defer func() {
		c.conn.Close()
	}()
	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)
		if err = w.Close(); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump discards inbound frames; the stream is one-way. It exists to
// notice the peer closing the connection.
func (c *liveClient) readPump(h *PollHandler) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Debug("live results connection closed", zap.Error(err))
			}
			break
		}
	}
}
