package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/uniclub/uniclub-api/internal/api/handler/v1/response"
	"github.com/uniclub/uniclub-api/internal/domain"
	"github.com/uniclub/uniclub-api/internal/service"
)

type CheckoutService interface {
	Checkout(ctx context.Context, userID uint) (service.CheckoutResult, error)
	GetOrder(ctx context.Context, orderID uint) (domain.Order, error)
	ListOrders(ctx context.Context, userID uint) ([]domain.Order, error)
	ConfirmOrder(ctx context.Context, orderID uint) (service.CheckoutResult, error)
	CancelOrder(ctx context.Context, orderID uint) (domain.Order, error)
}

type OrderHandler struct {
	svc  CheckoutService
	uSvc UserService
}

func NewOrderHandler(svc CheckoutService, uSvc UserService) *OrderHandler {
	return &OrderHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleCheckout godoc
// @Summary      Place an order for the current cart
// @Description  Validates stock for every cart line, then commits the order
// @Description  and all stock decrements atomically. The response carries a
// @Description  warning when the confirmation email could not be sent.
// @Tags         orders
// @Produce      json
// @Success      201  {object}  response.CheckoutResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /orders/checkout [post]
// @Security BearerAuth
func (h *OrderHandler) HandleCheckout(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	result, err := h.svc.Checkout(ctx.Request.Context(), user.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrEmptyCart))
		case errors.Is(err, service.ErrNotAuthenticated):
			response.RenderErr(ctx, response.ErrPermissionDenied())
		case errors.Is(err, service.ErrProductNotFound):
			response.RenderErr(ctx, response.ErrNotFound("product", "cart", user.ID))
		case errors.Is(err, service.ErrInsufficientStock):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleCheckout -> h.svc.Checkout -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, response.CheckoutResponse{
		Order:   result.Order,
		Warning: result.Warning,
	})
}

// HandleListOrders godoc
// @Summary      List the current user's orders
// @Tags         orders
// @Produce      json
// @Success      200  {array}   domain.Order
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /orders [get]
// @Security BearerAuth
func (h *OrderHandler) HandleListOrders(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	orders, err := h.svc.ListOrders(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListOrders -> h.svc.ListOrders -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, orders)
}

// HandleGetOrder godoc
// @Summary      Get one of the current user's orders
// @Tags         orders
// @Produce      json
// @Param        orderID  path      int  true  "order ID"
// @Success      200      {object}  domain.Order
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /orders/{orderID} [get]
// @Security BearerAuth
func (h *OrderHandler) HandleGetOrder(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	orderID, err := strconv.ParseUint(ctx.Param("orderID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid order ID")))
		return
	}

	order, err := h.svc.GetOrder(ctx.Request.Context(), uint(orderID))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("order", "ID", orderID))
			return
		}

		err = fmt.Errorf("v1.HandleGetOrder -> h.svc.GetOrder -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if order.UserID != user.ID && user.Role != domain.RoleAdmin {
		response.RenderErr(ctx, response.ErrPermissionDenied())
		return
	}

	ctx.JSON(http.StatusOK, order)
}

// HandleConfirmOrder godoc
// @Summary      Confirm a pending order
// @Tags         orders
// @Produce      json
// @Param        orderID  path      int  true  "order ID"
// @Success      200      {object}  response.CheckoutResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /orders/{orderID}/confirm [post]
// @Security BearerAuth
func (h *OrderHandler) HandleConfirmOrder(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if user.Role != domain.RoleClubManager && user.Role != domain.RoleAdmin {
		response.RenderErr(ctx, response.ErrPermissionDenied())
		return
	}

	orderID, err := strconv.ParseUint(ctx.Param("orderID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid order ID")))
		return
	}

	result, err := h.svc.ConfirmOrder(ctx.Request.Context(), uint(orderID))
	if err != nil {
		h.renderTransitionErr(ctx, "HandleConfirmOrder", orderID, err)
		return
	}

	ctx.JSON(http.StatusOK, response.CheckoutResponse{
		Order:   result.Order,
		Warning: result.Warning,
	})
}

// HandleCancelOrder godoc
// @Summary      Cancel a pending order
// @Tags         orders
// @Produce      json
// @Param        orderID  path      int  true  "order ID"
// @Success      200      {object}  domain.Order
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /orders/{orderID}/cancel [post]
// @Security BearerAuth
func (h *OrderHandler) HandleCancelOrder(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	orderID, err := strconv.ParseUint(ctx.Param("orderID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid order ID")))
		return
	}

	order, err := h.svc.GetOrder(ctx.Request.Context(), uint(orderID))
	if err == nil && order.UserID != user.ID &&
		user.Role != domain.RoleClubManager && user.Role != domain.RoleAdmin {
		response.RenderErr(ctx, response.ErrPermissionDenied())
		return
	}

	cancelled, err := h.svc.CancelOrder(ctx.Request.Context(), uint(orderID))
	if err != nil {
		h.renderTransitionErr(ctx, "HandleCancelOrder", orderID, err)
		return
	}

	ctx.JSON(http.StatusOK, cancelled)
}

func (h *OrderHandler) renderTransitionErr(ctx *gin.Context, op string, orderID uint64, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		response.RenderErr(ctx, response.ErrNotFound("order", "ID", orderID))
	case errors.Is(err, service.ErrInvalidTransition):
		response.RenderErr(ctx, response.ErrConflict(err))
	default:
		err = fmt.Errorf("v1.%s -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
