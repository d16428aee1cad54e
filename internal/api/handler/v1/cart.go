package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/uniclub/uniclub-api/internal/api/handler/v1/request"
	"github.com/uniclub/uniclub-api/internal/api/handler/v1/response"
	"github.com/uniclub/uniclub-api/internal/domain"
	"github.com/uniclub/uniclub-api/internal/service"
)

type CartService interface {
	GetCart(userID uint) domain.Cart
	AddItem(ctx context.Context, userID, productID uint, quantity int) (domain.Cart, error)
	DecrementItem(userID, productID uint) domain.Cart
	RemoveItem(userID, productID uint) domain.Cart
}

type CartHandler struct {
	svc  CartService
	uSvc UserService
}

func NewCartHandler(svc CartService, uSvc UserService) *CartHandler {
	return &CartHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

func renderCart(ctx *gin.Context, cart domain.Cart) {
	ctx.JSON(http.StatusOK, response.CartResponse{
		Cart:  cart,
		Total: cart.Total().StringFixed(2),
	})
}

// HandleGetCart godoc
// @Summary      Get the current user's cart
// @Tags         cart
// @Produce      json
// @Success      200  {object}  response.CartResponse
// @Failure      401  {object}  response.Err
// @Router       /cart [get]
// @Security BearerAuth
func (h *CartHandler) HandleGetCart(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	renderCart(ctx, h.svc.GetCart(user.ID))
}

// HandleAddCartItem godoc
// @Summary      Add a product to the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        input  body      request.AddCartItemRequest  true  "item to add"
// @Success      200    {object}  response.CartResponse
// @Failure      400    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /cart/items [post]
// @Security BearerAuth
func (h *CartHandler) HandleAddCartItem(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.AddCartItemRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	cart, err := h.svc.AddItem(ctx.Request.Context(), user.ID, input.ProductID, input.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidQuantity):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidQuantity))
		case errors.Is(err, service.ErrProductNotFound):
			response.RenderErr(ctx, response.ErrNotFound("product", "ID", input.ProductID))
		default:
			err = fmt.Errorf("v1.HandleAddCartItem -> h.svc.AddItem -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	renderCart(ctx, cart)
}

// HandleDecrementCartItem godoc
// @Summary      Decrement a cart line by one
// @Description  A line that drops below quantity 1 is removed from the cart.
// @Tags         cart
// @Produce      json
// @Param        productID  path      int  true  "product ID"
// @Success      200        {object}  response.CartResponse
// @Failure      400        {object}  response.Err
// @Failure      401        {object}  response.Err
// @Router       /cart/items/{productID}/decrement [post]
// @Security BearerAuth
func (h *CartHandler) HandleDecrementCartItem(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	productID, err := strconv.ParseUint(ctx.Param("productID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid product ID")))
		return
	}

	renderCart(ctx, h.svc.DecrementItem(user.ID, uint(productID)))
}

// HandleRemoveCartItem godoc
// @Summary      Remove a cart line
// @Tags         cart
// @Produce      json
// @Param        productID  path      int  true  "product ID"
// @Success      200        {object}  response.CartResponse
// @Failure      400        {object}  response.Err
// @Failure      401        {object}  response.Err
// @Router       /cart/items/{productID} [delete]
// @Security BearerAuth
func (h *CartHandler) HandleRemoveCartItem(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	productID, err := strconv.ParseUint(ctx.Param("productID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid product ID")))
		return
	}

	renderCart(ctx, h.svc.RemoveItem(user.ID, uint(productID)))
}
