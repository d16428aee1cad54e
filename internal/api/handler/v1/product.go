package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/uniclub/uniclub-api/internal/api/handler/v1/request"
	"github.com/uniclub/uniclub-api/internal/api/handler/v1/response"
	"github.com/uniclub/uniclub-api/internal/domain"
	"github.com/uniclub/uniclub-api/internal/service"
)

type ProductService interface {
	CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	GetProduct(ctx context.Context, id uint) (domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListClubProducts(ctx context.Context, clubID uint) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
}

type ProductHandler struct {
	svc  ProductService
	uSvc UserService
}

func NewProductHandler(svc ProductService, uSvc UserService) *ProductHandler {
	return &ProductHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListProducts godoc
// @Summary      List all products
// @Tags         products
// @Produce      json
// @Success      200  {array}   domain.Product
// @Failure      500  {object}  response.Err
// @Router       /products [get]
// @Security BearerAuth
func (h *ProductHandler) HandleListProducts(ctx *gin.Context) {
	products, err := h.svc.ListProducts(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListProducts -> h.svc.ListProducts -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, products)
}

// HandleListClubProducts godoc
// @Summary      List a club's products
// @Tags         products,clubs
// @Produce      json
// @Param        clubID  path      int  true  "club ID"
// @Success      200     {array}   domain.Product
// @Failure      400     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /clubs/{clubID}/products [get]
// @Security BearerAuth
func (h *ProductHandler) HandleListClubProducts(ctx *gin.Context) {
	clubID, err := strconv.ParseUint(ctx.Param("clubID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid club ID")))
		return
	}

	products, err := h.svc.ListClubProducts(ctx.Request.Context(), uint(clubID))
	if err != nil {
		err = fmt.Errorf("v1.HandleListClubProducts -> h.svc.ListClubProducts -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, products)
}

// HandleGetProduct godoc
// @Summary      Get a product by ID
// @Tags         products
// @Produce      json
// @Param        productID  path      int  true  "product ID"
// @Success      200        {object}  domain.Product
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /products/{productID} [get]
// @Security BearerAuth
func (h *ProductHandler) HandleGetProduct(ctx *gin.Context) {
	productID, err := strconv.ParseUint(ctx.Param("productID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid product ID")))
		return
	}

	product, err := h.svc.GetProduct(ctx.Request.Context(), uint(productID))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("product", "ID", productID))
			return
		}

		err = fmt.Errorf("v1.HandleGetProduct -> h.svc.GetProduct -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, product)
}

// HandleCreateProduct godoc
// @Summary      Create a product
// @Description  Only club managers and admins can create products.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateProductRequest  true  "product details"
// @Success      201    {object}  domain.Product
// @Failure      400    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /products [post]
// @Security BearerAuth
func (h *ProductHandler) HandleCreateProduct(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if user.Role != domain.RoleClubManager && user.Role != domain.RoleAdmin {
		response.RenderErr(ctx, response.ErrPermissionDenied())
		return
	}

	var input request.CreateProductRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	price, err := decimal.NewFromString(input.Price)
	if err != nil || price.IsNegative() {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid price")))
		return
	}

	product := domain.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       price,
		Quantity:    input.Quantity,
		ClubID:      input.ClubID,
	}

	created, err := h.svc.CreateProduct(ctx.Request.Context(), product)
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateProduct -> h.svc.CreateProduct -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleUpdateProduct godoc
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        productID  path      int                           true  "product ID"
// @Param        input      body      request.UpdateProductRequest  true  "product details"
// @Success      200        {object}  domain.Product
// @Failure      400        {object}  response.Err
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /products/{productID} [put]
// @Security BearerAuth
func (h *ProductHandler) HandleUpdateProduct(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if user.Role != domain.RoleClubManager && user.Role != domain.RoleAdmin {
		response.RenderErr(ctx, response.ErrPermissionDenied())
		return
	}

	productID, err := strconv.ParseUint(ctx.Param("productID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid product ID")))
		return
	}

	var input request.UpdateProductRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	price, err := decimal.NewFromString(input.Price)
	if err != nil || price.IsNegative() {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid price")))
		return
	}

	existing, err := h.svc.GetProduct(ctx.Request.Context(), uint(productID))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("product", "ID", productID))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateProduct -> h.svc.GetProduct -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	existing.Name = input.Name
	existing.Description = input.Description
	existing.Price = price
	existing.Quantity = input.Quantity

	updated, err := h.svc.UpdateProduct(ctx.Request.Context(), existing)
	if err != nil {
		err = fmt.Errorf("v1.HandleUpdateProduct -> h.svc.UpdateProduct -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, updated)
}
