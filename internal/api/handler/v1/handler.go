package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniclub/uniclub-api/internal/api/handler/v1/response"
	"github.com/uniclub/uniclub-api/internal/api/middleware"
	"github.com/uniclub/uniclub-api/internal/domain"
	"github.com/uniclub/uniclub-api/internal/service"
)

// HandleHealthcheck godoc
// @Summary      Healthcheck
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func getUserFromContext(ctx *gin.Context, uSvc UserService) (domain.User, *response.Err) {
	value, ok := ctx.Get(middleware.ContextKeyUserID)
	if !ok {
		return domain.User{}, &response.Err{
			StatusCode: http.StatusUnauthorized,
			Message:    "not authenticated",
		}
	}

	userID, ok := value.(uint)
	if !ok || userID == 0 {
		return domain.User{}, &response.Err{
			StatusCode: http.StatusUnauthorized,
			Message:    "not authenticated",
		}
	}

	user, err := uSvc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return domain.User{}, &response.Err{
				StatusCode: http.StatusUnauthorized,
				Message:    "not authenticated",
			}
		}

		return domain.User{}, response.ErrInternalServerError(fmt.Errorf("getUserFromContext -> uSvc.GetUser -> %w", err))
	}

	return user, nil
}
