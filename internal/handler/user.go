package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zenmart/auth-service/internal/constants"
	apperrors "github.com/zenmart/auth-service/internal/errors"
	"github.com/zenmart/auth-service/internal/service"
	ctxutil "github.com/zenmart/auth-service/pkg/context"
)

// UserHandler exposes the staff-facing user directory.
type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetAll handles GET /api/v1/users with pagination and optional search.
func (h *UserHandler) GetAll(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetAllUsers")

	pagination := constants.ParsePaginationParams(c)
	search := c.Query("search")

	users, total, pageTotal, err := h.userService.GetAll(ctx, pagination.Limit, pagination.Offset, search)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildListResponse(total, pagination.Page, pageTotal, users))
}

// GetByID handles GET /api/v1/users/:id.
func (h *UserHandler) GetByID(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetUserByID")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid user ID"))
		return
	}

	user, err := h.userService.GetByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, constants.BuildErrorResponse("User not found"))
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("User retrieved", user))
}
