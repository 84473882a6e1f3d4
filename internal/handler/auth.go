package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zenmart/auth-service/internal/constants"
	"github.com/zenmart/auth-service/internal/dto"
	apperrors "github.com/zenmart/auth-service/internal/errors"
	"github.com/zenmart/auth-service/internal/middleware"
	"github.com/zenmart/auth-service/internal/service"
	ctxutil "github.com/zenmart/auth-service/pkg/context"
	"github.com/zenmart/auth-service/pkg/logger"
	"github.com/zenmart/auth-service/pkg/validation"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// bindJSON binds and validates the request body, writing the 400 response
// itself on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logger.GetLogger().Warn("Request body failed validation")
		c.JSON(http.StatusBadRequest, constants.BuildValidationErrorResponse(
			constants.MsgValidationFailed, validation.TranslateError(err)))
		return false
	}
	return true
}

// writeResult maps a service result onto the response envelope.
func writeResult(c *gin.Context, result *service.Result) {
	if result.Success {
		c.JSON(result.Status, constants.BuildSuccessResponse(result.Message, result.Data))
		return
	}
	c.JSON(result.Status, constants.BuildErrorResponse(result.Message))
}

// writeError handles infrastructure failures. The internal detail is logged,
// never returned to the client.
func writeError(c *gin.Context, err error) {
	logger.ErrorWithContext(c.Request.Context(), "Request failed").
		String("path", c.Request.URL.Path).
		Err(err).
		Log()
	status := apperrors.ToHTTPStatus(err)
	c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err)))
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Register")

	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Register(ctx, &req)
	if err != nil {
		writeError(c, err)
		return
	}
	writeResult(c, result)
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Login")

	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	writeResult(c, result)
}

// RefreshToken handles POST /api/v1/auth/refresh-token.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "RefreshToken")

	var req dto.RefreshTokenRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		writeError(c, err)
		return
	}
	writeResult(c, result)
}

// ForgotPassword handles POST /api/v1/auth/forgot-password.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ForgotPassword")

	var req dto.ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.RequestPasswordReset(ctx, req.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	writeResult(c, result)
}

// ResetPassword handles POST /api/v1/auth/reset-password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ResetPassword")

	var req dto.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.ResetPassword(ctx, req.Token, req.NewPassword)
	if err != nil {
		writeError(c, err)
		return
	}
	writeResult(c, result)
}

// Logout handles POST /api/v1/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Logout")

	var req dto.LogoutRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Logout(ctx, req.RefreshToken)
	if err != nil {
		writeError(c, err)
		return
	}
	writeResult(c, result)
}

// Me handles GET /api/v1/auth/me. It echoes back the identity the access
// token carries; the auth middleware has already validated it.
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetUint(middleware.CtxUserID)
	role := c.GetString(middleware.CtxUserRole)

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Authenticated", dto.MeData{
		ID:   userID,
		Role: role,
	}))
}
