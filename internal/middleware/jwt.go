package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zenmart/auth-service/internal/constants"
	"github.com/zenmart/auth-service/internal/service"
	ctxutil "github.com/zenmart/auth-service/pkg/context"
	"github.com/zenmart/auth-service/pkg/logger"
	"go.uber.org/zap"
)

// SubjectSource selects which population a protected route authenticates:
// end users or staff. Both share the token format; the source decides which
// roles are even eligible before per-route role checks run.
type SubjectSource int

const (
	SubjectUser SubjectSource = iota
	SubjectStaff
)

// Gin context keys set on successful authentication
const (
	CtxUserID   = "user_id"
	CtxUserRole = "user_role"
)

type JWTMiddleware struct {
	tokens *service.TokenService
}

func NewJWTMiddleware(tokens *service.TokenService) *JWTMiddleware {
	return &JWTMiddleware{tokens: tokens}
}

// authenticate pulls the bearer token, verifies it, and returns the subject
// ID and role. The bool reports whether a credential was present at all so
// the caller can distinguish 401 (missing) from 403 (invalid).
func (m *JWTMiddleware) authenticate(c *gin.Context) (uint, string, bool, error) {
	authHeader := c.GetHeader(constants.HeaderAuthorization)
	if authHeader == "" {
		return 0, "", false, nil
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return 0, "", false, nil
	}

	claims, err := m.tokens.VerifyAccessToken(tokenParts[1])
	if err != nil {
		return 0, "", true, err
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil {
		return 0, "", true, err
	}

	return uint(userID), claims.Role, true, nil
}

// RequireAuth validates the access token and stores the subject identity in
// both the gin context and the request context. Missing credential is 401;
// a presented but invalid or expired credential is 403.
func (m *JWTMiddleware) RequireAuth() gin.HandlerFunc {
	return m.RequireRoles(SubjectUser)
}

// RequireRoles is the single authorization capability: it authenticates the
// bearer token, filters by the subject source's eligible roles, then by any
// explicitly required roles. No roles given means any authenticated subject
// of the source passes.
func (m *JWTMiddleware) RequireRoles(source SubjectSource, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role, presented, err := m.authenticate(c)
		if !presented {
			logger.GetLogger().Warn("Missing or malformed Authorization header",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				constants.BuildErrorResponse("Access token is missing"))
			return
		}
		if err != nil {
			logger.GetLogger().Warn("Invalid or expired access token",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(err))
			c.AbortWithStatusJSON(http.StatusForbidden,
				constants.BuildErrorResponse("Invalid or expired access token"))
			return
		}

		if source == SubjectStaff && !contains(constants.StaffRoles, role) {
			logger.GetLogger().Warn("Non-staff subject on staff route",
				zap.String("path", c.Request.URL.Path),
				zap.Uint("user_id", userID),
				zap.String("role", role))
			c.AbortWithStatusJSON(http.StatusForbidden,
				constants.BuildErrorResponse(constants.MsgForbidden))
			return
		}

		if len(roles) > 0 && !contains(roles, role) {
			logger.GetLogger().Warn("Insufficient role for route",
				zap.String("path", c.Request.URL.Path),
				zap.Uint("user_id", userID),
				zap.String("role", role))
			c.AbortWithStatusJSON(http.StatusForbidden,
				constants.BuildErrorResponse(constants.MsgForbidden))
			return
		}

		c.Set(CtxUserID, userID)
		c.Set(CtxUserRole, role)

		ctx := context.WithValue(c.Request.Context(), ctxutil.UserIDKey, userID)
		ctx = context.WithValue(ctx, ctxutil.UserRoleKey, role)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
