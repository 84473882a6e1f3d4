package router

import (
	"github.com/gin-gonic/gin"
)

// authRoutes defines the authentication surface. All routes are public
// except /me, which requires a valid access token.
func (r *Router) authRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", r.authHandler.Register)
		auth.POST("/login", r.authHandler.Login)
		auth.POST("/refresh-token", r.authHandler.RefreshToken)
		auth.POST("/forgot-password", r.authHandler.ForgotPassword)
		auth.POST("/reset-password", r.authHandler.ResetPassword)
		auth.POST("/logout", r.authHandler.Logout)

		auth.GET("/me", r.jwtMw.RequireAuth(), r.authHandler.Me)
	}
}
