package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lighthouse-backend/internal/shared/server/middleware"
	"lighthouse-backend/internal/shared/server/respond"
)

// registerMeRoutes attaches the /me endpoint.
func registerMeRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", meHandler)
}

func meHandler(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	if sessionID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"sessionId": sessionID,
	})
}
