package handlers

import (
	"net/http"

	sessionService "servicesync/services/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateSessionHandler opens a new delivery session for the caller.
func CreateSessionHandler(svc sessionService.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		var input sessionService.CreateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
			return
		}
		// The session always belongs to the authenticated hostess.
		input.HostessID = c.GetString("userID")

		record, err := svc.CreateSession(c.Request.Context(), input)
		if err != nil {
			logger.Error("Failed to create session", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, record)
	}
}

// GetSessionHandler returns one session by ID.
func GetSessionHandler(svc sessionService.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		record, err := svc.GetSession(c.Request.Context(), c.Param("sessionID"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

// UpdateSessionHandler applies field progress to an in-flight session.
func UpdateSessionHandler(svc sessionService.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		var input sessionService.UpdateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
			return
		}

		record, err := svc.UpdateSession(c.Request.Context(), c.Param("sessionID"), input)
		if err != nil {
			logger.Error("Failed to update session",
				zap.String("session", c.Param("sessionID")), zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, record)
	}
}
