package handlers

import (
	"net/http"

	sessionService "servicesync/services/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NurseAlertHandler tells the ward's nurses that meals are ready for
// handover.
func NurseAlertHandler(svc sessionService.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			SessionID string `json:"sessionId"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is required"})
			return
		}

		if err := svc.SendNurseAlert(c.Request.Context(), req.SessionID); err != nil {
			getLogger(c).Error("Failed to send nurse alert",
				zap.String("session", req.SessionID), zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// NurseRespondHandler records a nurse's acknowledgement of a meal alert.
func NurseRespondHandler(svc sessionService.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			SessionID string `json:"sessionId"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is required"})
			return
		}

		nurseID := c.GetString("userID")
		if err := svc.RecordNurseResponse(c.Request.Context(), req.SessionID, nurseID); err != nil {
			getLogger(c).Error("Failed to record nurse response",
				zap.String("session", req.SessionID), zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
