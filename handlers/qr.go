package handlers

import (
	"net/http"

	sessionService "servicesync/services/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// QRScanHandler confirms a location scan against an in-flight session.
// The QR payload encodes the checkpoint: KITCHEN_* for the kitchen exit,
// WARD_* for ward arrival.
func QRScanHandler(svc sessionService.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			SessionID string `json:"sessionId"`
			QRCode    string `json:"qrCode"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" || req.QRCode == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId and qrCode are required"})
			return
		}

		result, err := svc.RecordScan(c.Request.Context(), req.SessionID, req.QRCode)
		if err != nil {
			getLogger(c).Warn("QR scan rejected",
				zap.String("session", req.SessionID), zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
