package handlers

import (
	"net/http"
	"time"

	reportService "servicesync/services/report"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DashboardHandler returns supervisor aggregates for one day. The day is
// taken from the `date` query parameter (YYYY-MM-DD) and defaults to today.
func DashboardHandler(svc reportService.ReportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		day := time.Now()
		if raw := c.Query("date"); raw != "" {
			parsed, err := time.Parse("2006-01-02", raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
				return
			}
			day = parsed
		}

		report, err := svc.Dashboard(c.Request.Context(), day)
		if err != nil {
			getLogger(c).Error("Failed to build dashboard report", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
			return
		}
		c.JSON(http.StatusOK, report)
	}
}
