package handlers

import (
	"net/http"
	"os"
	"time"

	sessionService "servicesync/services/session"
	"servicesync/services/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UploadDietSheetHandler receives a captured diet sheet photo, stores it and
// attaches the storage reference to the session.
func UploadDietSheetHandler(store storage.StorageService, sessions sessionService.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		if store == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "File storage is not configured"})
			return
		}

		sessionID := c.PostForm("sessionId")
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is required"})
			return
		}

		file, err := c.FormFile("dietSheet")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "a dietSheet file is required"})
			return
		}

		// Stage under a generated name; client filenames are never trusted
		// as paths.
		tmp, err := os.CreateTemp("", "diet-sheet-*")
		if err != nil {
			logger.Error("Failed to stage upload", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to receive file"})
			return
		}
		tmpPath := tmp.Name()
		tmp.Close()
		defer os.Remove(tmpPath)

		if err := c.SaveUploadedFile(file, tmpPath); err != nil {
			logger.Error("Failed to stage upload", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to receive file"})
			return
		}

		publicID, err := store.UploadFile(c.Request.Context(), tmpPath, storage.DietSheetFolder)
		if err != nil {
			logger.Error("Diet sheet upload failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
			return
		}

		record, err := sessions.AttachDietSheet(c.Request.Context(), sessionID, publicID)
		if err != nil {
			// The file is orphaned if we can't attach it; don't leave it around.
			_ = store.DeleteFile(c.Request.Context(), publicID)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		url, err := store.GetDownloadURL(c.Request.Context(), publicID, 24*time.Hour)
		if err != nil {
			logger.Warn("Failed to build download URL", zap.Error(err))
		}

		c.JSON(http.StatusOK, gin.H{
			"session": record,
			"photoId": publicID,
			"url":     url,
		})
	}
}
