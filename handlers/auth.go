package handlers

import (
	"net/http"

	userService "servicesync/services/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoginHandler exchanges badge credentials for a JWT.
func LoginHandler(svc userService.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		var req struct {
			EmployeeID string `json:"employeeId"`
			Password   string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Error("Invalid login request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}

		resp, err := svc.Authenticate(req.EmployeeID, req.Password)
		if err != nil {
			logger.Warn("Login failed", zap.String("employeeId", req.EmployeeID), zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// MeHandler returns the authenticated account.
func MeHandler(svc userService.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")
		userRec, err := svc.GetUserByID(userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, userRec)
	}
}

// LogoutHandler revokes the caller's token server-side.
func LogoutHandler(svc userService.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")
		if err := svc.Logout(userID); err != nil {
			getLogger(c).Error("Logout failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// RegisterHandler provisions a staff account. Supervisor only.
func RegisterHandler(svc userService.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		var req userService.RegisterInput
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Error("Invalid registration request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}

		userRec, err := svc.Register(req)
		if err != nil {
			logger.Error("Registration failed", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, userRec)
	}
}

// FCMTokenHandler stores the caller's device push registration token.
func FCMTokenHandler(svc userService.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Token string `json:"token"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A device token is required"})
			return
		}

		userID := c.GetString("userID")
		if err := svc.UpdateFCMToken(userID, req.Token); err != nil {
			getLogger(c).Error("Failed to store device token", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store device token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
