package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct so routes can
// be registered from a single assembly point.
type HandlerBundle struct {
	// Auth endpoints
	LoginHandler    gin.HandlerFunc
	MeHandler       gin.HandlerFunc
	LogoutHandler   gin.HandlerFunc
	RegisterHandler gin.HandlerFunc
	FCMTokenHandler gin.HandlerFunc

	// Session endpoints
	CreateSessionHandler gin.HandlerFunc
	GetSessionHandler    gin.HandlerFunc
	UpdateSessionHandler gin.HandlerFunc

	// Field workflow endpoints
	QRScanHandler          gin.HandlerFunc
	NurseAlertHandler      gin.HandlerFunc
	NurseRespondHandler    gin.HandlerFunc
	UploadDietSheetHandler gin.HandlerFunc

	// Supervisor endpoints
	DashboardHandler gin.HandlerFunc
}
