package router

import (
	"github.com/danielvaho2/tu-bolsillo/internal/config"
	"github.com/danielvaho2/tu-bolsillo/internal/core"
	"github.com/danielvaho2/tu-bolsillo/internal/handler"
	"github.com/danielvaho2/tu-bolsillo/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and the API routes.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// core components; the category store only gets the narrow checker
	ledger := core.NewLedger(db)
	store := core.NewCategoryStore(db, ledger)

	// ====== API ======
	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret
	// register/login, no auth required
	authHandler := handler.NewAuthHandler(db, jwtSecret, cfg.JWT.ExpireHours)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// everything below requires a logged-in user
	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(jwtSecret, db),
		middleware.AuditMiddleware(db),
	)

	protected.GET("/me", handler.GetMe)

	categoryHandler := handler.NewCategoryHandler(store)
	protected.GET("/categories", categoryHandler.ListCategories)
	protected.POST("/categories", categoryHandler.CreateCategory)
	protected.DELETE("/categories/:id", categoryHandler.DeleteCategory)

	txHandler := handler.NewTransactionHandler(ledger, store)
	protected.POST("/movements", txHandler.CreateMovement)
	protected.GET("/movements", txHandler.ListMovements)
	protected.DELETE("/movements/:id", txHandler.DeleteMovement)
	protected.GET("/dashboard", txHandler.GetDashboard)
	protected.GET("/analysis", txHandler.GetAnalysis)
	protected.GET("/stats/expenses", txHandler.GetExpensesByCategory)

	exportHandler := handler.NewExportHandler(ledger)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	logHandler := handler.NewLogHandler(db, cfg.App.LogPageSize)
	protected.GET("/logs", logHandler.ListLogs)

	return r
}
