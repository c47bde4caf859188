package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/fintechbuddy/insights-api/config"
	"github.com/fintechbuddy/insights-api/handlers"
	"github.com/fintechbuddy/insights-api/services"
)

// SetupTransactionRoutes wires the upload and query flows.
func SetupTransactionRoutes(r *gin.Engine, store *services.DatasetStore, cfg *config.AIConfig) {
	uploadHandler := &handlers.UploadHandler{Store: store}
	queryHandler := &handlers.QueryHandler{
		Store:  store,
		AI:     services.NewGroqService(cfg),
		Config: cfg,
	}

	r.POST("/upload/", uploadHandler.Upload)
	r.GET("/query/", queryHandler.Query)
}

// SetupDebugRoutes wires the dashboard and environment introspection.
func SetupDebugRoutes(r *gin.Engine, cfg *config.AIConfig) {
	envHandler := &handlers.EnvHandler{Config: cfg}

	r.GET("/", handlers.Dashboard)
	r.GET("/_env", envHandler.Show)
	r.POST("/_env/reload", envHandler.Reload)
}
