package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the gin engine with middleware and all routes
func NewRouter(controller *ScheduleController, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(requestID(), accessLog(logger), requestMetrics(), recovery(logger))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/metrics", metricsHandler())

	controller.RegisterRoutes(router)

	router.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
	})

	return router
}
