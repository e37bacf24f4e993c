package controllers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"emergency-dispatch-service/internal/domain/services"
	"emergency-dispatch-service/internal/domain/services/container"
	"emergency-dispatch-service/internal/error/code"
	"emergency-dispatch-service/internal/error/response"
)

// InterfaceHealthController defines the health controller interface
type InterfaceHealthController interface {
	Ping()
	Status()
}

// HealthCheckController handles liveness and readiness probes
type HealthCheckController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewHealthCheckController creates a health check controller
func NewHealthCheckController(ctx *gin.Context, container *container.ServiceContainer) *HealthCheckController {
	return &HealthCheckController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleHealthFunc returns a gin handler for the named health method
func HandleHealthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewHealthCheckController(ctx, container)

		switch method {
		case "ping":
			controller.Ping()
		case "status":
			controller.Status()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

// 1 Ping is the liveness endpoint
// @Summary      Ping
// @Tags         Health
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /ping [get]
func (c *HealthCheckController) Ping() {
	response.Success(c.Ctx, gin.H{
		"status":  "healthy",
		"message": "pong",
	})
}

// 2 Status reports data store integrity and cache reachability
// @Summary      Health Status
// @Description  Run the data store integrity checks and probe the cache
// @Tags         Health
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /health [get]
func (c *HealthCheckController) Status() {
	backupService := c.Container.GetService("backup").(services.InterfaceBackupService)
	report := backupService.VerifyIntegrity()

	cacheConnected := false
	if cache, ok := c.Container.GetService("redis").(services.InterfaceRedisService); ok && cache != nil {
		ctx, cancel := context.WithTimeout(c.Ctx.Request.Context(), 2*time.Second)
		defer cancel()
		cacheConnected = cache.Ping(ctx) == nil
	}

	status := "healthy"
	if !report.Valid {
		status = "degraded"
	}

	response.Success(c.Ctx, gin.H{
		"status":    status,
		"integrity": report,
		"cache": gin.H{
			"connected": cacheConnected,
		},
	})
}
