package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "emergency-dispatch-service/docs"
	"emergency-dispatch-service/internal/app/controllers"
	"emergency-dispatch-service/internal/app/middleware"
	"emergency-dispatch-service/internal/domain/services/container"
	"emergency-dispatch-service/internal/infrastructure/config"
)

// SetupRouter initializes and returns the configured router
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	serviceContainer := container.NewServiceContainer(db, cfg)

	// Swagger documentation route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	registerRoutes(r, serviceContainer)
	return r
}

// registerRoutes configures every API route
func registerRoutes(r *gin.Engine, container *container.ServiceContainer) {
	api := r.Group("/api")

	// Allow 10 requests per second per IP with bursts of 20
	api.Use(middleware.IPRateLimiter(10, 20))

	api.GET("/ping", controllers.HandleHealthFunc(container, "ping"))
	api.GET("/health", controllers.HandleHealthFunc(container, "status"))

	// Operator accounts
	api.POST("/users/login", controllers.HandleUserFunc(container, "login"))
	usersGroup := api.Group("/users")
	usersGroup.GET("", controllers.HandleUserFunc(container, "getUsers"))
	usersGroup.POST("", controllers.HandleUserFunc(container, "createUser"))
	usersGroup.GET("/:id", controllers.HandleUserFunc(container, "getUser"))
	usersGroup.PUT("/:id", controllers.HandleUserFunc(container, "updateUser"))
	usersGroup.PUT("/:id/password", controllers.HandleUserFunc(container, "changePassword"))
	usersGroup.DELETE("/:id", controllers.HandleUserFunc(container, "deleteUser"))

	// Emergency calls
	callsGroup := api.Group("/calls")
	callsGroup.POST("", controllers.HandleCallFunc(container, "createCall"))
	callsGroup.GET("", controllers.HandleCallFunc(container, "getCalls"))
	callsGroup.GET("/:id", controllers.HandleCallFunc(container, "getCall"))
	callsGroup.POST("/:id/close", controllers.HandleCallFunc(container, "closeCall"))
	callsGroup.POST("/:id/observations", controllers.HandleCallFunc(container, "addObservation"))
	callsGroup.POST("/:id/services", controllers.HandleCallFunc(container, "commissionService"))
	api.PUT("/services/:id/state", controllers.HandleCallFunc(container, "updateServiceState"))
	api.GET("/dashboard/stats", controllers.HandleCallFunc(container, "getDashboardStats"))

	// Neighbor registry
	personsGroup := api.Group("/persons")
	personsGroup.GET("", controllers.HandlePersonFunc(container, "getPersons"))
	personsGroup.GET("/lookup", controllers.HandlePersonFunc(container, "findByPhone"))
	personsGroup.GET("/:id", controllers.HandlePersonFunc(container, "getPerson"))
	personsGroup.POST("", controllers.HandlePersonFunc(container, "createPerson"))
	personsGroup.PUT("/:id", controllers.HandlePersonFunc(container, "updatePerson"))
	personsGroup.DELETE("/:id", controllers.HandlePersonFunc(container, "deletePerson"))

	// Shift log
	shiftLogGroup := api.Group("/shift-log")
	shiftLogGroup.GET("", controllers.HandleShiftLogFunc(container, "getEntries"))
	shiftLogGroup.POST("", controllers.HandleShiftLogFunc(container, "addEntry"))

	// Configuration and messaging gateway
	configGroup := api.Group("/config")
	configGroup.GET("", controllers.HandleConfigFunc(container, "getConfig"))
	configGroup.PUT("", controllers.HandleConfigFunc(container, "setConfigValue"))
	configGroup.GET("/responders", controllers.HandleConfigFunc(container, "getResponders"))

	whatsAppGroup := api.Group("/whatsapp")
	whatsAppGroup.Use(middleware.PathRateLimiter(5, 10))
	whatsAppGroup.POST("/config", controllers.HandleConfigFunc(container, "configureWhatsApp"))
	whatsAppGroup.GET("/status", controllers.HandleConfigFunc(container, "whatsAppStatus"))
	whatsAppGroup.POST("/test", controllers.HandleConfigFunc(container, "testWhatsApp"))
	whatsAppGroup.POST("/send", controllers.HandleConfigFunc(container, "sendManualMessage"))

	// Backups. Restores rewrite the data store, keep the rate low.
	backupsGroup := api.Group("/backups")
	backupsGroup.Use(middleware.PathRateLimiter(2, 4))
	backupsGroup.POST("", controllers.HandleBackupFunc(container, "createBackup"))
	backupsGroup.GET("", controllers.HandleBackupFunc(container, "listBackups"))
	backupsGroup.GET("/integrity", controllers.HandleBackupFunc(container, "verifyIntegrity"))
	backupsGroup.POST("/:name/restore", controllers.HandleBackupFunc(container, "restoreBackup"))
	backupsGroup.DELETE("/:name", controllers.HandleBackupFunc(container, "deleteBackup"))
}
