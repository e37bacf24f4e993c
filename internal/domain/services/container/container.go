package container

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"emergency-dispatch-service/internal/domain/services"
	"emergency-dispatch-service/internal/infrastructure/config"
	"emergency-dispatch-service/pkg/logger"
)

// ServiceContainer wires every service with its dependencies
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config

	// Data storage services
	redisService services.InterfaceRedisService

	// Messaging services
	configService       services.InterfaceConfigService
	whatsAppService     services.InterfaceWhatsAppService
	notificationService services.InterfaceNotificationService

	// Business services
	callService     services.InterfaceCallService
	personService   services.InterfacePersonService
	shiftLogService services.InterfaceShiftLogService
	userService     services.InterfaceUserService
	backupService   services.InterfaceBackupService

	mu sync.RWMutex
}

// NewServiceContainer creates a new service container
func NewServiceContainer(db *gorm.DB, cfg *config.Config) *ServiceContainer {
	if db == nil {
		panic("database connection is nil")
	}
	if cfg == nil {
		panic("configuration is nil")
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
	}
	container.initializeServices()
	return container
}

// initializeServices builds every service in dependency order
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.redisService = services.NewRedisService(c.config)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.redisService.Ping(ctx); err != nil {
		logger.Warning("redis unreachable, cache reads will fall back to the database: %v", err)
	}

	c.configService = services.NewConfigService(c.db, c.config)
	c.whatsAppService = services.NewWhatsAppService(c.config, c.configService)
	c.notificationService = services.NewNotificationService()

	c.callService = services.NewCallService(c.db, c.config, c.configService,
		c.notificationService, c.whatsAppService, c.redisService)
	c.personService = services.NewPersonService(c.db, c.config)
	c.shiftLogService = services.NewShiftLogService(c.db, c.config)
	c.userService = services.NewUserService(c.db, c.config)
	c.backupService = services.NewBackupService(c.db, c.config)
}

// GetService gets a service by name
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "redis":
		return c.redisService
	case "app_config":
		return c.configService
	case "whatsapp":
		return c.whatsAppService
	case "notification":
		return c.notificationService
	case "call":
		return c.callService
	case "person":
		return c.personService
	case "shift_log":
		return c.shiftLogService
	case "user":
		return c.userService
	case "backup":
		return c.backupService
	default:
		return nil
	}
}

// GetDB gets the database handle
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}
