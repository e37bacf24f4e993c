package container

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"emergency-dispatch-service/internal/domain/services"
	"emergency-dispatch-service/internal/infrastructure/config"
)

func testContainerConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		DBPath:     filepath.Join(dir, "emergency_system.db"),
		BackupDir:  filepath.Join(dir, "backups"),
		UploadsDir: filepath.Join(dir, "uploads"),
		RedisHost:  "localhost",
		RedisPort:  "6379",
	}
}

func TestContainerAlwaysProvidesCacheService(t *testing.T) {
	c := NewServiceContainer(&gorm.DB{}, testContainerConfig(t))

	cache, ok := c.GetService("redis").(services.InterfaceRedisService)
	require.True(t, ok)
	assert.NotNil(t, cache, "cache service must exist even when Redis is down")
}

func TestContainerProvidesEveryService(t *testing.T) {
	c := NewServiceContainer(&gorm.DB{}, testContainerConfig(t))

	for _, name := range []string{
		"config", "db", "redis", "app_config", "whatsapp",
		"notification", "call", "person", "shift_log", "user", "backup",
	} {
		assert.NotNil(t, c.GetService(name), "service %q", name)
	}
	assert.Nil(t, c.GetService("unknown"))
}

func TestContainerPanicsOnMissingDependencies(t *testing.T) {
	assert.Panics(t, func() { NewServiceContainer(nil, testContainerConfig(t)) })
	assert.Panics(t, func() { NewServiceContainer(&gorm.DB{}, nil) })
}
