package config

import (
	"os"
	"strconv"
	"sync"
	"time"
)

var (
	config     *Config
	configOnce sync.Once
)

// Config stores all configuration of the application
type Config struct {
	// Environment type
	EnvType string

	// Database
	DBPath          string // path to the sqlite database file
	DBMigrationMode string // migration mode: "auto" (default), "drop" (drop and recreate)

	// Server
	ServerPort string

	// Redis
	RedisHost string
	RedisPort string
	RedisDB   int

	// Backup
	BackupDir  string // directory where backup archives are written
	UploadsDir string // directory with uploaded assets (logos etc.)

	// WhatsApp gateway (waboxapp)
	WhatsAppAPIURL  string        // gateway endpoint for text messages
	WhatsAppTimeout time.Duration // per-message delivery timeout

	// Admin
	DefaultAdminPassword string
}

// LoadConfig loads config from environment variables
func LoadConfig() *Config {
	envType := getEnv("ENV_TYPE", "LOCAL")

	timeoutSecs := getEnvAsInt("WHATSAPP_TIMEOUT_SECONDS", 30)

	return &Config{
		EnvType: envType,

		// Database config
		DBPath:          getEnv("DB_PATH", "emergency_system.db"),
		DBMigrationMode: getEnv("DB_MIGRATION_MODE", "auto"),

		// Server config
		ServerPort: getEnv("SERVER_PORT", "8080"),

		// Redis config
		RedisHost: getEnv("REDIS_HOST", "localhost"),
		RedisPort: getEnv("REDIS_PORT", "6379"),
		RedisDB:   getEnvAsInt("REDIS_DB", 0),

		// Backup config
		BackupDir:  getEnv("BACKUP_DIR", "backups"),
		UploadsDir: getEnv("UPLOADS_DIR", "static/uploads"),

		// WhatsApp gateway config
		WhatsAppAPIURL:  getEnv("WHATSAPP_API_URL", "https://www.waboxapp.com/api/send/chat"),
		WhatsAppTimeout: time.Duration(timeoutSecs) * time.Second,

		// Admin config
		DefaultAdminPassword: getEnv("DEFAULT_ADMIN_PASSWORD", "admin123"),
	}
}

// GetConfig returns the application configuration as a singleton
func GetConfig() *Config {
	configOnce.Do(func() {
		config = LoadConfig()
	})
	return config
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// Helper function to get environment variable with default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// Helper function to get environment variable as int with default value
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
