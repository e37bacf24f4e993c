package database

import (
	"context"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"emergency-dispatch-service/internal/infrastructure/config"
)

// ConnectionPool manages the database connection pool
type ConnectionPool struct {
	DB              *gorm.DB
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// NewConnectionPool opens the sqlite database file and configures pooling.
// sqlite serializes writers itself, so the open-connection ceiling stays low.
func NewConnectionPool(cfg *config.Config) (*ConnectionPool, error) {
	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	pool := &ConnectionPool{
		DB:              db,
		MaxIdleConns:    2,
		MaxOpenConns:    10,
		ConnMaxLifetime: 1 * time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}

	if err := pool.ConfigurePool(); err != nil {
		return nil, err
	}

	return pool, nil
}

// ConfigurePool applies pool parameters and verifies connectivity
func (p *ConnectionPool) ConfigurePool() error {
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxIdleConns(p.MaxIdleConns)
	sqlDB.SetMaxOpenConns(p.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(p.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(p.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return err
	}

	log.Printf("database pool configured: maxIdle=%d maxOpen=%d", p.MaxIdleConns, p.MaxOpenConns)
	return nil
}

// GetDB returns the underlying gorm handle
func (p *ConnectionPool) GetDB() *gorm.DB {
	return p.DB
}

// Close closes the underlying connection
func (p *ConnectionPool) Close() error {
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
