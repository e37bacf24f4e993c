// @title           Emergency Dispatch Service API
// @version         1.0
// @description     Municipal emergency dispatch system with WhatsApp notification routing and backup management

// @contact.name   API Support

// @host      localhost:5000
// @BasePath  /api
package main

import (
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"emergency-dispatch-service/internal/app/routes"
	"emergency-dispatch-service/internal/domain/models"
	"emergency-dispatch-service/internal/domain/services"
	"emergency-dispatch-service/internal/infrastructure/config"
	"emergency-dispatch-service/internal/infrastructure/database"
	Logger "emergency-dispatch-service/pkg/logger"
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())

	if err := Logger.SetupLogger(); err != nil {
		fmt.Printf("could not set up logging: %v\n", err)
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil {
		Logger.Warning("no .env file loaded: %v", err)
	} else {
		Logger.Info(".env file loaded")
	}

	cfg := config.GetConfig()

	pool, err := database.NewConnectionPool(cfg)
	if err != nil {
		log.Fatalf("could not create database connection pool: %v", err)
	}
	db := pool.GetDB()

	if cfg.DBMigrationMode == "drop" {
		log.Println("warning: running in drop mode, all tables will be dropped and recreated")
		if err := dropAndRecreateTables(db); err != nil {
			log.Fatalf("drop and recreate failed: %v", err)
		}
	} else {
		if err := autoMigrate(db); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
	}

	userService := services.NewUserService(db, cfg)
	if err := userService.EnsureAdminExists(); err != nil {
		log.Fatalf("could not ensure administrator account: %v", err)
	}

	r := routes.SetupRouter(db, cfg)

	port := cfg.ServerPort
	Logger.Info("server listening on http://0.0.0.0:%s", port)
	if err := r.Run("0.0.0.0:" + port); err != nil {
		Logger.Error("server failed: %v", err)
		os.Exit(1)
	}
}

// autoMigrate adds new columns and tables, never drops anything
func autoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Person{},
		&models.EmergencyCall{},
		&models.Observation{},
		&models.CommissionedService{},
		&models.ShiftLog{},
		&models.ConfigEntry{},
	)
	if err != nil {
		return err
	}

	log.Println("database migration completed")
	return nil
}

// dropAndRecreateTables drops every table and rebuilds the schema
func dropAndRecreateTables(db *gorm.DB) error {
	tables := []string{
		"observaciones", "servicios_comisionados", "llamados",
		"guardias", "personas", "usuarios", "configuracion",
	}
	for _, table := range tables {
		log.Printf("dropping table: %s", table)
		if err := db.Exec("DROP TABLE IF EXISTS " + table).Error; err != nil {
			log.Printf("could not drop %s: %v", table, err)
		}
	}
	return autoMigrate(db)
}
