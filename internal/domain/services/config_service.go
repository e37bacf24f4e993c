package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"emergency-dispatch-service/internal/domain/models"
	"emergency-dispatch-service/internal/infrastructure/config"
)

// InterfaceConfigService defines the configuration service interface
type InterfaceConfigService interface {
	GetValue(key string) (string, error)
	SetValue(key, value, description, category string) error
	GetAll() ([]models.ConfigEntry, error)
	GetByCategory(category string) ([]models.ConfigEntry, error)
	GetResponderConfig() (*ResponderConfig, error)
}

// ConfigService reads and writes the configuracion table
type ConfigService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewConfigService creates a new configuration service
func NewConfigService(db *gorm.DB, cfg *config.Config) InterfaceConfigService {
	return &ConfigService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetValue returns the value of a single configuration key
func (s *ConfigService) GetValue(key string) (string, error) {
	var entry models.ConfigEntry
	if err := s.DB.Where("clave = ?", key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return entry.Value, nil
}

// 2 SetValue creates or updates a configuration entry
func (s *ConfigService) SetValue(key, value, description, category string) error {
	var entry models.ConfigEntry
	err := s.DB.Where("clave = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		entry = models.ConfigEntry{
			Key:         key,
			Value:       value,
			Description: description,
			Category:    category,
		}
		if entry.Category == "" {
			entry.Category = "general"
		}
		return s.DB.Create(&entry).Error
	}
	if err != nil {
		return err
	}

	entry.Value = value
	if description != "" {
		entry.Description = description
	}
	if category != "" {
		entry.Category = category
	}
	entry.UpdatedAt = time.Now()
	return s.DB.Save(&entry).Error
}

// 3 GetAll returns every configuration entry
func (s *ConfigService) GetAll() ([]models.ConfigEntry, error) {
	var entries []models.ConfigEntry
	if err := s.DB.Order("categoria, clave").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// 4 GetByCategory returns the entries of one category
func (s *ConfigService) GetByCategory(category string) ([]models.ConfigEntry, error) {
	var entries []models.ConfigEntry
	if err := s.DB.Where("categoria = ?", category).Order("clave").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// 5 GetResponderConfig builds the typed responder phone mapping consumed by
// the notification router. Keys outside the known set are ignored.
func (s *ConfigService) GetResponderConfig() (*ResponderConfig, error) {
	var entries []models.ConfigEntry
	if err := s.DB.Where("clave LIKE ?", "telefono_%").Find(&entries).Error; err != nil {
		return nil, err
	}

	rc := &ResponderConfig{}
	for _, entry := range entries {
		switch entry.Key {
		case models.ConfigSupervisorPhone:
			rc.Supervisor = entry.Value
		case models.ConfigMedicalDispatch:
			rc.MedicalDispatch = entry.Value
		case models.ConfigHealthCenterPhone:
			rc.HealthCenter = entry.Value
		case models.ConfigTelemedicinePhone:
			rc.Telemedicine = entry.Value
		case models.ConfigFirePhone:
			rc.Fire = entry.Value
		case models.ConfigSecurityPhone:
			rc.Security = entry.Value
		case models.ConfigCivilDefensePhone:
			rc.CivilDefense = entry.Value
		}
	}
	return rc, nil
}
