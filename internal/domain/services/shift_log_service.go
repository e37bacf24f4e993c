package services

import (
	"time"

	"gorm.io/gorm"

	"emergency-dispatch-service/internal/domain/models"
	"emergency-dispatch-service/internal/infrastructure/config"
)

// InterfaceShiftLogService defines the shift log service interface
type InterfaceShiftLogService interface {
	GetAllEntries(day string, page, pageSize int) ([]models.ShiftLog, int64, error)
	AddEntry(operatorID uint, activity, kind string) (*models.ShiftLog, error)
}

// ShiftLogService handles the operator shift log book
type ShiftLogService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewShiftLogService creates a new shift log service
func NewShiftLogService(db *gorm.DB, cfg *config.Config) InterfaceShiftLogService {
	return &ShiftLogService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetAllEntries lists log entries, optionally restricted to one day
// (YYYY-MM-DD), newest first
func (s *ShiftLogService) GetAllEntries(day string, page, pageSize int) ([]models.ShiftLog, int64, error) {
	query := s.DB.Model(&models.ShiftLog{})
	if day != "" {
		if start, err := time.ParseInLocation("2006-01-02", day, time.Local); err == nil {
			query = query.Where("fecha >= ? AND fecha < ?", start, start.AddDate(0, 0, 1))
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.ShiftLog
	err := query.Preload("Operator").Order("fecha DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// 2 AddEntry appends an activity to the shift log
func (s *ShiftLogService) AddEntry(operatorID uint, activity, kind string) (*models.ShiftLog, error) {
	if kind == "" {
		kind = models.ShiftLogNovelty
	}
	entry := &models.ShiftLog{
		Timestamp:  time.Now(),
		OperatorID: operatorID,
		Activity:   activity,
		Kind:       kind,
	}
	if err := s.DB.Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}
