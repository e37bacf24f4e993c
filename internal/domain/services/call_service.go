package services

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"emergency-dispatch-service/internal/domain/models"
	"emergency-dispatch-service/internal/infrastructure/config"
	"emergency-dispatch-service/pkg/logger"
)

var (
	ErrCallNotFound      = errors.New("emergency call not found")
	ErrCallAlreadyClosed = errors.New("emergency call is already closed")
	ErrServiceNotFound   = errors.New("commissioned service not found")
)

// CallFilter narrows a call listing. Zero values mean "no filter".
type CallFilter struct {
	State    string `form:"estado" json:"estado"`
	Category string `form:"tipo" json:"tipo"`
	Priority string `form:"prioridad" json:"prioridad"`
	Search   string `form:"q" json:"q"`
	From     string `form:"desde" json:"desde"` // YYYY-MM-DD
	To       string `form:"hasta" json:"hasta"` // YYYY-MM-DD
}

// DashboardStats are the operator dashboard counters
type DashboardStats struct {
	ActiveCalls int64            `json:"active_calls"`
	TodayCalls  int64            `json:"today_calls"`
	TodayRed    int64            `json:"today_red"`
	ClosedToday int64            `json:"closed_today"`
	ByCategory  map[string]int64 `json:"by_category"`
}

// InterfaceCallService defines the emergency call service interface
type InterfaceCallService interface {
	CreateCall(call *models.EmergencyCall, triage *models.TriageFlags) (*models.EmergencyCall, []NotificationOutcome, error)
	GetCallByID(id uint) (*models.EmergencyCall, error)
	GetAllCalls(filter CallFilter, page, pageSize int) ([]models.EmergencyCall, int64, error)
	CloseCall(id, operatorID uint, note string) (*models.EmergencyCall, error)
	AddObservation(callID, operatorID uint, text string) (*models.Observation, error)
	CommissionService(callID, operatorID uint, serviceKind, reason string) (*models.CommissionedService, error)
	UpdateServiceState(serviceID uint, state string) (*models.CommissionedService, error)
	GetDashboardStats() (*DashboardStats, error)
}

// CallService handles the emergency call lifecycle and triggers the
// notification fan-out when a call is registered.
type CallService struct {
	DB       *gorm.DB
	Config   *config.Config
	Configs  InterfaceConfigService
	Notifier InterfaceNotificationService
	WhatsApp InterfaceWhatsAppService
	Cache    InterfaceRedisService
}

// NewCallService creates a new emergency call service
func NewCallService(db *gorm.DB, cfg *config.Config, configs InterfaceConfigService, notifier InterfaceNotificationService, whatsapp InterfaceWhatsAppService, cache InterfaceRedisService) InterfaceCallService {
	return &CallService{
		DB:       db,
		Config:   cfg,
		Configs:  configs,
		Notifier: notifier,
		WhatsApp: whatsapp,
		Cache:    cache,
	}
}

// 1 CreateCall registers a new emergency call and dispatches the alert to
// every configured responder before returning. Delivery failures are recorded
// on the call, never surfaced as errors: the call itself is already saved.
func (s *CallService) CreateCall(call *models.EmergencyCall, triage *models.TriageFlags) (*models.EmergencyCall, []NotificationOutcome, error) {
	if call.Timestamp.IsZero() {
		call.Timestamp = time.Now()
	}
	if call.State == "" {
		call.State = models.CallStateActive
	}
	if triage != nil && call.Category == models.CategoryMedical {
		data, err := json.Marshal(triage)
		if err != nil {
			return nil, nil, err
		}
		call.TriageData = string(data)
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(call).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", call.OperatorID).
			UpdateColumn("llamados_atendidos", gorm.Expr("llamados_atendidos + 1")).Error
	})
	if err != nil {
		return nil, nil, err
	}

	// Load the operator so the alert can name who took the call
	s.DB.Preload("Operator").First(call, call.ID)

	outcomes := s.Notifier.RouteAndNotify(call, s.responderConfig(), s.WhatsApp.Send)

	sent := false
	for _, outcome := range outcomes {
		if outcome.Sent {
			sent = true
			break
		}
	}
	call.WhatsAppSent = sent
	if summary, err := json.Marshal(outcomes); err == nil {
		call.WhatsAppResponse = string(summary)
	}
	if err := s.DB.Model(call).Select("whatsapp_enviado", "whatsapp_respuesta").Updates(call).Error; err != nil {
		logger.Error("call %d: could not record delivery outcome: %v", call.ID, err)
	}

	logger.Info("call %d registered: %s/%s, %d notifications, delivered=%t",
		call.ID, call.Category, call.Priority, len(outcomes), sent)
	return call, outcomes, nil
}

// responderConfig reads the routing destinations, preferring the cache. A
// cache miss or an unreachable cache falls through to the database.
func (s *CallService) responderConfig() *ResponderConfig {
	if s.Cache != nil {
		if cached, err := s.Cache.GetResponderConfig(); err == nil {
			return cached
		}
	}
	rc, err := s.Configs.GetResponderConfig()
	if err != nil {
		logger.Error("could not load responder configuration: %v", err)
		return &ResponderConfig{}
	}
	if s.Cache != nil {
		if err := s.Cache.CacheResponderConfig(rc, 5*time.Minute); err != nil {
			logger.Warning("could not cache responder configuration: %v", err)
		}
	}
	return rc
}

// 2 GetCallByID gets a call with its operator, observations and
// commissioned services
func (s *CallService) GetCallByID(id uint) (*models.EmergencyCall, error) {
	var call models.EmergencyCall
	err := s.DB.Preload("Operator").Preload("Observations").Preload("Services").First(&call, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCallNotFound
		}
		return nil, err
	}
	return &call, nil
}

// 3 GetAllCalls lists calls matching the filter, newest first
func (s *CallService) GetAllCalls(filter CallFilter, page, pageSize int) ([]models.EmergencyCall, int64, error) {
	query := s.DB.Model(&models.EmergencyCall{})

	if filter.State != "" {
		query = query.Where("estado = ?", filter.State)
	}
	if filter.Category != "" {
		query = query.Where("tipo = ?", filter.Category)
	}
	if filter.Priority != "" {
		query = query.Where("prioridad = ?", filter.Priority)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("nombre LIKE ? OR apellido LIKE ? OR telefono LIKE ? OR dni LIKE ? OR calle LIKE ?",
			pattern, pattern, pattern, pattern, pattern)
	}
	if filter.From != "" {
		if from, err := time.ParseInLocation("2006-01-02", filter.From, time.Local); err == nil {
			query = query.Where("fecha >= ?", from)
		}
	}
	if filter.To != "" {
		if to, err := time.ParseInLocation("2006-01-02", filter.To, time.Local); err == nil {
			query = query.Where("fecha < ?", to.AddDate(0, 0, 1))
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var calls []models.EmergencyCall
	err := query.Preload("Operator").Order("fecha DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&calls).Error
	if err != nil {
		return nil, 0, err
	}
	return calls, total, nil
}

// 4 CloseCall marks an active call as closed. Closing an already closed
// call is rejected.
func (s *CallService) CloseCall(id, operatorID uint, note string) (*models.EmergencyCall, error) {
	call, err := s.GetCallByID(id)
	if err != nil {
		return nil, err
	}
	if call.State == models.CallStateClosed {
		return nil, ErrCallAlreadyClosed
	}

	now := time.Now()
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(call).Updates(map[string]interface{}{
			"estado":       models.CallStateClosed,
			"fecha_cierre": now,
		}).Error; err != nil {
			return err
		}
		if note != "" {
			return tx.Create(&models.Observation{
				CallID:     call.ID,
				OperatorID: operatorID,
				Timestamp:  now,
				Text:       note,
			}).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	call.State = models.CallStateClosed
	call.ClosedAt = &now
	logger.Info("call %d closed by operator %d", id, operatorID)
	return call, nil
}

// 5 AddObservation appends a follow-up note to a call
func (s *CallService) AddObservation(callID, operatorID uint, text string) (*models.Observation, error) {
	if _, err := s.GetCallByID(callID); err != nil {
		return nil, err
	}

	observation := &models.Observation{
		CallID:     callID,
		OperatorID: operatorID,
		Timestamp:  time.Now(),
		Text:       text,
	}
	if err := s.DB.Create(observation).Error; err != nil {
		return nil, err
	}
	return observation, nil
}

// 6 CommissionService records that an external unit was dispatched for a call
func (s *CallService) CommissionService(callID, operatorID uint, serviceKind, reason string) (*models.CommissionedService, error) {
	if _, err := s.GetCallByID(callID); err != nil {
		return nil, err
	}

	service := &models.CommissionedService{
		CallID:      callID,
		OperatorID:  operatorID,
		Timestamp:   time.Now(),
		ServiceKind: serviceKind,
		Reason:      reason,
		State:       models.ServiceStateRequested,
	}
	if err := s.DB.Create(service).Error; err != nil {
		return nil, err
	}
	return service, nil
}

// 7 UpdateServiceState advances a commissioned service through its states
func (s *CallService) UpdateServiceState(serviceID uint, state string) (*models.CommissionedService, error) {
	var service models.CommissionedService
	if err := s.DB.First(&service, serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	if err := s.DB.Model(&service).Update("estado", state).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// 8 GetDashboardStats computes the dashboard counters, cached for a short
// window so the dashboard poll does not hammer the database
func (s *CallService) GetDashboardStats() (*DashboardStats, error) {
	if s.Cache != nil {
		if cached, err := s.Cache.GetDashboardStats(); err == nil {
			return cached, nil
		}
	}

	stats := &DashboardStats{ByCategory: make(map[string]int64)}
	today := dayStart(time.Now())

	if err := s.DB.Model(&models.EmergencyCall{}).
		Where("estado = ?", models.CallStateActive).Count(&stats.ActiveCalls).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.EmergencyCall{}).
		Where("fecha >= ?", today).Count(&stats.TodayCalls).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.EmergencyCall{}).
		Where("fecha >= ? AND prioridad = ?", today, models.PriorityRed).Count(&stats.TodayRed).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.EmergencyCall{}).
		Where("fecha_cierre >= ?", today).Count(&stats.ClosedToday).Error; err != nil {
		return nil, err
	}

	var byCategory []struct {
		Category string `gorm:"column:tipo"`
		Count    int64
	}
	if err := s.DB.Model(&models.EmergencyCall{}).
		Select("tipo, COUNT(*) AS count").Where("fecha >= ?", today).
		Group("tipo").Scan(&byCategory).Error; err != nil {
		return nil, err
	}
	for _, row := range byCategory {
		stats.ByCategory[row.Category] = row.Count
	}

	if s.Cache != nil {
		if err := s.Cache.CacheDashboardStats(stats, 30*time.Second); err != nil {
			logger.Warning("could not cache dashboard stats: %v", err)
		}
	}
	return stats, nil
}

// dayStart returns midnight of t's calendar day in t's own location, so
// daily counters roll over at local midnight rather than at the UTC boundary.
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
