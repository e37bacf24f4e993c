package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"emergency-dispatch-service/internal/domain/models"
	"emergency-dispatch-service/internal/infrastructure/config"
	"emergency-dispatch-service/pkg/logger"
	"emergency-dispatch-service/pkg/phone"
)

// InterfaceWhatsAppService defines the outbound messaging gateway interface
type InterfaceWhatsAppService interface {
	IsConfigured() bool
	Configure(token, uid string) error
	Send(to, body string) bool
	TestConnection() *WhatsAppTestResult
	Status() (*WhatsAppStatus, error)
	SendManual(to, body, kind string) bool
}

// WhatsAppTestResult reports the outcome of a gateway probe
type WhatsAppTestResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// WhatsAppStatus describes the gateway configuration state
type WhatsAppStatus struct {
	Configured bool            `json:"configured"`
	TokenSet   bool            `json:"token_set"`
	UIDSet     bool            `json:"uid_set"`
	Responders map[string]bool `json:"responders,omitempty"` // role key -> has a phone configured
}

// WhatsAppService sends text messages through the waboxapp HTTP API.
// Credentials live in the configuracion table so they survive backups.
type WhatsAppService struct {
	Config        *config.Config
	ConfigService InterfaceConfigService
	client        *http.Client
}

// NewWhatsAppService creates a new WhatsApp gateway service
func NewWhatsAppService(cfg *config.Config, configService InterfaceConfigService) InterfaceWhatsAppService {
	return &WhatsAppService{
		Config:        cfg,
		ConfigService: configService,
		client:        &http.Client{Timeout: cfg.WhatsAppTimeout},
	}
}

// 1 IsConfigured reports whether token and uid are both present
func (s *WhatsAppService) IsConfigured() bool {
	token, uid := s.credentials()
	return token != "" && uid != ""
}

// 2 Configure stores the gateway credentials
func (s *WhatsAppService) Configure(token, uid string) error {
	if err := s.ConfigService.SetValue(models.ConfigWhatsAppToken, token, "waboxapp API token", "whatsapp"); err != nil {
		return err
	}
	return s.ConfigService.SetValue(models.ConfigWhatsAppUID, uid, "waboxapp sender number", "whatsapp")
}

// 3 Send delivers one text message to one phone number. The destination is
// normalized before dispatch. Returns false on any failure; errors never
// propagate past this boundary.
func (s *WhatsAppService) Send(to, body string) bool {
	token, uid := s.credentials()
	if token == "" || uid == "" {
		logger.Error("WhatsApp gateway not configured")
		return false
	}

	dest := phone.Normalize(to)
	if dest == "" {
		logger.Error("WhatsApp send skipped: empty destination")
		return false
	}

	form := url.Values{}
	form.Set("token", token)
	form.Set("uid", uid)
	form.Set("to", dest)
	form.Set("custom_uid", "emergency_"+uuid.NewString())
	form.Set("text", body)

	resp, err := s.client.PostForm(s.Config.WhatsAppAPIURL, form)
	if err != nil {
		logger.Error("WhatsApp connection error: %v", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Error("WhatsApp gateway returned status %d", resp.StatusCode)
		return false
	}

	var result struct {
		Sent bool `json:"sent"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		logger.Error("WhatsApp response decode error: %v", err)
		return false
	}

	if !result.Sent {
		logger.Error("WhatsApp gateway rejected message to %s", dest)
		return false
	}

	logger.Info("WhatsApp sent to %s", dest)
	return true
}

// 4 TestConnection sends a timestamped probe message to the gateway's own uid
func (s *WhatsAppService) TestConnection() *WhatsAppTestResult {
	if !s.IsConfigured() {
		return &WhatsAppTestResult{Success: false, Error: "WhatsApp gateway not configured"}
	}

	_, uid := s.credentials()
	probe := fmt.Sprintf("Test message - %s", time.Now().Format("02/01/2006 15:04"))
	if s.Send(uid, probe) {
		return &WhatsAppTestResult{Success: true, Message: "test message sent"}
	}
	return &WhatsAppTestResult{Success: false, Error: "could not send test message"}
}

// 5 Status reports which credentials and responder phones are configured
func (s *WhatsAppService) Status() (*WhatsAppStatus, error) {
	token, uid := s.credentials()
	status := &WhatsAppStatus{
		Configured: token != "" && uid != "",
		TokenSet:   token != "",
		UIDSet:     uid != "",
	}

	rc, err := s.ConfigService.GetResponderConfig()
	if err != nil {
		return status, err
	}

	status.Responders = map[string]bool{
		models.ConfigSupervisorPhone:   rc.Supervisor != "",
		models.ConfigMedicalDispatch:   rc.MedicalDispatch != "",
		models.ConfigHealthCenterPhone: rc.HealthCenter != "",
		models.ConfigTelemedicinePhone: rc.Telemedicine != "",
		models.ConfigFirePhone:         rc.Fire != "",
		models.ConfigSecurityPhone:     rc.Security != "",
		models.ConfigCivilDefensePhone: rc.CivilDefense != "",
	}
	return status, nil
}

// 6 SendManual sends a free-form message wrapped in the manual template
func (s *WhatsAppService) SendManual(to, body, kind string) bool {
	if kind == "" {
		kind = "manual"
	}
	message := fmt.Sprintf("📱 MENSAJE MANUAL - VILLA ALLENDE\n\n%s\n\n⏰ %s\n📨 Tipo: %s",
		body,
		time.Now().Format("02/01/2006 15:04"),
		strings.ToUpper(kind))
	return s.Send(to, message)
}

func (s *WhatsAppService) credentials() (token, uid string) {
	token, err := s.ConfigService.GetValue(models.ConfigWhatsAppToken)
	if err != nil {
		logger.Warning("could not load WhatsApp token: %v", err)
	}
	uid, err = s.ConfigService.GetValue(models.ConfigWhatsAppUID)
	if err != nil {
		logger.Warning("could not load WhatsApp uid: %v", err)
	}
	return token, uid
}
