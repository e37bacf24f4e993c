package services

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emergency-dispatch-service/internal/domain/models"
	"emergency-dispatch-service/internal/infrastructure/config"
)

// stubConfigService keeps configuration in a map so gateway tests run
// without a database.
type stubConfigService struct {
	values     map[string]string
	responders *ResponderConfig
}

func (s *stubConfigService) GetValue(key string) (string, error) {
	return s.values[key], nil
}

func (s *stubConfigService) SetValue(key, value, description, category string) error {
	s.values[key] = value
	return nil
}

func (s *stubConfigService) GetAll() ([]models.ConfigEntry, error) {
	return nil, nil
}

func (s *stubConfigService) GetByCategory(category string) ([]models.ConfigEntry, error) {
	return nil, nil
}

func (s *stubConfigService) GetResponderConfig() (*ResponderConfig, error) {
	if s.responders != nil {
		return s.responders, nil
	}
	return &ResponderConfig{}, nil
}

func newTestWhatsAppService(apiURL string, values map[string]string) (*WhatsAppService, *stubConfigService) {
	cs := &stubConfigService{values: values}
	cfg := &config.Config{
		WhatsAppAPIURL:  apiURL,
		WhatsAppTimeout: 5 * time.Second,
	}
	svc := NewWhatsAppService(cfg, cs).(*WhatsAppService)
	return svc, cs
}

func configuredCredentials() map[string]string {
	return map[string]string{
		models.ConfigWhatsAppToken: "test-token",
		models.ConfigWhatsAppUID:   "5493512223333",
	}
}

func TestSendPostsNormalizedDestination(t *testing.T) {
	var got url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		got = r.PostForm
		w.Write([]byte(`{"sent": true}`))
	}))
	defer server.Close()

	svc, _ := newTestWhatsAppService(server.URL, configuredCredentials())

	ok := svc.Send("0351 123-4567", "ALERTA DE EMERGENCIA")
	assert.True(t, ok)

	require.NotNil(t, got)
	assert.Equal(t, "test-token", got.Get("token"))
	assert.Equal(t, "5493512223333", got.Get("uid"))
	assert.Equal(t, "543511234567", got.Get("to"))
	assert.Equal(t, "ALERTA DE EMERGENCIA", got.Get("text"))
	assert.True(t, strings.HasPrefix(got.Get("custom_uid"), "emergency_"))
}

func TestSendFailsWithoutCredentials(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	svc, _ := newTestWhatsAppService(server.URL, map[string]string{})

	assert.False(t, svc.Send("3511234567", "hola"))
	assert.False(t, called, "gateway must not be contacted without credentials")
}

func TestSendFailsOnGatewayErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "http error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			name: "rejected message",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"sent": false}`))
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			svc, _ := newTestWhatsAppService(server.URL, configuredCredentials())
			assert.False(t, svc.Send("3511234567", "hola"))
		})
	}
}

func TestSendSkipsEmptyDestination(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	svc, _ := newTestWhatsAppService(server.URL, configuredCredentials())

	assert.False(t, svc.Send("   ", "hola"))
	assert.False(t, called)
}

func TestConfigureStoresCredentials(t *testing.T) {
	svc, cs := newTestWhatsAppService("http://unused", map[string]string{})

	require.False(t, svc.IsConfigured())
	require.NoError(t, svc.Configure("tok", "549351000"))

	assert.Equal(t, "tok", cs.values[models.ConfigWhatsAppToken])
	assert.Equal(t, "549351000", cs.values[models.ConfigWhatsAppUID])
	assert.True(t, svc.IsConfigured())
}

func TestStatusReportsResponderCoverage(t *testing.T) {
	svc, cs := newTestWhatsAppService("http://unused", configuredCredentials())
	cs.responders = &ResponderConfig{
		Supervisor: "3513334444",
		Fire:       "3515556666",
	}

	status, err := svc.Status()
	require.NoError(t, err)

	assert.True(t, status.Configured)
	assert.True(t, status.TokenSet)
	assert.True(t, status.UIDSet)
	assert.True(t, status.Responders[models.ConfigSupervisorPhone])
	assert.True(t, status.Responders[models.ConfigFirePhone])
	assert.False(t, status.Responders[models.ConfigMedicalDispatch])
	assert.False(t, status.Responders[models.ConfigTelemedicinePhone])
}

func TestTestConnectionRequiresConfiguration(t *testing.T) {
	svc, _ := newTestWhatsAppService("http://unused", map[string]string{})

	result := svc.TestConnection()
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestSendManualWrapsMessage(t *testing.T) {
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		body = r.PostForm.Get("text")
		w.Write([]byte(`{"sent": true}`))
	}))
	defer server.Close()

	svc, _ := newTestWhatsAppService(server.URL, configuredCredentials())

	assert.True(t, svc.SendManual("3511234567", "corte de luz en zona norte", "aviso"))
	assert.Contains(t, body, "MENSAJE MANUAL")
	assert.Contains(t, body, "corte de luz en zona norte")
	assert.Contains(t, body, "Tipo: AVISO")
}
