package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"emergency-dispatch-service/internal/domain/services/container"
	"emergency-dispatch-service/internal/infrastructure/config"
)

func healthTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	cfg := &config.Config{
		DBPath:     filepath.Join(dir, "emergency_system.db"),
		BackupDir:  filepath.Join(dir, "backups"),
		UploadsDir: filepath.Join(dir, "uploads"),
		RedisHost:  "localhost",
		RedisPort:  "6379",
	}
	sc := container.NewServiceContainer(&gorm.DB{}, cfg)

	r := gin.New()
	r.GET("/api/ping", HandleHealthFunc(sc, "ping"))
	r.GET("/api/health", HandleHealthFunc(sc, "status"))
	return r
}

func TestPing(t *testing.T) {
	r := healthTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
}

func TestHealthStatusReportsIntegrityAndCache(t *testing.T) {
	r := healthTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data struct {
			Status    string `json:"status"`
			Integrity struct {
				Valid  bool     `json:"valid"`
				Issues []string `json:"issues"`
			} `json:"integrity"`
			Cache map[string]interface{} `json:"cache"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))

	// No database file exists in the test config, so the integrity
	// checks must fail and degrade the overall status.
	assert.Equal(t, "degraded", envelope.Data.Status)
	assert.False(t, envelope.Data.Integrity.Valid)
	assert.NotEmpty(t, envelope.Data.Integrity.Issues)
	assert.Contains(t, envelope.Data.Cache, "connected")
}
