package services

import (
	"archive/zip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emergency-dispatch-service/internal/domain/models"
	"emergency-dispatch-service/internal/infrastructure/config"
)

// stubDataSource serves fixed slices so archives can be inspected without a
// database
type stubDataSource struct {
	users   []models.User
	calls   []models.EmergencyCall
	persons []models.Person
	configs []models.ConfigEntry
}

func (s *stubDataSource) Users() ([]models.User, error)                 { return s.users, nil }
func (s *stubDataSource) Calls() ([]models.EmergencyCall, error)        { return s.calls, nil }
func (s *stubDataSource) Persons() ([]models.Person, error)             { return s.persons, nil }
func (s *stubDataSource) ShiftLogs() ([]models.ShiftLog, error)         { return nil, nil }
func (s *stubDataSource) Observations() ([]models.Observation, error)   { return nil, nil }
func (s *stubDataSource) CommissionedServices() ([]models.CommissionedService, error) {
	return nil, nil
}
func (s *stubDataSource) ConfigEntries() ([]models.ConfigEntry, error) { return s.configs, nil }

func testBackupService(t *testing.T, source DataSource) (*BackupService, *config.Config) {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{
		DBPath:     filepath.Join(root, "emergency_system.db"),
		BackupDir:  filepath.Join(root, "backups"),
		UploadsDir: filepath.Join(root, "uploads"),
	}
	require.NoError(t, os.MkdirAll(cfg.BackupDir, 0755))
	return &BackupService{Config: cfg, Source: source}, cfg
}

func sampleSource() *stubDataSource {
	return &stubDataSource{
		users: []models.User{
			{ID: 1, Username: "admin", FirstName: "Administrador", LastName: "Sistema",
				Role: models.RoleAdmin, Active: true, PasswordHash: "secret-hash"},
			{ID: 2, Username: "jgomez", FirstName: "Julia", LastName: "Gómez",
				Role: models.RoleOperator, Active: true},
		},
		calls: []models.EmergencyCall{
			{ID: 1, OperatorID: 1, CallerName: "Juan", Street: "Av. Goycoechea",
				Category: models.CategoryMedical, Priority: models.PriorityRed,
				LocationKind: models.LocationResidence, State: models.CallStateActive},
		},
		persons: []models.Person{
			{ID: 1, LastName: "Pérez", FirstName: "Juan", Document: "30123456", Active: true},
		},
		configs: []models.ConfigEntry{
			{ID: 1, Key: "telefono_supervisor", Value: "3513334444", Category: "notificaciones"},
		},
	}
}

func readEntry(t *testing.T, zr *zip.ReadCloser, name string) []byte {
	t.Helper()
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			return data
		}
	}
	t.Fatalf("entry %s not found", name)
	return nil
}

func TestCreateBackupArchiveLayout(t *testing.T) {
	service, cfg := testBackupService(t, sampleSource())
	require.NoError(t, os.WriteFile(cfg.DBPath, []byte("db-bytes"), 0644))
	require.NoError(t, os.MkdirAll(cfg.UploadsDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.UploadsDir, "logo.png"), []byte("png"), 0644))

	result := service.CreateBackup(true)
	require.True(t, result.Success, "backup failed: %s", result.Error)
	assert.True(t, strings.HasPrefix(result.BackupFile, "emergency_backup_"))
	assert.True(t, strings.HasSuffix(result.BackupFile, ".zip"))
	assert.Greater(t, result.Size, int64(0))

	zr, err := zip.OpenReader(filepath.Join(cfg.BackupDir, result.BackupFile))
	require.NoError(t, err)
	defer zr.Close()

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	assert.True(t, names["emergency_system.db"])
	assert.True(t, names["csv_export/usuarios.csv"])
	assert.True(t, names["csv_export/llamados.csv"])
	assert.True(t, names["csv_export/personas.csv"])
	assert.True(t, names["csv_export/configuracion.csv"])
	assert.True(t, names["configuration.json"])
	assert.True(t, names["uploads/logo.png"])
	assert.True(t, names["metadata.json"])
	// Empty tables get no CSV
	assert.False(t, names["csv_export/guardias.csv"])
	assert.False(t, names["csv_export/observaciones.csv"])
}

func TestCreateBackupMetadataCounts(t *testing.T) {
	service, cfg := testBackupService(t, sampleSource())
	require.NoError(t, os.WriteFile(cfg.DBPath, []byte("db-bytes"), 0644))

	result := service.CreateBackup(false)
	require.True(t, result.Success)

	zr, err := zip.OpenReader(filepath.Join(cfg.BackupDir, result.BackupFile))
	require.NoError(t, err)
	defer zr.Close()

	var metadata BackupMetadata
	require.NoError(t, json.Unmarshal(readEntry(t, zr, "metadata.json"), &metadata))

	assert.Equal(t, "2.0.0", metadata.Version)
	assert.Equal(t, "complete", metadata.BackupType)
	assert.False(t, metadata.IncludesUploads)
	assert.Equal(t, 2, metadata.RecordCounts["usuarios"])
	assert.Equal(t, 1, metadata.RecordCounts["llamados"])
	assert.Equal(t, 1, metadata.RecordCounts["personas"])
	assert.Equal(t, 0, metadata.RecordCounts["guardias"])
	assert.Equal(t, 1, metadata.RecordCounts["configuracion"])
}

func TestCreateBackupExcludesPasswordHashes(t *testing.T) {
	service, cfg := testBackupService(t, sampleSource())
	require.NoError(t, os.WriteFile(cfg.DBPath, []byte("db-bytes"), 0644))

	result := service.CreateBackup(false)
	require.True(t, result.Success)

	zr, err := zip.OpenReader(filepath.Join(cfg.BackupDir, result.BackupFile))
	require.NoError(t, err)
	defer zr.Close()

	usersCSV := string(readEntry(t, zr, "csv_export/usuarios.csv"))
	assert.Contains(t, usersCSV, "admin")
	assert.NotContains(t, usersCSV, "secret-hash")
	assert.NotContains(t, usersCSV, "password_hash")
}

func TestCreateBackupConfigurationDocument(t *testing.T) {
	service, cfg := testBackupService(t, sampleSource())
	require.NoError(t, os.WriteFile(cfg.DBPath, []byte("db-bytes"), 0644))

	result := service.CreateBackup(false)
	require.True(t, result.Success)

	zr, err := zip.OpenReader(filepath.Join(cfg.BackupDir, result.BackupFile))
	require.NoError(t, err)
	defer zr.Close()

	var doc struct {
		Version        string                       `json:"version"`
		Configurations map[string]map[string]string `json:"configurations"`
	}
	require.NoError(t, json.Unmarshal(readEntry(t, zr, "configuration.json"), &doc))
	assert.Equal(t, "2.0.0", doc.Version)
	require.Contains(t, doc.Configurations, "telefono_supervisor")
	assert.Equal(t, "3513334444", doc.Configurations["telefono_supervisor"]["valor"])
}

func TestCreateBackupWithoutDatabaseFile(t *testing.T) {
	service, cfg := testBackupService(t, sampleSource())

	result := service.CreateBackup(false)
	require.True(t, result.Success)

	zr, err := zip.OpenReader(filepath.Join(cfg.BackupDir, result.BackupFile))
	require.NoError(t, err)
	defer zr.Close()

	for _, f := range zr.File {
		assert.NotEqual(t, "emergency_system.db", f.Name)
	}
}

func TestRestoreRejectsArchiveWithoutMetadata(t *testing.T) {
	service, cfg := testBackupService(t, sampleSource())
	require.NoError(t, os.WriteFile(cfg.DBPath, []byte("original"), 0644))

	// Archive without metadata.json
	badPath := filepath.Join(cfg.BackupDir, "emergency_backup_bad.zip")
	f, err := os.Create(badPath)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	entry, err := zw.Create("emergency_system.db")
	require.NoError(t, err)
	_, err = entry.Write([]byte("attacker"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	result := service.RestoreBackup("emergency_backup_bad.zip")
	assert.False(t, result.Success)
	assert.Equal(t, FailureArchiveInvalid, result.Kind)

	// Nothing was touched: database bytes identical, no safety backup taken
	data, err := os.ReadFile(cfg.DBPath)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
	assert.Empty(t, result.SafetyBackup)
}

func TestRestoreMissingArchive(t *testing.T) {
	service, _ := testBackupService(t, sampleSource())

	result := service.RestoreBackup("emergency_backup_20990101_000000.zip")
	assert.False(t, result.Success)
	assert.Equal(t, FailureNotFound, result.Kind)
}

func TestRestoreRoundTrip(t *testing.T) {
	service, cfg := testBackupService(t, sampleSource())
	require.NoError(t, os.WriteFile(cfg.DBPath, []byte("state-a"), 0644))

	backup := service.CreateBackup(false)
	require.True(t, backup.Success)

	// Rename the archive so the safety backup can never collide with it
	archived := "emergency_backup_20240101_000000.zip"
	require.NoError(t, os.Rename(
		filepath.Join(cfg.BackupDir, backup.BackupFile),
		filepath.Join(cfg.BackupDir, archived)))

	// State moves on after the backup
	require.NoError(t, os.WriteFile(cfg.DBPath, []byte("state-b"), 0644))

	result := service.RestoreBackup(archived)
	require.True(t, result.Success, "restore failed: %s", result.Error)
	assert.NotEmpty(t, result.SafetyBackup)
	assert.NotEqual(t, archived, result.SafetyBackup)

	// Database back at the archived state
	data, err := os.ReadFile(cfg.DBPath)
	require.NoError(t, err)
	assert.Equal(t, "state-a", string(data))

	// Pre-restore state preserved under the side filename
	preserved, err := os.ReadFile(cfg.DBPath + ".restore_backup")
	require.NoError(t, err)
	assert.Equal(t, "state-b", string(preserved))

	// Integrity findings are advisory, the report must still be attached
	require.NotNil(t, result.Integrity)
}

func TestRestoreReplacesUploads(t *testing.T) {
	service, cfg := testBackupService(t, sampleSource())
	require.NoError(t, os.WriteFile(cfg.DBPath, []byte("db"), 0644))
	require.NoError(t, os.MkdirAll(cfg.UploadsDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.UploadsDir, "keep.png"), []byte("old"), 0644))

	backup := service.CreateBackup(true)
	require.True(t, backup.Success)

	archived := "emergency_backup_20240101_000000.zip"
	require.NoError(t, os.Rename(
		filepath.Join(cfg.BackupDir, backup.BackupFile),
		filepath.Join(cfg.BackupDir, archived)))

	// Uploads change after the backup
	require.NoError(t, os.WriteFile(filepath.Join(cfg.UploadsDir, "extra.png"), []byte("new"), 0644))

	result := service.RestoreBackup(archived)
	require.True(t, result.Success)

	data, err := os.ReadFile(filepath.Join(cfg.UploadsDir, "keep.png"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
	_, err = os.Stat(filepath.Join(cfg.UploadsDir, "extra.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestListBackupsNewestFirst(t *testing.T) {
	service, cfg := testBackupService(t, sampleSource())
	require.NoError(t, os.WriteFile(cfg.DBPath, []byte("db"), 0644))

	first := service.CreateBackup(false)
	require.True(t, first.Success)

	// Rename and age the first archive so the second can never collide
	firstName := "emergency_backup_20240101_000000.zip"
	require.NoError(t, os.Rename(
		filepath.Join(cfg.BackupDir, first.BackupFile),
		filepath.Join(cfg.BackupDir, firstName)))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(cfg.BackupDir, firstName), old, old))

	second := service.CreateBackup(false)
	require.True(t, second.Success)

	// A corrupt file with the right name still shows up, with empty metadata
	corrupt := filepath.Join(cfg.BackupDir, "emergency_backup_corrupt.zip")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a zip"), 0644))
	veryOld := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(corrupt, veryOld, veryOld))

	backups, err := service.ListBackups()
	require.NoError(t, err)
	require.Len(t, backups, 3)
	assert.Equal(t, second.BackupFile, backups[0].Filename)
	assert.Equal(t, firstName, backups[1].Filename)
	assert.Equal(t, "emergency_backup_corrupt.zip", backups[2].Filename)
	assert.Equal(t, "2.0.0", backups[0].Metadata.Version)
	assert.Empty(t, backups[2].Metadata.Version)
}

func TestListBackupsIgnoresOtherFiles(t *testing.T) {
	service, cfg := testBackupService(t, sampleSource())
	require.NoError(t, os.WriteFile(filepath.Join(cfg.BackupDir, "notes.txt"), []byte("x"), 0644))

	backups, err := service.ListBackups()
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestDeleteBackup(t *testing.T) {
	service, cfg := testBackupService(t, sampleSource())
	require.NoError(t, os.WriteFile(cfg.DBPath, []byte("db"), 0644))

	backup := service.CreateBackup(false)
	require.True(t, backup.Success)

	require.NoError(t, service.DeleteBackup(backup.BackupFile))
	_, err := os.Stat(filepath.Join(cfg.BackupDir, backup.BackupFile))
	assert.True(t, os.IsNotExist(err))

	assert.ErrorIs(t, service.DeleteBackup(backup.BackupFile), ErrBackupNotFound)
}

func TestVerifyIntegrityMissingDatabase(t *testing.T) {
	service, _ := testBackupService(t, sampleSource())

	report := service.VerifyIntegrity()
	assert.False(t, report.Valid)
	require.NotEmpty(t, report.Issues)
	assert.Contains(t, report.Issues[0], "database file not found")
}
