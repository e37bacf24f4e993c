package services

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"emergency-dispatch-service/internal/domain/models"
	"emergency-dispatch-service/internal/infrastructure/config"
	"emergency-dispatch-service/pkg/logger"
)

// Archive layout constants. These match the archives produced by earlier
// deployments, so restores work across versions.
const (
	archivePrefix  = "emergency_backup_"
	archiveSuffix  = ".zip"
	archiveVersion = "2.0.0"
	dbEntryName    = "emergency_system.db"
	csvEntryDir    = "csv_export"
	uploadsDir     = "uploads"
	metadataEntry  = "metadata.json"
	configEntry    = "configuration.json"
)

// requiredTables are the logical tables the integrity verifier expects
var requiredTables = []string{
	"usuarios", "llamados", "personas", "guardias",
	"observaciones", "servicios_comisionados", "configuracion",
}

// FailureKind classifies backup and restore failures
type FailureKind string

const (
	FailureNone          FailureKind = ""
	FailureIO            FailureKind = "io_failure"
	FailureArchiveInvalid FailureKind = "archive_invalid"
	FailureSafetyBackup  FailureKind = "safety_backup_failed"
	FailureNotFound      FailureKind = "not_found"
)

// ErrBackupNotFound is returned when the named archive does not exist
var ErrBackupNotFound = errors.New("backup archive not found")

// BackupMetadata is the metadata.json block embedded in every archive
type BackupMetadata struct {
	Timestamp       string         `json:"timestamp"`
	Version         string         `json:"version"`
	BackupType      string         `json:"backup_type"`
	IncludesUploads bool           `json:"includes_uploads"`
	RecordCounts    map[string]int `json:"record_counts"`
}

// BackupResult reports the outcome of one backup creation
type BackupResult struct {
	Success    bool        `json:"success"`
	BackupFile string      `json:"backup_file,omitempty"`
	Size       int64       `json:"size,omitempty"`
	Kind       FailureKind `json:"kind,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// IntegrityReport is the verifier's findings. Valid is true iff Issues is empty.
type IntegrityReport struct {
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues"`
}

// RestoreResult reports the outcome of one restore
type RestoreResult struct {
	Success      bool             `json:"success"`
	SafetyBackup string           `json:"safety_backup,omitempty"`
	Integrity    *IntegrityReport `json:"integrity_check,omitempty"`
	Kind         FailureKind      `json:"kind,omitempty"`
	Error        string           `json:"error,omitempty"`
}

// BackupInfo describes one archive found in the backup directory
type BackupInfo struct {
	Filename string         `json:"filename"`
	Size     int64          `json:"size"`
	Created  time.Time      `json:"created"`
	Metadata BackupMetadata `json:"metadata"`
}

// DataSource provides read access to every logical table. The exporter only
// sees plain record slices, so it stays agnostic to the storage engine.
type DataSource interface {
	Users() ([]models.User, error)
	Calls() ([]models.EmergencyCall, error)
	Persons() ([]models.Person, error)
	ShiftLogs() ([]models.ShiftLog, error)
	Observations() ([]models.Observation, error)
	CommissionedServices() ([]models.CommissionedService, error)
	ConfigEntries() ([]models.ConfigEntry, error)
}

type gormDataSource struct {
	db *gorm.DB
}

func (g *gormDataSource) Users() ([]models.User, error) {
	var rows []models.User
	return rows, g.db.Order("id").Find(&rows).Error
}

func (g *gormDataSource) Calls() ([]models.EmergencyCall, error) {
	var rows []models.EmergencyCall
	return rows, g.db.Order("id").Find(&rows).Error
}

func (g *gormDataSource) Persons() ([]models.Person, error) {
	var rows []models.Person
	return rows, g.db.Order("id").Find(&rows).Error
}

func (g *gormDataSource) ShiftLogs() ([]models.ShiftLog, error) {
	var rows []models.ShiftLog
	return rows, g.db.Order("id").Find(&rows).Error
}

func (g *gormDataSource) Observations() ([]models.Observation, error) {
	var rows []models.Observation
	return rows, g.db.Order("id").Find(&rows).Error
}

func (g *gormDataSource) CommissionedServices() ([]models.CommissionedService, error) {
	var rows []models.CommissionedService
	return rows, g.db.Order("id").Find(&rows).Error
}

func (g *gormDataSource) ConfigEntries() ([]models.ConfigEntry, error) {
	var rows []models.ConfigEntry
	return rows, g.db.Order("id").Find(&rows).Error
}

// InterfaceBackupService defines the backup and restore engine interface
type InterfaceBackupService interface {
	CreateBackup(includeUploads bool) *BackupResult
	RestoreBackup(name string) *RestoreResult
	ListBackups() ([]BackupInfo, error)
	DeleteBackup(name string) error
	VerifyIntegrity() *IntegrityReport
}

// BackupService snapshots all persisted state into zip archives and restores
// them. Restore needs exclusive access to the data store; serializing writes
// during a restore is the caller's responsibility.
type BackupService struct {
	Config *config.Config
	Source DataSource
}

// NewBackupService creates a new backup engine over the given database
func NewBackupService(db *gorm.DB, cfg *config.Config) InterfaceBackupService {
	if err := os.MkdirAll(cfg.BackupDir, 0755); err != nil {
		logger.Warning("could not create backup directory %s: %v", cfg.BackupDir, err)
	}
	return &BackupService{
		Config: cfg,
		Source: &gormDataSource{db: db},
	}
}

// snapshot holds every table read at one point in time. CSV rows and record
// counts both come from it, so the counts always match the exported rows.
type snapshot struct {
	users        []models.User
	calls        []models.EmergencyCall
	persons      []models.Person
	shiftLogs    []models.ShiftLog
	observations []models.Observation
	services     []models.CommissionedService
	configs      []models.ConfigEntry
}

func (s *snapshot) recordCounts() map[string]int {
	return map[string]int{
		"usuarios":               len(s.users),
		"llamados":               len(s.calls),
		"personas":               len(s.persons),
		"guardias":               len(s.shiftLogs),
		"observaciones":          len(s.observations),
		"servicios_comisionados": len(s.services),
		"configuracion":          len(s.configs),
	}
}

// 1 CreateBackup packs the database file, CSV exports, configuration,
// optionally the uploads tree, and a metadata block into one archive. The
// archive is written to a temporary file and renamed into place, so a failed
// backup never leaves a partial archive under its final name.
func (s *BackupService) CreateBackup(includeUploads bool) *BackupResult {
	timestamp := time.Now().Format("20060102_150405")
	filename := archivePrefix + timestamp + archiveSuffix
	finalPath := filepath.Join(s.Config.BackupDir, filename)

	tmp, err := os.CreateTemp(s.Config.BackupDir, filename+".tmp-*")
	if err != nil {
		return backupFailure(err)
	}
	tmpPath := tmp.Name()

	fail := func(err error) *BackupResult {
		tmp.Close()
		os.Remove(tmpPath)
		return backupFailure(err)
	}

	logger.Info("starting backup: %s", filename)

	zw := zip.NewWriter(tmp)
	if err := s.writeArchive(zw, timestamp, includeUploads); err != nil {
		zw.Close()
		return fail(err)
	}
	if err := zw.Close(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return backupFailure(err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return backupFailure(err)
	}

	info, err := os.Stat(finalPath)
	if err != nil {
		return backupFailure(err)
	}

	logger.Info("backup complete: %s (%d bytes)", filename, info.Size())
	return &BackupResult{
		Success:    true,
		BackupFile: filename,
		Size:       info.Size(),
	}
}

func backupFailure(err error) *BackupResult {
	logger.Error("backup failed: %v", err)
	return &BackupResult{Success: false, Kind: FailureIO, Error: err.Error()}
}

func (s *BackupService) writeArchive(zw *zip.Writer, timestamp string, includeUploads bool) error {
	// Raw copy of the database file
	if _, err := os.Stat(s.Config.DBPath); err == nil {
		entry, err := zw.Create(dbEntryName)
		if err != nil {
			return err
		}
		src, err := os.Open(s.Config.DBPath)
		if err != nil {
			return err
		}
		if _, err := io.Copy(entry, src); err != nil {
			src.Close()
			return err
		}
		src.Close()
	}

	snap, err := s.takeSnapshot()
	if err != nil {
		return err
	}

	// CSV export per table, skipping empty tables
	for _, table := range csvTables(snap) {
		if len(table.rows) == 0 {
			continue
		}
		content, err := renderCSV(table.header, table.rows)
		if err != nil {
			return err
		}
		entry, err := zw.Create(csvEntryDir + "/" + table.name + ".csv")
		if err != nil {
			return err
		}
		if _, err := entry.Write(content); err != nil {
			return err
		}
	}

	// Configuration document
	configDoc := map[string]interface{}{
		"export_timestamp": time.Now().Format("2006-01-02T15:04:05"),
		"version":          archiveVersion,
		"configurations":   configurationsMap(snap.configs),
	}
	if err := writeJSONEntry(zw, configEntry, configDoc); err != nil {
		return err
	}

	// Uploaded assets
	if includeUploads {
		if err := s.writeUploads(zw); err != nil {
			return err
		}
	}

	// Metadata, with counts taken from the same snapshot as the CSVs
	metadata := BackupMetadata{
		Timestamp:       timestamp,
		Version:         archiveVersion,
		BackupType:      "complete",
		IncludesUploads: includeUploads,
		RecordCounts:    snap.recordCounts(),
	}
	return writeJSONEntry(zw, metadataEntry, metadata)
}

func (s *BackupService) takeSnapshot() (*snapshot, error) {
	var snap snapshot
	var err error

	if snap.users, err = s.Source.Users(); err != nil {
		return nil, fmt.Errorf("exporting usuarios: %w", err)
	}
	if snap.calls, err = s.Source.Calls(); err != nil {
		return nil, fmt.Errorf("exporting llamados: %w", err)
	}
	if snap.persons, err = s.Source.Persons(); err != nil {
		return nil, fmt.Errorf("exporting personas: %w", err)
	}
	if snap.shiftLogs, err = s.Source.ShiftLogs(); err != nil {
		return nil, fmt.Errorf("exporting guardias: %w", err)
	}
	if snap.observations, err = s.Source.Observations(); err != nil {
		return nil, fmt.Errorf("exporting observaciones: %w", err)
	}
	if snap.services, err = s.Source.CommissionedServices(); err != nil {
		return nil, fmt.Errorf("exporting servicios_comisionados: %w", err)
	}
	if snap.configs, err = s.Source.ConfigEntries(); err != nil {
		return nil, fmt.Errorf("exporting configuracion: %w", err)
	}
	return &snap, nil
}

func (s *BackupService) writeUploads(zw *zip.Writer) error {
	root := s.Config.UploadsDir
	if _, err := os.Stat(root); err != nil {
		return nil // nothing uploaded yet
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		entry, err := zw.Create(uploadsDir + "/" + filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(entry, src)
		return err
	})
}

// 2 RestoreBackup replaces the system state with an archive's contents.
// Order matters: the archive is validated first, then a protective backup of
// the current state is taken, and only then is anything touched. The
// pre-restore database is kept under a side filename so a failed restore can
// be reversed by hand.
func (s *BackupService) RestoreBackup(name string) *RestoreResult {
	archivePath := filepath.Join(s.Config.BackupDir, name)
	if _, err := os.Stat(archivePath); err != nil {
		return &RestoreResult{Kind: FailureNotFound, Error: ErrBackupNotFound.Error()}
	}

	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return &RestoreResult{Kind: FailureIO, Error: err.Error()}
	}
	defer zr.Close()

	metadataFile := findEntry(&zr.Reader, metadataEntry)
	if metadataFile == nil {
		return &RestoreResult{Kind: FailureArchiveInvalid, Error: "invalid backup archive: " + metadataEntry + " missing"}
	}

	var metadata BackupMetadata
	if err := readJSONEntry(metadataFile, &metadata); err != nil {
		return &RestoreResult{Kind: FailureArchiveInvalid, Error: "invalid backup archive: unreadable metadata: " + err.Error()}
	}

	logger.Info("restoring backup from %s", metadata.Timestamp)

	// Protective snapshot of the current state before anything changes
	safety := s.CreateBackup(true)
	if !safety.Success {
		return &RestoreResult{Kind: FailureSafetyBackup, Error: "could not create safety backup: " + safety.Error}
	}

	if dbFile := findEntry(&zr.Reader, dbEntryName); dbFile != nil {
		if err := s.restoreDatabase(dbFile); err != nil {
			return &RestoreResult{
				Kind:         FailureIO,
				SafetyBackup: safety.BackupFile,
				Error:        err.Error(),
			}
		}
	}

	if metadata.IncludesUploads {
		if err := s.restoreUploads(&zr.Reader); err != nil {
			return &RestoreResult{
				Kind:         FailureIO,
				SafetyBackup: safety.BackupFile,
				Error:        err.Error(),
			}
		}
	}

	report := s.VerifyIntegrity()

	logger.Info("restore complete, safety backup: %s", safety.BackupFile)
	return &RestoreResult{
		Success:      true,
		SafetyBackup: safety.BackupFile,
		Integrity:    report,
	}
}

// restoreDatabase swaps the live database file with the archived copy. The
// replacement is staged next to the target and renamed over it, so the data
// store file never disappears, not even on a crash mid-restore.
func (s *BackupService) restoreDatabase(entry *zip.File) error {
	if _, err := os.Stat(s.Config.DBPath); err == nil {
		if err := copyFile(s.Config.DBPath, s.Config.DBPath+".restore_backup"); err != nil {
			return fmt.Errorf("preserving current database: %w", err)
		}
	}

	staging := s.Config.DBPath + ".restoring"
	src, err := entry.Open()
	if err != nil {
		return err
	}
	dst, err := os.OpenFile(staging, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		src.Close()
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		src.Close()
		dst.Close()
		os.Remove(staging)
		return err
	}
	src.Close()
	if err := dst.Close(); err != nil {
		os.Remove(staging)
		return err
	}

	return os.Rename(staging, s.Config.DBPath)
}

func (s *BackupService) restoreUploads(zr *zip.Reader) error {
	root := s.Config.UploadsDir
	if err := os.RemoveAll(root); err != nil {
		return err
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return err
	}

	prefix := uploadsDir + "/"
	for _, entry := range zr.File {
		if !strings.HasPrefix(entry.Name, prefix) || entry.FileInfo().IsDir() {
			continue
		}
		rel := filepath.Clean(strings.TrimPrefix(entry.Name, prefix))
		if rel == "." || strings.HasPrefix(rel, "..") {
			continue // malformed entry, never extract outside the tree
		}
		target := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		src, err := entry.Open()
		if err != nil {
			return err
		}
		dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			src.Close()
			return err
		}
		if _, err := io.Copy(dst, src); err != nil {
			src.Close()
			dst.Close()
			return err
		}
		src.Close()
		if err := dst.Close(); err != nil {
			return err
		}
	}
	return nil
}

// 3 ListBackups enumerates the archives in the backup directory, newest
// first. Metadata is read best-effort: a corrupt archive still appears in
// the listing, just with empty metadata.
func (s *BackupService) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(s.Config.BackupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupInfo{}, nil
		}
		return nil, err
	}

	backups := make([]BackupInfo, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, archivePrefix) || !strings.HasSuffix(name, archiveSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Filename: name,
			Size:     info.Size(),
			Created:  info.ModTime(),
			Metadata: readArchiveMetadata(filepath.Join(s.Config.BackupDir, name)),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Created.After(backups[j].Created)
	})
	return backups, nil
}

func readArchiveMetadata(path string) BackupMetadata {
	var metadata BackupMetadata
	zr, err := zip.OpenReader(path)
	if err != nil {
		return metadata
	}
	defer zr.Close()

	entry := findEntry(&zr.Reader, metadataEntry)
	if entry == nil {
		return metadata
	}
	if err := readJSONEntry(entry, &metadata); err != nil {
		return BackupMetadata{}
	}
	return metadata
}

// 4 DeleteBackup removes one archive file
func (s *BackupService) DeleteBackup(name string) error {
	path := filepath.Join(s.Config.BackupDir, name)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrBackupNotFound
		}
		return err
	}
	logger.Info("backup deleted: %s", name)
	return nil
}

// 5 VerifyIntegrity checks the live database: the file must exist and be
// connectable, every required table must be present, at least one active
// administrator must exist, and personas must carry its email column. The
// findings are advisory; nothing here aborts a restore.
func (s *BackupService) VerifyIntegrity() *IntegrityReport {
	issues := []string{}

	if _, err := os.Stat(s.Config.DBPath); err != nil {
		issues = append(issues, "database file not found")
		return &IntegrityReport{Valid: false, Issues: issues}
	}

	db, err := gorm.Open(sqlite.Open(s.Config.DBPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		issues = append(issues, "could not open database: "+err.Error())
		return &IntegrityReport{Valid: false, Issues: issues}
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	var tableNames []string
	if err := db.Raw("SELECT name FROM sqlite_master WHERE type = 'table'").Scan(&tableNames).Error; err != nil {
		issues = append(issues, "could not read table list: "+err.Error())
		return &IntegrityReport{Valid: false, Issues: issues}
	}
	existing := make(map[string]bool, len(tableNames))
	for _, name := range tableNames {
		existing[name] = true
	}
	for _, table := range requiredTables {
		if !existing[table] {
			issues = append(issues, "missing table: "+table)
		}
	}

	if existing["usuarios"] {
		var adminCount int64
		if err := db.Raw("SELECT COUNT(*) FROM usuarios WHERE rol = 'admin' AND activo = 1").Scan(&adminCount).Error; err != nil {
			issues = append(issues, "could not check administrator accounts")
		} else if adminCount == 0 {
			issues = append(issues, "no active administrator accounts")
		}
	}

	if existing["personas"] {
		var columns []struct {
			Name string
		}
		if err := db.Raw("PRAGMA table_info(personas)").Scan(&columns).Error; err != nil {
			issues = append(issues, "could not check personas structure")
		} else {
			hasEmail := false
			for _, col := range columns {
				if col.Name == "email" {
					hasEmail = true
					break
				}
			}
			if !hasEmail {
				issues = append(issues, "column 'email' missing from table personas")
			}
		}
	}

	return &IntegrityReport{Valid: len(issues) == 0, Issues: issues}
}

// --- archive helpers ---

func findEntry(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func writeJSONEntry(zw *zip.Writer, name string, doc interface{}) error {
	entry, err := zw.Create(name)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	_, err = entry.Write(data)
	return err
}

func readJSONEntry(entry *zip.File, dest interface{}) error {
	rc, err := entry.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return json.NewDecoder(rc).Decode(dest)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// --- CSV export ---

type csvTable struct {
	name   string
	header []string
	rows   [][]string
}

// csvTables renders every table of a snapshot with a stable column order.
// Password hashes are deliberately left out of the usuarios export.
func csvTables(snap *snapshot) []csvTable {
	users := csvTable{
		name:   "usuarios",
		header: []string{"id", "username", "nombre", "apellido", "email", "telefono", "rol", "activo", "fecha_creacion", "ultimo_login", "llamados_atendidos"},
	}
	for _, u := range snap.users {
		users.rows = append(users.rows, []string{
			formatID(u.ID), u.Username, u.FirstName, u.LastName, u.Email, u.Phone, u.Role,
			strconv.FormatBool(u.Active), formatTime(u.CreatedAt), formatTimePtr(u.LastLogin),
			strconv.Itoa(u.AttendedCalls),
		})
	}

	calls := csvTable{
		name: "llamados",
		header: []string{"id", "fecha", "usuario_id", "telefono", "nombre", "apellido", "dni", "calle", "numero",
			"entre_calles", "barrio", "observaciones_iniciales", "tipo", "prioridad", "via_publica", "estado",
			"whatsapp_enviado", "fecha_cierre", "triage_data"},
	}
	for _, c := range snap.calls {
		calls.rows = append(calls.rows, []string{
			formatID(c.ID), formatTime(c.Timestamp), formatID(c.OperatorID), c.CallerPhone, c.CallerName,
			c.CallerLast, c.Document, c.Street, c.Number, c.BetweenStreets, c.Neighborhood, c.InitialNotes,
			c.Category, c.Priority, c.LocationKind, c.State, strconv.FormatBool(c.WhatsAppSent),
			formatTimePtr(c.ClosedAt), c.TriageData,
		})
	}

	persons := csvTable{
		name: "personas",
		header: []string{"id", "apellido", "nombre", "dni", "telefono", "celular", "email", "direccion",
			"barrio", "observaciones", "fecha_creacion", "fecha_modificacion", "activo"},
	}
	for _, p := range snap.persons {
		persons.rows = append(persons.rows, []string{
			formatID(p.ID), p.LastName, p.FirstName, p.Document, p.Phone, p.Mobile, p.Email, p.Address,
			p.Neighborhood, p.Notes, formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
			strconv.FormatBool(p.Active),
		})
	}

	shiftLogs := csvTable{
		name:   "guardias",
		header: []string{"id", "fecha", "usuario_id", "actividad", "tipo"},
	}
	for _, g := range snap.shiftLogs {
		shiftLogs.rows = append(shiftLogs.rows, []string{
			formatID(g.ID), formatTime(g.Timestamp), formatID(g.OperatorID), g.Activity, g.Kind,
		})
	}

	observations := csvTable{
		name:   "observaciones",
		header: []string{"id", "llamado_id", "usuario_id", "fecha", "texto"},
	}
	for _, o := range snap.observations {
		observations.rows = append(observations.rows, []string{
			formatID(o.ID), formatID(o.CallID), formatID(o.OperatorID), formatTime(o.Timestamp), o.Text,
		})
	}

	services := csvTable{
		name:   "servicios_comisionados",
		header: []string{"id", "llamado_id", "usuario_id", "fecha", "tipo_servicio", "motivo", "estado"},
	}
	for _, sc := range snap.services {
		services.rows = append(services.rows, []string{
			formatID(sc.ID), formatID(sc.CallID), formatID(sc.OperatorID), formatTime(sc.Timestamp),
			sc.ServiceKind, sc.Reason, sc.State,
		})
	}

	configs := csvTable{
		name:   "configuracion",
		header: []string{"id", "clave", "valor", "descripcion", "categoria", "fecha_modificacion"},
	}
	for _, c := range snap.configs {
		configs.rows = append(configs.rows, []string{
			formatID(c.ID), c.Key, c.Value, c.Description, c.Category, formatTime(c.UpdatedAt),
		})
	}

	return []csvTable{users, calls, persons, shiftLogs, observations, services, configs}
}

func configurationsMap(entries []models.ConfigEntry) map[string]map[string]string {
	configs := make(map[string]map[string]string, len(entries))
	for _, entry := range entries {
		configs[entry.Key] = map[string]string{
			"valor":       entry.Value,
			"descripcion": entry.Description,
			"categoria":   entry.Category,
		}
	}
	return configs
}

func renderCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02T15:04:05")
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}
