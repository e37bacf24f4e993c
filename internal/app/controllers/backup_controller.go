package controllers

import (
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"emergency-dispatch-service/internal/domain/services"
	"emergency-dispatch-service/internal/domain/services/container"
	"emergency-dispatch-service/internal/error/code"
	"emergency-dispatch-service/internal/error/response"
)

// InterfaceBackupController defines the backup controller interface
type InterfaceBackupController interface {
	CreateBackup()
	ListBackups()
	RestoreBackup()
	DeleteBackup()
	VerifyIntegrity()
}

// BackupController handles backup and restore requests
type BackupController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewBackupController creates a new backup controller
func NewBackupController(ctx *gin.Context, container *container.ServiceContainer) *BackupController {
	return &BackupController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateBackupRequest is the payload for creating a backup
type CreateBackupRequest struct {
	IncludeUploads *bool `json:"include_uploads"`
}

// HandleBackupFunc returns a gin handler for the named backup method
func HandleBackupFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewBackupController(ctx, container)

		switch method {
		case "createBackup":
			controller.CreateBackup()
		case "listBackups":
			controller.ListBackups()
		case "restoreBackup":
			controller.RestoreBackup()
		case "deleteBackup":
			controller.DeleteBackup()
		case "verifyIntegrity":
			controller.VerifyIntegrity()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

// archiveName validates the :name path parameter. Only plain archive
// filenames are accepted, never paths.
func (c *BackupController) archiveName() (string, bool) {
	name := c.Ctx.Param("name")
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		response.ParamError(c.Ctx, "invalid archive name")
		return "", false
	}
	return name, true
}

// 1 CreateBackup creates a full backup archive
// @Summary      Create Backup
// @Description  Snapshot the database, CSV exports, configuration and uploads into a zip archive
// @Tags         Backups
// @Accept       json
// @Produce      json
// @Param        request body CreateBackupRequest false "Backup options"
// @Success      200  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /backups [post]
func (c *BackupController) CreateBackup() {
	var req CreateBackupRequest
	_ = c.Ctx.ShouldBindJSON(&req)
	includeUploads := true
	if req.IncludeUploads != nil {
		includeUploads = *req.IncludeUploads
	}

	backupService := c.Container.GetService("backup").(services.InterfaceBackupService)
	result := backupService.CreateBackup(includeUploads)
	if !result.Success {
		response.FailWithMessage(c.Ctx, code.ErrBackupFailed, result.Error, result)
		return
	}
	response.Success(c.Ctx, result)
}

// 2 ListBackups lists the stored archives, newest first
// @Summary      List Backups
// @Tags         Backups
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /backups [get]
func (c *BackupController) ListBackups() {
	backupService := c.Container.GetService("backup").(services.InterfaceBackupService)
	backups, err := backupService.ListBackups()
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBackupFailed, err.Error(), nil)
		return
	}
	response.Success(c.Ctx, gin.H{"backups": backups, "total": len(backups)})
}

// 3 RestoreBackup restores the system from an archive
// @Summary      Restore Backup
// @Description  Replace the current database and uploads with an archive's contents
// @Tags         Backups
// @Produce      json
// @Param        name  path  string  true  "Archive filename"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /backups/{name}/restore [post]
func (c *BackupController) RestoreBackup() {
	name, ok := c.archiveName()
	if !ok {
		return
	}

	backupService := c.Container.GetService("backup").(services.InterfaceBackupService)
	result := backupService.RestoreBackup(name)
	if !result.Success {
		switch result.Kind {
		case services.FailureNotFound:
			response.Fail(c.Ctx, code.ErrBackupNotFound, nil)
		case services.FailureArchiveInvalid:
			response.FailWithMessage(c.Ctx, code.ErrArchiveInvalid, result.Error, nil)
		case services.FailureSafetyBackup:
			response.FailWithMessage(c.Ctx, code.ErrSafetyBackupFailed, result.Error, nil)
		default:
			response.FailWithMessage(c.Ctx, code.ErrRestoreFailed, result.Error, result)
		}
		return
	}
	response.Success(c.Ctx, result)
}

// 4 DeleteBackup removes an archive
// @Summary      Delete Backup
// @Tags         Backups
// @Produce      json
// @Param        name  path  string  true  "Archive filename"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /backups/{name} [delete]
func (c *BackupController) DeleteBackup() {
	name, ok := c.archiveName()
	if !ok {
		return
	}

	backupService := c.Container.GetService("backup").(services.InterfaceBackupService)
	if err := backupService.DeleteBackup(name); err != nil {
		if err == services.ErrBackupNotFound {
			response.Fail(c.Ctx, code.ErrBackupNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrBackupFailed, err.Error(), nil)
		return
	}
	response.Success(c.Ctx, gin.H{"deleted": name})
}

// 5 VerifyIntegrity checks the live database
// @Summary      Verify Database Integrity
// @Tags         Backups
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /backups/integrity [get]
func (c *BackupController) VerifyIntegrity() {
	backupService := c.Container.GetService("backup").(services.InterfaceBackupService)
	response.Success(c.Ctx, backupService.VerifyIntegrity())
}
