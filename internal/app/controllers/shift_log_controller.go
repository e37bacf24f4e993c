package controllers

import (
	"github.com/gin-gonic/gin"

	"emergency-dispatch-service/internal/domain/services"
	"emergency-dispatch-service/internal/domain/services/container"
	"emergency-dispatch-service/internal/error/code"
	"emergency-dispatch-service/internal/error/response"
)

// InterfaceShiftLogController defines the shift log controller interface
type InterfaceShiftLogController interface {
	GetEntries()
	AddEntry()
}

// ShiftLogController handles shift log requests
type ShiftLogController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewShiftLogController creates a new shift log controller
func NewShiftLogController(ctx *gin.Context, container *container.ServiceContainer) *ShiftLogController {
	return &ShiftLogController{
		Ctx:       ctx,
		Container: container,
	}
}

// ShiftLogRequest is the payload for one shift log entry
type ShiftLogRequest struct {
	OperatorID uint   `json:"usuario_id" binding:"required" example:"1"`
	Activity   string `json:"actividad" binding:"required" example:"Inicio de guardia"`
	Kind       string `json:"tipo" example:"novedad"`
}

// HandleShiftLogFunc returns a gin handler for the named shift log method
func HandleShiftLogFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewShiftLogController(ctx, container)

		switch method {
		case "getEntries":
			controller.GetEntries()
		case "addEntry":
			controller.AddEntry()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

// 1 GetEntries lists shift log entries, optionally for one day
// @Summary      List Shift Log Entries
// @Tags         ShiftLog
// @Produce      json
// @Param        fecha     query  string  false  "Day (YYYY-MM-DD)"
// @Param        page      query  int     false  "Page number"
// @Param        pageSize  query  int     false  "Page size"
// @Success      200  {object}  response.Response
// @Router       /shift-log [get]
func (c *ShiftLogController) GetEntries() {
	page, pageSize := pagination(c.Ctx)

	shiftLogService := c.Container.GetService("shift_log").(services.InterfaceShiftLogService)
	entries, total, err := shiftLogService.GetAllEntries(c.Ctx.Query("fecha"), page, pageSize)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"entries":  entries,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

// 2 AddEntry appends an activity to the shift log
// @Summary      Add Shift Log Entry
// @Tags         ShiftLog
// @Accept       json
// @Produce      json
// @Param        request body ShiftLogRequest true "Entry"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /shift-log [post]
func (c *ShiftLogController) AddEntry() {
	var req ShiftLogRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "invalid request parameters: "+err.Error(), nil)
		return
	}

	shiftLogService := c.Container.GetService("shift_log").(services.InterfaceShiftLogService)
	entry, err := shiftLogService.AddEntry(req.OperatorID, req.Activity, req.Kind)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}
	response.Success(c.Ctx, entry)
}
