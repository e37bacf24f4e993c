package controllers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"emergency-dispatch-service/internal/domain/models"
	"emergency-dispatch-service/internal/domain/services"
	"emergency-dispatch-service/internal/domain/services/container"
	"emergency-dispatch-service/internal/error/code"
	"emergency-dispatch-service/internal/error/response"
)

// InterfaceCallController defines the emergency call controller interface
type InterfaceCallController interface {
	CreateCall()
	GetCalls()
	GetCall()
	CloseCall()
	AddObservation()
	CommissionService()
	UpdateServiceState()
	GetDashboardStats()
}

// CallController handles emergency call requests
type CallController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewCallController creates a new emergency call controller
func NewCallController(ctx *gin.Context, container *container.ServiceContainer) *CallController {
	return &CallController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateCallRequest is the payload for registering an emergency call
type CreateCallRequest struct {
	OperatorID     uint                `json:"usuario_id" binding:"required" example:"1"`
	CallerName     string              `json:"nombre" binding:"required" example:"Juan"`
	CallerLast     string              `json:"apellido" example:"Pérez"`
	CallerPhone    string              `json:"telefono" example:"3511234567"`
	Document       string              `json:"dni" example:"30123456"`
	PersonID       *uint               `json:"persona_id"`
	Street         string              `json:"calle" binding:"required" example:"Av. Goycoechea 100"`
	Number         string              `json:"numero" example:"100"`
	BetweenStreets string              `json:"entre_calles"`
	Neighborhood   string              `json:"barrio" example:"Centro"`
	InitialNotes   string              `json:"observaciones_iniciales"`
	Category       string              `json:"tipo" binding:"required" example:"medica"`
	Priority       string              `json:"prioridad" binding:"required" example:"rojo"`
	LocationKind   string              `json:"via_publica" example:"domicilio"`
	Triage         *models.TriageFlags `json:"triage"`
}

// ObservationRequest is the payload for a follow-up note
type ObservationRequest struct {
	OperatorID uint   `json:"usuario_id" binding:"required" example:"1"`
	Text       string `json:"texto" binding:"required" example:"Ambulancia en camino"`
}

// CloseCallRequest is the payload for closing a call
type CloseCallRequest struct {
	OperatorID uint   `json:"usuario_id" binding:"required" example:"1"`
	Note       string `json:"nota" example:"Paciente trasladado"`
}

// CommissionRequest is the payload for dispatching an external unit
type CommissionRequest struct {
	OperatorID  uint   `json:"usuario_id" binding:"required" example:"1"`
	ServiceKind string `json:"tipo_servicio" binding:"required" example:"ambulancia"`
	Reason      string `json:"motivo" example:"Traslado a hospital"`
}

// ServiceStateRequest is the payload for advancing a commissioned service
type ServiceStateRequest struct {
	State string `json:"estado" binding:"required" example:"en_lugar"`
}

// HandleCallFunc returns a gin handler for the named call method
func HandleCallFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewCallController(ctx, container)

		switch method {
		case "createCall":
			controller.CreateCall()
		case "getCalls":
			controller.GetCalls()
		case "getCall":
			controller.GetCall()
		case "closeCall":
			controller.CloseCall()
		case "addObservation":
			controller.AddObservation()
		case "commissionService":
			controller.CommissionService()
		case "updateServiceState":
			controller.UpdateServiceState()
		case "getDashboardStats":
			controller.GetDashboardStats()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

// 1 CreateCall registers a call and returns it along with the per-recipient
// notification outcome
// @Summary      Register Emergency Call
// @Description  Register a new emergency call and notify the configured responders
// @Tags         Calls
// @Accept       json
// @Produce      json
// @Param        request body CreateCallRequest true "Call parameters"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /calls [post]
func (c *CallController) CreateCall() {
	var req CreateCallRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "invalid request parameters: "+err.Error(), nil)
		return
	}

	call := &models.EmergencyCall{
		OperatorID:     req.OperatorID,
		CallerName:     req.CallerName,
		CallerLast:     req.CallerLast,
		CallerPhone:    req.CallerPhone,
		Document:       req.Document,
		PersonID:       req.PersonID,
		Street:         req.Street,
		Number:         req.Number,
		BetweenStreets: req.BetweenStreets,
		Neighborhood:   req.Neighborhood,
		InitialNotes:   req.InitialNotes,
		Category:       req.Category,
		Priority:       req.Priority,
		LocationKind:   req.LocationKind,
	}

	callService := c.Container.GetService("call").(services.InterfaceCallService)
	created, outcomes, err := callService.CreateCall(call, req.Triage)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"call":          created,
		"notifications": outcomes,
	})
}

// 2 GetCalls lists calls with filters and pagination
// @Summary      List Emergency Calls
// @Description  List calls filtered by state, category, priority, text and date range
// @Tags         Calls
// @Produce      json
// @Param        estado     query  string  false  "Call state"
// @Param        tipo       query  string  false  "Category"
// @Param        prioridad  query  string  false  "Priority"
// @Param        q          query  string  false  "Search term"
// @Param        page       query  int     false  "Page number"
// @Param        pageSize   query  int     false  "Page size"
// @Success      200  {object}  response.Response
// @Router       /calls [get]
func (c *CallController) GetCalls() {
	var filter services.CallFilter
	if err := c.Ctx.ShouldBindQuery(&filter); err != nil {
		response.ParamError(c.Ctx, "invalid filter parameters")
		return
	}
	page, pageSize := pagination(c.Ctx)

	callService := c.Container.GetService("call").(services.InterfaceCallService)
	calls, total, err := callService.GetAllCalls(filter, page, pageSize)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"calls":    calls,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

// 3 GetCall gets one call with its observations and commissioned services
// @Summary      Get Emergency Call
// @Tags         Calls
// @Produce      json
// @Param        id  path  int  true  "Call ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /calls/{id} [get]
func (c *CallController) GetCall() {
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}

	callService := c.Container.GetService("call").(services.InterfaceCallService)
	call, err := callService.GetCallByID(id)
	if err != nil {
		if errors.Is(err, services.ErrCallNotFound) {
			response.Fail(c.Ctx, code.ErrCallNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}
	response.Success(c.Ctx, call)
}

// 4 CloseCall closes an active call
// @Summary      Close Emergency Call
// @Tags         Calls
// @Accept       json
// @Produce      json
// @Param        id       path  int               true  "Call ID"
// @Param        request  body  CloseCallRequest  true  "Closing parameters"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /calls/{id}/close [post]
func (c *CallController) CloseCall() {
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}
	var req CloseCallRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "invalid request parameters: "+err.Error(), nil)
		return
	}

	callService := c.Container.GetService("call").(services.InterfaceCallService)
	call, err := callService.CloseCall(id, req.OperatorID, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCallNotFound):
			response.Fail(c.Ctx, code.ErrCallNotFound, nil)
		case errors.Is(err, services.ErrCallAlreadyClosed):
			response.Fail(c.Ctx, code.ErrCallAlreadyClosed, nil)
		default:
			response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		}
		return
	}
	response.Success(c.Ctx, call)
}

// 5 AddObservation appends a note to a call
// @Summary      Add Observation
// @Tags         Calls
// @Accept       json
// @Produce      json
// @Param        id       path  int                 true  "Call ID"
// @Param        request  body  ObservationRequest  true  "Observation"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /calls/{id}/observations [post]
func (c *CallController) AddObservation() {
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}
	var req ObservationRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "invalid request parameters: "+err.Error(), nil)
		return
	}

	callService := c.Container.GetService("call").(services.InterfaceCallService)
	observation, err := callService.AddObservation(id, req.OperatorID, req.Text)
	if err != nil {
		if errors.Is(err, services.ErrCallNotFound) {
			response.Fail(c.Ctx, code.ErrCallNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}
	response.Success(c.Ctx, observation)
}

// 6 CommissionService records a dispatched external unit for a call
// @Summary      Commission Service
// @Tags         Calls
// @Accept       json
// @Produce      json
// @Param        id       path  int                true  "Call ID"
// @Param        request  body  CommissionRequest  true  "Commission parameters"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /calls/{id}/services [post]
func (c *CallController) CommissionService() {
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}
	var req CommissionRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "invalid request parameters: "+err.Error(), nil)
		return
	}

	callService := c.Container.GetService("call").(services.InterfaceCallService)
	service, err := callService.CommissionService(id, req.OperatorID, req.ServiceKind, req.Reason)
	if err != nil {
		if errors.Is(err, services.ErrCallNotFound) {
			response.Fail(c.Ctx, code.ErrCallNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}
	response.Success(c.Ctx, service)
}

// 7 UpdateServiceState advances a commissioned service
// @Summary      Update Commissioned Service State
// @Tags         Calls
// @Accept       json
// @Produce      json
// @Param        id       path  int                  true  "Service ID"
// @Param        request  body  ServiceStateRequest  true  "New state"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /services/{id}/state [put]
func (c *CallController) UpdateServiceState() {
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}
	var req ServiceStateRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "invalid request parameters: "+err.Error(), nil)
		return
	}

	callService := c.Container.GetService("call").(services.InterfaceCallService)
	service, err := callService.UpdateServiceState(id, req.State)
	if err != nil {
		if errors.Is(err, services.ErrServiceNotFound) {
			response.Fail(c.Ctx, code.ErrRecordNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}
	response.Success(c.Ctx, service)
}

// 8 GetDashboardStats returns the operator dashboard counters
// @Summary      Dashboard Statistics
// @Tags         Calls
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /dashboard/stats [get]
func (c *CallController) GetDashboardStats() {
	callService := c.Container.GetService("call").(services.InterfaceCallService)
	stats, err := callService.GetDashboardStats()
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}
	response.Success(c.Ctx, stats)
}

// pathID parses the :id path parameter, writing the error response itself
func pathID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		response.ParamError(ctx, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// pagination reads page/pageSize query parameters with sane defaults
func pagination(ctx *gin.Context) (int, int) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(ctx.DefaultQuery("pageSize", "20"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
