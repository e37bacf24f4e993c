package controllers

import (
	"github.com/gin-gonic/gin"

	"emergency-dispatch-service/internal/domain/services"
	"emergency-dispatch-service/internal/domain/services/container"
	"emergency-dispatch-service/internal/error/code"
	"emergency-dispatch-service/internal/error/response"
)

// InterfaceConfigController defines the configuration controller interface
type InterfaceConfigController interface {
	GetConfig()
	SetConfigValue()
	GetResponders()
	ConfigureWhatsApp()
	WhatsAppStatus()
	TestWhatsApp()
	SendManualMessage()
}

// ConfigController handles system configuration and messaging gateway requests
type ConfigController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewConfigController creates a new configuration controller
func NewConfigController(ctx *gin.Context, container *container.ServiceContainer) *ConfigController {
	return &ConfigController{
		Ctx:       ctx,
		Container: container,
	}
}

// SetConfigRequest is the payload for one configuration write
type SetConfigRequest struct {
	Key         string `json:"clave" binding:"required" example:"telefono_supervisor"`
	Value       string `json:"valor" example:"5493511234567"`
	Description string `json:"descripcion" example:"Supervisor de guardia"`
	Category    string `json:"categoria" example:"notificaciones"`
}

// WhatsAppConfigRequest is the payload for gateway credentials
type WhatsAppConfigRequest struct {
	Token string `json:"token" binding:"required"`
	UID   string `json:"uid" binding:"required"`
}

// ManualMessageRequest is the payload for an operator-composed message
type ManualMessageRequest struct {
	To   string `json:"telefono" binding:"required" example:"3511234567"`
	Body string `json:"mensaje" binding:"required"`
	Kind string `json:"tipo" example:"aviso"`
}

// HandleConfigFunc returns a gin handler for the named configuration method
func HandleConfigFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewConfigController(ctx, container)

		switch method {
		case "getConfig":
			controller.GetConfig()
		case "setConfigValue":
			controller.SetConfigValue()
		case "getResponders":
			controller.GetResponders()
		case "configureWhatsApp":
			controller.ConfigureWhatsApp()
		case "whatsAppStatus":
			controller.WhatsAppStatus()
		case "testWhatsApp":
			controller.TestWhatsApp()
		case "sendManualMessage":
			controller.SendManualMessage()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

// 1 GetConfig lists configuration entries, optionally by category
// @Summary      List Configuration
// @Tags         Configuration
// @Produce      json
// @Param        categoria  query  string  false  "Category filter"
// @Success      200  {object}  response.Response
// @Router       /config [get]
func (c *ConfigController) GetConfig() {
	configService := c.Container.GetService("app_config").(services.InterfaceConfigService)

	category := c.Ctx.Query("categoria")
	var err error
	var entries interface{}
	if category != "" {
		entries, err = configService.GetByCategory(category)
	} else {
		entries, err = configService.GetAll()
	}
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}
	response.Success(c.Ctx, entries)
}

// 2 SetConfigValue upserts one configuration entry. The cached responder
// routing is invalidated so the next call uses the new number.
// @Summary      Set Configuration Value
// @Tags         Configuration
// @Accept       json
// @Produce      json
// @Param        request body SetConfigRequest true "Configuration entry"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /config [put]
func (c *ConfigController) SetConfigValue() {
	var req SetConfigRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "invalid request parameters: "+err.Error(), nil)
		return
	}

	configService := c.Container.GetService("app_config").(services.InterfaceConfigService)
	if err := configService.SetValue(req.Key, req.Value, req.Description, req.Category); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}

	if cache, ok := c.Container.GetService("redis").(services.InterfaceRedisService); ok && cache != nil {
		_ = cache.InvalidateResponderConfig()
	}

	response.Success(c.Ctx, gin.H{"clave": req.Key})
}

// 3 GetResponders returns the resolved notification routing destinations
// @Summary      Get Responder Routing
// @Tags         Configuration
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /config/responders [get]
func (c *ConfigController) GetResponders() {
	configService := c.Container.GetService("app_config").(services.InterfaceConfigService)
	responders, err := configService.GetResponderConfig()
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}
	response.Success(c.Ctx, responders)
}

// 4 ConfigureWhatsApp stores the messaging gateway credentials
// @Summary      Configure WhatsApp Gateway
// @Tags         WhatsApp
// @Accept       json
// @Produce      json
// @Param        request body WhatsAppConfigRequest true "Gateway credentials"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /whatsapp/config [post]
func (c *ConfigController) ConfigureWhatsApp() {
	var req WhatsAppConfigRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "invalid request parameters: "+err.Error(), nil)
		return
	}

	whatsApp := c.Container.GetService("whatsapp").(services.InterfaceWhatsAppService)
	if err := whatsApp.Configure(req.Token, req.UID); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}
	response.Success(c.Ctx, gin.H{"configured": true})
}

// 5 WhatsAppStatus reports the gateway configuration state and delivery
// counters
// @Summary      WhatsApp Gateway Status
// @Tags         WhatsApp
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /whatsapp/status [get]
func (c *ConfigController) WhatsAppStatus() {
	whatsApp := c.Container.GetService("whatsapp").(services.InterfaceWhatsAppService)
	status, err := whatsApp.Status()
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}
	response.Success(c.Ctx, status)
}

// 6 TestWhatsApp sends a test message through the gateway
// @Summary      Test WhatsApp Gateway
// @Tags         WhatsApp
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /whatsapp/test [post]
func (c *ConfigController) TestWhatsApp() {
	whatsApp := c.Container.GetService("whatsapp").(services.InterfaceWhatsAppService)
	if !whatsApp.IsConfigured() {
		response.Fail(c.Ctx, code.ErrWhatsAppNotConfigured, nil)
		return
	}
	response.Success(c.Ctx, whatsApp.TestConnection())
}

// 7 SendManualMessage sends an operator-composed message
// @Summary      Send Manual Message
// @Tags         WhatsApp
// @Accept       json
// @Produce      json
// @Param        request body ManualMessageRequest true "Message"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /whatsapp/send [post]
func (c *ConfigController) SendManualMessage() {
	var req ManualMessageRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "invalid request parameters: "+err.Error(), nil)
		return
	}

	whatsApp := c.Container.GetService("whatsapp").(services.InterfaceWhatsAppService)
	if !whatsApp.IsConfigured() {
		response.Fail(c.Ctx, code.ErrWhatsAppNotConfigured, nil)
		return
	}
	if !whatsApp.SendManual(req.To, req.Body, req.Kind) {
		response.Fail(c.Ctx, code.ErrWhatsAppDelivery, nil)
		return
	}
	response.Success(c.Ctx, gin.H{"sent": true})
}
