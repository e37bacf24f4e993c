package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"emergency-dispatch-service/internal/domain/models"
	"emergency-dispatch-service/internal/domain/services"
	"emergency-dispatch-service/internal/domain/services/container"
	"emergency-dispatch-service/internal/error/code"
	"emergency-dispatch-service/internal/error/response"
	"emergency-dispatch-service/pkg/phone"
)

// InterfacePersonController defines the neighbor registry controller interface
type InterfacePersonController interface {
	GetPersons()
	GetPerson()
	FindByPhone()
	CreatePerson()
	UpdatePerson()
	DeletePerson()
}

// PersonController handles neighbor registry requests
type PersonController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewPersonController creates a new person controller
func NewPersonController(ctx *gin.Context, container *container.ServiceContainer) *PersonController {
	return &PersonController{
		Ctx:       ctx,
		Container: container,
	}
}

// PersonRequest is the payload for creating or updating a neighbor
type PersonRequest struct {
	LastName     string `json:"apellido" binding:"required" example:"Pérez"`
	FirstName    string `json:"nombre" binding:"required" example:"Juan"`
	Document     string `json:"dni" example:"30123456"`
	Phone        string `json:"telefono" example:"3511234567"`
	Mobile       string `json:"celular" example:"3517654321"`
	Email        string `json:"email" example:"juan.perez@example.com"`
	Address      string `json:"direccion" example:"Av. Goycoechea 100"`
	Neighborhood string `json:"barrio" example:"Centro"`
	Notes        string `json:"observaciones"`
}

// HandlePersonFunc returns a gin handler for the named person method
func HandlePersonFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewPersonController(ctx, container)

		switch method {
		case "getPersons":
			controller.GetPersons()
		case "getPerson":
			controller.GetPerson()
		case "findByPhone":
			controller.FindByPhone()
		case "createPerson":
			controller.CreatePerson()
		case "updatePerson":
			controller.UpdatePerson()
		case "deletePerson":
			controller.DeletePerson()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

// 1 GetPersons lists registered neighbors
// @Summary      List Persons
// @Tags         Persons
// @Produce      json
// @Param        q         query  string  false  "Search term"
// @Param        page      query  int     false  "Page number"
// @Param        pageSize  query  int     false  "Page size"
// @Success      200  {object}  response.Response
// @Router       /persons [get]
func (c *PersonController) GetPersons() {
	page, pageSize := pagination(c.Ctx)

	personService := c.Container.GetService("person").(services.InterfacePersonService)
	persons, total, err := personService.GetAllPersons(c.Ctx.Query("q"), page, pageSize)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"persons":  persons,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

// 2 GetPerson gets a neighbor by ID
// @Summary      Get Person
// @Tags         Persons
// @Produce      json
// @Param        id  path  int  true  "Person ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /persons/{id} [get]
func (c *PersonController) GetPerson() {
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}

	personService := c.Container.GetService("person").(services.InterfacePersonService)
	person, err := personService.GetPersonByID(id)
	if err != nil {
		if errors.Is(err, services.ErrPersonNotFound) {
			response.Fail(c.Ctx, code.ErrPersonNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}
	response.Success(c.Ctx, person)
}

// 3 FindByPhone looks a neighbor up by phone number to prefill the call form
// @Summary      Find Person by Phone
// @Tags         Persons
// @Produce      json
// @Param        telefono  query  string  true  "Phone number"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /persons/lookup [get]
func (c *PersonController) FindByPhone() {
	number := c.Ctx.Query("telefono")
	if number == "" {
		response.ParamError(c.Ctx, "telefono is required")
		return
	}

	personService := c.Container.GetService("person").(services.InterfacePersonService)
	person, err := personService.FindByPhone(number)
	if errors.Is(err, services.ErrPersonNotFound) {
		// Retry with the normalized form, stored numbers may carry it
		person, err = personService.FindByPhone(phone.Normalize(number))
	}
	if err != nil {
		if errors.Is(err, services.ErrPersonNotFound) {
			response.Fail(c.Ctx, code.ErrPersonNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}
	response.Success(c.Ctx, person)
}

// 4 CreatePerson registers a neighbor
// @Summary      Create Person
// @Tags         Persons
// @Accept       json
// @Produce      json
// @Param        request body PersonRequest true "Person data"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /persons [post]
func (c *PersonController) CreatePerson() {
	var req PersonRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "invalid request parameters: "+err.Error(), nil)
		return
	}

	person := &models.Person{
		LastName:     req.LastName,
		FirstName:    req.FirstName,
		Document:     req.Document,
		Phone:        req.Phone,
		Mobile:       req.Mobile,
		Email:        req.Email,
		Address:      req.Address,
		Neighborhood: req.Neighborhood,
		Notes:        req.Notes,
	}

	personService := c.Container.GetService("person").(services.InterfacePersonService)
	if err := personService.CreatePerson(person); err != nil {
		if errors.Is(err, services.ErrDocumentInUse) {
			response.Fail(c.Ctx, code.ErrPersonAlreadyExist, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}
	response.Success(c.Ctx, person)
}

// 5 UpdatePerson updates a neighbor's record
// @Summary      Update Person
// @Tags         Persons
// @Accept       json
// @Produce      json
// @Param        id       path  int            true  "Person ID"
// @Param        request  body  PersonRequest  true  "Person data"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /persons/{id} [put]
func (c *PersonController) UpdatePerson() {
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}
	var updates map[string]interface{}
	if err := c.Ctx.ShouldBindJSON(&updates); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "invalid request parameters: "+err.Error(), nil)
		return
	}

	personService := c.Container.GetService("person").(services.InterfacePersonService)
	person, err := personService.UpdatePerson(id, updates)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPersonNotFound):
			response.Fail(c.Ctx, code.ErrPersonNotFound, nil)
		case errors.Is(err, services.ErrDocumentInUse):
			response.Fail(c.Ctx, code.ErrPersonAlreadyExist, nil)
		default:
			response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		}
		return
	}
	response.Success(c.Ctx, person)
}

// 6 DeletePerson deactivates a neighbor
// @Summary      Delete Person
// @Tags         Persons
// @Produce      json
// @Param        id  path  int  true  "Person ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /persons/{id} [delete]
func (c *PersonController) DeletePerson() {
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}

	personService := c.Container.GetService("person").(services.InterfacePersonService)
	if err := personService.DeactivatePerson(id); err != nil {
		if errors.Is(err, services.ErrPersonNotFound) {
			response.Fail(c.Ctx, code.ErrPersonNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}
	response.Success(c.Ctx, gin.H{"deactivated": id})
}
