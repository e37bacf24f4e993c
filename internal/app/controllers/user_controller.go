package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"emergency-dispatch-service/internal/domain/models"
	"emergency-dispatch-service/internal/domain/services"
	"emergency-dispatch-service/internal/domain/services/container"
	"emergency-dispatch-service/internal/error/code"
	"emergency-dispatch-service/internal/error/response"
)

// InterfaceUserController defines the operator account controller interface
type InterfaceUserController interface {
	Login()
	GetUsers()
	GetUser()
	CreateUser()
	UpdateUser()
	ChangePassword()
	DeleteUser()
}

// UserController handles operator account requests
type UserController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewUserController creates a new user controller
func NewUserController(ctx *gin.Context, container *container.ServiceContainer) *UserController {
	return &UserController{
		Ctx:       ctx,
		Container: container,
	}
}

// LoginRequest is the payload for a login attempt
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required"`
}

// CreateUserRequest is the payload for creating an account
type CreateUserRequest struct {
	Username  string `json:"username" binding:"required" example:"jgomez"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"nombre" binding:"required" example:"Julia"`
	LastName  string `json:"apellido" binding:"required" example:"Gómez"`
	Email     string `json:"email" example:"jgomez@example.com"`
	Phone     string `json:"telefono" example:"3511234567"`
	Role      string `json:"rol" example:"operador"`
}

// ChangePasswordRequest is the payload for a password change
type ChangePasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

// HandleUserFunc returns a gin handler for the named user method
func HandleUserFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewUserController(ctx, container)

		switch method {
		case "login":
			controller.Login()
		case "getUsers":
			controller.GetUsers()
		case "getUser":
			controller.GetUser()
		case "createUser":
			controller.CreateUser()
		case "updateUser":
			controller.UpdateUser()
		case "changePassword":
			controller.ChangePassword()
		case "deleteUser":
			controller.DeleteUser()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

// 1 Login verifies credentials
// @Summary      Login
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /users/login [post]
func (c *UserController) Login() {
	var req LoginRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "invalid request parameters: "+err.Error(), nil)
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	user, err := userService.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) || errors.Is(err, services.ErrUserInactive) {
			response.Fail(c.Ctx, code.ErrUserPasswordIncorrect, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}
	response.Success(c.Ctx, user)
}

// 2 GetUsers lists accounts
// @Summary      List Users
// @Tags         Users
// @Produce      json
// @Param        page      query  int  false  "Page number"
// @Param        pageSize  query  int  false  "Page size"
// @Success      200  {object}  response.Response
// @Router       /users [get]
func (c *UserController) GetUsers() {
	page, pageSize := pagination(c.Ctx)

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	users, total, err := userService.GetAllUsers(page, pageSize)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"users":    users,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

// 3 GetUser gets an account by ID
// @Summary      Get User
// @Tags         Users
// @Produce      json
// @Param        id  path  int  true  "User ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /users/{id} [get]
func (c *UserController) GetUser() {
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	user, err := userService.GetUserByID(id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			response.Fail(c.Ctx, code.ErrUserNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}
	response.Success(c.Ctx, user)
}

// 4 CreateUser registers an account
// @Summary      Create User
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        request body CreateUserRequest true "User data"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /users [post]
func (c *UserController) CreateUser() {
	var req CreateUserRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "invalid request parameters: "+err.Error(), nil)
		return
	}

	user := &models.User{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      req.Role,
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	if err := userService.CreateUser(user, req.Password); err != nil {
		if errors.Is(err, services.ErrUsernameInUse) {
			response.Fail(c.Ctx, code.ErrUserAlreadyExist, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}
	response.Success(c.Ctx, user)
}

// 5 UpdateUser updates account fields
// @Summary      Update User
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        id       path  int                     true  "User ID"
// @Param        request  body  map[string]interface{}  true  "Fields to update"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /users/{id} [put]
func (c *UserController) UpdateUser() {
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}
	var updates map[string]interface{}
	if err := c.Ctx.ShouldBindJSON(&updates); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "invalid request parameters: "+err.Error(), nil)
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	user, err := userService.UpdateUser(id, updates)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			response.Fail(c.Ctx, code.ErrUserNotFound, nil)
		case errors.Is(err, services.ErrUsernameInUse):
			response.Fail(c.Ctx, code.ErrUserAlreadyExist, nil)
		default:
			response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		}
		return
	}
	response.Success(c.Ctx, user)
}

// 6 ChangePassword sets a new password for an account
// @Summary      Change Password
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        id       path  int                    true  "User ID"
// @Param        request  body  ChangePasswordRequest  true  "New password"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /users/{id}/password [put]
func (c *UserController) ChangePassword() {
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "invalid request parameters: "+err.Error(), nil)
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	if err := userService.ChangePassword(id, req.Password); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			response.Fail(c.Ctx, code.ErrUserNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}
	response.Success(c.Ctx, gin.H{"updated": id})
}

// 7 DeleteUser deactivates an account
// @Summary      Delete User
// @Tags         Users
// @Produce      json
// @Param        id  path  int  true  "User ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /users/{id} [delete]
func (c *UserController) DeleteUser() {
	id, ok := pathID(c.Ctx)
	if !ok {
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	if err := userService.DeactivateUser(id); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			response.Fail(c.Ctx, code.ErrUserNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}
	response.Success(c.Ctx, gin.H{"deactivated": id})
}
