package services

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"emergency-dispatch-service/internal/domain/models"
	"emergency-dispatch-service/internal/infrastructure/config"
	"emergency-dispatch-service/pkg/logger"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameInUse      = errors.New("username already in use")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserInactive       = errors.New("user account is inactive")
)

// InterfaceUserService defines the operator account service interface
type InterfaceUserService interface {
	GetAllUsers(page, pageSize int) ([]models.User, int64, error)
	GetUserByID(id uint) (*models.User, error)
	CreateUser(user *models.User, password string) error
	UpdateUser(id uint, updates map[string]interface{}) (*models.User, error)
	ChangePassword(id uint, password string) error
	DeactivateUser(id uint) error
	Authenticate(username, password string) (*models.User, error)
	EnsureAdminExists() error
}

// UserService handles operator and administrator accounts
type UserService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB, cfg *config.Config) InterfaceUserService {
	return &UserService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetAllUsers lists accounts ordered by last name
func (s *UserService) GetAllUsers(page, pageSize int) ([]models.User, int64, error) {
	var total int64
	if err := s.DB.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := s.DB.Order("apellido, nombre").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// 2 GetUserByID gets an account by ID
func (s *UserService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// 3 CreateUser registers a new account with a bcrypt-hashed password
func (s *UserService) CreateUser(user *models.User, password string) error {
	var count int64
	if err := s.DB.Model(&models.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUsernameInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.Active = true
	user.CreatedAt = time.Now()
	if user.Role == "" {
		user.Role = models.RoleOperator
	}
	return s.DB.Create(user).Error
}

// 4 UpdateUser updates account fields. Password changes go through
// ChangePassword, never through here.
func (s *UserService) UpdateUser(id uint, updates map[string]interface{}) (*models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	if username, ok := updates["username"].(string); ok && username != user.Username {
		var count int64
		if err := s.DB.Model(&models.User{}).Where("username = ? AND id != ?", username, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrUsernameInUse
		}
	}
	delete(updates, "password_hash")

	if err := s.DB.Model(user).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetUserByID(id)
}

// 5 ChangePassword rehashes and stores a new password
func (s *UserService) ChangePassword(id uint, password string) error {
	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.DB.Model(user).Update("password_hash", string(hash)).Error
}

// 6 DeactivateUser disables an account without deleting its call history
func (s *UserService) DeactivateUser(id uint) error {
	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}
	return s.DB.Model(user).Update("activo", false).Error
}

// 7 Authenticate verifies credentials and records the login time
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Active {
		return nil, ErrUserInactive
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.DB.Model(&user).Update("ultimo_login", now).Error; err != nil {
		logger.Warning("could not record login time for %s: %v", username, err)
	}
	user.LastLogin = &now
	return &user, nil
}

// 8 EnsureAdminExists seeds the default administrator account on first run
func (s *UserService) EnsureAdminExists() error {
	var count int64
	if err := s.DB.Model(&models.User{}).Where("rol = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	admin := &models.User{
		Username:  "admin",
		FirstName: "Administrador",
		LastName:  "Sistema",
		Role:      models.RoleAdmin,
	}
	if err := s.CreateUser(admin, s.Config.DefaultAdminPassword); err != nil {
		return err
	}
	logger.Info("default administrator account created")
	return nil
}
