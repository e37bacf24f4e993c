package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"emergency-dispatch-service/internal/domain/models"
	"emergency-dispatch-service/internal/infrastructure/config"
)

var (
	ErrPersonNotFound  = errors.New("person not found")
	ErrDocumentInUse   = errors.New("document number already registered")
)

// InterfacePersonService defines the neighbor registry service interface
type InterfacePersonService interface {
	GetAllPersons(search string, page, pageSize int) ([]models.Person, int64, error)
	GetPersonByID(id uint) (*models.Person, error)
	FindByPhone(phone string) (*models.Person, error)
	CreatePerson(person *models.Person) error
	UpdatePerson(id uint, updates map[string]interface{}) (*models.Person, error)
	DeactivatePerson(id uint) error
}

// PersonService handles the registered neighbor directory
type PersonService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewPersonService creates a new person service
func NewPersonService(db *gorm.DB, cfg *config.Config) InterfacePersonService {
	return &PersonService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetAllPersons lists active persons, optionally filtered by a search term
// over name, document and phone
func (s *PersonService) GetAllPersons(search string, page, pageSize int) ([]models.Person, int64, error) {
	query := s.DB.Model(&models.Person{}).Where("activo = ?", true)
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("apellido LIKE ? OR nombre LIKE ? OR dni LIKE ? OR telefono LIKE ? OR celular LIKE ?",
			pattern, pattern, pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var persons []models.Person
	err := query.Order("apellido, nombre").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&persons).Error
	if err != nil {
		return nil, 0, err
	}
	return persons, total, nil
}

// 2 GetPersonByID gets a person by ID
func (s *PersonService) GetPersonByID(id uint) (*models.Person, error) {
	var person models.Person
	if err := s.DB.First(&person, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, err
	}
	return &person, nil
}

// 3 FindByPhone looks up a person by landline or mobile number. Used to
// prefill the call form when a known neighbor calls in.
func (s *PersonService) FindByPhone(phone string) (*models.Person, error) {
	var person models.Person
	err := s.DB.Where("activo = ? AND (telefono = ? OR celular = ?)", true, phone, phone).
		First(&person).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, err
	}
	return &person, nil
}

// 4 CreatePerson registers a new neighbor
func (s *PersonService) CreatePerson(person *models.Person) error {
	if person.Document != "" {
		var count int64
		if err := s.DB.Model(&models.Person{}).Where("dni = ?", person.Document).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDocumentInUse
		}
	}

	now := time.Now()
	person.CreatedAt = now
	person.UpdatedAt = now
	person.Active = true
	return s.DB.Create(person).Error
}

// 5 UpdatePerson updates a neighbor's record
func (s *PersonService) UpdatePerson(id uint, updates map[string]interface{}) (*models.Person, error) {
	person, err := s.GetPersonByID(id)
	if err != nil {
		return nil, err
	}

	if document, ok := updates["dni"].(string); ok && document != "" && document != person.Document {
		var count int64
		if err := s.DB.Model(&models.Person{}).Where("dni = ? AND id != ?", document, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrDocumentInUse
		}
	}

	updates["fecha_modificacion"] = time.Now()
	if err := s.DB.Model(person).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetPersonByID(id)
}

// 6 DeactivatePerson soft-deletes a neighbor so historical calls keep their
// reference
func (s *PersonService) DeactivatePerson(id uint) error {
	person, err := s.GetPersonByID(id)
	if err != nil {
		return err
	}
	return s.DB.Model(person).Updates(map[string]interface{}{
		"activo":             false,
		"fecha_modificacion": time.Now(),
	}).Error
}
