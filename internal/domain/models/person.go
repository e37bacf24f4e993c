package models

import "time"

// Person is an entry in the neighbor registry, linkable to emergency calls.
type Person struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	LastName     string    `gorm:"column:apellido;type:varchar(100);not null" json:"apellido"`
	FirstName    string    `gorm:"column:nombre;type:varchar(100);not null" json:"nombre"`
	Document     string    `gorm:"column:dni;type:varchar(20)" json:"dni"`
	Phone        string    `gorm:"column:telefono;type:varchar(20)" json:"telefono"`
	Mobile       string    `gorm:"column:celular;type:varchar(20)" json:"celular"`
	Email        string    `gorm:"column:email;type:varchar(120)" json:"email"`
	Address      string    `gorm:"column:direccion;type:varchar(200)" json:"direccion"`
	Neighborhood string    `gorm:"column:barrio;type:varchar(100)" json:"barrio"`
	Notes        string    `gorm:"column:observaciones;type:text" json:"observaciones"`
	CreatedAt    time.Time `gorm:"column:fecha_creacion" json:"fecha_creacion"`
	UpdatedAt    time.Time `gorm:"column:fecha_modificacion" json:"fecha_modificacion"`
	Active       bool      `gorm:"column:activo;default:true" json:"activo"`
}

// TableName keeps the legacy table name
func (Person) TableName() string {
	return "personas"
}

// FullName returns the display name of the person
func (p *Person) FullName() string {
	return p.FirstName + " " + p.LastName
}
