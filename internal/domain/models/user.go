package models

import "time"

// User roles
const (
	RoleAdmin    = "admin"
	RoleOperator = "operador"
)

// User represents a dispatch operator or administrator.
// Column names keep the legacy schema so existing databases and backup
// archives remain readable.
type User struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Username      string     `gorm:"column:username;type:varchar(50);unique;not null" json:"username"`
	PasswordHash  string     `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	FirstName     string     `gorm:"column:nombre;type:varchar(100);not null" json:"nombre"`
	LastName      string     `gorm:"column:apellido;type:varchar(100);not null" json:"apellido"`
	Email         string     `gorm:"column:email;type:varchar(120)" json:"email"`
	Phone         string     `gorm:"column:telefono;type:varchar(20)" json:"telefono"`
	Role          string     `gorm:"column:rol;type:varchar(20);not null;default:'operador'" json:"rol"` // admin, operador
	Active        bool       `gorm:"column:activo;default:true" json:"activo"`
	CreatedAt     time.Time  `gorm:"column:fecha_creacion" json:"fecha_creacion"`
	LastLogin     *time.Time `gorm:"column:ultimo_login" json:"ultimo_login,omitempty"`
	AttendedCalls int        `gorm:"column:llamados_atendidos;default:0" json:"llamados_atendidos"`
}

// TableName keeps the legacy table name
func (User) TableName() string {
	return "usuarios"
}

// FullName returns the display name of the user
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
