package models

import "time"

// Responder phone configuration keys. Keys outside this set may exist in the
// table but the notification router ignores them.
const (
	ConfigSupervisorPhone   = "telefono_supervisor"
	ConfigMedicalDispatch   = "telefono_demva"
	ConfigHealthCenterPhone = "telefono_cec"
	ConfigTelemedicinePhone = "telefono_telemedicina"
	ConfigFirePhone         = "telefono_bomberos"
	ConfigSecurityPhone     = "telefono_seguridad"
	ConfigCivilDefensePhone = "telefono_defensa"
)

// WhatsApp gateway credential keys
const (
	ConfigWhatsAppToken = "whatsapp_token"
	ConfigWhatsAppUID   = "whatsapp_uid"
)

// ConfigEntry is one key-value row of system configuration.
type ConfigEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Key         string    `gorm:"column:clave;type:varchar(100);unique;not null" json:"clave"`
	Value       string    `gorm:"column:valor;type:text" json:"valor"`
	Description string    `gorm:"column:descripcion;type:varchar(200)" json:"descripcion"`
	Category    string    `gorm:"column:categoria;type:varchar(50);default:'general'" json:"categoria"`
	CreatedAt   time.Time `gorm:"column:fecha_creacion" json:"fecha_creacion"`
	UpdatedAt   time.Time `gorm:"column:fecha_modificacion" json:"fecha_modificacion"`
}

// TableName keeps the legacy table name
func (ConfigEntry) TableName() string {
	return "configuracion"
}
