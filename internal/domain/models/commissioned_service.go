package models

import "time"

// Commissioned service states
const (
	ServiceStateRequested = "solicitado"
	ServiceStateOnScene   = "en_lugar"
	ServiceStateFinished  = "finalizado"
)

// CommissionedService records an external responder dispatched for a call
// (ambulance, fire truck, patrol).
type CommissionedService struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CallID      uint      `gorm:"column:llamado_id;not null" json:"llamado_id"`
	OperatorID  uint      `gorm:"column:usuario_id;not null" json:"usuario_id"`
	Timestamp   time.Time `gorm:"column:fecha;not null" json:"fecha"`
	ServiceKind string    `gorm:"column:tipo_servicio;type:varchar(50);not null" json:"tipo_servicio"`
	Reason      string    `gorm:"column:motivo;type:text" json:"motivo"`
	State       string    `gorm:"column:estado;type:varchar(20);default:'solicitado'" json:"estado"`
}

// TableName keeps the legacy table name
func (CommissionedService) TableName() string {
	return "servicios_comisionados"
}
