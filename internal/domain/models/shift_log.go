package models

import "time"

// Shift log entry kinds
const (
	ShiftLogNovelty  = "novedad"
	ShiftLogHandover = "relevo"
)

// ShiftLog is one entry in the shift log ("guardia").
type ShiftLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Timestamp  time.Time `gorm:"column:fecha;not null" json:"fecha"`
	OperatorID uint      `gorm:"column:usuario_id;not null" json:"usuario_id"`
	Activity   string    `gorm:"column:actividad;type:text;not null" json:"actividad"`
	Kind       string    `gorm:"column:tipo;type:varchar(20);default:'novedad'" json:"tipo"` // novedad, relevo

	Operator *User `gorm:"foreignKey:OperatorID" json:"operator,omitempty"`
}

// TableName keeps the legacy table name
func (ShiftLog) TableName() string {
	return "guardias"
}
