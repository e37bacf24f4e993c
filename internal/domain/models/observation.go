package models

import "time"

// Observation is a follow-up note attached to an emergency call.
type Observation struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CallID     uint      `gorm:"column:llamado_id;not null" json:"llamado_id"`
	OperatorID uint      `gorm:"column:usuario_id;not null" json:"usuario_id"`
	Timestamp  time.Time `gorm:"column:fecha;not null" json:"fecha"`
	Text       string    `gorm:"column:texto;type:text;not null" json:"texto"`
}

// TableName keeps the legacy table name
func (Observation) TableName() string {
	return "observaciones"
}
