package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Emergency categories
const (
	CategoryMedical      = "medica"
	CategoryFire         = "bomberos"
	CategorySecurity     = "seguridad"
	CategoryCivilDefense = "defensa"
	CategoryOther        = "otros"
)

// Priorities
const (
	PriorityRed    = "rojo"
	PriorityYellow = "amarillo"
	PriorityGreen  = "verde"
)

// Location kinds for a call
const (
	LocationResidence = "domicilio"
	LocationPublicWay = "via_publica"
)

// Call states
const (
	CallStateActive = "activo"
	CallStateClosed = "cerrado"
)

// EmergencyCall represents one logged emergency call ("llamado").
type EmergencyCall struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Timestamp  time.Time `gorm:"column:fecha;not null" json:"fecha"`
	OperatorID uint      `gorm:"column:usuario_id;not null" json:"usuario_id"`

	// Caller
	CallerName  string `gorm:"column:nombre;type:varchar(100);not null" json:"nombre"`
	CallerLast  string `gorm:"column:apellido;type:varchar(100)" json:"apellido"`
	CallerPhone string `gorm:"column:telefono;type:varchar(20)" json:"telefono"`
	Document    string `gorm:"column:dni;type:varchar(20)" json:"dni"`
	PersonID    *uint  `gorm:"column:persona_id" json:"persona_id,omitempty"`

	// Location
	Street         string `gorm:"column:calle;type:varchar(200);not null" json:"calle"`
	Number         string `gorm:"column:numero;type:varchar(10)" json:"numero"`
	BetweenStreets string `gorm:"column:entre_calles;type:varchar(200)" json:"entre_calles"`
	Neighborhood   string `gorm:"column:barrio;type:varchar(100)" json:"barrio"`
	LocationKind   string `gorm:"column:via_publica;type:varchar(20);default:'domicilio'" json:"via_publica"` // domicilio, via_publica

	// Classification
	InitialNotes string `gorm:"column:observaciones_iniciales;type:text" json:"observaciones_iniciales"`
	Category     string `gorm:"column:tipo;type:varchar(50);not null" json:"tipo"`      // medica, bomberos, seguridad, defensa, otros
	Priority     string `gorm:"column:prioridad;type:varchar(10);not null" json:"prioridad"` // rojo, amarillo, verde
	TriageData   string `gorm:"column:triage_data;type:text" json:"triage_data,omitempty"`

	// Lifecycle
	State    string     `gorm:"column:estado;type:varchar(20);default:'activo'" json:"estado"`
	ClosedAt *time.Time `gorm:"column:fecha_cierre" json:"fecha_cierre,omitempty"`

	// Notification outcome
	WhatsAppSent     bool   `gorm:"column:whatsapp_enviado;default:false" json:"whatsapp_enviado"`
	WhatsAppResponse string `gorm:"column:whatsapp_respuesta;type:text" json:"whatsapp_respuesta,omitempty"`

	Operator     *User                 `gorm:"foreignKey:OperatorID" json:"operator,omitempty"`
	Observations []Observation         `gorm:"foreignKey:CallID" json:"observations,omitempty"`
	Services     []CommissionedService `gorm:"foreignKey:CallID" json:"services,omitempty"`
}

// TableName keeps the legacy table name
func (EmergencyCall) TableName() string {
	return "llamados"
}

// AtResidence reports whether the call happened at a residence rather than
// on the public way.
func (c *EmergencyCall) AtResidence() bool {
	return c.LocationKind == LocationResidence
}

// FullAddress joins street, number and neighborhood for display
func (c *EmergencyCall) FullAddress() string {
	parts := []string{c.Street}
	if c.Number != "" {
		parts[0] = c.Street + " " + c.Number
	}
	if c.Neighborhood != "" {
		parts = append(parts, c.Neighborhood)
	}
	return strings.Join(parts, ", ")
}

// TriageFlags is the structured medical pre-assessment attached to medical
// calls. Conscious and Breathing are pointers: absent means unknown, which
// is not the same as an abnormal false.
type TriageFlags struct {
	Conscious  *bool `json:"consciente,omitempty"`
	Breathing  *bool `json:"respira,omitempty"`
	Bleeding   bool  `json:"sangrado,omitempty"`
	Pathology  bool  `json:"patologia,omitempty"`
	Disability bool  `json:"discapacidad,omitempty"`
}

// AnyAbnormal reports whether at least one flag needs attention
func (t *TriageFlags) AnyAbnormal() bool {
	if t == nil {
		return false
	}
	notConscious := t.Conscious != nil && !*t.Conscious
	notBreathing := t.Breathing != nil && !*t.Breathing
	return notConscious || notBreathing || t.Bleeding || t.Pathology || t.Disability
}

// Triage decodes the triage JSON blob, returning nil when absent or invalid
func (c *EmergencyCall) Triage() *TriageFlags {
	if c.TriageData == "" {
		return nil
	}
	var flags TriageFlags
	if err := json.Unmarshal([]byte(c.TriageData), &flags); err != nil {
		return nil
	}
	return &flags
}
