package services

import (
	"fmt"
	"strings"

	"emergency-dispatch-service/internal/domain/models"
	"emergency-dispatch-service/pkg/logger"
	"emergency-dispatch-service/pkg/phone"
)

// ResponderConfig maps each responder role to an optional phone number.
// It is built by the config service and injected into the router per call,
// so the router never reads shared state.
type ResponderConfig struct {
	Supervisor      string `json:"telefono_supervisor"`
	MedicalDispatch string `json:"telefono_demva"`        // DEMVA, home medical emergencies
	HealthCenter    string `json:"telefono_cec"`          // CEC, public-way medical emergencies
	Telemedicine    string `json:"telefono_telemedicina"` // green home medical emergencies
	Fire            string `json:"telefono_bomberos"`
	Security        string `json:"telefono_seguridad"`
	CivilDefense    string `json:"telefono_defensa"`
}

// NotificationOutcome is the per-recipient result of one dispatch attempt
type NotificationOutcome struct {
	Recipient string `json:"recipient"` // normalized phone number
	Sent      bool   `json:"sent"`
	Detail    string `json:"detail,omitempty"`
}

// DeliveryFunc sends one message to one normalized phone number
type DeliveryFunc func(to, body string) bool

// InterfaceNotificationService defines the notification router interface
type InterfaceNotificationService interface {
	ResolveRecipients(call *models.EmergencyCall, rc *ResponderConfig) []string
	RenderMessage(call *models.EmergencyCall, operatorName string) string
	RouteAndNotify(call *models.EmergencyCall, rc *ResponderConfig, deliver DeliveryFunc) []NotificationOutcome
}

// NotificationService resolves recipients for an emergency call, renders the
// alert message and dispatches it recipient by recipient.
type NotificationService struct {
	normalizer phone.Normalizer
}

// NewNotificationService creates a new notification router
func NewNotificationService() InterfaceNotificationService {
	return &NotificationService{normalizer: phone.Default}
}

var categoryEmoji = map[string]string{
	models.CategoryMedical:      "🏥",
	models.CategoryFire:         "🚒",
	models.CategorySecurity:     "🚔",
	models.CategoryCivilDefense: "🌪️",
	models.CategoryOther:        "📞",
}

var priorityEmoji = map[string]string{
	models.PriorityRed:    "🔴",
	models.PriorityYellow: "🟡",
	models.PriorityGreen:  "🟢",
}

// 1 ResolveRecipients returns the deduplicated, ordered list of normalized
// phone numbers to alert for a call. The supervisor, when configured, always
// comes first; the category-specific responder follows. An empty result is
// valid and means nothing is dispatched.
func (s *NotificationService) ResolveRecipients(call *models.EmergencyCall, rc *ResponderConfig) []string {
	if rc == nil {
		return nil
	}

	candidates := []string{rc.Supervisor}

	switch call.Category {
	case models.CategoryMedical:
		if call.AtResidence() {
			if call.Priority == models.PriorityRed || call.Priority == models.PriorityYellow {
				candidates = append(candidates, rc.MedicalDispatch)
			} else {
				candidates = append(candidates, rc.Telemedicine)
			}
		} else {
			candidates = append(candidates, rc.HealthCenter)
		}
	case models.CategoryFire:
		candidates = append(candidates, rc.Fire)
	case models.CategorySecurity:
		candidates = append(candidates, rc.Security)
	case models.CategoryCivilDefense:
		candidates = append(candidates, rc.CivilDefense)
	}

	// Normalize, drop unset entries, dedupe keeping first occurrence
	seen := make(map[string]bool)
	var recipients []string
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		normalized := s.normalizer.Normalize(candidate)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		recipients = append(recipients, normalized)
	}

	return recipients
}

// 2 RenderMessage builds the structured alert text for a call
func (s *NotificationService) RenderMessage(call *models.EmergencyCall, operatorName string) string {
	emojiCategory, ok := categoryEmoji[call.Category]
	if !ok {
		emojiCategory = "📞"
	}
	emojiPriority, ok := priorityEmoji[call.Priority]
	if !ok {
		emojiPriority = "🟢"
	}

	locationEmoji := "🛣️"
	if call.AtResidence() {
		locationEmoji = "🏠"
	}
	locationTag := titleWords(strings.ReplaceAll(call.LocationKind, "_", " "))

	notes := call.InitialNotes
	if notes == "" {
		notes = "Sin observaciones"
	}

	callerName := strings.TrimSpace(call.CallerName + " " + call.CallerLast)

	var b strings.Builder
	fmt.Fprintf(&b, "🚨 EMERGENCIA VILLA ALLENDE\n\n")
	fmt.Fprintf(&b, "%s TIPO: %s\n", emojiCategory, strings.ToUpper(call.Category))
	fmt.Fprintf(&b, "%s PRIORIDAD: %s\n\n", emojiPriority, strings.ToUpper(call.Priority))
	fmt.Fprintf(&b, "👤 SOLICITANTE:\n%s\n📞 %s\n\n", callerName, call.CallerPhone)
	fmt.Fprintf(&b, "📍 UBICACIÓN:\n%s\n%s %s\n\n", call.FullAddress(), locationEmoji, locationTag)
	fmt.Fprintf(&b, "📝 OBSERVACIONES:\n%s\n\n", notes)
	fmt.Fprintf(&b, "⏰ HORA: %s\n", call.Timestamp.Format("02/01/2006 15:04"))
	fmt.Fprintf(&b, "🆔 LLAMADO: #%d\n", call.ID)
	fmt.Fprintf(&b, "👨‍💼 OPERADOR: %s", operatorName)

	if call.Category == models.CategoryMedical {
		if triage := call.Triage(); triage.AnyAbnormal() {
			b.WriteString("\n\n🩺 TRIAGE:")
			if triage.Conscious != nil && !*triage.Conscious {
				b.WriteString("\n⚠️ NO CONSCIENTE")
			}
			if triage.Breathing != nil && !*triage.Breathing {
				b.WriteString("\n⚠️ NO RESPIRA")
			}
			if triage.Bleeding {
				b.WriteString("\n🩸 SANGRADO ABUNDANTE")
			}
			if triage.Pathology {
				b.WriteString("\n⚕️ PATOLOGÍA GRAVE")
			}
			if triage.Disability {
				b.WriteString("\n♿ DISCAPACIDAD")
			}
		}
	}

	return b.String()
}

// 3 RouteAndNotify resolves recipients, renders the message once and
// dispatches it to every recipient in order. One failed delivery never stops
// the rest of the batch. An empty recipient list returns an empty outcome
// slice without calling the gateway.
func (s *NotificationService) RouteAndNotify(call *models.EmergencyCall, rc *ResponderConfig, deliver DeliveryFunc) []NotificationOutcome {
	recipients := s.ResolveRecipients(call, rc)
	if len(recipients) == 0 {
		logger.Info("call %d: no responders configured, nothing dispatched", call.ID)
		return []NotificationOutcome{}
	}

	operatorName := ""
	if call.Operator != nil {
		operatorName = call.Operator.FullName()
	}
	message := s.RenderMessage(call, operatorName)

	outcomes := make([]NotificationOutcome, 0, len(recipients))
	for _, recipient := range recipients {
		outcome := NotificationOutcome{Recipient: recipient}
		if deliver(recipient, message) {
			outcome.Sent = true
		} else {
			outcome.Detail = "delivery failed"
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

// titleWords uppercases the first letter of each space-separated word
func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
