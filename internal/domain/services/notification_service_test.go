package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emergency-dispatch-service/internal/domain/models"
)

func fullResponderConfig() *ResponderConfig {
	return &ResponderConfig{
		Supervisor:      "3510000001",
		MedicalDispatch: "3510000002",
		HealthCenter:    "3510000003",
		Telemedicine:    "3510000004",
		Fire:            "3510000005",
		Security:        "3510000006",
		CivilDefense:    "3510000007",
	}
}

func testCall(category, priority, location string) *models.EmergencyCall {
	return &models.EmergencyCall{
		ID:           42,
		Timestamp:    time.Date(2025, 3, 14, 21, 30, 0, 0, time.Local),
		CallerName:   "Juan",
		CallerLast:   "Pérez",
		CallerPhone:  "3511234567",
		Street:       "Av. Goycoechea",
		Number:       "100",
		Neighborhood: "Centro",
		Category:     category,
		Priority:     priority,
		LocationKind: location,
	}
}

func TestResolveRecipientsRouting(t *testing.T) {
	router := NewNotificationService()
	rc := fullResponderConfig()

	tests := []struct {
		name     string
		category string
		priority string
		location string
		want     []string
	}{
		{"medical red at residence", models.CategoryMedical, models.PriorityRed, models.LocationResidence,
			[]string{"543510000001", "543510000002"}},
		{"medical yellow at residence", models.CategoryMedical, models.PriorityYellow, models.LocationResidence,
			[]string{"543510000001", "543510000002"}},
		{"medical green at residence", models.CategoryMedical, models.PriorityGreen, models.LocationResidence,
			[]string{"543510000001", "543510000004"}},
		{"medical red on public way", models.CategoryMedical, models.PriorityRed, models.LocationPublicWay,
			[]string{"543510000001", "543510000003"}},
		{"medical green on public way", models.CategoryMedical, models.PriorityGreen, models.LocationPublicWay,
			[]string{"543510000001", "543510000003"}},
		{"fire", models.CategoryFire, models.PriorityRed, models.LocationResidence,
			[]string{"543510000001", "543510000005"}},
		{"security", models.CategorySecurity, models.PriorityYellow, models.LocationPublicWay,
			[]string{"543510000001", "543510000006"}},
		{"civil defense", models.CategoryCivilDefense, models.PriorityYellow, models.LocationPublicWay,
			[]string{"543510000001", "543510000007"}},
		{"other category only alerts supervisor", models.CategoryOther, models.PriorityGreen, models.LocationResidence,
			[]string{"543510000001"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call := testCall(tt.category, tt.priority, tt.location)
			assert.Equal(t, tt.want, router.ResolveRecipients(call, rc))
		})
	}
}

func TestResolveRecipientsSupervisorFirst(t *testing.T) {
	router := NewNotificationService()
	call := testCall(models.CategoryMedical, models.PriorityRed, models.LocationResidence)

	rc := &ResponderConfig{
		Supervisor:      "3513334444",
		MedicalDispatch: "3511112222",
	}
	assert.Equal(t, []string{"543513334444", "543511112222"}, router.ResolveRecipients(call, rc))
}

func TestResolveRecipientsSkipsUnconfigured(t *testing.T) {
	router := NewNotificationService()
	call := testCall(models.CategoryFire, models.PriorityRed, models.LocationPublicWay)

	// No supervisor configured, only the fire number remains
	rc := &ResponderConfig{Fire: "3510000005"}
	assert.Equal(t, []string{"543510000005"}, router.ResolveRecipients(call, rc))

	// Nothing configured at all
	assert.Empty(t, router.ResolveRecipients(call, &ResponderConfig{}))
	assert.Empty(t, router.ResolveRecipients(call, nil))
}

func TestResolveRecipientsDeduplicates(t *testing.T) {
	router := NewNotificationService()
	call := testCall(models.CategoryFire, models.PriorityRed, models.LocationPublicWay)

	// Supervisor doubles as the fire responder, differently formatted
	rc := &ResponderConfig{
		Supervisor: "0351 000-0005",
		Fire:       "3510000005",
	}
	assert.Equal(t, []string{"543510000005"}, router.ResolveRecipients(call, rc))
}

func TestRenderMessageContents(t *testing.T) {
	router := NewNotificationService()
	call := testCall(models.CategoryMedical, models.PriorityRed, models.LocationResidence)

	message := router.RenderMessage(call, "María García")

	assert.True(t, strings.HasPrefix(message, "🚨 EMERGENCIA VILLA ALLENDE"))
	assert.Contains(t, message, "TIPO: MEDICA")
	assert.Contains(t, message, "PRIORIDAD: ROJO")
	assert.Contains(t, message, "Juan Pérez")
	assert.Contains(t, message, "3511234567")
	assert.Contains(t, message, "Av. Goycoechea")
	assert.Contains(t, message, "HORA: 14/03/2025 21:30")
	assert.Contains(t, message, "LLAMADO: #42")
	assert.Contains(t, message, "OPERADOR: María García")
	assert.NotContains(t, message, "TRIAGE")
}

func TestRenderMessageDefaultNotes(t *testing.T) {
	router := NewNotificationService()
	call := testCall(models.CategoryOther, models.PriorityGreen, models.LocationPublicWay)

	message := router.RenderMessage(call, "op")
	assert.Contains(t, message, "Sin observaciones")
}

func TestRenderMessageTriageSection(t *testing.T) {
	router := NewNotificationService()
	call := testCall(models.CategoryMedical, models.PriorityRed, models.LocationResidence)
	call.TriageData = `{"consciente":false,"respira":true,"sangrado":true}`

	message := router.RenderMessage(call, "op")
	require.Contains(t, message, "🩺 TRIAGE:")
	assert.Contains(t, message, "NO CONSCIENTE")
	assert.Contains(t, message, "SANGRADO ABUNDANTE")
	assert.NotContains(t, message, "NO RESPIRA")
	assert.NotContains(t, message, "PATOLOGÍA GRAVE")
}

func TestRenderMessageNoTriageForNonMedical(t *testing.T) {
	router := NewNotificationService()
	call := testCall(models.CategoryFire, models.PriorityRed, models.LocationResidence)
	call.TriageData = `{"sangrado":true}`

	assert.NotContains(t, router.RenderMessage(call, "op"), "TRIAGE")
}

func TestRouteAndNotifyDispatchesToAll(t *testing.T) {
	router := NewNotificationService()
	call := testCall(models.CategoryMedical, models.PriorityRed, models.LocationResidence)

	var delivered []string
	deliver := func(to, body string) bool {
		delivered = append(delivered, to)
		return true
	}

	outcomes := router.RouteAndNotify(call, fullResponderConfig(), deliver)
	require.Len(t, outcomes, 2)
	assert.Equal(t, []string{"543510000001", "543510000002"}, delivered)
	for _, outcome := range outcomes {
		assert.True(t, outcome.Sent)
		assert.Empty(t, outcome.Detail)
	}
}

func TestRouteAndNotifyContinuesPastFailures(t *testing.T) {
	router := NewNotificationService()
	call := testCall(models.CategoryFire, models.PriorityRed, models.LocationPublicWay)

	// First delivery fails, the second must still go out
	calls := 0
	deliver := func(to, body string) bool {
		calls++
		return calls != 1
	}

	outcomes := router.RouteAndNotify(call, fullResponderConfig(), deliver)
	require.Len(t, outcomes, 2)
	assert.False(t, outcomes[0].Sent)
	assert.Equal(t, "delivery failed", outcomes[0].Detail)
	assert.True(t, outcomes[1].Sent)
	assert.Equal(t, 2, calls)
}

func TestRouteAndNotifyWithoutRecipients(t *testing.T) {
	router := NewNotificationService()
	call := testCall(models.CategoryOther, models.PriorityGreen, models.LocationResidence)

	deliver := func(to, body string) bool {
		t.Fatal("gateway must not be called without recipients")
		return false
	}

	outcomes := router.RouteAndNotify(call, &ResponderConfig{}, deliver)
	require.NotNil(t, outcomes)
	assert.Empty(t, outcomes)
}

func TestRouteAndNotifyRendersOnce(t *testing.T) {
	router := NewNotificationService()
	call := testCall(models.CategoryMedical, models.PriorityYellow, models.LocationResidence)

	var bodies []string
	deliver := func(to, body string) bool {
		bodies = append(bodies, body)
		return true
	}

	router.RouteAndNotify(call, fullResponderConfig(), deliver)
	require.Len(t, bodies, 2)
	assert.Equal(t, bodies[0], bodies[1])
}
