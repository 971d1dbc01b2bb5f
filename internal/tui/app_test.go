package tui

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/dermadesk/dermadesk/internal/config"
	"github.com/dermadesk/dermadesk/internal/database/repository"
	"github.com/dermadesk/dermadesk/internal/table"
)

func newTestApp(t *testing.T, role string) *App {
	t.Helper()
	cfg := config.Config{}
	cfg.Clinic.Name = "Test Clinic"
	return New(context.Background(), cfg, slog.New(slog.DiscardHandler), Repos{}, Services{}, role, time.UTC)
}

func TestApptStatusColumnPrefersCellOverKey(t *testing.T) {
	t.Parallel()

	var col *table.Column[apptRow]
	cols := apptColumns()
	for i := range cols {
		if cols[i].Header == "Status" {
			col = &cols[i]
		}
	}
	require.NotNil(t, col)
	// both strategies present; the cell renderer must win
	require.Equal(t, "Status", col.Key)
	require.NotNil(t, col.Cell)
	require.Equal(t, styledStatus("scheduled"), col.Value(apptRow{Status: "scheduled"}))
}

func TestAnalysisConfidenceBlankUntilResult(t *testing.T) {
	t.Parallel()

	var col *table.Column[analysisRow]
	cols := analysisColumns()
	for i := range cols {
		if cols[i].Header == "Confidence" {
			col = &cols[i]
		}
	}
	require.NotNil(t, col)
	require.Nil(t, col.Value(analysisRow{}))

	c := 0.87
	require.Equal(t, "87%", col.Value(analysisRow{Confidence: &c}))
}

func TestApptRowsResolveNames(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, repository.RoleAssistant)
	a.names = map[string]string{"p1": "Ann Chu", "d1": "Dr. Bo Marsh"}

	reason := "rash"
	rows := a.apptRows([]repository.Appointment{{
		ID:        "ap1",
		PatientID: "p1",
		DoctorID:  "d1",
		StartsAt:  time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		EndsAt:    time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
		Status:    repository.AppointmentScheduled,
		Reason:    &reason,
	}})
	require.Len(t, rows, 1)
	require.Equal(t, "Ann Chu", rows[0].Patient)
	require.Equal(t, "Dr. Bo Marsh", rows[0].Doctor)
	require.Equal(t, "rash", rows[0].Reason)

	// unknown ids degrade to a short id, not a crash
	rows = a.apptRows([]repository.Appointment{{ID: "ap2", PatientID: "0123456789", DoctorID: "d1"}})
	require.Equal(t, "01234567", rows[0].Patient)
}

func TestRoleRestrictsViews(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, repository.RolePatient)
	_, _ = a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	require.Equal(t, viewAppointments, a.state)

	a = newTestApp(t, repository.RoleAssistant)
	_, _ = a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	require.Equal(t, viewPatients, a.state)

	// leaving the assistant role bounces off assistant-only views
	_, cmd := a.switchRole(repository.RoleDoctor)
	require.NotNil(t, cmd)
	require.Equal(t, viewAppointments, a.state)
}

func TestSearchInputEditing(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, repository.RoleAssistant)
	a.state = viewPatients
	_, _ = a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	require.True(t, a.searching)

	_, _ = a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ann")})
	require.Equal(t, "ann", a.searchInput)

	_, _ = a.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	require.Equal(t, "an", a.searchInput)

	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, a.searching)
	require.NotNil(t, cmd) // reload with the query
}

func TestRowSelectionOpensDetail(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, repository.RoleAssistant)
	a.state = viewPatients
	a.patients.SetRows([]repository.User{{ID: "p1", FullName: "Ann Chu", Email: "ann@x"}})

	_, _ = a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, modalDetail, a.modal)
	require.Contains(t, a.detail, "Ann Chu")

	// esc closes
	_, _ = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, modalNone, a.modal)
}

func TestFooterVariesByRole(t *testing.T) {
	t.Parallel()

	patient := newTestApp(t, repository.RolePatient)
	require.NotContains(t, patient.footerText(), "[p] Patients")

	assistant := newTestApp(t, repository.RoleAssistant)
	require.Contains(t, assistant.footerText(), "[p] Patients")
}

func TestNextSlot(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 2, 9, 12, 45, 0, time.UTC)
	require.Equal(t, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), nextSlot(now))
}

func TestSettingsSaveWritesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("DERMADESK_CONFIG", path)

	a := newTestApp(t, repository.RoleAssistant)
	a.state = viewSettings
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("w")})
	require.NotNil(t, cmd)
	require.Equal(t, statusMsg("settings saved"), cmd())

	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestViewRendersWithoutData(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, repository.RoleAssistant)
	a.width, a.height = 100, 30
	require.NotPanics(t, func() { _ = a.View() })
	a.state = viewSettings
	require.Contains(t, a.View(), "Export training data")
}
