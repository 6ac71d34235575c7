package bot

import (
	"bizassist/internal/models"
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"
)

func TestAdminCommands_RequireAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.claimAdmin(t)

	for _, cmd := range []string{"/admin", "/export_leads", "/export_appointments"} {
		env.text(t, userID, cmd)
		if got := env.tg.last(t, userID).text; got != noPermission {
			t.Fatalf("%s: expected denial, got %q", cmd, got)
		}
	}
}

func TestAdminPanel_Stats(t *testing.T) {
	env := newTestEnv(t)
	env.claimAdmin(t)
	submitContact(t, env, "Dana", "אין", "bot", "0501234567")
	bookAppointment(t, env)

	env.text(t, adminID, "/admin")
	text := env.tg.last(t, adminID).text
	for _, want := range []string{"לידים: 1", "תורים: 1 (ממתינים: 1)", "Dana - 0501234567"} {
		if !strings.Contains(text, want) {
			t.Fatalf("panel %q misses %q", text, want)
		}
	}
}

func TestExportLeads(t *testing.T) {
	env := newTestEnv(t)
	env.claimAdmin(t)

	env.text(t, adminID, "/export_leads")
	if got := env.tg.last(t, adminID).text; got != "אין לידים לייצוא" {
		t.Fatalf("expected empty export message, got %q", got)
	}

	submitContact(t, env, "Dana, Levi", "Cafe", "website", "0501234567")
	env.text(t, adminID, "/export_leads")

	doc := env.tg.last(t, adminID)
	if doc.kind != "document" || doc.fileName != "leads_20260113.csv" {
		t.Fatalf("expected leads document, got %+v", doc)
	}
	if !bytes.HasPrefix(doc.data, utf8BOM) {
		t.Fatalf("expected UTF-8 BOM")
	}
	records, err := csv.NewReader(bytes.NewReader(doc.data[len(utf8BOM):])).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	if len(records) != 2 || records[1][2] != "Dana, Levi" || records[1][3] != "0501234567" {
		t.Fatalf("unexpected records %v", records)
	}
}

func TestAppointmentsCSV(t *testing.T) {
	data, err := AppointmentsCSV([]models.Appointment{{
		ID:        3,
		Name:      "Dana",
		Phone:     "0501234567",
		Date:      "2026-01-14",
		Time:      "11:00",
		Status:    models.AppointmentApproved,
		CreatedAt: time.Date(2026, 1, 13, 9, 30, 0, 0, time.UTC),
	}})
	if err != nil {
		t.Fatalf("AppointmentsCSV: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM))).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	want := []string{"3", "2026-01-14", "11:00", "Dana", "0501234567", "", "מאושר", "2026-01-13 09:30:00"}
	if strings.Join(records[1], "|") != strings.Join(want, "|") {
		t.Fatalf("got %v, want %v", records[1], want)
	}
}
