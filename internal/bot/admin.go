package bot

import (
	"bizassist/internal/models"
	"bizassist/internal/utils"
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	noPermission  = "❌ אין הרשאה"
	recentLeads   = 5
	csvTimeLayout = "2006-01-02 15:04:05"
)

// utf8BOM нужен, чтобы Excel правильно открыл иврит
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func (s *Service) handleAdminPanel(mc msgContext) error {
	if !s.store.IsAdmin(mc.msg.UserID) {
		return s.telegram.SendMessage(mc.msg.ChatID, noPermission)
	}

	st := s.store.Stats()
	leads := s.store.Leads()
	if len(leads) > recentLeads {
		leads = leads[len(leads)-recentLeads:]
	}

	var recent []string
	for _, lead := range leads {
		recent = append(recent, fmt.Sprintf("• %s - %s", lead.Name, lead.Phone))
	}
	recentText := "אין לידים עדיין"
	if len(recent) > 0 {
		recentText = strings.Join(recent, "\n")
	}

	text := fmt.Sprintf(`📊 פאנל מנהל

📈 סטטיסטיקות:
• לידים: %d
• תורים: %d (ממתינים: %d)
• הזמנות: %d
• מחזור: %s

📝 לידים אחרונים:
%s

🔧 פקודות זמינות:
/export_leads - ייצוא לידים
/export_appointments - ייצוא תורים
/cancel - ביטול פעולה`,
		st.Leads, st.Appointments, st.PendingAppointments, st.Orders, utils.FormatPrice(st.Revenue), recentText)

	return s.telegram.SendMessage(mc.msg.ChatID, text)
}

func (s *Service) handleExportLeads(mc msgContext) error {
	if !s.store.IsAdmin(mc.msg.UserID) {
		return s.telegram.SendMessage(mc.msg.ChatID, noPermission)
	}
	leads := s.store.Leads()
	if len(leads) == 0 {
		return s.telegram.SendMessage(mc.msg.ChatID, "אין לידים לייצוא")
	}

	data, err := LeadsCSV(leads)
	if err != nil {
		return fmt.Errorf("ошибка при формировании CSV лидов: %w", err)
	}
	name := fmt.Sprintf("leads_%s.csv", s.localNow().Format("20060102"))
	mc.logger.Info("экспорт лидов", zap.Int("count", len(leads)))
	return s.telegram.SendDocument(mc.msg.ChatID, name, data, fmt.Sprintf("📊 ייצוא לידים (%d רשומות)", len(leads)))
}

func (s *Service) handleExportAppointments(mc msgContext) error {
	if !s.store.IsAdmin(mc.msg.UserID) {
		return s.telegram.SendMessage(mc.msg.ChatID, noPermission)
	}
	appts := s.store.Appointments()
	if len(appts) == 0 {
		return s.telegram.SendMessage(mc.msg.ChatID, "אין תורים לייצוא")
	}

	data, err := AppointmentsCSV(appts)
	if err != nil {
		return fmt.Errorf("ошибка при формировании CSV записей: %w", err)
	}
	name := fmt.Sprintf("appointments_%s.csv", s.localNow().Format("20060102"))
	mc.logger.Info("экспорт записей", zap.Int("count", len(appts)))
	return s.telegram.SendDocument(mc.msg.ChatID, name, data, fmt.Sprintf("📊 ייצוא תורים (%d רשומות)", len(appts)))
}

// LeadsCSV - выгрузка лидов с BOM
func LeadsCSV(leads []models.Lead) ([]byte, error) {
	rows := [][]string{{"מזהה", "תאריך", "שם", "טלפון", "עסק", "עניין", "מקור"}}
	for _, l := range leads {
		rows = append(rows, []string{
			strconv.Itoa(l.ID),
			l.CreatedAt.Format(csvTimeLayout),
			l.Name,
			l.Phone,
			l.BusinessName,
			l.Interest,
			l.Source,
		})
	}
	return writeCSV(rows)
}

// AppointmentsCSV - выгрузка записей с BOM
func AppointmentsCSV(appts []models.Appointment) ([]byte, error) {
	rows := [][]string{{"מזהה", "תאריך", "שעה", "שם", "טלפון", "שירות", "סטטוס", "נוצר"}}
	for _, a := range appts {
		rows = append(rows, []string{
			strconv.Itoa(a.ID),
			a.Date,
			a.Time,
			a.Name,
			a.Phone,
			a.Service,
			statusLabel(a.Status),
			a.CreatedAt.Format(csvTimeLayout),
		})
	}
	return writeCSV(rows)
}

func writeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
