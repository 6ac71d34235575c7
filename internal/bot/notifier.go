package bot

import (
	"bizassist/internal/models"
	"bizassist/internal/store"
	"bizassist/internal/utils"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// ErrNoAdmin - администратор ещё не назначен (никто не отправил /start)
var ErrNoAdmin = errors.New("администратор не назначен")

// Notifier отправляет уведомления администратору и пользователям.
// Ошибки возвращаются вызывающему, который только логирует их: запись к этому моменту уже сохранена.
type Notifier struct {
	telegram TelegramClient
	store    *store.Store
	logger   *zap.Logger
}

func NewNotifier(telegram TelegramClient, st *store.Store, logger *zap.Logger) *Notifier {
	return &Notifier{
		telegram: telegram,
		store:    st,
		logger:   logger,
	}
}

// NotifyAdmin отправляет сообщение администратору, при наличии - с кнопками
func (n *Notifier) NotifyAdmin(text string, keyboard *tgbotapi.InlineKeyboardMarkup) error {
	adminID, ok := n.store.AdminID()
	if !ok {
		return ErrNoAdmin
	}

	var err error
	if keyboard != nil {
		err = n.telegram.SendMessageWithInlineKeyboard(adminID, text, *keyboard)
	} else {
		err = n.telegram.SendMessage(adminID, text)
	}
	if err != nil {
		return fmt.Errorf("уведомление администратора %d: %w", adminID, err)
	}
	n.logger.Debug("уведомление отправлено администратору", zap.Int64("admin_id", adminID))
	return nil
}

// NotifyUser отправляет сообщение пользователю (например, решение по записи)
func (n *Notifier) NotifyUser(userID int64, text string) error {
	if err := n.telegram.SendMessage(userID, text); err != nil {
		return fmt.Errorf("уведомление пользователя %d: %w", userID, err)
	}
	n.logger.Debug("уведомление отправлено пользователю", zap.Int64("user_id", userID))
	return nil
}

func leadNotification(lead models.Lead, updated bool) string {
	title := "🔔 ליד חדש!"
	if updated {
		title = "🔁 ליד עודכן!"
	}
	return fmt.Sprintf("%s\n\n🔢 מזהה: %d\n👤 %s\n📞 %s\n🏢 %s\n🎯 %s\n📅 %s",
		title,
		lead.ID,
		lead.Name,
		lead.Phone,
		orDash(lead.BusinessName),
		orDash(lead.Interest),
		lead.CreatedAt.Format("2006-01-02 15:04:05"),
	)
}

func appointmentNotification(appt models.Appointment) string {
	text := fmt.Sprintf("📅 בקשת תור חדשה!\n\n🔢 מזהה: %d\n👤 %s\n📞 %s\n📅 %s\n⏰ %s",
		appt.ID, appt.Name, appt.Phone, appt.Date, appt.Time)
	if appt.Service != "" {
		text += "\n🧾 " + appt.Service
	}
	return text
}

func orderNotification(order models.Order, customer string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🛒 הזמנה חדשה #%d\n\n👤 %s\n\n", order.ID, customer)
	for _, line := range order.Lines {
		fmt.Fprintf(&b, "• %s × %d = %s\n", line.Name, line.Quantity, utils.FormatPrice(line.Subtotal()))
	}
	fmt.Fprintf(&b, "\n💰 סה״כ: %s", utils.FormatPrice(order.Total))
	return b.String()
}

func supportNotification(msg models.Message) string {
	who := msg.FullName
	if msg.Username != "" {
		who += " (@" + msg.Username + ")"
	}
	return fmt.Sprintf("💬 פנייה לתמיכה:\n\n👤 %s\n🆔 %d\n📝 %s", who, msg.UserID, msg.Text)
}

func statusNotification(appt models.Appointment) string {
	switch appt.Status {
	case models.AppointmentApproved:
		return fmt.Sprintf("✅ התור שלך אושר!\n📅 %s בשעה %s\nנתראה 🙂", appt.Date, appt.Time)
	case models.AppointmentRejected:
		return fmt.Sprintf("❌ לצערנו התור ל-%s בשעה %s לא אושר.\nאפשר לבחור מועד אחר דרך \"%s\".", appt.Date, appt.Time, captionBooking)
	default:
		return fmt.Sprintf("ℹ️ סטטוס התור שלך עודכן: %s", statusLabel(appt.Status))
	}
}

func statusLabel(status models.AppointmentStatus) string {
	switch status {
	case models.AppointmentPending:
		return "ממתין לאישור"
	case models.AppointmentApproved:
		return "מאושר"
	case models.AppointmentRejected:
		return "נדחה"
	case models.AppointmentCompleted:
		return "הושלם"
	default:
		return string(status)
	}
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
