package bot

import (
	"bizassist/internal/models"
	"bizassist/internal/session"
	"bizassist/internal/store"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const bookingPrompt = "בואו נקבע – זה לוקח חצי דקה 🙂\nבחרו יום פנוי:"

// startBooking открывает запись: сначала выбор даты
func (s *Service) startBooking(sess *session.Session, chatID int64, service string) error {
	sess.Start(&session.Appointment{Step: session.AppointmentDate, Service: service})
	return s.telegram.SendMessageWithInlineKeyboard(chatID, bookingPrompt, dateKeyboard(s.localNow()))
}

// appointmentFlow возвращает активную запись; кнопки дат из старого сообщения открывают запись заново
func appointmentFlow(sess *session.Session) *session.Appointment {
	if flow, ok := sess.Appointment(); ok {
		return flow
	}
	flow := &session.Appointment{Step: session.AppointmentDate}
	sess.Start(flow)
	return flow
}

func (s *Service) handleSelectDate(cb cbContext, date string) (string, error) {
	if !s.dateBookable(date) {
		return "⚠️ התאריך כבר לא זמין", s.edit(cb, bookingPrompt, ptr(dateKeyboard(s.localNow())))
	}

	flow := appointmentFlow(cb.session)
	flow.Date = date
	flow.Time = ""
	flow.Step = session.AppointmentTime

	return "", s.edit(cb, fmt.Sprintf("נבחר תאריך: %s\nשעה מועדפת?", date), timeKeyboard())
}

// dateBookable - дата входит в окно ближайших дней
func (s *Service) dateBookable(date string) bool {
	for _, d := range bookingDates(s.localNow()) {
		if d.Format(dateLayout) == date {
			return true
		}
	}
	return false
}

func (s *Service) handleSelectTime(cb cbContext, slot string) (string, error) {
	flow, ok := cb.session.Appointment()
	if !ok || flow.Date == "" || flow.Step > session.AppointmentTime {
		return staleButton, nil
	}
	if !knownSlot(slot) {
		return staleButton, nil
	}

	flow.Time = slot
	flow.Step = session.AppointmentName
	return "", s.edit(cb, fmt.Sprintf("מעולה! 📅 %s בשעה %s\n\nכדי לאשר, אנא שתף/י שם מלא:", flow.Date, slot), nil)
}

func knownSlot(slot string) bool {
	for _, t := range timeSlots {
		if t == slot {
			return true
		}
	}
	return false
}

func (s *Service) handleBackToDates(cb cbContext) (string, error) {
	flow := appointmentFlow(cb.session)
	flow.Step = session.AppointmentDate
	flow.Date = ""
	flow.Time = ""
	return "", s.edit(cb, bookingPrompt, ptr(dateKeyboard(s.localNow())))
}

// handleAppointmentInput - текстовые шаги записи: имя и телефон
func (s *Service) handleAppointmentInput(mc msgContext, flow *session.Appointment) error {
	chatID := mc.msg.ChatID
	text := strings.TrimSpace(mc.msg.Text)

	switch flow.Step {
	case session.AppointmentDate, session.AppointmentTime:
		// дату и время выбирают кнопками
		if isMenuCaption(text) {
			mc.session.Flow = nil
			return s.handleMenuText(mc, text)
		}
		if flow.Step == session.AppointmentDate {
			return s.telegram.SendMessageWithInlineKeyboard(chatID, bookingPrompt, dateKeyboard(s.localNow()))
		}
		return s.telegram.SendMessageWithInlineKeyboard(chatID, "בחרו שעה מהכפתורים 👇", *timeKeyboard())

	case session.AppointmentName:
		if text == "" {
			return s.telegram.SendMessage(chatID, "כדי לאשר, אנא שתף/י שם מלא:")
		}
		flow.Name = text
		flow.Step = session.AppointmentPhone
		return s.telegram.SendMessageWithKeyboard(chatID, "ומספר טלפון:", shareContactKeyboard())

	case session.AppointmentPhone:
		return s.completeAppointment(mc, flow)
	}

	mc.logger.Warn("неизвестный шаг записи", zap.Stringer("step", flow.Step))
	mc.session.Reset()
	return s.replyMenu(chatID, menuHint)
}

// completeAppointment сохраняет запись в статусе "ожидает" и отправляет администратору кнопки решения
func (s *Service) completeAppointment(mc msgContext, flow *session.Appointment) error {
	phone, ok := phoneInput(mc.msg)
	if !ok {
		mc.logger.Info("неверный номер телефона при записи")
		return s.telegram.SendMessageWithKeyboard(mc.msg.ChatID, phoneInvalid, shareContactKeyboard())
	}

	appt, err := s.store.AddAppointment(mc.ctx, models.Appointment{
		UserID:  mc.msg.UserID,
		Name:    flow.Name,
		Phone:   phone,
		Date:    flow.Date,
		Time:    flow.Time,
		Service: flow.Service,
	})
	if err != nil {
		mc.logger.Error("ошибка при сохранении записи", zap.Error(err))
		return s.telegram.SendMessage(mc.msg.ChatID, saveFailedText)
	}

	mc.logger.Info("запись создана",
		zap.Int("appointment_id", appt.ID),
		zap.String("date", appt.Date),
		zap.String("time", appt.Time),
	)

	if err := s.notifier.NotifyAdmin(appointmentNotification(appt), approvalKeyboard(appt.ID)); err != nil {
		mc.logger.Warn("не удалось уведомить администратора о записи",
			zap.Error(err),
			zap.Int("appointment_id", appt.ID),
		)
	}

	s.sessions.Reset(mc.msg.UserID)
	return s.replyMenu(mc.msg.ChatID, fmt.Sprintf("תודה! הזמנה נקלטה ✅\n📅 %s בשעה %s\n🔢 מספר תור: #%d\n\nתקבלו אישור כאן בצ'אט.", appt.Date, appt.Time, appt.ID))
}

// handleAppointmentDecision - решение администратора по записи.
// Решение по записи в конечном статусе не меняется и пользователю повторно не отправляется.
func (s *Service) handleAppointmentDecision(cb cbContext, id int, approve bool) (string, error) {
	log := cb.logger.With(zap.Int("appointment_id", id), zap.Bool("approve", approve))

	if !s.store.IsAdmin(cb.query.UserID) {
		log.Warn("попытка решения по записи без прав")
		return "❌ אין הרשאה", nil
	}

	appt, err := s.store.Appointment(id)
	if errors.Is(err, store.ErrNotFound) {
		return "❌ התור לא נמצא", nil
	}
	if err != nil {
		return "⚠️ שגיאה", err
	}
	if appt.Status.Terminal() {
		log.Info("запись уже обработана", zap.String("status", string(appt.Status)))
		return "ℹ️ התור כבר טופל: " + statusLabel(appt.Status), nil
	}

	status := models.AppointmentRejected
	if approve {
		status = models.AppointmentApproved
	}
	appt, err = s.store.SetAppointmentStatus(cb.ctx, id, status)
	if err != nil {
		log.Error("ошибка при обновлении статуса записи", zap.Error(err))
		return "⚠️ השמירה נכשלה, נסו שוב", nil
	}
	log.Info("статус записи обновлен", zap.String("status", string(appt.Status)))

	adminText := appointmentNotification(appt) + "\n\n" + "סטטוס: " + statusLabel(appt.Status) +
		" · " + s.localNow().Format("02/01 15:04")
	if err := s.edit(cb, adminText, nil); err != nil {
		log.Warn("не удалось обновить сообщение администратора", zap.Error(err))
	}

	if err := s.notifier.NotifyUser(appt.UserID, statusNotification(appt)); err != nil {
		log.Warn("не удалось уведомить пользователя о решении", zap.Error(err))
	}

	if approve {
		return "✅ התור אושר", nil
	}
	return "❌ התור נדחה", nil
}
