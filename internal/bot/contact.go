package bot

import (
	"bizassist/internal/models"
	"bizassist/internal/session"
	"bizassist/internal/utils"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	leadSource     = "דמו טלגרם"
	noBusinessWord = "אין"
	phonePrompt    = "📱 מספר טלפון נייד (אפשר גם ללחוץ על הכפתור לשיתוף):"
	phoneInvalid   = "❌ מספר הטלפון לא תקין.\nנא לשלוח מספר נייד, למשל 050-1234567, או ללחוץ על הכפתור לשיתוף."
)

func (s *Service) startContact(sess *session.Session, chatID int64) error {
	sess.Start(&session.Contact{Step: session.ContactName})
	return s.telegram.SendMessage(chatID, "נשמח לחזור אליך 👇\nאנא שתף/י את השם הפרטי:")
}

// handleContactInput - шаги формы контакта: имя -> бизнес -> интерес (кнопкой) -> телефон
func (s *Service) handleContactInput(mc msgContext, flow *session.Contact) error {
	chatID := mc.msg.ChatID
	text := strings.TrimSpace(mc.msg.Text)

	switch flow.Step {
	case session.ContactName:
		if text == "" {
			return s.telegram.SendMessage(chatID, "אנא שתף/י את השם הפרטי:")
		}
		flow.Name = text
		flow.Step = session.ContactBusiness
		return s.telegram.SendMessage(chatID, `תודה! שם העסק (אופציונלי - אפשר לכתוב "אין"):`)

	case session.ContactBusiness:
		if text == noBusinessWord {
			text = ""
		}
		flow.Business = text
		flow.Step = session.ContactInterest
		return s.telegram.SendMessageWithInlineKeyboard(chatID, "תחום העניין:", interestKeyboard())

	case session.ContactInterest:
		// на этом шаге ждём только кнопку
		if isMenuCaption(text) {
			mc.session.Flow = nil
			return s.handleMenuText(mc, text)
		}
		return s.telegram.SendMessageWithInlineKeyboard(chatID, "בחרו תחום עניין מהכפתורים 👇", interestKeyboard())

	case session.ContactPhone:
		return s.completeContact(mc, flow)
	}

	mc.logger.Warn("неизвестный шаг формы контакта", zap.Stringer("step", flow.Step))
	mc.session.Reset()
	return s.replyMenu(chatID, menuHint)
}

func (s *Service) handleSelectInterest(cb cbContext, topic string) (string, error) {
	flow, ok := cb.session.Contact()
	if !ok || flow.Step != session.ContactInterest {
		return staleButton, nil
	}

	flow.Interest = interestLabels[topic]
	if flow.Package != "" {
		flow.Interest += " · " + packages[flow.Package].Name
	}
	flow.Step = session.ContactPhone

	if err := s.edit(cb, "תחום העניין: "+flow.Interest, nil); err != nil {
		cb.logger.Warn("не удалось обновить сообщение", zap.Error(err))
	}
	return "", s.telegram.SendMessageWithKeyboard(cb.query.ChatID, phonePrompt, shareContactKeyboard())
}

// completeContact проверяет телефон и сохраняет лид. Неверный телефон - повтор того же шага.
func (s *Service) completeContact(mc msgContext, flow *session.Contact) error {
	phone, ok := phoneInput(mc.msg)
	if !ok {
		mc.logger.Info("неверный номер телефона в форме контакта")
		return s.telegram.SendMessageWithKeyboard(mc.msg.ChatID, phoneInvalid, shareContactKeyboard())
	}

	lead, updated, err := s.store.UpsertLead(mc.ctx, models.Lead{
		UserID:       mc.msg.UserID,
		Name:         flow.Name,
		Phone:        phone,
		BusinessName: flow.Business,
		Interest:     flow.Interest,
		Source:       leadSource,
	})
	if err != nil {
		mc.logger.Error("ошибка при сохранении лида", zap.Error(err))
		return s.telegram.SendMessage(mc.msg.ChatID, saveFailedText)
	}

	mc.logger.Info("лид сохранен",
		zap.Int("lead_id", lead.ID),
		zap.Bool("updated", updated),
	)

	if err := s.notifier.NotifyAdmin(leadNotification(lead, updated), nil); err != nil {
		mc.logger.Warn("не удалось уведомить администратора о лиде",
			zap.Error(err),
			zap.Int("lead_id", lead.ID),
		)
	}

	s.sessions.Reset(mc.msg.UserID)
	return s.replyMenu(mc.msg.ChatID, fmt.Sprintf("תודה! קיבלנו את הפרטים ✅\nמספר פנייה: #%d\nמנהל יחזור אליך בהקדם.", lead.ID))
}

// phoneInput берёт телефон из текста или из отправленного контакта и нормализует его
func phoneInput(msg models.Message) (string, bool) {
	raw := msg.Text
	if msg.ContactPhone != "" {
		raw = msg.ContactPhone
	}
	if !utils.ValidPhone(raw) {
		return "", false
	}
	return utils.NormalizePhone(raw), true
}
