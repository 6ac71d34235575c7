package bot

import (
	"bizassist/internal/session"

	"go.uber.org/zap"
)

func (s *Service) handleHumanSupport(cb cbContext) (string, error) {
	cb.session.Start(&session.Support{})
	text := "השאר/י הודעה קצרה – ונחזור אליך כאן בהקדם 💬"
	if !s.isOpenNow() {
		text += "\n\n🔴 כרגע אנחנו מחוץ לשעות הפעילות, נחזור אליך ביום העבודה הבא."
	}
	return "", s.edit(cb, text, nil)
}

// handleSupportInput пересылает одно сообщение администратору и закрывает диалог
func (s *Service) handleSupportInput(mc msgContext) error {
	if mc.msg.Text == "" {
		return s.telegram.SendMessage(mc.msg.ChatID, "נא לכתוב את הפנייה בהודעת טקסט 🙂")
	}

	if err := s.notifier.NotifyAdmin(supportNotification(mc.msg), nil); err != nil {
		mc.logger.Warn("не удалось переслать обращение администратору", zap.Error(err))
	} else {
		mc.logger.Info("обращение передано администратору")
	}

	s.sessions.Reset(mc.msg.UserID)
	return s.replyMenu(mc.msg.ChatID, "תודה! הפנייה התקבלה ✅\nנחזור אליך בהקדם.")
}
