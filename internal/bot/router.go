package bot

import (
	"bizassist/internal/models"
	"bizassist/internal/session"
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	menuHint       = "אנא בחר/י אחת מהאפשרויות בתפריט 👇"
	staleButton    = "⚠️ הכפתור כבר לא פעיל"
	saveFailedText = "⚠️ לא הצלחנו לשמור את הפרטים כרגע. נסו לשלוח שוב בעוד רגע."
)

const helpText = `🆘 עזרה

📋 פקודות:
• /start - התחלה
• /orders - ההזמנות שלי
• /cancel - ביטול הפעולה הנוכחית
• /help - עזרה

🛒 איך מזמינים:
1️⃣ לחצו על "` + captionMenu + `"
2️⃣ בחרו קטגוריה
3️⃣ הוסיפו פריטים לעגלה
4️⃣ אשרו את ההזמנה ב"` + captionCart + `"

❓ שאלות? "` + captionFAQ + `" או "` + captionContact + `"`

// msgContext - входящее сообщение вместе с сессией пользователя
type msgContext struct {
	ctx     context.Context
	msg     models.Message
	session *session.Session
	logger  *zap.Logger
}

// cbContext - нажатие кнопки вместе с сессией пользователя
type cbContext struct {
	ctx     context.Context
	query   models.CallbackQuery
	session *session.Session
	logger  *zap.Logger
}

// HandleMessage - основной обработчик входящих сообщений.
// Команды обрабатываются первыми, затем активный диалог, затем подписи главного меню.
func (s *Service) HandleMessage(ctx context.Context, msg models.Message, logger *zap.Logger) error {
	mc := msgContext{
		ctx:     ctx,
		msg:     msg,
		session: s.sessions.Get(msg.UserID),
		logger:  logger,
	}
	text := strings.TrimSpace(msg.Text)
	logger.Debug("маршрутизация сообщения", zap.String("flow", session.FlowName(mc.session.Flow)))

	if strings.HasPrefix(text, "/") && msg.ContactPhone == "" {
		return s.handleCommand(mc, commandName(text))
	}

	switch flow := mc.session.Flow.(type) {
	case *session.Contact:
		return s.handleContactInput(mc, flow)
	case *session.Appointment:
		return s.handleAppointmentInput(mc, flow)
	case *session.Support:
		return s.handleSupportInput(mc)
	}

	if msg.ContactPhone != "" {
		return s.replyMenu(msg.ChatID, menuHint)
	}
	return s.handleMenuText(mc, text)
}

// commandName отрезает аргументы и упоминание бота: "/start@bizbot x" -> "/start"
func commandName(text string) string {
	name, _, _ := strings.Cut(text, " ")
	name, _, _ = strings.Cut(name, "@")
	return name
}

func (s *Service) handleCommand(mc msgContext, name string) error {
	switch name {
	case "/start":
		return s.handleStart(mc)
	case "/cancel":
		s.sessions.Reset(mc.msg.UserID)
		return s.replyMenu(mc.msg.ChatID, "בוטל. חוזרים לתפריט הראשי 👇")
	case "/help":
		return s.replyMenu(mc.msg.ChatID, helpText)
	case "/orders":
		return s.showOrdersMessage(mc)
	case "/admin":
		return s.handleAdminPanel(mc)
	case "/export_leads":
		return s.handleExportLeads(mc)
	case "/export_appointments":
		return s.handleExportAppointments(mc)
	default:
		return s.replyMenu(mc.msg.ChatID, menuHint)
	}
}

// handleStart назначает администратора (первый пользователь) и показывает приветствие
func (s *Service) handleStart(mc msgContext) error {
	s.sessions.Reset(mc.msg.UserID)

	claimed, err := s.store.ClaimAdmin(mc.ctx, mc.msg.UserID)
	if err != nil {
		mc.logger.Error("не удалось сохранить администратора", zap.Error(err))
		return s.replyMenu(mc.msg.ChatID, saveFailedText)
	}
	if claimed {
		mc.logger.Info("назначен администратор бота")
		if err := s.telegram.SendMessage(mc.msg.ChatID, "🎉 הוגדרת כמנהל הבוט!"); err != nil {
			return err
		}
	}

	settings := s.store.Settings()
	text := settings.WelcomeMessage + "\n\n🕐 " + settings.WorkingHours + " · " + s.openStatusLine()
	return s.replyMenu(mc.msg.ChatID, text)
}

func (s *Service) handleMenuText(mc msgContext, text string) error {
	chatID := mc.msg.ChatID
	switch text {
	case captionCatalog:
		return s.showCatalog(chatID)
	case captionBooking:
		return s.startBooking(mc.session, chatID, "")
	case captionFAQ:
		return s.showFAQ(chatID)
	case captionContact:
		return s.startContact(mc.session, chatID)
	case captionMenu:
		return s.showMenu(chatID)
	case captionCart:
		return s.showCartMessage(mc.session, chatID)
	case captionLocation:
		return s.showLocation(chatID)
	case captionOrders:
		return s.showOrdersMessage(mc)
	default:
		return s.replyMenu(chatID, menuHint)
	}
}

func isMenuCaption(text string) bool {
	switch text {
	case captionCatalog, captionBooking, captionFAQ, captionContact, captionMenu, captionCart, captionLocation, captionOrders:
		return true
	}
	return false
}

// HandleCallback - обработчик нажатий на кнопки. На каждый callback отвечаем ровно один раз.
func (s *Service) HandleCallback(ctx context.Context, query models.CallbackQuery, logger *zap.Logger) error {
	cmd, err := DecodeCallback(query.Data)
	if err != nil {
		logger.Warn("неизвестная кнопка", zap.Error(err))
		return s.answer(query.ID, staleButton, logger)
	}

	cb := cbContext{
		ctx:     ctx,
		query:   query,
		session: s.sessions.Get(query.UserID),
		logger:  logger,
	}

	ack, handleErr := s.route(cb, cmd)
	if err := s.answer(query.ID, ack, logger); err != nil && handleErr == nil {
		return err
	}
	return handleErr
}

func (s *Service) route(cb cbContext, cmd Command) (string, error) {
	switch c := cmd.(type) {
	case MainMenu:
		return s.handleMainMenu(cb)
	case PackageDetails:
		return s.handlePackageDetails(cb, c.Package)
	case PackageInterest:
		return s.handlePackageInterest(cb, c.Package, false)
	case PackageQuote:
		return s.handlePackageInterest(cb, c.Package, true)
	case PackageSchedule:
		cb.session.Start(&session.Appointment{Step: session.AppointmentDate, Service: packages[c.Package].Name})
		return "", s.edit(cb, bookingPrompt, ptr(dateKeyboard(s.localNow())))
	case BackToCatalog:
		return "", s.edit(cb, catalogText, ptr(catalogKeyboard()))
	case SelectDate:
		return s.handleSelectDate(cb, c.Date)
	case SelectTime:
		return s.handleSelectTime(cb, c.Time)
	case BackToDates:
		return s.handleBackToDates(cb)
	case SelectInterest:
		return s.handleSelectInterest(cb, c.Topic)
	case ShowFAQ:
		return s.handleShowFAQ(cb, c.Topic)
	case BackToFAQ:
		return "", s.edit(cb, "שאלות נפוצות – לחצו לקבלת מענה מיידי:", ptr(faqKeyboard()))
	case HumanSupport:
		return s.handleHumanSupport(cb)
	case ApproveAppointment:
		return s.handleAppointmentDecision(cb, c.ID, true)
	case RejectAppointment:
		return s.handleAppointmentDecision(cb, c.ID, false)
	case ShowMenu:
		return "", s.edit(cb, menuText(s.store.Menu()), ptr(menuKeyboard(s.store.Menu())))
	case ShowCategory:
		return s.handleShowCategory(cb, c.Category)
	case AddToCart:
		return s.handleAddToCart(cb, c.ItemID)
	case RemoveFromCart:
		return s.handleRemoveFromCart(cb, c.ItemID)
	case ShowCart:
		return "", s.renderCart(cb)
	case ConfirmOrder:
		return s.handleConfirmOrder(cb)
	case ClearCart:
		return s.handleClearCart(cb)
	case ShowOrders:
		return s.handleShowOrders(cb)
	case ShowLocation:
		return "", s.showLocation(cb.query.ChatID)
	default:
		return staleButton, errors.New("команда без обработчика")
	}
}

// handleMainMenu закрывает активный диалог (корзина остаётся) и возвращает главное меню
func (s *Service) handleMainMenu(cb cbContext) (string, error) {
	cb.session.Flow = nil
	settings := s.store.Settings()
	if err := s.edit(cb, settings.WelcomeMessage, nil); err != nil {
		cb.logger.Warn("не удалось обновить сообщение", zap.Error(err))
	}
	return "", s.replyMenu(cb.query.ChatID, "איך אוכל לעזור?")
}

func (s *Service) answer(callbackID, text string, logger *zap.Logger) error {
	if err := s.telegram.AnswerCallback(callbackID, text); err != nil {
		logger.Warn("не удалось ответить на callback", zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) edit(cb cbContext, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error {
	return s.telegram.EditMessage(cb.query.ChatID, cb.query.MessageID, text, keyboard)
}

func (s *Service) replyMenu(chatID int64, text string) error {
	return s.telegram.SendMessageWithKeyboard(chatID, text, mainMenuKeyboard())
}

func ptr[T any](v T) *T {
	return &v
}
