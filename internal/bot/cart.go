package bot

import (
	"bizassist/internal/models"
	"bizassist/internal/session"
	"bizassist/internal/utils"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const emptyCartText = "🛒 העגלה שלך ריקה\n\nבואו נוסיף משהו טעים!"

// showMenu отправляет фото блюд и список с кнопками добавления
func (s *Service) showMenu(chatID int64) error {
	items := s.store.Menu()
	s.sendMenuAlbum(chatID, items)
	return s.telegram.SendMessageWithInlineKeyboard(chatID, menuText(items), menuKeyboard(items))
}

// resolveCart сопоставляет корзину с текущим меню; позиции, которых больше нет в меню, пропускаются
func (s *Service) resolveCart(cart *session.Cart) []models.OrderLine {
	var lines []models.OrderLine
	for _, cl := range cart.Lines() {
		item, ok := s.store.MenuItem(cl.ItemID)
		if !ok {
			continue
		}
		lines = append(lines, models.OrderLine{
			ItemID:    item.ID,
			Name:      item.Name,
			UnitPrice: item.Price,
			Quantity:  cl.Quantity,
		})
	}
	return lines
}

func cartText(lines []models.OrderLine) string {
	var b strings.Builder
	b.WriteString("🛒 העגלה שלך:\n\n")
	for _, line := range lines {
		fmt.Fprintf(&b, "%s\n   %d × %s = %s\n", line.Name, line.Quantity,
			utils.FormatPrice(line.UnitPrice), utils.FormatPrice(line.Subtotal()))
	}
	fmt.Fprintf(&b, "\n💰 סה״כ: %s", utils.FormatPrice(models.OrderTotal(lines)))
	return b.String()
}

func emptyCartKeyboard() *tgbotapi.InlineKeyboardMarkup {
	return singleButtonKeyboard("🍽️ לתפריט", ShowMenu{})
}

// renderCart перерисовывает сообщение с корзиной
func (s *Service) renderCart(cb cbContext) error {
	lines := s.resolveCart(&cb.session.Cart)
	if len(lines) == 0 {
		return s.edit(cb, emptyCartText, emptyCartKeyboard())
	}
	return s.edit(cb, cartText(lines), cartKeyboard(lines))
}

func (s *Service) showCartMessage(sess *session.Session, chatID int64) error {
	lines := s.resolveCart(&sess.Cart)
	if len(lines) == 0 {
		return s.telegram.SendMessageWithInlineKeyboard(chatID, emptyCartText, *emptyCartKeyboard())
	}
	return s.telegram.SendMessageWithInlineKeyboard(chatID, cartText(lines), *cartKeyboard(lines))
}

func (s *Service) handleAddToCart(cb cbContext, itemID string) (string, error) {
	item, ok := s.store.MenuItem(itemID)
	if !ok {
		return "❌ פריט לא נמצא", nil
	}
	qty := cb.session.Cart.Add(item.ID)
	cb.logger.Debug("товар добавлен в корзину",
		zap.String("item_id", item.ID),
		zap.Int("quantity", qty),
	)
	return fmt.Sprintf("✅ %s נוסף לעגלה (×%d)", item.Name, qty), nil
}

func (s *Service) handleRemoveFromCart(cb cbContext, itemID string) (string, error) {
	left := cb.session.Cart.Remove(itemID)
	cb.logger.Debug("товар убран из корзины",
		zap.String("item_id", itemID),
		zap.Int("quantity", left),
	)
	return "➖ הוסר", s.renderCart(cb)
}

func (s *Service) handleClearCart(cb cbContext) (string, error) {
	cb.session.Cart.Clear()
	return "🗑️ העגלה נוקתה", s.edit(cb, "🛒 העגלה נוקתה בהצלחה!", emptyCartKeyboard())
}

// handleConfirmOrder оформляет заказ. Пустая корзина - ничего не создаётся.
// При ошибке сохранения корзина остаётся, пользователь может повторить.
func (s *Service) handleConfirmOrder(cb cbContext) (string, error) {
	lines := s.resolveCart(&cb.session.Cart)
	if len(lines) == 0 {
		cb.session.Cart.Clear()
		return "🛒 העגלה ריקה", nil
	}

	order, err := s.store.AddOrder(cb.ctx, models.Order{
		UserID: cb.query.UserID,
		Lines:  lines,
	})
	if err != nil {
		cb.logger.Error("ошибка при сохранении заказа", zap.Error(err))
		return "⚠️ השמירה נכשלה, נסו שוב", nil
	}
	cb.session.Cart.Clear()

	cb.logger.Info("заказ создан",
		zap.Int("order_id", order.ID),
		zap.Int("total", order.Total),
		zap.Int("lines", len(order.Lines)),
	)

	customer := cb.query.UserName
	if cb.query.UserLogin != "" {
		customer += " (@" + cb.query.UserLogin + ")"
	}
	if err := s.notifier.NotifyAdmin(orderNotification(order, customer), nil); err != nil {
		cb.logger.Warn("не удалось уведомить администратора о заказе",
			zap.Error(err),
			zap.Int("order_id", order.ID),
		)
	}

	text := fmt.Sprintf("🎉 ההזמנה התקבלה!\n\n📋 מספר הזמנה: #%d\n💰 סה״כ: %s\n\nנעדכן אותך כאן בצ'אט.",
		order.ID, utils.FormatPrice(order.Total))
	return "✅ ההזמנה נשלחה", s.edit(cb, text, singleButtonKeyboard(captionOrders, ShowOrders{}))
}
