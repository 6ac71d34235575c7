package bot

import (
	"bizassist/internal/models"
	"bizassist/internal/utils"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	recentOrdersLimit = 5
	noOrdersText      = "📋 עדיין לא ביצעת הזמנות\n\nבואו נתחיל! 🛒"
)

func orderStatusLabel(status models.OrderStatus) string {
	switch status {
	case models.OrderStatusNew:
		return "⏳ התקבלה"
	default:
		return string(status)
	}
}

// ordersText - последние заказы пользователя с датой, суммой и статусом
func (s *Service) ordersText(orders []models.Order) string {
	var b strings.Builder
	b.WriteString("📋 ההזמנות שלך:\n")
	for _, o := range orders {
		fmt.Fprintf(&b, "\n#%d · %s · %s\n📊 %s\n",
			o.ID, o.CreatedAt.In(s.loc).Format("02.01.2006"), utils.FormatPrice(o.Total), orderStatusLabel(o.Status))
	}
	return b.String()
}

func (s *Service) showOrdersMessage(mc msgContext) error {
	orders := s.store.UserOrders(mc.msg.UserID, recentOrdersLimit)
	mc.logger.Debug("история заказов", zap.Int("orders", len(orders)))
	if len(orders) == 0 {
		return s.telegram.SendMessageWithInlineKeyboard(mc.msg.ChatID, noOrdersText, *emptyCartKeyboard())
	}
	return s.telegram.SendMessageWithInlineKeyboard(mc.msg.ChatID, s.ordersText(orders), ordersKeyboard())
}

func (s *Service) handleShowOrders(cb cbContext) (string, error) {
	orders := s.store.UserOrders(cb.query.UserID, recentOrdersLimit)
	if len(orders) == 0 {
		return "", s.edit(cb, noOrdersText, emptyCartKeyboard())
	}
	return "", s.edit(cb, s.ordersText(orders), ptr(ordersKeyboard()))
}
