package bot

import (
	"bizassist/internal/models"
	"bizassist/internal/utils"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Подписи главного меню
const (
	captionCatalog  = "🛍️ קטלוג קצר"
	captionBooking  = "📆 קביעת תור/הזמנה"
	captionFAQ      = "❓ שאלות ותמיכה"
	captionContact  = "📞 צור קשר"
	captionMenu     = "🍽️ תפריט והזמנה"
	captionCart     = "🛒 העגלה שלי"
	captionLocation = "📍 איך מגיעים"
	captionOrders   = "📋 ההזמנות שלי"
)

const (
	bookingDays      = 5
	datesPerRow      = 2
	timeSlotsPerRow  = 3
	categoriesPerRow = 2
)

// Слоты времени для записи
var timeSlots = []string{"09:00", "11:00", "13:00", "15:00", "17:00", "19:00"}

var hebrewWeekdays = [7]string{"א׳", "ב׳", "ג׳", "ד׳", "ה׳", "ו׳", "ש׳"}

func button(label string, cmd Command) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(label, cmd.Data())
}

func singleButtonKeyboard(label string, cmd Command) *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(button(label, cmd)))
	return &kb
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(captionCatalog), tgbotapi.NewKeyboardButton(captionBooking)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(captionMenu), tgbotapi.NewKeyboardButton(captionCart)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(captionFAQ), tgbotapi.NewKeyboardButton(captionContact)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(captionOrders), tgbotapi.NewKeyboardButton(captionLocation)),
	)
	kb.ResizeKeyboard = true
	return kb
}

// shareContactKeyboard - кнопка "поделиться контактом" для шага телефона
func shareContactKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewOneTimeReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonContact("📱 שיתוף מספר טלפון")),
	)
	kb.ResizeKeyboard = true
	return kb
}

func catalogKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(packageOrder)+1)
	for _, pkg := range packageOrder {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			button("🧾 פרטים", PackageDetails{Package: pkg}),
			button("💬 התעניינות", PackageInterest{Package: pkg}),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(button("⬅️ חזרה לתפריט", MainMenu{})))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func packageKeyboard(pkg string) *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(button("🗓️ לקבוע שיחה", PackageSchedule{Package: pkg})),
		tgbotapi.NewInlineKeyboardRow(button("🛒 לבקש הצעת מחיר", PackageQuote{Package: pkg})),
		tgbotapi.NewInlineKeyboardRow(button("⬅️ חזרה לקטלוג", BackToCatalog{})),
	)
	return &kb
}

func faqKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(faqOrder)+2)
	for _, topic := range faqOrder {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(faqTopics[topic], ShowFAQ{Topic: topic})))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(button("👨‍💻 נציג אנושי", HumanSupport{})),
		tgbotapi.NewInlineKeyboardRow(button("⬅️ חזרה לתפריט", MainMenu{})),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func interestKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(interestOrder))
	for _, topic := range interestOrder {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(interestLabels[topic], SelectInterest{Topic: topic})))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// bookingDates - ближайшие дни начиная с завтрашнего, в часовом поясе бизнеса
func bookingDates(now time.Time) []time.Time {
	y, m, d := now.Date()
	dates := make([]time.Time, 0, bookingDays)
	for i := 1; i <= bookingDays; i++ {
		dates = append(dates, time.Date(y, m, d+i, 0, 0, 0, 0, now.Location()))
	}
	return dates
}

func dateKeyboard(now time.Time) tgbotapi.InlineKeyboardMarkup {
	buttons := make([]tgbotapi.InlineKeyboardButton, 0, bookingDays)
	for _, date := range bookingDates(now) {
		label := fmt.Sprintf("%s (%s)", date.Format("02/01"), hebrewWeekdays[date.Weekday()])
		buttons = append(buttons, button(label, SelectDate{Date: date.Format(dateLayout)}))
	}

	rows := utils.Chunk(buttons, datesPerRow)
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(button("⬅️ חזרה לתפריט", MainMenu{})))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func timeKeyboard() *tgbotapi.InlineKeyboardMarkup {
	buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(timeSlots))
	for _, slot := range timeSlots {
		buttons = append(buttons, button(slot, SelectTime{Time: slot}))
	}

	rows := utils.Chunk(buttons, timeSlotsPerRow)
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(button("⬅️ חזרה לתאריכים", BackToDates{})))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func approvalKeyboard(appointmentID int) *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		button("✅ אישור", ApproveAppointment{ID: appointmentID}),
		button("❌ דחייה", RejectAppointment{ID: appointmentID}),
	))
	return &kb
}

func addButtonRow(item models.MenuItem) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		button(fmt.Sprintf("➕ %s (%s)", item.Name, utils.FormatPrice(item.Price)), AddToCart{ItemID: item.ID}),
	)
}

// menuKeyboard - кнопки разделов, затем кнопки добавления в порядке разделов
func menuKeyboard(items []models.MenuItem) tgbotapi.InlineKeyboardMarkup {
	sections := groupMenu(items)

	var categories []tgbotapi.InlineKeyboardButton
	for _, section := range sections {
		if section.Key != "" {
			categories = append(categories, button(section.Label, ShowCategory{Category: section.Key}))
		}
	}

	rows := utils.Chunk(categories, categoriesPerRow)
	for _, section := range sections {
		for _, item := range section.Items {
			rows = append(rows, addButtonRow(item))
		}
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(button("🛒 לעגלה", ShowCart{})))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func categoryKeyboard(items []models.MenuItem) *tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(items)+1)
	for _, item := range items {
		rows = append(rows, addButtonRow(item))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		button("⬅️ כל התפריט", ShowMenu{}),
		button("🛒 לעגלה", ShowCart{}),
	))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// ordersKeyboard - под историей заказов
func ordersKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		button("🍽️ לתפריט", ShowMenu{}),
		button("🛒 לעגלה", ShowCart{}),
	))
}

func cartKeyboard(lines []models.OrderLine) *tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(lines)+3)
	for _, line := range lines {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			button("➖ "+line.Name, RemoveFromCart{ItemID: line.ItemID}),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(button("✅ אישור הזמנה", ConfirmOrder{}), button("🗑️ רוקן עגלה", ClearCart{})),
		tgbotapi.NewInlineKeyboardRow(button("🍽️ המשך קניות", ShowMenu{})),
	)
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}
