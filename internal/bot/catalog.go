package bot

import (
	"bizassist/internal/models"
	"bizassist/internal/session"
	"bizassist/internal/utils"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

type servicePackage struct {
	Name    string
	Details string
}

// Пакеты услуг для каталога
var packages = map[string]servicePackage{
	"basic": {
		Name: "חבילת הבסיס",
		Details: `חבילת בסיס - פרטים מלאים

✅ הקמת מערכת בסיסית ויעילה
✅ הדרכה והטמעה מלאה
✅ תמיכה טכנית לשלושה חודשים
✅ עדכונים ותחזוקה שוטפת
✅ גיבוי אוטומטי של כל הנתונים

💰 149 ₪ לחודש`,
	},
	"plus": {
		Name: "חבילת הפלוס",
		Details: `חבילת פלוס - פרטים מלאים

✅ כל מה שכלול בחבילת הבסיס
✅ התאמות אישיות לפי הצרכים
✅ דוחות ניתוח מתקדמים
✅ אינטגרציה עם מערכות קיימות
✅ תמיכה מורחבת 24/6

💰 349 ₪ לחודש`,
	},
	"pro": {
		Name: "חבילת הפרו",
		Details: `חבילת פרו - פרטים מלאים

✅ כל מה שכלול בחבילות הקודמות
✅ פתרון מותאם 100% לעסק
✅ תמיכה VIP 24/7
✅ יועץ אישי ייעודי
✅ עדכונים והתאמות ללא הגבלה

💰 749 ₪ לחודש`,
	},
}

var packageOrder = []string{"basic", "plus", "pro"}

const catalogText = `הנה טעימה מהשירותים/מוצרים הפופולריים שלנו:

📦 חבילת בסיס - "מתאים להתחלה מהירה"
• פתרון בסיסי ויעיל לכל עסק
• כולל הכל הדרוש להתחלה
• תמיכה מלאה ושירות לקוחות
💰 149 ₪

📦 חבילת פלוס - "כולל תוספות חשובות"
• כל מה שיש בחבילת הבסיס
• תוספות מתקדמות ומותאמות אישית
• דוחות וניתוח מתקדם
💰 349 ₪

📦 חבילת פרו - "למי שרוצה מקסימום"
• הפתרון הכי מתקדם שיש לנו
• תמיכה 24/7 ושירות VIP
• התאמות מלאות לפי דרישה
💰 749 ₪`

// Тематики формы контакта
var interestLabels = map[string]string{
	"website":   "🌐 אתר אינטרנט",
	"bot":       "🤖 בוט/אוטומציה",
	"marketing": "📈 שיווק דיגיטלי",
	"other":     "🔧 אחר",
}

var interestOrder = []string{"website", "bot", "marketing", "other"}

var faqTopics = map[string]string{
	"hours":    "⏰ שעות פעילות",
	"delivery": "🚚 משלוחים/שירות מרחוק",
	"payment":  "💳 תשלום וקבלות",
	"invoice":  "🧾 חשבונית",
}

var faqOrder = []string{"hours", "delivery", "payment", "invoice"}

var faqAnswers = map[string]string{
	"delivery": `🚚 משלוחים ושירות מרחוק:

• שירות מרחוק זמין לכל הארץ
• התקנה והדרכה מקוונת
• תמיכה טכנית דרך טלפון/צ'אט
• ביקור במקום (אזור המרכז) - בתיאום מראש`,
	"payment": `💳 תשלום וקבלות:

• העברה בנקאית / אשראי
• תשלום חודשי או שנתי
• חשבונית + קבלה לכל תשלום
• הנחה לתשלום שנתי מראש`,
	"invoice": `🧾 חשבונית:

• חשבונית מס מלאה לכל עסקה
• נשלחת אוטומטית למייל
• אפשרות להדפסה/הורדה
• שמירה במערכת לשנים`,
}

// faqAnswer - ответ на вопрос; часы работы берутся из настроек и дополняются статусом "открыто сейчас"
func (s *Service) faqAnswer(topic string) string {
	if topic != "hours" {
		return faqAnswers[topic]
	}
	settings := s.store.Settings()
	return fmt.Sprintf("⏰ שעות הפעילות שלנו:\n\n%s\n\n%s\n\nבזמנים אחרים אפשר להשאיר הודעה ונחזור בהקדם!",
		settings.WorkingHours, s.openStatusLine())
}

func (s *Service) openStatusLine() string {
	if s.isOpenNow() {
		return "🟢 פתוח עכשיו"
	}
	return "🔴 סגור כרגע"
}

func (s *Service) showCatalog(chatID int64) error {
	return s.telegram.SendMessageWithInlineKeyboard(chatID, catalogText, catalogKeyboard())
}

func (s *Service) showFAQ(chatID int64) error {
	return s.telegram.SendMessageWithInlineKeyboard(chatID, "שאלות נפוצות – לחצו לקבלת מענה מיידי:", faqKeyboard())
}

func (s *Service) showLocation(chatID int64) error {
	return s.telegram.SendVenue(chatID, s.business.Latitude, s.business.Longitude, s.business.Name, s.business.Address)
}

func (s *Service) handlePackageDetails(cb cbContext, pkg string) (string, error) {
	return "", s.edit(cb, packages[pkg].Details, packageKeyboard(pkg))
}

// handlePackageInterest открывает форму контакта с привязкой к пакету
func (s *Service) handlePackageInterest(cb cbContext, pkg string, quote bool) (string, error) {
	cb.session.Start(&session.Contact{Step: session.ContactName, Package: pkg})
	text := fmt.Sprintf("מעולה! אתם מתעניינים ב%s 👍\nבואו נתחיל - מה השם הפרטי?", packages[pkg].Name)
	if quote {
		text = fmt.Sprintf("🛒 הצעת מחיר עבור %s\nנשמח להכין הצעה מותאמת - מה השם הפרטי?", packages[pkg].Name)
	}
	return "", s.edit(cb, text, nil)
}

func (s *Service) handleShowFAQ(cb cbContext, topic string) (string, error) {
	return "", s.edit(cb, s.faqAnswer(topic), singleButtonKeyboard("⬅️ חזרה לשאלות", BackToFAQ{}))
}

// menuItemLine - строка блюда в меню
func menuItemLine(item models.MenuItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "• %s – %s", item.Name, utils.FormatPrice(item.Price))
	if len(item.Tags) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(item.Tags, ", "))
	}
	if len(item.Allergens) > 0 {
		fmt.Fprintf(&b, "\n   ⚠️ אלרגנים: %s", strings.Join(item.Allergens, ", "))
	}
	return b.String()
}

// Разделы меню в порядке показа
var (
	menuCategories = map[string]string{
		"starters": "🥗 מנות פתיחה",
		"mains":    "🍖 מנות עיקריות",
		"drinks":   "🥤 משקאות",
		"desserts": "🍰 קינוחים",
	}
	categoryOrder = []string{"starters", "mains", "drinks", "desserts"}
)

const otherCategoryLabel = "🍽️ עוד"

// menuSection - раздел меню с блюдами; блюда без известного раздела попадают в "עוד"
type menuSection struct {
	Key   string
	Label string
	Items []models.MenuItem
}

func groupMenu(items []models.MenuItem) []menuSection {
	byKey := make(map[string][]models.MenuItem)
	var other []models.MenuItem
	for _, item := range items {
		if _, known := menuCategories[item.Category]; known {
			byKey[item.Category] = append(byKey[item.Category], item)
			continue
		}
		other = append(other, item)
	}

	var sections []menuSection
	for _, key := range categoryOrder {
		if len(byKey[key]) > 0 {
			sections = append(sections, menuSection{Key: key, Label: menuCategories[key], Items: byKey[key]})
		}
	}
	if len(other) > 0 {
		sections = append(sections, menuSection{Label: otherCategoryLabel, Items: other})
	}
	return sections
}

func menuText(items []models.MenuItem) string {
	lines := []string{"🍽️ התפריט שלנו:"}
	for _, section := range groupMenu(items) {
		lines = append(lines, "", section.Label)
		for _, item := range section.Items {
			lines = append(lines, menuItemLine(item))
		}
	}
	lines = append(lines, "\nלחצו ➕ כדי להוסיף לעגלה")
	return strings.Join(lines, "\n")
}

func categoryText(label string, items []models.MenuItem) string {
	lines := []string{label, ""}
	for _, item := range items {
		lines = append(lines, menuItemLine(item))
	}
	return strings.Join(lines, "\n")
}

// handleShowCategory показывает только блюда выбранного раздела
func (s *Service) handleShowCategory(cb cbContext, category string) (string, error) {
	var items []models.MenuItem
	for _, item := range s.store.Menu() {
		if item.Category == category {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return "❌ לא נמצאו פריטים בקטגוריה זו", nil
	}
	return "", s.edit(cb, categoryText(menuCategories[category], items), categoryKeyboard(items))
}

// sendMenuAlbum отправляет фото блюд альбомом; при ошибке пробует по одной фотографии,
// а если не отправилось и фото - отправляет подпись текстом
func (s *Service) sendMenuAlbum(chatID int64, items []models.MenuItem) {
	var photos []models.Photo
	for _, item := range items {
		if item.Image == "" {
			continue
		}
		photos = append(photos, models.Photo{
			URL:     item.Image,
			Caption: fmt.Sprintf("%s – %s", item.Name, utils.FormatPrice(item.Price)),
		})
	}
	if len(photos) == 0 {
		return
	}

	err := s.telegram.SendAlbum(chatID, photos)
	if err == nil {
		return
	}
	s.logger.Warn("не удалось отправить альбом, отправляем по одной",
		zap.Error(err),
		zap.Int64("chat_id", chatID),
		zap.Int("photos", len(photos)),
	)

	for _, photo := range photos {
		if err := s.telegram.SendPhoto(chatID, photo); err != nil {
			s.logger.Warn("не удалось отправить фото",
				zap.Error(err),
				zap.String("url", photo.URL),
			)
			if err := s.telegram.SendMessage(chatID, "📷 "+photo.Caption); err != nil {
				s.logger.Error("не удалось отправить подпись фото", zap.Error(err))
			}
		}
	}
}
