package store

import "bizassist/internal/models"

const (
	defaultBusinessPhone  = "03-1234567"
	defaultWorkingHours   = "א׳-ה׳ 09:00-18:00"
	defaultWelcomeMessage = "שלום! 👋\nברוכים הבאים לעוזר העסק בטלגרם. כאן אפשר לראות קטלוג קצר, לקבוע תור/הזמנה, לקבל תשובות מהירות וליצור קשר ישיר.\nאיך אוכל לעזור?"
)

func defaultDocument() Document {
	return Document{
		Leads:        []models.Lead{},
		Appointments: []models.Appointment{},
		Orders:       []models.Order{},
		Menu:         defaultMenu(),
		Settings: models.Settings{
			BusinessPhone:  defaultBusinessPhone,
			WorkingHours:   defaultWorkingHours,
			WelcomeMessage: defaultWelcomeMessage,
		},
	}
}

func defaultMenu() []models.MenuItem {
	return []models.MenuItem{
		{ID: "hummus_classic", Name: "חומוס קלאסי", Price: 18, Tags: []string{"טבעוני", "פופולרי"}, Allergens: []string{"שומשום"}, Image: "https://images.example.com/menu/hummus.jpg", Category: "starters"},
		{ID: "israeli_salad", Name: "סלט ישראלי", Price: 22, Tags: []string{"טבעוני"}, Allergens: []string{}, Image: "https://images.example.com/menu/salad.jpg", Category: "starters"},
		{ID: "falafel_plate", Name: "פלאפל (8 יח׳)", Price: 25, Tags: []string{"טבעוני"}, Allergens: []string{"גלוטן", "שומשום"}, Image: "https://images.example.com/menu/falafel.jpg", Category: "starters"},
		{ID: "shawarma_laffa", Name: "שווארמה בלאפה", Price: 35, Tags: []string{"פופולרי"}, Allergens: []string{"גלוטן", "שומשום"}, Image: "https://images.example.com/menu/shawarma.jpg", Category: "mains"},
		{ID: "burger_classic", Name: "המבורגר קלאסי + צ׳יפס", Price: 45, Tags: []string{"פופולרי"}, Allergens: []string{"גלוטן"}, Image: "https://images.example.com/menu/burger.jpg", Category: "mains"},
		{ID: "pizza_margherita", Name: "פיצה מרגריטה", Price: 52, Tags: []string{"צמחוני"}, Allergens: []string{"גלוטן", "חלב"}, Category: "mains"},
		{ID: "cola_can", Name: "קוקה קולה", Price: 8, Tags: []string{"שתייה"}, Allergens: []string{}, Category: "drinks"},
		{ID: "orange_juice", Name: "מיץ תפוזים טבעי", Price: 12, Tags: []string{"שתייה"}, Allergens: []string{}, Category: "drinks"},
		{ID: "tiramisu", Name: "טירמיסו איטלקי", Price: 28, Tags: []string{"קינוח"}, Allergens: []string{"גלוטן", "חלב", "ביצים"}, Category: "desserts"},
	}
}
