package models

import "time"

type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentApproved  AppointmentStatus = "approved"
	AppointmentRejected  AppointmentStatus = "rejected"
	AppointmentCompleted AppointmentStatus = "completed"
)

// Terminal - статус больше не меняется через кнопки администратора
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentApproved || s == AppointmentRejected || s == AppointmentCompleted
}

type OrderStatus string

const (
	OrderStatusNew OrderStatus = "new"
)

type Lead struct {
	ID           int       `json:"id"`
	UserID       int64     `json:"user_id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	BusinessName string    `json:"business_name"`
	Interest     string    `json:"interest"`
	Source       string    `json:"source"`
	CreatedAt    time.Time `json:"date"`
}

type Appointment struct {
	ID        int               `json:"id"`
	UserID    int64             `json:"user_id"`
	Name      string            `json:"name"`
	Phone     string            `json:"phone"`
	Date      string            `json:"date"` // 2006-01-02
	Time      string            `json:"time"` // 15:04
	Service   string            `json:"service"`
	Status    AppointmentStatus `json:"status"`
	CreatedAt time.Time         `json:"created"`
}

type OrderLine struct {
	ItemID    string `json:"item_id"`
	Name      string `json:"name"`
	UnitPrice int    `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// Subtotal - стоимость строки заказа
func (l OrderLine) Subtotal() int {
	return l.UnitPrice * l.Quantity
}

type Order struct {
	ID        int         `json:"id"`
	UserID    int64       `json:"user_id"`
	Lines     []OrderLine `json:"items"`
	Total     int         `json:"total"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created"`
}

// OrderTotal пересчитывает сумму заказа по строкам
func OrderTotal(lines []OrderLine) int {
	total := 0
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

type Settings struct {
	AdminID        *int64 `json:"admin_id"`
	BusinessPhone  string `json:"business_phone"`
	WorkingHours   string `json:"working_hours"`
	WelcomeMessage string `json:"welcome_message"`
}

type MenuItem struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Price     int      `json:"price"`
	Tags      []string `json:"tags"`
	Allergens []string `json:"allergens"`
	Image     string   `json:"image"`
	// Category - ключ раздела меню (starters, mains, drinks, desserts)
	Category string `json:"category"`
}
