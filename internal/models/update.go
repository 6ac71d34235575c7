package models

// Message - входящее текстовое сообщение (или отправленный контакт)
type Message struct {
	ChatID       int64
	UserID       int64
	Text         string
	Username     string
	FullName     string
	ContactPhone string // заполнено, если пользователь поделился контактом
}

type CallbackQuery struct {
	ID        string // ID callback запроса
	UserID    int64  // ID пользователя, который нажал на кнопку
	UserName  string // Имя пользователя
	UserLogin string // Логин пользователя в Telegram
	MessageID int    // ID сообщения с кнопкой
	ChatID    int64  // ID чата, где была нажата кнопка
	Data      string // Данные кнопки, например "approve_appt_42"
}

// Photo - элемент альбома
type Photo struct {
	URL     string
	Caption string
}
