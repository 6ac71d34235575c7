package bot

import (
	"bizassist/internal/config"
	"bizassist/internal/models"
	"bizassist/internal/schedule"
	"bizassist/internal/session"
	"bizassist/internal/store"
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// TelegramClient - интерфейс для взаимодействия с Telegram API
type TelegramClient interface {
	// Базовые методы отправки сообщений
	SendMessage(chatID int64, text string) error
	SendMessageWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) error
	SendMessageWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error

	// EditMessage заменяет текст сообщения с кнопками; keyboard == nil убирает кнопки
	EditMessage(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error
	AnswerCallback(callbackID string, text string) error

	// Медиа и файлы
	SendVenue(chatID int64, latitude, longitude float64, title, address string) error
	SendAlbum(chatID int64, photos []models.Photo) error
	SendPhoto(chatID int64, photo models.Photo) error
	SendDocument(chatID int64, fileName string, data []byte, caption string) error

	// Метод для получения обновлений; каналы закрываются после отмены ctx
	StartBot(ctx context.Context) (<-chan models.Message, <-chan models.CallbackQuery, error)
}

// Probe - флаг живости, который читают health-эндпоинты
type Probe interface {
	SetReady(ready bool)
	Touch()
}

// Options - настройки сервиса, не относящиеся к зависимостям
type Options struct {
	Business  config.Business
	Location  *time.Location
	Policy    schedule.Policy
	RateLimit config.RateLimit
	// Tracer по умолчанию берётся из глобального провайдера otel
	Tracer trace.Tracer
	// Probe может быть nil
	Probe Probe
}

// Service - основной сервис бота
type Service struct {
	telegram TelegramClient
	store    *store.Store
	sessions *session.Manager
	notifier *Notifier
	limiter  *RateLimiter
	business config.Business
	loc      *time.Location
	policy   schedule.Policy
	tracer   trace.Tracer
	probe    Probe
	logger   *zap.Logger
	now      func() time.Time
}
