package telegram

import (
	"bizassist/internal/models"
	"bizassist/internal/utils"
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Telegram принимает не больше 10 фото в одном альбоме
const maxAlbumSize = 10

type TelegramClient struct {
	bot    *tgbotapi.BotAPI
	logger *zap.Logger
}

func NewTelegramClient(token string, logger *zap.Logger) (*TelegramClient, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("error creating telegram client: %w", err)
	}
	logger.Info("авторизация в Telegram", zap.String("bot", bot.Self.UserName))

	return &TelegramClient{
		bot:    bot,
		logger: logger,
	}, nil
}

func (t *TelegramClient) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := t.bot.Send(msg)
	return err
}

func (t *TelegramClient) SendMessageWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	_, err := t.bot.Send(msg)
	return err
}

func (t *TelegramClient) SendMessageWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	_, err := t.bot.Send(msg)
	return err
}

// EditMessage заменяет текст сообщения; без клавиатуры кнопки убираются
func (t *TelegramClient) EditMessage(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ReplyMarkup = keyboard
	_, err := t.bot.Send(edit)
	return err
}

// AnswerCallback убирает индикатор загрузки у кнопки; непустой text показывается всплывающей подсказкой
func (t *TelegramClient) AnswerCallback(callbackID string, text string) error {
	_, err := t.bot.Request(tgbotapi.NewCallback(callbackID, text))
	return err
}

func (t *TelegramClient) SendVenue(chatID int64, latitude, longitude float64, title, address string) error {
	_, err := t.bot.Send(tgbotapi.NewVenue(chatID, title, address, latitude, longitude))
	return err
}

// SendAlbum отправляет фото альбомами по 10 штук
func (t *TelegramClient) SendAlbum(chatID int64, photos []models.Photo) error {
	for _, chunk := range utils.Chunk(photos, maxAlbumSize) {
		media := make([]interface{}, 0, len(chunk))
		for _, p := range chunk {
			item := tgbotapi.NewInputMediaPhoto(tgbotapi.FileURL(p.URL))
			item.Caption = p.Caption
			media = append(media, item)
		}
		if _, err := t.bot.SendMediaGroup(tgbotapi.NewMediaGroup(chatID, media)); err != nil {
			return err
		}
	}
	return nil
}

func (t *TelegramClient) SendPhoto(chatID int64, photo models.Photo) error {
	msg := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(photo.URL))
	msg.Caption = photo.Caption
	_, err := t.bot.Send(msg)
	return err
}

func (t *TelegramClient) SendDocument(chatID int64, fileName string, data []byte, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: fileName, Bytes: data})
	doc.Caption = caption
	_, err := t.bot.Send(doc)
	return err
}

// Единый метод обработки обновлений. Каналы закрываются после отмены ctx.
func (t *TelegramClient) StartBot(ctx context.Context) (<-chan models.Message, <-chan models.CallbackQuery, error) {
	// Удаляем вебхук перед запуском Long Polling
	if _, err := t.bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return nil, nil, fmt.Errorf("failed to delete webhook: %w", err)
	}

	userMessages := make(chan models.Message)
	callbackQueries := make(chan models.CallbackQuery)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := t.bot.GetUpdatesChan(u)

	go func() {
		defer close(userMessages)
		defer close(callbackQueries)

		for {
			select {
			case <-ctx.Done():
				t.bot.StopReceivingUpdates()
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				if msg, ok := messageFromUpdate(update); ok {
					select {
					case userMessages <- msg:
					case <-ctx.Done():
						t.bot.StopReceivingUpdates()
						return
					}
				}
				if cb, ok := callbackFromUpdate(update); ok {
					select {
					case callbackQueries <- cb:
					case <-ctx.Done():
						t.bot.StopReceivingUpdates()
						return
					}
				}
			}
		}
	}()

	return userMessages, callbackQueries, nil
}

// messageFromUpdate - текст или отправленный контакт из личного сообщения
func messageFromUpdate(update tgbotapi.Update) (models.Message, bool) {
	m := update.Message
	if m == nil || m.From == nil || m.Chat == nil {
		return models.Message{}, false
	}

	fullName := m.From.FirstName
	if m.From.LastName != "" {
		fullName += " " + m.From.LastName
	}

	msg := models.Message{
		ChatID:   m.Chat.ID,
		UserID:   m.From.ID,
		Text:     m.Text,
		Username: m.From.UserName,
		FullName: fullName,
	}
	if m.Contact != nil {
		msg.ContactPhone = m.Contact.PhoneNumber
	}
	if msg.Text == "" && msg.ContactPhone == "" {
		return models.Message{}, false
	}
	return msg, true
}

func callbackFromUpdate(update tgbotapi.Update) (models.CallbackQuery, bool) {
	q := update.CallbackQuery
	if q == nil || q.From == nil {
		return models.CallbackQuery{}, false
	}

	userName := q.From.FirstName
	if q.From.LastName != "" {
		userName += " " + q.From.LastName
	}

	cb := models.CallbackQuery{
		ID:        q.ID,
		UserID:    q.From.ID,
		UserName:  userName,
		UserLogin: q.From.UserName,
		ChatID:    q.From.ID,
		Data:      q.Data,
	}
	if q.Message != nil {
		cb.MessageID = q.Message.MessageID
		if q.Message.Chat != nil {
			cb.ChatID = q.Message.Chat.ID
		}
	}
	return cb, true
}
