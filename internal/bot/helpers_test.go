package bot

import (
	"bizassist/internal/config"
	"bizassist/internal/models"
	"bizassist/internal/schedule"
	"bizassist/internal/session"
	"bizassist/internal/store"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	adminID = int64(1)
	userID  = int64(2)
)

var errBlocked = errors.New("Forbidden: bot was blocked by the user")

type sentItem struct {
	kind     string
	chatID   int64
	text     string
	inline   *tgbotapi.InlineKeyboardMarkup
	reply    *tgbotapi.ReplyKeyboardMarkup
	fileName string
	data     []byte
}

type fakeTelegram struct {
	mu       sync.Mutex
	sent     []sentItem
	failChat map[int64]error
	albumErr error
	photoErr error

	messages  chan models.Message
	callbacks chan models.CallbackQuery
}

func newFakeTelegram() *fakeTelegram {
	return &fakeTelegram{
		failChat:  make(map[int64]error),
		messages:  make(chan models.Message),
		callbacks: make(chan models.CallbackQuery),
	}
}

func (f *fakeTelegram) record(item sentItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failChat[item.chatID]; err != nil && item.kind != "answer" {
		return err
	}
	f.sent = append(f.sent, item)
	return nil
}

func (f *fakeTelegram) SendMessage(chatID int64, text string) error {
	return f.record(sentItem{kind: "message", chatID: chatID, text: text})
}

func (f *fakeTelegram) SendMessageWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) error {
	return f.record(sentItem{kind: "message", chatID: chatID, text: text, reply: &keyboard})
}

func (f *fakeTelegram) SendMessageWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	return f.record(sentItem{kind: "message", chatID: chatID, text: text, inline: &keyboard})
}

func (f *fakeTelegram) EditMessage(chatID int64, _ int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error {
	return f.record(sentItem{kind: "edit", chatID: chatID, text: text, inline: keyboard})
}

func (f *fakeTelegram) AnswerCallback(_ string, text string) error {
	return f.record(sentItem{kind: "answer", text: text})
}

func (f *fakeTelegram) SendVenue(chatID int64, _, _ float64, title, address string) error {
	return f.record(sentItem{kind: "venue", chatID: chatID, text: title + " " + address})
}

func (f *fakeTelegram) SendAlbum(chatID int64, photos []models.Photo) error {
	if f.albumErr != nil {
		return f.albumErr
	}
	return f.record(sentItem{kind: "album", chatID: chatID, text: photos[0].Caption})
}

func (f *fakeTelegram) SendPhoto(chatID int64, photo models.Photo) error {
	if f.photoErr != nil {
		return f.photoErr
	}
	return f.record(sentItem{kind: "photo", chatID: chatID, text: photo.Caption})
}

func (f *fakeTelegram) SendDocument(chatID int64, fileName string, data []byte, caption string) error {
	return f.record(sentItem{kind: "document", chatID: chatID, text: caption, fileName: fileName, data: data})
}

func (f *fakeTelegram) StartBot(context.Context) (<-chan models.Message, <-chan models.CallbackQuery, error) {
	return f.messages, f.callbacks, nil
}

func (f *fakeTelegram) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
}

// to возвращает всё, что отправлено в чат (кроме ответов на callback)
func (f *fakeTelegram) to(chatID int64) []sentItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentItem
	for _, s := range f.sent {
		if s.kind != "answer" && s.chatID == chatID {
			out = append(out, s)
		}
	}
	return out
}

func (f *fakeTelegram) last(t *testing.T, chatID int64) sentItem {
	t.Helper()
	items := f.to(chatID)
	if len(items) == 0 {
		t.Fatalf("nothing sent to chat %d", chatID)
	}
	return items[len(items)-1]
}

func (f *fakeTelegram) answers() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, s := range f.sent {
		if s.kind == "answer" {
			out = append(out, s.text)
		}
	}
	return out
}

type memBackend struct {
	mu      sync.Mutex
	data    []byte
	failErr error
}

func (b *memBackend) Load(context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.data == nil {
		return nil, store.ErrNoDocument
	}
	return b.data, nil
}

func (b *memBackend) Save(_ context.Context, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failErr != nil {
		return b.failErr
	}
	b.data = append([]byte(nil), data...)
	return nil
}

func (b *memBackend) fail(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failErr = err
}

type fakeProbe struct {
	mu      sync.Mutex
	ready   bool
	touches int
	history []bool
}

func (p *fakeProbe) SetReady(ready bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ready = ready
	p.history = append(p.history, ready)
}

func (p *fakeProbe) Touch() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.touches++
}

type testEnv struct {
	svc     *Service
	tg      *fakeTelegram
	store   *store.Store
	backend *memBackend
	logs    *observer.ObservedLogs
	probe   *fakeProbe
}

// Вторник, 13 января 2026, 10:00 UTC
var testNow = time.Date(2026, 1, 13, 10, 0, 0, 0, time.UTC)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	backend := &memBackend{}
	st, err := store.New(context.Background(), backend, logger)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}

	tg := newFakeTelegram()
	probe := &fakeProbe{}
	svc := NewService(tg, st, session.NewManager(time.Hour), logger, Options{
		Business: config.Business{
			Name:      "העסק שלנו",
			Address:   "רחוב הראשי 123",
			Latitude:  32.0853,
			Longitude: 34.7818,
		},
		Location:  time.UTC,
		Policy:    schedule.EndExclusive,
		RateLimit: config.RateLimit{PerSecond: 0},
		Probe:     probe,
	})
	svc.now = func() time.Time { return testNow }

	return &testEnv{svc: svc, tg: tg, store: st, backend: backend, logs: logs, probe: probe}
}

func (e *testEnv) text(t *testing.T, from int64, text string) {
	t.Helper()
	msg := models.Message{ChatID: from, UserID: from, Text: text, FullName: "User", Username: "user"}
	if err := e.svc.HandleMessage(context.Background(), msg, e.svc.logger); err != nil {
		t.Fatalf("HandleMessage(%q): %v", text, err)
	}
}

func (e *testEnv) press(t *testing.T, from int64, cmd Command) {
	t.Helper()
	e.pressData(t, from, cmd.Data())
}

func (e *testEnv) pressData(t *testing.T, from int64, data string) {
	t.Helper()
	cb := models.CallbackQuery{ID: "cb", UserID: from, UserName: "User", ChatID: from, MessageID: 10, Data: data}
	if err := e.svc.HandleCallback(context.Background(), cb, e.svc.logger); err != nil {
		t.Fatalf("HandleCallback(%q): %v", data, err)
	}
}

// claimAdmin - первый /start делает пользователя администратором
func (e *testEnv) claimAdmin(t *testing.T) {
	t.Helper()
	e.text(t, adminID, "/start")
	if !e.store.IsAdmin(adminID) {
		t.Fatalf("expected user %d to become admin", adminID)
	}
	e.tg.reset()
}

func (e *testEnv) lastAnswer(t *testing.T) string {
	t.Helper()
	answers := e.tg.answers()
	if len(answers) == 0 {
		t.Fatalf("no callback answers")
	}
	return answers[len(answers)-1]
}

func buttonData(kb *tgbotapi.InlineKeyboardMarkup) []string {
	if kb == nil {
		return nil
	}
	var out []string
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			if b.CallbackData != nil {
				out = append(out, *b.CallbackData)
			}
		}
	}
	return out
}

func hasLog(logs *observer.ObservedLogs, substr string) bool {
	for _, entry := range logs.All() {
		if strings.Contains(entry.Message, substr) {
			return true
		}
	}
	return false
}
