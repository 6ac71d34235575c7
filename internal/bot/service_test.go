package bot

import (
	"bizassist/internal/models"
	"bizassist/internal/session"
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestStart_ProcessesUpdatesAndStops(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- env.svc.Start(ctx) }()

	env.tg.messages <- models.Message{ChatID: userID, UserID: userID, Text: captionFAQ}
	env.tg.callbacks <- models.CallbackQuery{ID: "1", UserID: userID, ChatID: userID, MessageID: 5, Data: "faq_payment"}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Start did not stop after cancel")
	}

	if len(env.tg.to(userID)) != 2 {
		t.Fatalf("expected FAQ list and answer, got %+v", env.tg.to(userID))
	}
	env.probe.mu.Lock()
	defer env.probe.mu.Unlock()
	if env.probe.ready || len(env.probe.history) != 2 || !env.probe.history[0] {
		t.Fatalf("expected ready=true then false, got %v", env.probe.history)
	}
	if env.probe.touches != 2 {
		t.Fatalf("expected 2 touches, got %d", env.probe.touches)
	}
}

func TestStart_ClosedChannel(t *testing.T) {
	env := newTestEnv(t)
	close(env.tg.messages)

	if err := env.svc.Start(context.Background()); err != ErrUpdatesClosed {
		t.Fatalf("expected ErrUpdatesClosed, got %v", err)
	}
}

func TestDispatch_RateLimited(t *testing.T) {
	env := newTestEnv(t)
	env.svc.limiter = NewRateLimiter(0.001, 1)

	env.svc.dispatchMessage(context.Background(), models.Message{ChatID: userID, UserID: userID, Text: captionFAQ})
	env.svc.dispatchMessage(context.Background(), models.Message{ChatID: userID, UserID: userID, Text: captionFAQ})

	if n := len(env.tg.to(userID)); n != 1 {
		t.Fatalf("expected second message to be dropped, got %d replies", n)
	}
	if !hasLog(env.logs, "превышен лимит") {
		t.Fatalf("expected rate limit log")
	}

	env.svc.dispatchCallback(context.Background(), models.CallbackQuery{ID: "x", UserID: userID, ChatID: userID, Data: "faq_hours"})
	if got := env.lastAnswer(t); !strings.Contains(got, "רגע") {
		t.Fatalf("expected slow-down ack, got %q", got)
	}
}

func TestRateLimiter_PerUser(t *testing.T) {
	l := NewRateLimiter(1, 2)
	now := time.Date(2026, 1, 13, 10, 0, 0, 0, time.UTC)

	if !l.AllowAt(1, now) || !l.AllowAt(1, now) {
		t.Fatalf("burst of 2 must pass")
	}
	if l.AllowAt(1, now) {
		t.Fatalf("third event in the same instant must be limited")
	}
	if !l.AllowAt(2, now) {
		t.Fatalf("other users are not affected")
	}
	if !l.AllowAt(1, now.Add(time.Second)) {
		t.Fatalf("token must refill after a second")
	}

	if removed := l.Forget(time.Minute, now.Add(2*time.Minute)); removed != 2 {
		t.Fatalf("expected 2 idle limiters removed, got %d", removed)
	}
}

func TestSessionSweeper_Sweep(t *testing.T) {
	sessions := session.NewManager(time.Nanosecond)
	sessions.Get(1)
	sessions.Get(2)
	time.Sleep(time.Millisecond)

	limiter := NewRateLimiter(1, 1)
	limiter.AllowAt(1, time.Now().Add(-time.Hour))

	sweeper := NewSessionSweeper(sessions, limiter, zap.NewNop(), time.Minute, time.Minute)
	sweeper.sweep(time.Now())

	if sessions.Len() != 0 {
		t.Fatalf("expected sessions to be swept, got %d", sessions.Len())
	}
	if limiter.Forget(0, time.Now().Add(-2*time.Hour)) != 0 {
		t.Fatalf("expected idle limiter to be forgotten")
	}
}

func TestFAQHours_UsesSchedule(t *testing.T) {
	env := newTestEnv(t)

	if got := env.svc.faqAnswer("hours"); !strings.Contains(got, "פתוח עכשיו") {
		t.Fatalf("Tuesday 10:00 must be open, got %q", got)
	}

	env.svc.now = func() time.Time { return time.Date(2026, 1, 16, 10, 0, 0, 0, time.UTC) }
	if got := env.svc.faqAnswer("hours"); !strings.Contains(got, "סגור כרגע") {
		t.Fatalf("Friday must be closed, got %q", got)
	}

	env.svc.now = func() time.Time { return time.Date(2026, 1, 13, 18, 0, 0, 0, time.UTC) }
	if env.svc.isOpenNow() {
		t.Fatalf("18:00 must be closed with end-exclusive policy")
	}
}

func TestShowLocation(t *testing.T) {
	env := newTestEnv(t)
	env.text(t, userID, captionLocation)
	if got := env.tg.last(t, userID); got.kind != "venue" || !strings.Contains(got.text, "רחוב הראשי") {
		t.Fatalf("expected venue, got %+v", got)
	}
}

func TestHandleMessage_LogsActiveFlow(t *testing.T) {
	env := newTestEnv(t)

	env.text(t, userID, captionContact)
	env.text(t, userID, "Dana")

	var flows []string
	for _, entry := range env.logs.FilterMessage("маршрутизация сообщения").All() {
		flows = append(flows, entry.ContextMap()["flow"].(string))
	}
	if len(flows) != 2 || flows[0] != "none" || flows[1] != "contact" {
		t.Fatalf("unexpected flow fields %v", flows)
	}
}

func TestNotifier_LogsDelivery(t *testing.T) {
	env := newTestEnv(t)
	env.claimAdmin(t)

	if err := env.svc.notifier.NotifyAdmin("ping", nil); err != nil {
		t.Fatalf("NotifyAdmin: %v", err)
	}
	if !hasLog(env.logs, "уведомление отправлено администратору") {
		t.Fatalf("expected delivery to be logged")
	}
}
