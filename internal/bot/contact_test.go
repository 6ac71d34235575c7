package bot

import (
	"bizassist/internal/session"
	"strings"
	"testing"
)

func submitContact(t *testing.T, env *testEnv, name, business, topic, phone string) {
	t.Helper()
	env.text(t, userID, captionContact)
	env.text(t, userID, name)
	env.text(t, userID, business)
	env.press(t, userID, SelectInterest{Topic: topic})
	env.text(t, userID, phone)
}

func TestContact_CreatesLead(t *testing.T) {
	env := newTestEnv(t)
	env.claimAdmin(t)

	submitContact(t, env, "Dana", "אין", "bot", "050-123-4567")

	leads := env.store.Leads()
	if len(leads) != 1 {
		t.Fatalf("expected 1 lead, got %d", len(leads))
	}
	lead := leads[0]
	if lead.Name != "Dana" || lead.BusinessName != "" || lead.Phone != "0501234567" || lead.Source != leadSource {
		t.Fatalf("unexpected lead %+v", lead)
	}
	if lead.Interest != interestLabels["bot"] {
		t.Fatalf("unexpected interest %q", lead.Interest)
	}
	if !strings.Contains(env.tg.last(t, userID).text, "#1") {
		t.Fatalf("expected lead id in confirmation, got %q", env.tg.last(t, userID).text)
	}
	if !strings.Contains(env.tg.last(t, adminID).text, "ליד חדש") {
		t.Fatalf("expected admin notification")
	}
	if env.svc.sessions.Get(userID).Flow != nil {
		t.Fatalf("expected session to be cleared")
	}
}

func TestContact_Dedup(t *testing.T) {
	env := newTestEnv(t)

	submitContact(t, env, "Dana", "Cafe", "website", "0501234567")
	submitContact(t, env, "Dana Levi", "Bakery", "marketing", "050 123 4567")

	leads := env.store.Leads()
	if len(leads) != 1 {
		t.Fatalf("expected a single lead, got %d", len(leads))
	}
	if leads[0].Name != "Dana Levi" || leads[0].BusinessName != "Bakery" || leads[0].Interest != interestLabels["marketing"] {
		t.Fatalf("expected fields of the second submission, got %+v", leads[0])
	}
}

func TestContact_InvalidPhoneRetries(t *testing.T) {
	env := newTestEnv(t)

	env.text(t, userID, captionContact)
	env.text(t, userID, "Dana")
	env.text(t, userID, "Cafe")
	env.press(t, userID, SelectInterest{Topic: "other"})

	for i := 0; i < 5; i++ {
		env.text(t, userID, "12345")
	}
	flow, ok := env.svc.sessions.Get(userID).Contact()
	if !ok || flow.Step != session.ContactPhone {
		t.Fatalf("expected phone step after invalid retries, got %#v", env.svc.sessions.Get(userID).Flow)
	}
	if reply := env.tg.last(t, userID).reply; reply == nil || !reply.Keyboard[0][0].RequestContact {
		t.Fatalf("expected share-contact keyboard on re-prompt")
	}
	if len(env.store.Leads()) != 0 {
		t.Fatalf("no lead expected yet")
	}
}

func TestContact_InterestOnlyByButton(t *testing.T) {
	env := newTestEnv(t)

	env.text(t, userID, captionContact)
	env.text(t, userID, "Dana")
	env.text(t, userID, "Cafe")
	env.text(t, userID, "אתר")

	flow, ok := env.svc.sessions.Get(userID).Contact()
	if !ok || flow.Step != session.ContactInterest || flow.Interest != "" {
		t.Fatalf("text must not set interest, got %#v", env.svc.sessions.Get(userID).Flow)
	}

	env.pressData(t, userID, "int_website")
	if flow.Step != session.ContactPhone {
		t.Fatalf("expected phone step after interest button, got %s", flow.Step)
	}
}

func TestContact_InterestButtonOutsideFlowIsStale(t *testing.T) {
	env := newTestEnv(t)
	env.press(t, userID, SelectInterest{Topic: "bot"})
	if env.lastAnswer(t) != staleButton {
		t.Fatalf("expected stale ack, got %q", env.lastAnswer(t))
	}
}

func TestContact_FromPackageInterest(t *testing.T) {
	env := newTestEnv(t)

	env.text(t, userID, captionContact)
	env.text(t, userID, "Old name")

	env.press(t, userID, PackageInterest{Package: "pro"})
	flow, ok := env.svc.sessions.Get(userID).Contact()
	if !ok || flow.Step != session.ContactName || flow.Name != "" || flow.Package != "pro" {
		t.Fatalf("entering from catalog must restart the form, got %#v", env.svc.sessions.Get(userID).Flow)
	}

	env.text(t, userID, "Dana")
	env.text(t, userID, "אין")
	env.press(t, userID, SelectInterest{Topic: "bot"})
	env.text(t, userID, "0521234567")

	leads := env.store.Leads()
	if len(leads) != 1 || !strings.Contains(leads[0].Interest, packages["pro"].Name) {
		t.Fatalf("expected package in interest, got %+v", leads)
	}
}

func TestContact_AdminUnreachable(t *testing.T) {
	env := newTestEnv(t)
	env.claimAdmin(t)
	env.tg.failChat[adminID] = errBlocked

	submitContact(t, env, "Dana", "אין", "bot", "0501234567")

	if len(env.store.Leads()) != 1 {
		t.Fatalf("lead must be saved even if admin is unreachable")
	}
	if !strings.Contains(env.tg.last(t, userID).text, "קיבלנו") {
		t.Fatalf("user must get confirmation, got %q", env.tg.last(t, userID).text)
	}
	if !hasLog(env.logs, "не удалось уведомить администратора о лиде") {
		t.Fatalf("expected notification failure in logs")
	}
}

func TestCancel_ResetsSession(t *testing.T) {
	env := newTestEnv(t)

	env.text(t, userID, captionContact)
	env.press(t, userID, AddToCart{ItemID: "cola_can"})
	env.text(t, userID, "/cancel")

	sess := env.svc.sessions.Get(userID)
	if sess.Flow != nil || !sess.Cart.Empty() {
		t.Fatalf("expected empty session after /cancel, got %#v", sess)
	}
}

func TestSupport_ForwardsToAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.claimAdmin(t)

	env.press(t, userID, HumanSupport{})
	if !env.svc.sessions.Get(userID).InSupport() {
		t.Fatalf("expected support flow")
	}
	env.text(t, userID, "מתי אתם פתוחים בשישי?")

	notice := env.tg.last(t, adminID)
	if !strings.Contains(notice.text, "פנייה לתמיכה") || !strings.Contains(notice.text, "מתי אתם פתוחים בשישי?") {
		t.Fatalf("unexpected support notification %q", notice.text)
	}
	if env.svc.sessions.Get(userID).Flow != nil {
		t.Fatalf("support flow must end after one message")
	}
}

func TestStart_ClaimsAdminOnce(t *testing.T) {
	env := newTestEnv(t)

	env.text(t, adminID, "/start")
	env.text(t, userID, "/start")

	if !env.store.IsAdmin(adminID) || env.store.IsAdmin(userID) {
		t.Fatalf("first /start must claim admin")
	}
	for _, item := range env.tg.to(userID) {
		if strings.Contains(item.text, "מנהל") {
			t.Fatalf("second user must not be told they are admin")
		}
	}
}
