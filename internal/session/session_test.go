package session

import (
	"testing"
	"time"
)

func TestCart_AddRemove(t *testing.T) {
	var c Cart
	c.Add("hummus")
	c.Add("cola")
	c.Add("hummus")

	if got := c.Quantity("hummus"); got != 2 {
		t.Fatalf("expected 2 hummus, got %d", got)
	}
	lines := c.Lines()
	if len(lines) != 2 || lines[0].ItemID != "hummus" || lines[1].ItemID != "cola" {
		t.Fatalf("expected insertion order, got %+v", lines)
	}

	if left := c.Remove("cola"); left != 0 {
		t.Fatalf("expected cola to be removed, got %d", left)
	}
	if left := c.Remove("cola"); left != 0 {
		t.Fatalf("removing absent item must stay at zero, got %d", left)
	}
	for _, l := range c.Lines() {
		if l.Quantity <= 0 {
			t.Fatalf("zero quantity line left in cart: %+v", l)
		}
	}
	c.Remove("hummus")
	c.Remove("hummus")
	c.Remove("hummus")
	if !c.Empty() {
		t.Fatalf("expected empty cart, got %+v", c.Lines())
	}
}

func TestSession_OneFlowAtATime(t *testing.T) {
	s := &Session{UserID: 1}
	s.Start(&Contact{Step: ContactName})
	s.Cart.Add("cola")

	s.Start(&Appointment{Step: AppointmentDate})
	if _, ok := s.Contact(); ok {
		t.Fatalf("contact flow should be replaced")
	}
	if a, ok := s.Appointment(); !ok || a.Step != AppointmentDate {
		t.Fatalf("expected appointment flow at date step, got %#v", s.Flow)
	}
	if s.Cart.Empty() {
		t.Fatalf("starting a flow must not clear the cart")
	}

	s.Reset()
	if s.Flow != nil || !s.Cart.Empty() {
		t.Fatalf("expected reset session, got %#v", s)
	}
}

func TestManager_ExpiresIdleSessions(t *testing.T) {
	now := time.Date(2026, 1, 13, 10, 0, 0, 0, time.UTC)
	m := NewManager(time.Hour)
	m.now = func() time.Time { return now }

	s := m.Get(1)
	s.Start(&Support{})
	m.Get(2)

	now = now.Add(30 * time.Minute)
	if !m.Get(1).InSupport() {
		t.Fatalf("session should survive within ttl")
	}

	now = now.Add(61 * time.Minute)
	if removed := m.Sweep(); removed != 2 {
		t.Fatalf("expected 2 sessions swept, got %d", removed)
	}
	if m.Len() != 0 {
		t.Fatalf("expected no sessions, got %d", m.Len())
	}
}

func TestManager_GetReplacesExpired(t *testing.T) {
	now := time.Date(2026, 1, 13, 10, 0, 0, 0, time.UTC)
	m := NewManager(time.Hour)
	m.now = func() time.Time { return now }

	m.Get(1).Start(&Contact{Step: ContactPhone})
	now = now.Add(2 * time.Hour)
	if m.Get(1).Flow != nil {
		t.Fatalf("expected fresh session after ttl")
	}
}

func TestManager_Reset(t *testing.T) {
	m := NewManager(0)
	m.Get(5).Cart.Add("x")
	m.Reset(5)
	if !m.Get(5).Cart.Empty() {
		t.Fatalf("expected new empty session after reset")
	}
}

func TestFlowName(t *testing.T) {
	tests := []struct {
		flow Flow
		want string
	}{
		{&Contact{}, "contact"},
		{&Appointment{}, "appointment"},
		{&Support{}, "support"},
		{nil, "none"},
	}
	for _, tt := range tests {
		if got := FlowName(tt.flow); got != tt.want {
			t.Errorf("FlowName(%T) = %q, want %q", tt.flow, got, tt.want)
		}
	}
}
