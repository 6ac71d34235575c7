package session

import (
	"sync"
	"time"
)

// Session - временное состояние диалога одного пользователя
type Session struct {
	UserID       int64
	Flow         Flow
	Cart         Cart
	LastActivity time.Time
}

// Start заменяет текущий диалог новым
func (s *Session) Start(f Flow) {
	s.Flow = f
}

// Contact возвращает форму контакта, если она активна
func (s *Session) Contact() (*Contact, bool) {
	c, ok := s.Flow.(*Contact)
	return c, ok
}

func (s *Session) Appointment() (*Appointment, bool) {
	a, ok := s.Flow.(*Appointment)
	return a, ok
}

func (s *Session) InSupport() bool {
	_, ok := s.Flow.(*Support)
	return ok
}

// Reset очищает диалог и корзину
func (s *Session) Reset() {
	s.Flow = nil
	s.Cart.Clear()
}

// Manager хранит сессии в памяти; сессии без активности дольше ttl удаляются Sweep
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[int64]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get возвращает сессию пользователя, создавая её при необходимости, и отмечает активность.
// Истёкшая сессия заменяется новой.
func (m *Manager) Get(userID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	s, ok := m.sessions[userID]
	if !ok || m.expired(s, now) {
		s = &Session{UserID: userID}
		m.sessions[userID] = s
	}
	s.LastActivity = now
	return s
}

// Reset удаляет сессию пользователя целиком
func (m *Manager) Reset(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// Sweep удаляет истёкшие сессии и возвращает их количество
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, s := range m.sessions {
		if m.expired(s, now) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) expired(s *Session, now time.Time) bool {
	return m.ttl > 0 && now.Sub(s.LastActivity) > m.ttl
}
