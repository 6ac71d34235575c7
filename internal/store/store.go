package store

import (
	"bizassist/internal/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrNotFound = errors.New("запись не найдена")
	// ErrNoDocument возвращает бэкенд, если документ ещё ни разу не сохранялся
	ErrNoDocument = errors.New("документ не найден")
)

// Backend хранит документ целиком
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Document - всё состояние бота, сохраняется целиком после каждого изменения
type Document struct {
	Leads        []models.Lead        `json:"leads"`
	Appointments []models.Appointment `json:"appointments"`
	Orders       []models.Order       `json:"orders"`
	Menu         []models.MenuItem    `json:"menu"`
	Settings     models.Settings      `json:"settings"`
}

func (d Document) clone() Document {
	c := Document{
		Leads:        cloneSlice(d.Leads),
		Appointments: cloneSlice(d.Appointments),
		Orders:       cloneSlice(d.Orders),
		Menu:         cloneSlice(d.Menu),
		Settings:     d.Settings,
	}
	if d.Settings.AdminID != nil {
		id := *d.Settings.AdminID
		c.Settings.AdminID = &id
	}
	return c
}

// cloneSlice всегда возвращает не-nil срез, чтобы в JSON были [] а не null
func cloneSlice[T any](src []T) []T {
	out := make([]T, len(src))
	copy(out, src)
	return out
}

// Store - хранилище лидов, записей и заказов
type Store struct {
	mu      sync.RWMutex
	doc     Document
	backend Backend
	logger  *zap.Logger
	now     func() time.Time
}

// New загружает документ из бэкенда; если документа нет, создаёт его со значениями по умолчанию
func New(ctx context.Context, backend Backend, logger *zap.Logger) (*Store, error) {
	s := &Store{
		backend: backend,
		logger:  logger,
		now:     time.Now,
	}

	data, err := backend.Load(ctx)
	switch {
	case errors.Is(err, ErrNoDocument):
		s.doc = defaultDocument()
		logger.Info("документ не найден, создаём новый")
		if err := s.persist(ctx, s.doc); err != nil {
			return nil, err
		}
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("не удалось загрузить документ: %w", err)
	}

	if err := json.Unmarshal(data, &s.doc); err != nil {
		return nil, fmt.Errorf("повреждённый документ: %w", err)
	}
	s.fillDefaults()

	logger.Info("документ загружен",
		zap.Int("leads", len(s.doc.Leads)),
		zap.Int("appointments", len(s.doc.Appointments)),
		zap.Int("orders", len(s.doc.Orders)),
		zap.Int("menu", len(s.doc.Menu)),
	)
	return s, nil
}

func (s *Store) fillDefaults() {
	def := defaultDocument()
	if s.doc.Leads == nil {
		s.doc.Leads = []models.Lead{}
	}
	if s.doc.Appointments == nil {
		s.doc.Appointments = []models.Appointment{}
	}
	if s.doc.Orders == nil {
		s.doc.Orders = []models.Order{}
	}
	if len(s.doc.Menu) == 0 {
		s.doc.Menu = def.Menu
	}
	if s.doc.Settings.WorkingHours == "" {
		s.doc.Settings.WorkingHours = def.Settings.WorkingHours
	}
	if s.doc.Settings.WelcomeMessage == "" {
		s.doc.Settings.WelcomeMessage = def.Settings.WelcomeMessage
	}
	if s.doc.Settings.BusinessPhone == "" {
		s.doc.Settings.BusinessPhone = def.Settings.BusinessPhone
	}
}

// mutate применяет fn к копии документа и сохраняет её;
// при ошибке сохранения документ в памяти остаётся прежним
func (s *Store) mutate(ctx context.Context, fn func(doc *Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.clone()
	if err := fn(&next); err != nil {
		return err
	}
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.doc = next
	return nil
}

func (s *Store) persist(ctx context.Context, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("не удалось сериализовать документ: %w", err)
	}
	if err := s.backend.Save(ctx, data); err != nil {
		s.logger.Error("ошибка сохранения документа", zap.Error(err))
		return fmt.Errorf("не удалось сохранить документ: %w", err)
	}
	return nil
}

func (s *Store) Settings() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.clone().Settings
}

// ClaimAdmin назначает администратором первого пользователя; true - если назначение произошло сейчас
func (s *Store) ClaimAdmin(ctx context.Context, userID int64) (bool, error) {
	claimed := false
	err := s.mutate(ctx, func(doc *Document) error {
		if doc.Settings.AdminID != nil {
			return errAlreadyClaimed
		}
		id := userID
		doc.Settings.AdminID = &id
		claimed = true
		return nil
	})
	if errors.Is(err, errAlreadyClaimed) {
		return false, nil
	}
	return claimed, err
}

var errAlreadyClaimed = errors.New("администратор уже назначен")

// AdminID возвращает ID администратора, если он назначен
func (s *Store) AdminID() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc.Settings.AdminID == nil {
		return 0, false
	}
	return *s.doc.Settings.AdminID, true
}

func (s *Store) IsAdmin(userID int64) bool {
	id, ok := s.AdminID()
	return ok && id == userID
}

// UpsertLead создаёт лид или обновляет существующий с той же парой (пользователь, телефон)
func (s *Store) UpsertLead(ctx context.Context, lead models.Lead) (models.Lead, bool, error) {
	var (
		saved   models.Lead
		updated bool
	)
	err := s.mutate(ctx, func(doc *Document) error {
		lead.CreatedAt = s.now()
		for i, existing := range doc.Leads {
			if existing.UserID == lead.UserID && existing.Phone == lead.Phone {
				lead.ID = existing.ID
				doc.Leads[i] = lead
				saved, updated = lead, true
				return nil
			}
		}
		lead.ID = nextLeadID(doc.Leads)
		doc.Leads = append(doc.Leads, lead)
		saved = lead
		return nil
	})
	if err != nil {
		return models.Lead{}, false, err
	}
	return saved, updated, nil
}

func (s *Store) AddAppointment(ctx context.Context, appt models.Appointment) (models.Appointment, error) {
	err := s.mutate(ctx, func(doc *Document) error {
		appt.ID = nextAppointmentID(doc.Appointments)
		appt.Status = models.AppointmentPending
		appt.CreatedAt = s.now()
		doc.Appointments = append(doc.Appointments, appt)
		return nil
	})
	if err != nil {
		return models.Appointment{}, err
	}
	return appt, nil
}

func (s *Store) Appointment(id int) (models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.doc.Appointments {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Appointment{}, ErrNotFound
}

// SetAppointmentStatus меняет статус записи и возвращает обновлённую запись
func (s *Store) SetAppointmentStatus(ctx context.Context, id int, status models.AppointmentStatus) (models.Appointment, error) {
	var appt models.Appointment
	err := s.mutate(ctx, func(doc *Document) error {
		for i := range doc.Appointments {
			if doc.Appointments[i].ID == id {
				doc.Appointments[i].Status = status
				appt = doc.Appointments[i]
				return nil
			}
		}
		return ErrNotFound
	})
	if err != nil {
		return models.Appointment{}, err
	}
	return appt, nil
}

// AddOrder сохраняет заказ; сумма всегда пересчитывается по строкам
func (s *Store) AddOrder(ctx context.Context, order models.Order) (models.Order, error) {
	err := s.mutate(ctx, func(doc *Document) error {
		order.ID = nextOrderID(doc.Orders)
		order.Lines = append([]models.OrderLine(nil), order.Lines...)
		order.Total = models.OrderTotal(order.Lines)
		order.Status = models.OrderStatusNew
		order.CreatedAt = s.now()
		doc.Orders = append(doc.Orders, order)
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (s *Store) Menu() []models.MenuItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.doc.Menu)
}

func (s *Store) MenuItem(id string) (models.MenuItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.doc.Menu {
		if item.ID == id {
			return item, true
		}
	}
	return models.MenuItem{}, false
}

func (s *Store) Leads() []models.Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.doc.Leads)
}

func (s *Store) Appointments() []models.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.doc.Appointments)
}

func (s *Store) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.doc.Orders)
}

// UserOrders - последние limit заказов пользователя, новые первыми
func (s *Store) UserOrders(userID int64, limit int) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Order{}
	for i := len(s.doc.Orders) - 1; i >= 0 && len(out) < limit; i-- {
		if s.doc.Orders[i].UserID == userID {
			out = append(out, s.doc.Orders[i])
		}
	}
	return out
}

type Stats struct {
	Leads               int
	Appointments        int
	PendingAppointments int
	Orders              int
	Revenue             int
}

func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Stats{
		Leads:        len(s.doc.Leads),
		Appointments: len(s.doc.Appointments),
		Orders:       len(s.doc.Orders),
	}
	for _, a := range s.doc.Appointments {
		if a.Status == models.AppointmentPending {
			st.PendingAppointments++
		}
	}
	for _, o := range s.doc.Orders {
		st.Revenue += o.Total
	}
	return st
}

func nextLeadID(leads []models.Lead) int {
	last := 0
	for _, l := range leads {
		if l.ID > last {
			last = l.ID
		}
	}
	return last + 1
}

func nextAppointmentID(appts []models.Appointment) int {
	last := 0
	for _, a := range appts {
		if a.ID > last {
			last = a.ID
		}
	}
	return last + 1
}

func nextOrderID(orders []models.Order) int {
	last := 0
	for _, o := range orders {
		if o.ID > last {
			last = o.ID
		}
	}
	return last + 1
}
