package bot

import (
	"bizassist/internal/models"
	"bizassist/internal/schedule"
	"bizassist/internal/session"
	"bizassist/internal/store"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrUpdatesClosed - транспорт закрыл канал обновлений
var ErrUpdatesClosed = errors.New("канал обновлений закрыт")

// NewService - создает новый экземпляр основного сервиса бота
func NewService(telegram TelegramClient, st *store.Store, sessions *session.Manager, logger *zap.Logger, opts Options) *Service {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer("bizassist/bot")
	}

	return &Service{
		telegram: telegram,
		store:    st,
		sessions: sessions,
		notifier: NewNotifier(telegram, st, logger),
		limiter:  NewRateLimiter(opts.RateLimit.PerSecond, opts.RateLimit.Burst),
		business: opts.Business,
		loc:      loc,
		policy:   opts.Policy,
		tracer:   tracer,
		probe:    opts.Probe,
		logger:   logger,
		now:      time.Now,
	}
}

// Limiter нужен сборщику сессий, чтобы чистить лимитеры ушедших пользователей
func (s *Service) Limiter() *RateLimiter {
	return s.limiter
}

// Start - запускает обработку сообщений и callback-запросов.
// Все обновления обрабатываются в одной горутине по очереди.
func (s *Service) Start(ctx context.Context) error {
	messages, callbacks, err := s.telegram.StartBot(ctx)
	if err != nil {
		s.logger.Error("ошибка при запуске бота",
			zap.Error(err),
		)
		return err
	}

	s.setReady(true)
	defer s.setReady(false)
	s.logger.Info("бот запущен, ожидаем обновления")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("остановка обработки обновлений")
			return nil
		case msg, ok := <-messages:
			if !ok {
				return ErrUpdatesClosed
			}
			s.dispatchMessage(ctx, msg)
		case cb, ok := <-callbacks:
			if !ok {
				return ErrUpdatesClosed
			}
			s.dispatchCallback(ctx, cb)
		}
	}
}

func (s *Service) dispatchMessage(ctx context.Context, msg models.Message) {
	requestID := uuid.NewString()
	ctx, span := s.tracer.Start(ctx, "bot.message", trace.WithAttributes(
		attribute.Int64("user_id", msg.UserID),
		attribute.String("request_id", requestID),
	))
	defer span.End()
	s.touch()

	log := s.logger.With(
		zap.String("request_id", requestID),
		zap.Int64("user_id", msg.UserID),
		zap.Int64("chat_id", msg.ChatID),
	)

	if !s.limiter.Allow(msg.UserID) {
		log.Warn("превышен лимит сообщений, сообщение пропущено")
		span.SetAttributes(attribute.Bool("rate_limited", true))
		return
	}

	log.Debug("получено сообщение", zap.String("text", msg.Text))
	if err := s.HandleMessage(ctx, msg, log); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error("ошибка при обработке сообщения", zap.Error(err))
	}
}

func (s *Service) dispatchCallback(ctx context.Context, cb models.CallbackQuery) {
	requestID := uuid.NewString()
	ctx, span := s.tracer.Start(ctx, "bot.callback", trace.WithAttributes(
		attribute.Int64("user_id", cb.UserID),
		attribute.String("data", cb.Data),
		attribute.String("request_id", requestID),
	))
	defer span.End()
	s.touch()

	log := s.logger.With(
		zap.String("request_id", requestID),
		zap.Int64("user_id", cb.UserID),
		zap.String("data", cb.Data),
	)

	if !s.limiter.Allow(cb.UserID) {
		log.Warn("превышен лимит нажатий, callback пропущен")
		span.SetAttributes(attribute.Bool("rate_limited", true))
		if err := s.telegram.AnswerCallback(cb.ID, "⏳ רגע, לאט לאט..."); err != nil {
			log.Warn("не удалось ответить на callback", zap.Error(err))
		}
		return
	}

	log.Debug("получен callback-запрос")
	if err := s.HandleCallback(ctx, cb, log); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error("ошибка при обработке callback-запроса", zap.Error(err))
	}
}

// hours разбирает строку часов работы из настроек; при ошибке - расписание по умолчанию
func (s *Service) hours() *schedule.Schedule {
	spec := s.store.Settings().WorkingHours
	sched, err := schedule.ParseOrDefault(spec, schedule.WithPolicy(s.policy), schedule.WithLocation(s.loc))
	if sched.IsFallback() {
		s.logger.Warn("не удалось разобрать часы работы, используем расписание по умолчанию",
			zap.Error(err),
			zap.String("working_hours", spec),
		)
	}
	return sched
}

func (s *Service) isOpenNow() bool {
	return s.hours().IsOpen(s.now())
}

func (s *Service) localNow() time.Time {
	return s.now().In(s.loc)
}

func (s *Service) setReady(ready bool) {
	if s.probe != nil {
		s.probe.SetReady(ready)
	}
}

func (s *Service) touch() {
	if s.probe != nil {
		s.probe.Touch()
	}
}
