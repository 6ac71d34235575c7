package bot

import (
	"bizassist/internal/session"
	"context"
	"time"

	"go.uber.org/zap"
)

// SessionSweeper периодически удаляет брошенные диалоги
type SessionSweeper struct {
	sessions    *session.Manager
	limiter     *RateLimiter
	logger      *zap.Logger
	checkPeriod time.Duration // как часто проверять
	idleTime    time.Duration // после какого простоя забывать лимитер пользователя
}

// NewSessionSweeper создает сборщик сессий
func NewSessionSweeper(
	sessions *session.Manager,
	limiter *RateLimiter,
	logger *zap.Logger,
	checkPeriod time.Duration,
	idleTime time.Duration,
) *SessionSweeper {
	return &SessionSweeper{
		sessions:    sessions,
		limiter:     limiter,
		logger:      logger,
		checkPeriod: checkPeriod,
		idleTime:    idleTime,
	}
}

// Start запускает сборщик; он останавливается вместе с ctx
func (s *SessionSweeper) Start(ctx context.Context) {
	s.logger.Info("Запуск сборщика сессий",
		zap.Duration("period", s.checkPeriod),
		zap.Duration("idle", s.idleTime),
	)
	go s.sweepLoop(ctx)
}

func (s *SessionSweeper) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(s.checkPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.sweep(now)
		}
	}
}

func (s *SessionSweeper) sweep(now time.Time) {
	removed := s.sessions.Sweep()
	forgotten := 0
	if s.limiter != nil {
		forgotten = s.limiter.Forget(s.idleTime, now)
	}

	if removed == 0 && forgotten == 0 {
		s.logger.Debug("Нет истекших сессий")
		return
	}
	s.logger.Info("Истекшие сессии удалены",
		zap.Int("sessions", removed),
		zap.Int("limiters", forgotten),
		zap.Int("active", s.sessions.Len()),
	)
}
