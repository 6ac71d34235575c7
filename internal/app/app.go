package app

import (
	"bizassist/internal/api"
	"bizassist/internal/bot"
	"bizassist/internal/config"
	"bizassist/internal/database"
	"bizassist/internal/grpc"
	"bizassist/internal/logger"
	"bizassist/internal/schedule"
	"bizassist/internal/session"
	"bizassist/internal/store"
	"bizassist/internal/telegram"
	"bizassist/internal/tracing"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // часовой пояс нужен и в контейнерах без zoneinfo

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func Run(configPath string, verbose bool) error {
	// Загружаем конфигурацию
	cfg, err := config.NewConfig(configPath)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Logger.Level = "debug"
	}

	// Инициализируем логгер
	logger, err := logger.New(cfg.Logger)
	if err != nil {
		zap.L().Error("не удалось создать логгер", zap.Error(err))
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := time.LoadLocation(cfg.Business.Timezone)
	if err != nil {
		logger.Error("неизвестный часовой пояс", zap.String("timezone", cfg.Business.Timezone), zap.Error(err))
		return err
	}

	policy, err := schedule.ParsePolicy(cfg.Schedule.Boundary)
	if err != nil {
		logger.Error("неверная граница расписания", zap.Error(err))
		return err
	}

	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing)
	if err != nil {
		logger.Error("не удалось настроить трассировку", zap.Error(err))
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("ошибка при остановке трассировки", zap.Error(err))
		}
	}()

	// Хранилище: файл или строка в Postgres
	backend, pinger, db, err := openBackend(cfg, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	st, err := store.New(ctx, backend, logger)
	if err != nil {
		logger.Error("не удалось загрузить данные", zap.Error(err))
		return err
	}

	sessions := session.NewManager(cfg.Session.TTL)

	// Инициализируем Telegram клиент
	tgClient, err := connectTelegram(ctx, cfg.Telegram, logger)
	if err != nil {
		return err
	}

	liveness := api.NewLiveness()

	// Инициализируем основной сервис бота
	botService := bot.NewService(tgClient, st, sessions, logger, bot.Options{
		Business:  cfg.Business,
		Location:  loc,
		Policy:    policy,
		RateLimit: cfg.RateLimit,
		Probe:     liveness,
	})

	// Сборщик просроченных сессий и лимитеров
	sweeper := bot.NewSessionSweeper(sessions, botService.Limiter(), logger, cfg.Session.SweepInterval, cfg.Session.TTL)
	sweeper.Start(ctx)

	// HTTP-проверка здоровья для хостинга
	healthServer, err := api.NewHealthServer(logger, liveness, pinger, cfg.Health.HTTPAddr)
	if err != nil {
		logger.Error("ошибка создания HTTP-сервера", zap.Error(err))
		return err
	}
	healthServer.Start()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := healthServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("ошибка при остановке HTTP-сервера", zap.Error(err))
		}
	}()

	if cfg.Health.GRPCAddr != "" {
		grpcHealth := grpc.NewHealthServer(logger, liveness, cfg.Health.GRPCAddr, 0)
		if err := grpcHealth.Start(ctx); err != nil {
			logger.Error("ошибка запуска gRPC-сервера", zap.Error(err))
			return err
		}
		defer grpcHealth.Stop()
	}

	// Запускаем бота
	if err := botService.Start(ctx); err != nil {
		logger.Error("ошибка запуска бота", zap.Error(err))
		return err
	}

	logger.Info("приложение остановлено")
	return nil
}

// openBackend возвращает бэкенд документа и, для Postgres, проверку соединения
func openBackend(cfg *config.AppConfig, logger *zap.Logger) (store.Backend, api.Pinger, *sqlx.DB, error) {
	switch cfg.Storage.Driver {
	case "file":
		logger.Info("данные хранятся в файле", zap.String("path", cfg.Storage.Path))
		return store.NewFileBackend(cfg.Storage.Path), nil, nil, nil
	case "postgres":
		db, err := database.NewConnection(cfg.Database, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		repo := database.NewDocumentRepository(db, cfg.Storage.Document, logger)
		return repo, repo, db, nil
	default:
		return nil, nil, nil, fmt.Errorf("неизвестный драйвер хранилища: %q", cfg.Storage.Driver)
	}
}

// connectTelegram повторяет подключение: при деплое сеть поднимается не сразу
func connectTelegram(ctx context.Context, cfg config.Telegram, logger *zap.Logger) (*telegram.TelegramClient, error) {
	var lastErr error
	for attempt := 1; attempt <= cfg.StartAttempts; attempt++ {
		client, err := telegram.NewTelegramClient(cfg.Token, logger)
		if err == nil {
			return client, nil
		}
		lastErr = err
		logger.Warn("не удалось подключиться к Telegram",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", cfg.StartAttempts),
			zap.Error(err),
		)

		if attempt == cfg.StartAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.StartBackoff * time.Duration(attempt)):
		}
	}
	return nil, fmt.Errorf("telegram недоступен после %d попыток: %w", cfg.StartAttempts, lastErr)
}
