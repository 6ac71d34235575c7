package grpc

import (
	"bizassist/internal/api"
	"context"
	"fmt"
	"net"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName - имя сервиса в протоколе grpc.health.v1
const ServiceName = "bizassist.Bot"

// HealthServer отдает стандартный gRPC health-check по флагу Liveness
type HealthServer struct {
	logger   *zap.Logger
	liveness *api.Liveness
	health   *health.Server
	server   *grpc.Server
	addr     string
	interval time.Duration
}

// NewHealthServer создает сервер; статус синхронизируется с liveness каждые interval
func NewHealthServer(logger *zap.Logger, liveness *api.Liveness, addr string, interval time.Duration) *HealthServer {
	if interval <= 0 {
		interval = 5 * time.Second
	}

	hs := health.NewServer()
	server := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	grpc_health_v1.RegisterHealthServer(server, hs)

	s := &HealthServer{
		logger:   logger,
		liveness: liveness,
		health:   hs,
		server:   server,
		addr:     addr,
		interval: interval,
	}
	s.sync()
	return s
}

// Start слушает addr и запускает цикл синхронизации статуса
func (s *HealthServer) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("не удалось открыть порт %s: %w", s.addr, err)
	}

	go func() {
		s.logger.Info("Запуск gRPC-сервера проверки здоровья", zap.String("addr", lis.Addr().String()))
		if err := s.server.Serve(lis); err != nil && err != grpc.ErrServerStopped {
			s.logger.Error("Ошибка gRPC-сервера", zap.Error(err))
		}
	}()

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.sync()
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop переводит сервис в NOT_SERVING и завершает соединения
func (s *HealthServer) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}

func (s *HealthServer) sync() {
	status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if s.liveness.Ready() {
		status = grpc_health_v1.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
