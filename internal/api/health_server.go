package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/encoding/protojson"
)

const pingTimeout = 2 * time.Second

// Pinger - хранилище, которое умеет проверять соединение (Postgres)
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthServer отдает /healthz и /readyz для платформы хостинга
type HealthServer struct {
	logger     *zap.Logger
	liveness   *Liveness
	pinger     Pinger
	httpServer *http.Server
}

// NewHealthServer создает сервер; pinger может быть nil
func NewHealthServer(logger *zap.Logger, liveness *Liveness, pinger Pinger, addr string) (*HealthServer, error) {
	s := &HealthServer{
		logger:   logger,
		liveness: liveness,
		pinger:   pinger,
	}

	mux := runtime.NewServeMux()
	if err := mux.HandlePath(http.MethodGet, "/healthz", s.handleHealth); err != nil {
		return nil, err
	}
	if err := mux.HandlePath(http.MethodGet, "/readyz", s.handleReady); err != nil {
		return nil, err
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      otelhttp.NewHandler(mux, "health"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s, nil
}

// Handler нужен для тестов через httptest
func (s *HealthServer) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start запускает HTTP-сервер в отдельной горутине
func (s *HealthServer) Start() {
	go func() {
		s.logger.Info("Запуск HTTP-сервера проверки здоровья", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Ошибка запуска HTTP-сервера", zap.Error(err))
		}
	}()
}

func (s *HealthServer) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *HealthServer) handleHealth(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	s.write(w, grpc_health_v1.HealthCheckResponse_SERVING)
}

// lastActivityHeader - время последнего обработанного обновления в RFC 3339
const lastActivityHeader = "X-Last-Activity"

func (s *HealthServer) handleReady(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	if last := s.liveness.LastActivity(); !last.IsZero() {
		w.Header().Set(lastActivityHeader, last.UTC().Format(time.RFC3339))
	}
	s.write(w, s.readiness(r.Context()))
}

func (s *HealthServer) readiness(ctx context.Context) grpc_health_v1.HealthCheckResponse_ServingStatus {
	if !s.liveness.Ready() {
		return grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	if s.pinger != nil {
		ctx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := s.pinger.Ping(ctx); err != nil {
			s.logger.Warn("Хранилище не отвечает", zap.Error(err))
			return grpc_health_v1.HealthCheckResponse_NOT_SERVING
		}
	}
	return grpc_health_v1.HealthCheckResponse_SERVING
}

func (s *HealthServer) write(w http.ResponseWriter, status grpc_health_v1.HealthCheckResponse_ServingStatus) {
	body, err := protojson.Marshal(&grpc_health_v1.HealthCheckResponse{Status: status})
	if err != nil {
		s.logger.Error("Ошибка сериализации ответа", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if status != grpc_health_v1.HealthCheckResponse_SERVING {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	w.Write(body)
}
