package grpc

import (
	"bizassist/internal/api"
	"context"
	"testing"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

func check(t *testing.T, s *HealthServer, service string) grpc_health_v1.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := s.health.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: service})
	if err != nil {
		t.Fatalf("Check(%q): %v", service, err)
	}
	return resp.Status
}

func TestHealthServer_MirrorsLiveness(t *testing.T) {
	live := api.NewLiveness()
	s := NewHealthServer(zap.NewNop(), live, ":0", 0)

	if got := check(t, s, ServiceName); got != grpc_health_v1.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("expected NOT_SERVING before start, got %v", got)
	}

	live.SetReady(true)
	s.sync()
	for _, service := range []string{"", ServiceName} {
		if got := check(t, s, service); got != grpc_health_v1.HealthCheckResponse_SERVING {
			t.Fatalf("expected SERVING for %q, got %v", service, got)
		}
	}

	live.SetReady(false)
	s.sync()
	if got := check(t, s, ""); got != grpc_health_v1.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("expected NOT_SERVING after stop, got %v", got)
	}
}

func TestHealthServer_UnknownService(t *testing.T) {
	s := NewHealthServer(zap.NewNop(), api.NewLiveness(), ":0", 0)
	_, err := s.health.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: "other"})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
