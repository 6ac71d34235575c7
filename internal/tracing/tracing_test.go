package tracing

import (
	"bizassist/internal/config"
	"context"
	"testing"
)

func TestSetup_Disabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.Tracing{Enabled: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown failed: %v", err)
	}
}

func TestSetup_Enabled(t *testing.T) {
	// Экспортер подключается лениво, коллектор для теста не нужен
	shutdown, err := Setup(context.Background(), config.Tracing{
		Enabled:      true,
		ServiceName:  "bizassist-test",
		OTLPEndpoint: "127.0.0.1:4317",
		SampleRatio:  1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// Спанов нет, поэтому отмененный контекст не мешает закрытию
	_ = shutdown(ctx)
}
