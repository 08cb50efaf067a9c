package telemetry

import (
	"context"
	"testing"

	"github.com/weiwei-tsao/country-stats/apps/api/internal/platform/config"
	"github.com/weiwei-tsao/country-stats/apps/api/internal/platform/logger"
)

func TestInitDisabled(t *testing.T) {
	shutdown, err := Init(context.Background(), config.OtelConfig{}, logger.NewNop())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestInitStdout(t *testing.T) {
	shutdown, err := Init(context.Background(), config.OtelConfig{Enabled: true, SampleRatio: 1}, logger.NewNop())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
