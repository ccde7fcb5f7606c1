package observability

import (
	"context"
	"testing"

	"github.com/matchsight/matchsight/internal/config"
	"github.com/matchsight/matchsight/internal/platform/logging"
)

func TestInitUptrace_DisabledPaths(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.Config
	}{
		{
			name: "flag off",
			cfg: config.Config{
				UptraceEnabled: false,
				UptraceDSN:     "https://token@api.uptrace.dev/1",
			},
		},
		{
			name: "dsn empty",
			cfg: config.Config{
				UptraceEnabled: true,
				UptraceDSN:     "   ",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.ServiceName = "matchsight-export"
			tc.cfg.ServiceVersion = "dev"
			tc.cfg.AppEnv = config.EnvDev

			shutdown, err := InitUptrace(tc.cfg, logging.NewNop())
			if err != nil {
				t.Fatalf("init uptrace: %v", err)
			}
			if shutdown == nil {
				t.Fatal("shutdown hook must never be nil")
			}
			if err := shutdown(context.Background()); err != nil {
				t.Fatalf("shutdown uptrace: %v", err)
			}
		})
	}
}
