package observability

import (
	"context"
	"testing"

	"github.com/riskibarqy/tennis-league/internal/config"
	"github.com/riskibarqy/tennis-league/internal/platform/logging"
)

func TestInitUptrace_Disabled(t *testing.T) {
	cfg := config.Config{
		UptraceEnabled: false,
		ServiceName:    "tennis-league-api",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	shutdown, err := InitUptrace(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestUptraceDisabledReason(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{name: "off", cfg: config.Config{UptraceDSN: "https://token@api.uptrace.dev"}, want: "UPTRACE_ENABLED=false"},
		{name: "no dsn", cfg: config.Config{UptraceEnabled: true, UptraceDSN: " "}, want: "UPTRACE_DSN empty"},
		{name: "on", cfg: config.Config{UptraceEnabled: true, UptraceDSN: "https://token@api.uptrace.dev"}, want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := uptraceDisabledReason(tc.cfg); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestResourceAttributes(t *testing.T) {
	attrs := resourceAttributes(config.Config{StoreDriver: " ", CacheEnabled: true})
	if len(attrs) != 3 {
		t.Fatalf("expected 3 attributes, got %d", len(attrs))
	}
	if attrs[0].Value.AsString() != "unknown" {
		t.Fatalf("expected unknown for empty driver, got %q", attrs[0].Value.AsString())
	}
	if !attrs[1].Value.AsBool() || attrs[2].Value.AsBool() {
		t.Fatalf("unexpected feature attributes %+v", attrs)
	}

	attrs = resourceAttributes(config.Config{StoreDriver: config.StoreMongo})
	if attrs[0].Value.AsString() != config.StoreMongo {
		t.Fatalf("unexpected store attribute %q", attrs[0].Value.AsString())
	}
}
