package observability

import (
	"testing"
	"time"

	"github.com/riskibarqy/tennis-league/internal/domain/league"
	otellog "go.opentelemetry.io/otel/log"
	"go.uber.org/zap/zapcore"
)

func TestIsQuietAccessLog(t *testing.T) {
	if !isQuietAccessLog("http_request", []any{"http_path", "/healthz"}) {
		t.Fatalf("expected health check log to be skipped")
	}
	if !isQuietAccessLog("http_request", []any{"http_method", "GET", "http_path", "/metrics"}) {
		t.Fatalf("expected metrics scrape log to be skipped")
	}
	if isQuietAccessLog("http_request", []any{"http_path", "/v1/leagues"}) {
		t.Fatalf("did not expect league request log to be skipped")
	}
	if isQuietAccessLog("league status reconcile finished", []any{"http_path", "/healthz"}) {
		t.Fatalf("did not expect non-access event to be skipped")
	}
}

func TestLogAttributes(t *testing.T) {
	attrs := logAttributes("league status reconcile finished", []any{"league_id", "65f1c2a9e4b0a1b2c3d41001", "drift", 2, "dry_run"})
	if len(attrs) != 3 {
		t.Fatalf("expected 3 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "league_id" || attrs[0].Value.AsString() != "65f1c2a9e4b0a1b2c3d41001" {
		t.Fatalf("unexpected league_id attribute")
	}
	if attrs[1].Key != "drift" || attrs[1].Value.AsInt64() != 2 {
		t.Fatalf("unexpected drift attribute")
	}
	if attrs[2].Key != "dry_run" || attrs[2].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("unexpected dry_run attribute")
	}
}

func TestLogAttributes_AccessLogUsesSemanticKeys(t *testing.T) {
	attrs := logAttributes("http_request", []any{"http_method", "POST", "http_status", 201, "league_id", "l1"})
	want := []string{"http.request.method", "http.response.status_code", "league_id"}
	for i, key := range want {
		if attrs[i].Key != key {
			t.Fatalf("attr %d: expected %q, got %q", i, key, attrs[i].Key)
		}
	}

	attrs = logAttributes("store seeded", []any{"http_status", 200})
	if attrs[0].Key != "http_status" {
		t.Fatalf("expected keys outside access logs to be kept, got %q", attrs[0].Key)
	}
}

func TestToOTelLogValue(t *testing.T) {
	v := toOTelLogValue(map[league.Status]int{
		league.StatusComingSoon:       1,
		league.StatusRegistrationOpen: 3,
	}, 0)
	if v.Kind() != otellog.KindMap {
		t.Fatalf("expected map value, got %s", v.Kind())
	}
	if items := v.AsMap(); len(items) != 2 || items[0].Key != "coming_soon" {
		t.Fatalf("unexpected map items %+v", items)
	}

	if got := toOTelLogValue(league.StatusActive, 0).AsString(); got != "active" {
		t.Fatalf("expected named string type to map to string, got %q", got)
	}
	if got := toOTelLogValue(uint16(8), 0).AsInt64(); got != 8 {
		t.Fatalf("unexpected uint value %d", got)
	}

	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("CST", -6*3600))
	if got := toOTelLogValue(ts, 0).AsString(); got != "2025-03-01T18:00:00Z" {
		t.Fatalf("unexpected time value %q", got)
	}
}

func TestToOTelSeverity(t *testing.T) {
	cases := map[zapcore.Level]otellog.Severity{
		zapcore.DebugLevel: otellog.SeverityDebug,
		zapcore.InfoLevel:  otellog.SeverityInfo,
		zapcore.WarnLevel:  otellog.SeverityWarn,
		zapcore.ErrorLevel: otellog.SeverityError,
		zapcore.FatalLevel: otellog.SeverityFatal,
	}
	for level, want := range cases {
		if got := toOTelSeverity(level); got != want {
			t.Fatalf("toOTelSeverity(%s)=%v want %v", level, got, want)
		}
	}
}
