package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/tennis-league/internal/domain/user"
	"github.com/riskibarqy/tennis-league/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/leagues", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(requestIDHeader))
}

func TestRequestID_KeepsCallerValue(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/leagues", nil)
	req.Header.Set(requestIDHeader, "edge-42")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "edge-42", seen)

	req = httptest.NewRequest(http.MethodGet, "/v1/leagues", nil)
	req.Header.Set(requestIDHeader, strings.Repeat("x", maxRequestIDLength+1))
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEqual(t, strings.Repeat("x", maxRequestIDLength+1), seen)
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name      string
		principal *user.Principal
		want      int
	}{
		{name: "no principal", principal: nil, want: http.StatusUnauthorized},
		{name: "player", principal: &user.Principal{UserID: "p", Roles: []string{user.RolePlayer}}, want: http.StatusForbidden},
		{name: "admin", principal: &user.Principal{UserID: "a", Roles: []string{user.RoleAdmin}}, want: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/admin/leagues", nil)
			if tt.principal != nil {
				req = req.WithContext(withPrincipal(req.Context(), *tt.principal))
			}
			rec := httptest.NewRecorder()
			RequireRole(user.RoleAdmin, ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequireAuth_RejectsMalformedHeader(t *testing.T) {
	h := RequireAuth(nil, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatalf("next must not be called")
	}))

	for _, header := range []string{"", "Basic abc", "Bearer ", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/admin/leagues", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, rec.Code)
		}
	}
}

func TestRequestLogging_WritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewJSONWriter(logging.LevelInfo, &buf)

	mux := http.NewServeMux()
	handle(mux, "GET /v1/leagues/{leagueID}", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	h := RequestID(RequestLogging(logger, mux))

	req := httptest.NewRequest(http.MethodGet, "/v1/leagues/abc", nil)
	req.Header.Set(requestIDHeader, "req-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	require.NoError(t, sonic.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line), buf.String())
	assert.Equal(t, "http_request", line["msg"])
	assert.Equal(t, "GET", line["http_method"])
	assert.Equal(t, "/v1/leagues/abc", line["http_path"])
	assert.Equal(t, "GET /v1/leagues/{leagueID}", line["http_route"])
	assert.EqualValues(t, http.StatusAccepted, line["http_status"])
	assert.Equal(t, "req-1", line["request_id"])
}

type recordedObservation struct {
	method string
	route  string
	status int
}

type fakeHTTPMetrics struct {
	observed []recordedObservation
}

func (f *fakeHTTPMetrics) ObserveHTTPRequest(method, route string, status int, _ time.Duration) {
	f.observed = append(f.observed, recordedObservation{method: method, route: route, status: status})
}

func TestMetrics_RecordsPatternAndStatus(t *testing.T) {
	metrics := &fakeHTTPMetrics{}

	mux := http.NewServeMux()
	handle(mux, "GET /v1/cities/{citySlug}/leagues", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	h := Metrics(metrics, mux)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/cities/boise/leagues", nil))

	require.Len(t, metrics.observed, 1)
	assert.Equal(t, recordedObservation{method: "GET", route: "GET /v1/cities/{citySlug}/leagues", status: http.StatusNotFound}, metrics.observed[0])
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "fly header wins", headers: map[string]string{"Fly-Client-IP": "198.51.100.7", "X-Forwarded-For": "10.0.0.1"}, remote: "127.0.0.1:80", want: "198.51.100.7"},
		{name: "first forwarded hop", headers: map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, remote: "127.0.0.1:80", want: "203.0.113.5"},
		{name: "garbage header skipped", headers: map[string]string{"X-Real-IP": "unknown"}, remote: "192.0.2.4:5555", want: "192.0.2.4"},
		{name: "ipv6 remote", remote: "[2001:db8::1]:443", want: "2001:db8::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientIP(req))
		})
	}
}
