package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/tennis-league/internal/config"
	"github.com/riskibarqy/tennis-league/internal/infrastructure/account/jwtauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_IssuesVerifiableToken(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	cfg := config.Config{
		AuthJWTSecret: "token-cmd-secret-token-cmd-secret",
		AuthJWTIssuer: "tennis-league",
		AuthTokenTTL:  time.Hour,
	}

	var out bytes.Buffer
	err := run(&out, cfg, options{userID: "ops-7", email: "ops@example.com", roles: "admin, player,"}, clock)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "# expires 2026-03-01T01:00:00Z", lines[1])

	manager, err := jwtauth.NewManager(jwtauth.Config{Secret: cfg.AuthJWTSecret, Issuer: cfg.AuthJWTIssuer, TTL: time.Hour}, clock)
	require.NoError(t, err)
	principal, err := manager.VerifyAccessToken(context.Background(), lines[0])
	require.NoError(t, err)
	assert.Equal(t, "ops-7", principal.UserID)
	assert.Equal(t, []string{"admin", "player"}, principal.Roles)
}

func TestRun_RequiresUser(t *testing.T) {
	err := run(&bytes.Buffer{}, config.Config{AuthJWTSecret: "x", AuthTokenTTL: time.Hour}, options{}, clockwork.NewFakeClock())
	assert.Error(t, err)
}
