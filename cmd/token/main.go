package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/tennis-league/internal/config"
	"github.com/riskibarqy/tennis-league/internal/domain/user"
	"github.com/riskibarqy/tennis-league/internal/infrastructure/account/jwtauth"
)

type options struct {
	userID string
	email  string
	roles  string
	ttl    time.Duration
}

func main() {
	var opts options
	flag.StringVar(&opts.userID, "user", "", "subject user id (required)")
	flag.StringVar(&opts.email, "email", "", "email claim")
	flag.StringVar(&opts.roles, "roles", user.RoleAdmin, "comma separated roles")
	flag.DurationVar(&opts.ttl, "ttl", 0, "token lifetime (defaults to AUTH_TOKEN_TTL)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	if err := run(os.Stdout, cfg, opts, clockwork.NewRealClock()); err != nil {
		fmt.Fprintf(os.Stderr, "issue token: %v\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer, cfg config.Config, opts options, clock clockwork.Clock) error {
	if strings.TrimSpace(opts.userID) == "" {
		return fmt.Errorf("-user is required")
	}

	ttl := cfg.AuthTokenTTL
	if opts.ttl > 0 {
		ttl = opts.ttl
	}

	manager, err := jwtauth.NewManager(jwtauth.Config{
		Secret: cfg.AuthJWTSecret,
		Issuer: cfg.AuthJWTIssuer,
		TTL:    ttl,
	}, clock)
	if err != nil {
		return err
	}

	token, expiresAt, err := manager.Issue(user.Principal{
		UserID: strings.TrimSpace(opts.userID),
		Email:  strings.TrimSpace(opts.email),
		Roles:  splitRoles(opts.roles),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s\n", token)
	fmt.Fprintf(w, "# expires %s\n", expiresAt.UTC().Format(time.RFC3339))
	return nil
}

func splitRoles(raw string) []string {
	var roles []string
	for _, part := range strings.Split(raw, ",") {
		if role := strings.TrimSpace(part); role != "" {
			roles = append(roles, role)
		}
	}
	return roles
}
