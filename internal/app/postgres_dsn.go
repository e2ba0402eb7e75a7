package app

import (
	"net/url"
	"strings"

	"github.com/riskibarqy/tennis-league/internal/config"
)

const (
	maxTracedQueryLength = 512
	preparedBinaryParam  = "disable_prepared_binary_result"
)

// PostgresDSN is the connection string used for both the API and migrations.
// URL-style DSNs get disable_prepared_binary_result=yes when the config asks
// for it and the URL does not already set it; keyword DSNs pass through.
func PostgresDSN(cfg config.Config) string {
	dsn := strings.TrimSpace(cfg.DBURL)
	if !cfg.DBDisablePreparedBinary {
		return dsn
	}

	u, ok := parsePostgresURL(dsn)
	if !ok {
		return dsn
	}
	query := u.Query()
	if query.Has(preparedBinaryParam) {
		return dsn
	}
	query.Set(preparedBinaryParam, "yes")
	u.RawQuery = query.Encode()
	return u.String()
}

// postgresDBName reports the database named by a URL or keyword DSN.
func postgresDBName(dsn string) string {
	dsn = strings.TrimSpace(dsn)
	if u, ok := parsePostgresURL(dsn); ok {
		return strings.Trim(u.Path, "/ ")
	}

	for _, field := range strings.Fields(dsn) {
		key, value, found := strings.Cut(field, "=")
		if found && key == "dbname" {
			return strings.Trim(value, `"'`)
		}
	}
	return ""
}

func parsePostgresURL(dsn string) (*url.URL, bool) {
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		return nil, false
	}
	return u, true
}

// formatDBQueryForTrace is the otelsql query formatter: one line, no
// trailing semicolon, capped length.
func formatDBQueryForTrace(query string) string {
	query = strings.Join(strings.Fields(query), " ")
	query = strings.TrimSpace(strings.TrimSuffix(query, ";"))
	if len(query) > maxTracedQueryLength {
		return query[:maxTracedQueryLength] + "..."
	}
	return query
}
