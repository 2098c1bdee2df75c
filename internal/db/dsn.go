package db

import (
	"regexp"
	"strings"
)

var kvPairRegex = regexp.MustCompile(`(?i)\b(host|user|password|dbname|port|sslmode)=`)

// NormalizeDSN accepts a URL style DSN (postgres://...), a lib/pq key=value
// list, or a sqlite path/file: URI. It trims quotes and whitespace and, for
// the key=value form, ensures sslmode is present.
func NormalizeDSN(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "\"'")
	if s == "" {
		return s
	}
	if IsPostgres(s) {
		if kvPairRegex.MatchString(s) {
			fields := strings.Fields(s)
			cleaned := strings.Join(fields, " ")
			if !strings.Contains(strings.ToLower(cleaned), "sslmode=") {
				cleaned += " sslmode=disable"
			}
			return cleaned
		}
		return s
	}
	return s
}

// IsPostgres reports whether the DSN targets postgres rather than sqlite.
func IsPostgres(dsn string) bool {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	return strings.HasPrefix(lower, "postgres://") ||
		strings.HasPrefix(lower, "postgresql://") ||
		kvPairRegex.MatchString(lower)
}
