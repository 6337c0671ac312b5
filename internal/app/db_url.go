package app

import (
	"net/url"
	"strings"

	"github.com/riskibarqy/basket-api/internal/config"
)

// DSN is the postgres connection string the api and the migrator share.
func DSN(cfg config.Config) string {
	return normalizeDBURL(strings.TrimSpace(cfg.DBURL), cfg.DBDisablePreparedBinary)
}

// normalizeDBURL adds disable_prepared_binary_result=yes for poolers that
// cannot relay binary results. An explicit value in raw wins.
func normalizeDBURL(raw string, disableBinary bool) string {
	if !disableBinary {
		return raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	query := parsed.Query()
	if !query.Has("disable_prepared_binary_result") {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

// dbNameFromURL reads the database name from a URL path or a key=value dbname.
func dbNameFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if parsed, err := url.Parse(raw); err == nil && parsed.Scheme != "" {
		if name := strings.Trim(parsed.Path, "/ "); name != "" {
			return name
		}
	}

	for _, field := range strings.Fields(raw) {
		if key, value, ok := strings.Cut(field, "="); ok && key == "dbname" {
			return strings.Trim(value, `"' `)
		}
	}
	return ""
}
