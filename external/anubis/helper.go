package anubis

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

// isCircuitFailure counts only transport errors and 429/5xx replies. A
// rejected token is a valid answer from a healthy server.
func isCircuitFailure(err error) bool {
	return crerr.Is(err, errAnubisTransient)
}

// hashToken keys the principal cache so raw tokens never sit in memory or redis.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// buildURL joins the base URL and path. An absolute path replaces the base.
func buildURL(baseURL, path string) string {
	path = strings.TrimSpace(path)
	if strings.Contains(path, "://") {
		return path
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if path == "" {
		return baseURL
	}
	return baseURL + "/" + strings.TrimLeft(path, "/")
}
