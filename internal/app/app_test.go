package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/basket-api/internal/config"
	"github.com/riskibarqy/basket-api/internal/domain/user"
	"github.com/riskibarqy/basket-api/internal/infrastructure/jwtauth"
	"github.com/riskibarqy/basket-api/internal/platform/logging"
	"github.com/stretchr/testify/require"
)

func TestBuild_InMemoryWithJWT(t *testing.T) {
	t.Parallel()

	cfg := config.Config{
		HTTPAddr:           ":0",
		CORSAllowedOrigins: []string{"*"},
		CacheEnabled:       true,
		CacheTTL:           time.Minute,
		AuthProvider:       config.AuthProviderJWT,
		AuthAdminRole:      "basket-admin",
		JWTSecret:          "s3cret",
		FeedAPIKey:         "feed-key",
		FeedBaseURL:        "http://127.0.0.1:1",
		FeedTimeout:        time.Second,
	}

	container, err := Build(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, container.Close()) })

	srv, err := NewHTTPServer(cfg, container, logging.NewNop())
	require.NoError(t, err)

	signer, err := jwtauth.NewVerifier(jwtauth.Config{Secret: "s3cret"})
	require.NoError(t, err)
	token, err := signer.Sign(user.Principal{UserID: "admin-1"}, []string{"basket-admin"}, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/leagues", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Contains(t, rec.Body.String(), "Divizia A")

	req = httptest.NewRequest(http.MethodGet, "/v1/games", nil)
	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBuild_WithoutFeedKeyDisablesRefresh(t *testing.T) {
	t.Parallel()

	cfg := config.Config{
		HTTPAddr:           ":0",
		CORSAllowedOrigins: []string{"*"},
		AuthProvider:       config.AuthProviderJWT,
		AuthAdminRole:      "basket-admin",
		JWTSecret:          "s3cret",
	}

	container, err := Build(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, container.Close()) })
	require.Nil(t, container.Refresh)
	require.Nil(t, container.Batch)

	srv, err := NewHTTPServer(cfg, container, logging.NewNop())
	require.NoError(t, err)

	signer, err := jwtauth.NewVerifier(jwtauth.Config{Secret: "s3cret"})
	require.NoError(t, err)
	token, err := signer.Sign(user.Principal{UserID: "admin-1"}, []string{"basket-admin"}, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/games?refresh=true&league=176", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/v1/games", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestNewHTTPServer_RequiresAddr(t *testing.T) {
	t.Parallel()

	_, err := NewHTTPServer(config.Config{}, &Container{}, nil)
	require.Error(t, err)
}
