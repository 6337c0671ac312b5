package apibasketball

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/basket-api/internal/domain/game"
	"github.com/riskibarqy/basket-api/internal/platform/resilience"
	"github.com/riskibarqy/basket-api/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const gamesBody = `{
  "get": "games",
  "errors": [],
  "results": 1,
  "response": [{
    "id": 390001,
    "date": "2024-01-13T17:00:00+00:00",
    "time": "17:00",
    "timestamp": 1705165200,
    "timezone": "UTC",
    "stage": null,
    "week": null,
    "status": {"long": "Game Finished", "short": "FT", "timer": null},
    "league": {"id": 176, "name": "Divizia A", "type": "League", "season": "2023-2024", "logo": "https://media.example/leagues/176.png"},
    "country": {"id": 33, "name": "Romania", "code": "RO", "flag": null},
    "teams": {
      "home": {"id": 2301, "name": "U-BT Cluj-Napoca", "logo": "https://media.example/teams/2301.png"},
      "away": {"id": 2302, "name": "CSM Oradea", "logo": null}
    },
    "scores": {
      "home": {"quarter_1": 25, "quarter_2": 20, "quarter_3": 22, "quarter_4": 19, "over_time": null, "total": 86},
      "away": {"quarter_1": 18, "quarter_2": 21, "quarter_3": 20, "quarter_4": 24, "over_time": null, "total": 83}
    }
  }]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(ClientConfig{
		HTTPClient: srv.Client(),
		BaseURL:    srv.URL,
		APIKey:     "key-123",
		APIHost:    "api-basketball.test",
	})
}

func TestClientFetchGames_SendsHeadersAndMapsRecords(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/games" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("X-RapidAPI-Key"); got != "key-123" {
			t.Errorf("unexpected api key header: %q", got)
		}
		if got := r.Header.Get("X-RapidAPI-Host"); got != "api-basketball.test" {
			t.Errorf("unexpected api host header: %q", got)
		}
		q := r.URL.Query()
		if q.Get("date") != "2024-01-13" || q.Get("league") != "176" || q.Get("season") != "2023-2024" || q.Get("team") != "" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(gamesBody))
	})

	games, err := client.FetchGames(context.Background(), game.Filter{
		Date:     time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC),
		LeagueID: 176,
		Season:   "2023-2024",
	})
	if err != nil {
		t.Fatalf("fetch games: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected exactly one request, got %d", calls.Load())
	}
	if len(games) != 1 {
		t.Fatalf("unexpected game count: %d", len(games))
	}

	got := games[0]
	if got.ID != 390001 || got.Timestamp != 1705165200 || got.Stage != "" || got.Week != "" {
		t.Fatalf("unexpected game fields: %+v", got)
	}
	if got.League.ID != 176 || got.League.Season != "2023-2024" {
		t.Fatalf("unexpected league: %+v", got.League)
	}
	if got.Country.Code != "RO" || got.Country.Flag != "" {
		t.Fatalf("unexpected country: %+v", got.Country)
	}
	if got.HomeTeam.ID != 2301 || got.AwayTeam.ID != 2302 || got.AwayTeam.Logo != "" {
		t.Fatalf("unexpected teams: home=%+v away=%+v", got.HomeTeam, got.AwayTeam)
	}
	if err := game.Score(got.HomeScore).Validate(); err != nil {
		t.Fatalf("home score should satisfy schema: %v", err)
	}
	if game.Score(got.AwayScore).Total() != 83 {
		t.Fatalf("unexpected away total: %v", got.AwayScore["total"])
	}
}

func TestClientFetchGames_ErrorsPayloadIsRemoteError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "list", body: `{"errors": ["rate limited"], "response": []}`},
		{name: "object", body: `{"errors": {"token": "Error/Missing application key."}, "response": []}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			})

			games, err := client.FetchGames(context.Background(), game.Filter{})
			if games != nil {
				t.Fatalf("expected no games, got %d", len(games))
			}
			var remote *usecase.RemoteError
			if !errors.As(err, &remote) {
				t.Fatalf("expected RemoteError, got %v", err)
			}
			if remote.Payload == nil {
				t.Fatalf("expected payload to be carried")
			}
			if !errors.Is(err, usecase.ErrRemote) {
				t.Fatalf("expected ErrRemote match")
			}
		})
	}
}

func TestClientFetchGames_RateLimitPayloadVerbatim(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"errors": ["rate limited"], "response": []}`))
	})

	_, err := client.FetchGames(context.Background(), game.Filter{})
	var remote *usecase.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	payload, ok := remote.Payload.([]any)
	if !ok || len(payload) != 1 || payload[0] != "rate limited" {
		t.Fatalf("unexpected payload: %#v", remote.Payload)
	}
}

func TestClientFetchGames_EmptyErrorsObjectIsSuccess(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"errors": {}, "results": 0, "response": []}`))
	})

	games, err := client.FetchGames(context.Background(), game.Filter{})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(games) != 0 {
		t.Fatalf("expected no games, got %d", len(games))
	}
}

func TestClientFetchGames_TimeoutIsRemoteError(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	httpClient := srv.Client()
	httpClient.Timeout = 50 * time.Millisecond
	client := NewClient(ClientConfig{HTTPClient: httpClient, BaseURL: srv.URL})

	_, err := client.FetchGames(context.Background(), game.Filter{})
	var remote *usecase.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if !remote.Timeout {
		t.Fatalf("expected timeout flag, got %+v", remote)
	}
}

func TestClientFetchGames_Non2xxAndBadBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusBadGateway, body: `upstream down`},
		{name: "forbidden", status: http.StatusForbidden, body: `{"message": "You are not subscribed to this API."}`},
		{name: "garbage", status: http.StatusOK, body: `{"response": [`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := client.FetchGames(context.Background(), game.Filter{})
			if !errors.Is(err, usecase.ErrRemote) {
				t.Fatalf("expected remote error, got %v", err)
			}
		})
	}
}

func TestClientFetchGames_CircuitOpensOnTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		HTTPClient: srv.Client(),
		BaseURL:    srv.URL,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
		},
	})

	for i := 0; i < 3; i++ {
		_, err := client.FetchGames(context.Background(), game.Filter{})
		if !errors.Is(err, usecase.ErrRemote) {
			t.Fatalf("call %d: expected remote error, got %v", i, err)
		}
	}
	if calls.Load() != 2 {
		t.Fatalf("expected breaker to short-circuit the third call, upstream saw %d", calls.Load())
	}
}

func TestNewClient_DefaultHTTPClientIsTraced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(gamesBody))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "key-123"})
	if _, ok := client.httpClient.Transport.(*otelhttp.Transport); !ok {
		t.Fatalf("expected otelhttp transport, got %T", client.httpClient.Transport)
	}
	if client.httpClient.Timeout != 10*time.Second {
		t.Fatalf("expected default timeout, got %s", client.httpClient.Timeout)
	}

	games, err := client.FetchGames(context.Background(), game.Filter{LeagueID: 176, Season: "2023-2024"})
	if err != nil {
		t.Fatalf("fetch games: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("expected one game, got %d", len(games))
	}
}

func TestLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   any
		want string
	}{
		{in: nil, want: ""},
		{in: "  Regular Season ", want: "Regular Season"},
		{in: float64(2023), want: "2023"},
		{in: int64(7), want: "7"},
	}
	for _, tc := range tests {
		if got := label(tc.in); got != tc.want {
			t.Fatalf("label(%v)=%q want %q", tc.in, got, tc.want)
		}
	}
}
