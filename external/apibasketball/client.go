package apibasketball

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/basket-api/internal/domain/game"
	"github.com/riskibarqy/basket-api/internal/platform/logging"
	"github.com/riskibarqy/basket-api/internal/platform/resilience"
	"github.com/riskibarqy/basket-api/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultBaseURL = "https://api-basketball.p.rapidapi.com"
	defaultHost    = "api-basketball.p.rapidapi.com"
	gamesPath      = "/games"
	maxBodyBytes   = 8 << 20
)

var errFeedTransient = crerr.New("basketball feed transient failure")

// Decoded strings must not alias the pooled read buffer.
var feedJSON = sonic.Config{CopyString: true}.Froze()

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	APIHost        string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads games from api-basketball over RapidAPI.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	apiHost    string
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	host := strings.TrimSpace(cfg.APIHost)
	if host == "" {
		host = defaultHost
	}

	breaker := resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker)
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("basketball feed circuit breaker state changed", "from", from, "to", to)
	})

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		apiHost:    host,
		logger:     logger,
		breaker:    breaker,
	}
}

// FetchGames issues exactly one GET /games with the filter as query
// parameters. A non-empty errors payload fails the whole call.
func (c *Client) FetchGames(ctx context.Context, filter game.Filter) ([]usecase.FeedGame, error) {
	query := filterQuery(filter)

	var env envelope
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.getJSON(ctx, gamesPath, query, &env)
	}, isCircuitFailure)
	if err != nil {
		if stderrors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "basketball feed circuit breaker rejected request")
			return nil, &usecase.RemoteError{Message: "feed is temporarily unavailable", Err: err}
		}
		return nil, err
	}

	if hasErrors(env.Errors) {
		c.logger.WarnContext(ctx, "basketball feed reported errors", "errors", env.Errors, "query", query.Encode())
		return nil, &usecase.RemoteError{Message: "feed reported errors", Payload: env.Errors}
	}

	out := make([]usecase.FeedGame, 0, len(env.Response))
	for _, item := range env.Response {
		out = append(out, item.toFeedGame())
	}

	c.logger.DebugContext(ctx, "basketball feed games fetched", "count", len(out), "query", query.Encode())
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, target *envelope) error {
	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return &usecase.RemoteError{Message: "build feed request", Err: err}
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.apiHost)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		remote := &usecase.RemoteError{Message: "send feed request", Timeout: isTimeout(err), Err: err}
		if remote.Timeout {
			remote.Message = "feed request timed out"
		}
		c.logger.WarnContext(ctx, "basketball feed request failed", "path", path, "timeout", remote.Timeout, "error", err)
		return crerr.Mark(remote, errFeedTransient)
	}
	defer resp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxBodyBytes)); err != nil {
		remote := &usecase.RemoteError{Message: "read feed response", Timeout: isTimeout(err), Err: err}
		return crerr.Mark(remote, errFeedTransient)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		remote := &usecase.RemoteError{
			Message: fmt.Sprintf("feed returned status %d", resp.StatusCode),
			Payload: statusPayload(buf.B),
		}
		c.logger.WarnContext(ctx, "basketball feed returned non-2xx", "path", path, "status", resp.StatusCode)
		if isRetryableStatus(resp.StatusCode) {
			return crerr.Mark(remote, errFeedTransient)
		}
		return remote
	}

	if err := feedJSON.Unmarshal(buf.B, target); err != nil {
		return &usecase.RemoteError{Message: "decode feed response", Err: err}
	}
	return nil
}

func filterQuery(filter game.Filter) url.Values {
	values := url.Values{}
	if filter.HasDate() {
		values.Set("date", filter.Date.UTC().Format(time.DateOnly))
	}
	if filter.LeagueID > 0 {
		values.Set("league", strconv.FormatInt(filter.LeagueID, 10))
	}
	if season := strings.TrimSpace(filter.Season); season != "" {
		values.Set("season", season)
	}
	if filter.TeamID > 0 {
		values.Set("team", strconv.FormatInt(filter.TeamID, 10))
	}
	return values
}

// hasErrors treats an empty list, an empty object and null as no errors.
func hasErrors(payload any) bool {
	switch v := payload.(type) {
	case nil:
		return false
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	case string:
		return strings.TrimSpace(v) != ""
	case bool:
		return v
	default:
		return true
	}
}

// statusPayload keeps the feed's errors object when the body carries one and
// falls back to a shortened body otherwise.
func statusPayload(body []byte) any {
	var env struct {
		Errors  any `json:"errors"`
		Message any `json:"message"`
	}
	if err := feedJSON.Unmarshal(body, &env); err == nil {
		if hasErrors(env.Errors) {
			return env.Errors
		}
		if env.Message != nil {
			return env.Message
		}
	}
	return abbreviateBody(body)
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errFeedTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
