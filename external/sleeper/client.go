package sleeper

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/league-tracker/internal/platform/logging"
	"github.com/riskibarqy/league-tracker/internal/platform/resilience"
	"github.com/riskibarqy/league-tracker/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL      = "https://api.sleeper.app"
	defaultStatsBaseURL = "https://api.sleeper.com"
	defaultSeasonType   = "regular"
	maxResponseBytes    = 16 << 20
)

var errSleeperTransient = crerr.New("sleeper transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string `validate:"omitempty,url"`
	StatsBaseURL   string `validate:"omitempty,url"`
	LeagueID       string `validate:"required"`
	Timeout        time.Duration
	MaxRetries     int     `validate:"gte=0,lte=10"`
	RatePerSecond  float64 `validate:"gte=0"`
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	Backoff        func(attempt int) time.Duration
	Now            func() time.Time
}

// Client reads one Sleeper league. It implements usecase.LeagueProvider and
// usecase.StatsProvider.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	statsBaseURL string
	leagueID     string
	maxRetries   int
	logger       *logging.Logger
	breaker      *resilience.CircuitBreaker
	limiter      *rate.Limiter
	flight       singleflight.Group
	backoff      func(attempt int) time.Duration
	now          func() time.Time
}

var (
	_ usecase.LeagueProvider = (*Client)(nil)
	_ usecase.StatsProvider  = (*Client)(nil)
)

func NewClient(cfg ClientConfig) (*Client, error) {
	cfg.LeagueID = strings.TrimSpace(cfg.LeagueID)
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: sleeper client config: %v", usecase.ErrInvalidInput, err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("sleeper")

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
	statsBaseURL := strings.TrimRight(strings.TrimSpace(cfg.StatsBaseURL), "/")
	if statsBaseURL == "" {
		statsBaseURL = defaultStatsBaseURL
	}

	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), max(int(cfg.RatePerSecond), 1))
	}

	backoff := cfg.Backoff
	if backoff == nil {
		backoff = func(attempt int) time.Duration { return time.Duration(attempt+1) * time.Second }
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	breaker := resilience.NewCircuitBreaker("sleeper", cfg.CircuitBreaker, func(name string, from, to resilience.CircuitState) {
		logger.Warn("circuit breaker state changed", "breaker", name, "from", from, "to", to)
	})

	return &Client{
		httpClient:   httpClient,
		baseURL:      baseURL,
		statsBaseURL: statsBaseURL,
		leagueID:     cfg.LeagueID,
		maxRetries:   cfg.MaxRetries,
		logger:       logger,
		breaker:      breaker,
		limiter:      limiter,
		backoff:      backoff,
		now:          now,
	}, nil
}

func (c *Client) LeagueID() string {
	return c.leagueID
}

func (c *Client) doJSON(ctx context.Context, fullURL string, target any) error {
	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		return resilience.Execute(c.breaker, isTransient, func() ([]byte, error) {
			return c.executeRequest(ctx, fullURL)
		})
	})
	if err != nil {
		if stderrors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "circuit breaker rejected request", "url", fullURL, "state", c.breaker.State())
			return fmt.Errorf("%w: league provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("wait for rate limiter: %w", err)
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errSleeperTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errSleeperTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errSleeperTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(c.backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "sleeper request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) leagueURL(parts ...string) string {
	segments := append([]string{"v1", "league", url.PathEscape(c.leagueID)}, parts...)
	return c.baseURL + "/" + strings.Join(segments, "/")
}

func isTransient(err error) bool {
	return err != nil && stderrors.Is(err, errSleeperTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
