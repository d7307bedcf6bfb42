package espn

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-tracker/internal/domain/gameclock"
	"github.com/riskibarqy/league-tracker/internal/platform/logging"
	"github.com/riskibarqy/league-tracker/internal/platform/resilience"
	"github.com/riskibarqy/league-tracker/internal/usecase"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const defaultScoreboardURL = "https://site.api.espn.com/apis/site/v2/sports/football/nfl/scoreboard"

var errESPNTransient = crerr.New("espn transient failure")

type ClientConfig struct {
	ScoreboardURL  string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads the public NFL scoreboard. It implements
// usecase.ScheduleProvider.
type Client struct {
	http          *fasthttp.Client
	scoreboardURL string
	timeout       time.Duration
	logger        *logging.Logger
	breaker       *resilience.CircuitBreaker
}

var _ usecase.ScheduleProvider = (*Client)(nil)

func NewClient(cfg ClientConfig) (*Client, error) {
	raw := strings.TrimSpace(cfg.ScoreboardURL)
	if raw == "" {
		raw = defaultScoreboardURL
	}
	scoreboardURL, err := validateHTTPURL(raw)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid ESPN_SCOREBOARD_URL")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("espn")

	return &Client{
		http: &fasthttp.Client{
			Name:                "league-tracker",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		},
		scoreboardURL: scoreboardURL,
		timeout:       timeout,
		logger:        logger,
		breaker: resilience.NewCircuitBreaker("espn", cfg.CircuitBreaker, func(name string, from, to resilience.CircuitState) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from, "to", to)
		}),
	}, nil
}

func (c *Client) FetchScoreboard(ctx context.Context) ([]gameclock.Game, error) {
	raw, err := resilience.Execute(c.breaker, isTransient, func() ([]byte, error) {
		return c.get(ctx)
	})
	if err != nil {
		if stderrors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: scoreboard provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		return nil, fmt.Errorf("fetch scoreboard: %w", err)
	}

	var payload scoreboardResponse
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode scoreboard payload: %w", err)
	}

	games := make([]gameclock.Game, 0, len(payload.Events))
	for _, event := range payload.Events {
		if strings.TrimSpace(event.ShortName) == "" {
			continue
		}
		games = append(games, gameclock.Game{
			ShortName:    strings.TrimSpace(event.ShortName),
			Date:         strings.TrimSpace(event.Date),
			State:        strings.TrimSpace(event.Status.Type.State),
			DisplayClock: strings.TrimSpace(event.Status.DisplayClock),
			Period:       event.Status.Period,
		})
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("espn.scoreboard_url", c.scoreboardURL),
			attribute.Int("espn.events", len(games)),
		)
	}
	return games, nil
}

func (c *Client) get(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.scoreboardURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("%w: send request: %v", errESPNTransient, err)
	}

	status := resp.StatusCode()
	body := resp.Body()
	if status < 200 || status >= 300 {
		text := abbreviateBody(body)
		if status == fasthttp.StatusTooManyRequests || status >= fasthttp.StatusInternalServerError {
			return nil, fmt.Errorf("%w: provider status=%d body=%s", errESPNTransient, status, text)
		}
		return nil, fmt.Errorf("provider status=%d body=%s", status, text)
	}

	// body is owned by resp, which goes back to the pool on return.
	out := make([]byte, len(body))
	copy(out, body)
	return out, nil
}

func validateHTTPURL(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", raw)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", raw, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", raw)
	}
	return raw, nil
}

func isTransient(err error) bool {
	return err != nil && stderrors.Is(err, errESPNTransient)
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

type scoreboardResponse struct {
	Events []scoreboardEvent `json:"events"`
}

type scoreboardEvent struct {
	ShortName string          `json:"shortName"`
	Date      string          `json:"date"`
	Status    scoreboardState `json:"status"`
}

type scoreboardState struct {
	DisplayClock string         `json:"displayClock"`
	Period       int            `json:"period"`
	Type         scoreboardType `json:"type"`
}

type scoreboardType struct {
	State string `json:"state"`
}
