package fplapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fplmetric/fplmetric/internal/platform/logging"
	"github.com/fplmetric/fplmetric/internal/platform/resilience"
	"github.com/fplmetric/fplmetric/internal/usecase"
)

const defaultBaseURL = "https://fantasy.premierleague.com/api"

var errFPLTransient = crerr.New("fpl api transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the public Fantasy Premier League API. The bootstrap dump
// is fetched as one document; player records stay loosely typed because the
// upstream schema changes between seasons without notice.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	var httpClient *http.Client
	if cfg.HTTPClient != nil {
		// Copy the caller's client before touching its timeout.
		clone := *cfg.HTTPClient
		httpClient = &clone
	} else {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type teamPayload struct {
	ID                  int64  `json:"id"`
	Code                int64  `json:"code"`
	Name                string `json:"name"`
	ShortName           string `json:"short_name"`
	StrengthAttackHome  int    `json:"strength_attack_home"`
	StrengthAttackAway  int    `json:"strength_attack_away"`
	StrengthDefenceHome int    `json:"strength_defence_home"`
	StrengthDefenceAway int    `json:"strength_defence_away"`
}

type eventPayload struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	DeadlineTime string `json:"deadline_time"`
	IsNext       bool   `json:"is_next"`
	Finished     bool   `json:"finished"`
}

type bootstrapEnvelope struct {
	Elements []map[string]any `json:"elements"`
	Teams    []teamPayload    `json:"teams"`
	Events   []eventPayload   `json:"events"`
}

type fixturePayload struct {
	Event           *int64 `json:"event"`
	TeamH           int64  `json:"team_h"`
	TeamA           int64  `json:"team_a"`
	KickoffTime     string `json:"kickoff_time"`
	TeamHDifficulty int    `json:"team_h_difficulty"`
	TeamADifficulty int    `json:"team_a_difficulty"`
}

func (c *Client) FetchBootstrap(ctx context.Context) (usecase.SourceBootstrap, error) {
	var envelope bootstrapEnvelope
	if err := c.doJSON(ctx, "/bootstrap-static/", nil, &envelope); err != nil {
		return usecase.SourceBootstrap{}, fmt.Errorf("fetch bootstrap: %w", err)
	}

	out := usecase.SourceBootstrap{
		Players: make([]usecase.RawRecord, 0, len(envelope.Elements)),
		Teams:   make([]usecase.SourceTeam, 0, len(envelope.Teams)),
		Events:  make([]usecase.SourceEvent, 0, len(envelope.Events)),
	}
	for _, element := range envelope.Elements {
		out.Players = append(out.Players, usecase.RawRecord(element))
	}
	for _, team := range envelope.Teams {
		out.Teams = append(out.Teams, usecase.SourceTeam{
			ID:                  team.ID,
			Code:                team.Code,
			Name:                team.Name,
			ShortName:           team.ShortName,
			StrengthAttackHome:  team.StrengthAttackHome,
			StrengthAttackAway:  team.StrengthAttackAway,
			StrengthDefenceHome: team.StrengthDefenceHome,
			StrengthDefenceAway: team.StrengthDefenceAway,
		})
	}
	for _, event := range envelope.Events {
		out.Events = append(out.Events, usecase.SourceEvent{
			ID:         event.ID,
			Name:       event.Name,
			DeadlineAt: parseProviderTime(event.DeadlineTime),
			IsNext:     event.IsNext,
			Finished:   event.Finished,
		})
	}

	return out, nil
}

func (c *Client) FetchFixturesByEvent(ctx context.Context, event int64) ([]usecase.SourceFixture, error) {
	if event <= 0 {
		return nil, fmt.Errorf("event id must be greater than zero")
	}
	query := map[string]string{"event": strconv.FormatInt(event, 10)}

	var payload []fixturePayload
	if err := c.doJSON(ctx, "/fixtures/", query, &payload); err != nil {
		return nil, fmt.Errorf("fetch fixtures event=%d: %w", event, err)
	}

	return mapFixtures(payload), nil
}

func (c *Client) FetchUpcomingFixtures(ctx context.Context) ([]usecase.SourceFixture, error) {
	query := map[string]string{"future": "1"}

	var payload []fixturePayload
	if err := c.doJSON(ctx, "/fixtures/", query, &payload); err != nil {
		return nil, fmt.Errorf("fetch upcoming fixtures: %w", err)
	}

	return mapFixtures(payload), nil
}

func mapFixtures(payload []fixturePayload) []usecase.SourceFixture {
	out := make([]usecase.SourceFixture, 0, len(payload))
	for _, item := range payload {
		// Unscheduled matches have no gameweek yet; they cannot be placed
		// on a ticker so they are skipped.
		if item.Event == nil || *item.Event <= 0 {
			continue
		}
		out = append(out, usecase.SourceFixture{
			Event:          *item.Event,
			HomeTeamID:     item.TeamH,
			AwayTeamID:     item.TeamA,
			KickoffAt:      parseProviderTime(item.KickoffTime),
			HomeDifficulty: item.TeamHDifficulty,
			AwayDifficulty: item.TeamADifficulty,
		})
	}
	return out
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "fpl api circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: player data source is temporarily unavailable", usecase.ErrSourceUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isTransientFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode fpl payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errFPLTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errFPLTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errFPLTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
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
	c.logger.WarnContext(ctx, "fpl api request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isTransientFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errFPLTransient)
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

func parseProviderTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return parsed.UTC()
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
