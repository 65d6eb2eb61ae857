package fplapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fplmetric/fplmetric/internal/platform/logging"
	"github.com/fplmetric/fplmetric/internal/platform/resilience"
	"github.com/fplmetric/fplmetric/internal/usecase"
)

func newTestClient(t *testing.T, handler http.Handler, maxRetries int) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		HTTPClient:     server.Client(),
		BaseURL:        server.URL,
		MaxRetries:     maxRetries,
		Logger:         logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})
}

const bootstrapBody = `{
	"elements": [
		{"id": 233, "web_name": "Haaland", "team": 13, "minutes": 1012, "expected_goals": "12.44"}
	],
	"teams": [
		{"id": 13, "code": 43, "name": "Man City", "short_name": "MCI", "strength_attack_home": 1380, "strength_defence_away": 1290}
	],
	"events": [
		{"id": 3, "name": "Gameweek 3", "deadline_time": "2026-09-05T10:30:00Z", "is_next": true, "finished": false}
	]
}`

func TestFetchBootstrap(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bootstrap-static/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(bootstrapBody))
	}), 0)

	bootstrap, err := client.FetchBootstrap(context.Background())
	if err != nil {
		t.Fatalf("fetch bootstrap: %v", err)
	}

	if len(bootstrap.Players) != 1 {
		t.Fatalf("expected 1 player record, got %d", len(bootstrap.Players))
	}
	if got := bootstrap.Players[0].GetInt64("id"); got != 233 {
		t.Fatalf("unexpected player id %d", got)
	}
	if got := bootstrap.Players[0].GetFloat("expected_goals"); got != 12.44 {
		t.Fatalf("unexpected expected_goals %f", got)
	}

	if len(bootstrap.Teams) != 1 || bootstrap.Teams[0].Code != 43 || bootstrap.Teams[0].StrengthDefenceAway != 1290 {
		t.Fatalf("unexpected teams: %+v", bootstrap.Teams)
	}

	if len(bootstrap.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(bootstrap.Events))
	}
	event := bootstrap.Events[0]
	if !event.IsNext || event.DeadlineAt != time.Date(2026, 9, 5, 10, 30, 0, 0, time.UTC) {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestFetchBootstrap_MalformedPayload(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"elements": [`))
	}), 0)

	if _, err := client.FetchBootstrap(context.Background()); err == nil {
		t.Fatal("expected decode error for truncated payload")
	}
}

func TestFetchFixturesByEvent(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("event"); got != "3" {
			t.Errorf("unexpected event query %q", got)
		}
		_, _ = w.Write([]byte(`[
			{"event": 3, "team_h": 1, "team_a": 2, "kickoff_time": "2026-09-05T14:00:00Z", "team_h_difficulty": 2, "team_a_difficulty": 4},
			{"event": null, "team_h": 5, "team_a": 6}
		]`))
	}), 0)

	fixtures, err := client.FetchFixturesByEvent(context.Background(), 3)
	if err != nil {
		t.Fatalf("fetch fixtures: %v", err)
	}

	if len(fixtures) != 1 {
		t.Fatalf("expected unscheduled fixture to be skipped, got %d rows", len(fixtures))
	}
	row := fixtures[0]
	if row.Event != 3 || row.HomeTeamID != 1 || row.AwayTeamID != 2 || row.HomeDifficulty != 2 {
		t.Fatalf("unexpected fixture: %+v", row)
	}
}

func TestFetchFixturesByEvent_RejectsInvalidEvent(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("no request expected")
	}), 0)

	if _, err := client.FetchFixturesByEvent(context.Background(), 0); err == nil {
		t.Fatal("expected error for non-positive event")
	}
}

func TestNewClient_DoesNotMutateCallerHTTPClient(t *testing.T) {
	caller := &http.Client{}

	client := NewClient(ClientConfig{
		HTTPClient:     caller,
		Logger:         logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})

	if caller.Timeout != 0 {
		t.Fatalf("caller's client timeout was changed to %s", caller.Timeout)
	}
	if client.httpClient == caller {
		t.Fatal("expected the client to use its own http.Client copy")
	}
	if client.httpClient.Timeout <= 0 {
		t.Fatalf("expected a default timeout on the internal copy, got %s", client.httpClient.Timeout)
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}), 2)

	if _, err := client.FetchUpcomingFixtures(context.Background()); err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 requests, got %d", got)
	}
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}), 3)

	if _, err := client.FetchUpcomingFixtures(context.Background()); err == nil {
		t.Fatal("expected error for 404 response")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected single request for non-retryable status, got %d", got)
	}
}

func TestClient_CircuitRejectionMapsToSourceUnavailable(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		Logger:     logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	if _, err := client.FetchUpcomingFixtures(context.Background()); err == nil {
		t.Fatal("expected first request to fail")
	}

	_, err := client.FetchUpcomingFixtures(context.Background())
	if !errors.Is(err, usecase.ErrSourceUnavailable) {
		t.Fatalf("expected circuit rejection to map to source-unavailable, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected open circuit to block the second request, got %d calls", got)
	}
}
