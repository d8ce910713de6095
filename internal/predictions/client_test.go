package predictions_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/courtside/tennis-bets-service/internal/predictions"
)

type memCache struct {
	data map[string][]byte
	sets int
	hits int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (m *memCache) Get(_ context.Context, key string, dst any) (bool, error) {
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	m.hits++
	return true, json.Unmarshal(b, dst)
}

func (m *memCache) Set(_ context.Context, key string, v any, _ time.Duration) error {
	m.sets++
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.data[key] = b
	return nil
}

func TestMatchesReadThrough(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path != "/matches" || r.URL.Query().Get("day") != "2026-08-30" {
			t.Errorf("unexpected request: %s", r.URL.String())
		}
		_ = json.NewEncoder(w).Encode([]predictions.Match{
			{ID: 1, Player1Name: "Alcaraz", Player2Name: "Sinner", Tournament: "US Open"},
		})
	}))
	defer srv.Close()

	cache := newMemCache()
	c := predictions.New(srv.URL, cache, nil)

	ctx := context.Background()
	first, err := c.Matches(ctx, "2026-08-30")
	if err != nil {
		t.Fatalf("matches: %v", err)
	}
	if len(first) != 1 || first[0].Player1Name != "Alcaraz" {
		t.Errorf("unexpected matches: %+v", first)
	}
	if cache.sets != 1 {
		t.Errorf("cache sets = %d, want 1", cache.sets)
	}

	// segunda chamada vem do cache, sem round-trip
	second, err := c.Matches(ctx, "2026-08-30")
	if err != nil {
		t.Fatalf("matches (cached): %v", err)
	}
	if calls != 1 {
		t.Errorf("remote calls = %d, want 1", calls)
	}
	if cache.hits != 1 {
		t.Errorf("cache hits = %d, want 1", cache.hits)
	}
	if len(second) != 1 {
		t.Errorf("cached result lost: %+v", second)
	}
}

func TestMatchOddsPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/matches/42/odds" {
			t.Errorf("path = %s, want /matches/42/odds", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode([]predictions.MatchOdds{
			{MatchID: 42, Bookmaker: "Bet365", Player1Odds: 1.6, Player2Odds: 2.3},
		})
	}))
	defer srv.Close()

	c := predictions.New(srv.URL, newMemCache(), nil)
	od, err := c.MatchOdds(context.Background(), 42)
	if err != nil {
		t.Fatalf("odds: %v", err)
	}
	if len(od) != 1 || od[0].Bookmaker != "Bet365" {
		t.Errorf("unexpected odds: %+v", od)
	}
}

func TestRemoteFailurePropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := predictions.New(srv.URL, newMemCache(), nil)
	if _, err := c.Rankings(context.Background()); err == nil {
		t.Fatal("expected error on remote failure")
	}
}
