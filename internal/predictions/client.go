package predictions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// TTLs por recurso: partidas e odds mudam rápido, ranking é semanal
const (
	matchesTTL  = 30 * time.Second
	oddsTTL     = 30 * time.Second
	rankingsTTL = 10 * time.Minute
)

// Client consome a API remota de previsões de tênis (partidas, odds,
// rankings) com cache read-through. Falha de cache não bloqueia a leitura.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Cache   Cache
	Log     *zap.Logger
}

func New(base string, cache Cache, log *zap.Logger) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 5 * time.Second},
		Cache:   cache,
		Log:     log,
	}
}

// Matches lista as partidas do dia (day em "YYYY-MM-DD")
func (c *Client) Matches(ctx context.Context, day string) ([]Match, error) {
	var out []Match
	err := c.cached(ctx, "predictions:matches:"+day, matchesTTL, "/matches?day="+day, &out)
	return out, err
}

// MatchOdds lista as odds por bookmaker de uma partida
func (c *Client) MatchOdds(ctx context.Context, matchID int64) ([]MatchOdds, error) {
	var out []MatchOdds
	key := fmt.Sprintf("predictions:odds:%d", matchID)
	path := fmt.Sprintf("/matches/%d/odds", matchID)
	err := c.cached(ctx, key, oddsTTL, path, &out)
	return out, err
}

// Rankings retorna o ranking ATP corrente
func (c *Client) Rankings(ctx context.Context) ([]RankingEntry, error) {
	var out []RankingEntry
	err := c.cached(ctx, "predictions:rankings", rankingsTTL, "/rankings", &out)
	return out, err
}

// cached faz o read-through: tenta o cache, senão busca na API e preenche
func (c *Client) cached(ctx context.Context, key string, ttl time.Duration, path string, dst any) error {
	if c.Cache != nil {
		if ok, err := c.Cache.Get(ctx, key, dst); err == nil && ok {
			return nil
		}
	}

	if err := c.getJSON(ctx, path, dst); err != nil {
		return err
	}

	if c.Cache != nil {
		if err := c.Cache.Set(ctx, key, dst, ttl); err != nil && c.Log != nil {
			c.Log.Warn("predictions cache set failed", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return fmt.Errorf("predictions api http %d", res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(dst)
}
