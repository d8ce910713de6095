package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Settings é o registro de configuração de apostas mantido pela API remota.
// O bankroll é dono do lado de lá; aqui só lemos e escrevemos.
type Settings struct {
	Bankroll float64 `json:"bankroll"`
}

// Client é um pass-through fino pro endpoint de betting-settings da API
// remota. Sem cache local: toda chamada faz round-trip.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *Client) FetchBettingSettings(ctx context.Context) (Settings, error) {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/betting-settings", nil)
	res, err := c.HTTP.Do(req)
	if err != nil {
		return Settings{}, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return Settings{}, remoteError("fetch betting settings", res)
	}
	var out Settings
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return Settings{}, err
	}
	return out, nil
}

func (c *Client) UpdateBettingBankroll(ctx context.Context, value float64) error {
	body, _ := json.Marshal(Settings{Bankroll: value})
	req, _ := http.NewRequestWithContext(ctx, http.MethodPatch, c.BaseURL+"/betting-settings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return remoteError("update betting bankroll", res)
	}
	return nil
}

// remoteError preserva a mensagem enviada pela API quando houver uma
func remoteError(op string, res *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(b, &payload); err == nil {
		if payload.Message != "" {
			return fmt.Errorf("%s: %s", op, payload.Message)
		}
		if payload.Error != "" {
			return fmt.Errorf("%s: %s", op, payload.Error)
		}
	}
	return fmt.Errorf("%s: http %d", op, res.StatusCode)
}
