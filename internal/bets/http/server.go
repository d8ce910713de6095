package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/courtside/tennis-bets-service/internal/bets"
	"github.com/courtside/tennis-bets-service/internal/predictions"
)

// BetService define as operações de ciclo de vida usadas pelos handlers
type BetService interface {
	GetBets(ctx context.Context, userID string, activeOnly bool) []bets.Bet
	AddBet(ctx context.Context, in bets.AddBetInput, userID, eventKey string) bets.AddBetResult
	RemoveBet(ctx context.Context, b bets.Bet, userID string) bets.Result
	DeleteBetWithoutRefund(ctx context.Context, b bets.Bet, userID string) bets.Result
}

// API expõe os endpoints REST do ledger de apostas e o browser de
// partidas/previsões. Falhas de domínio voltam 200 com {success:false,
// error}: a UI exibe a mensagem direto; só payload malformado vira 4xx.
type API struct {
	Log  *zap.Logger
	Svc  BetService
	Pred *predictions.Client // opcional
	WS   http.HandlerFunc    // feed ao vivo; opcional
}

func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/bets", a.listBets)                 // ?userId=&all=
	r.Post("/v1/bets", a.addBet)                  // cria aposta (debita bankroll)
	r.Post("/v1/bets/{id}/cancel", a.cancelBet)   // estorna e remove
	r.Delete("/v1/bets/{id}", a.deleteSettledBet) // remove sem estorno
	if a.Pred != nil {
		r.Get("/v1/matches", a.listMatches) // ?day=YYYY-MM-DD
		r.Get("/v1/matches/{id}/odds", a.matchOdds)
		r.Get("/v1/rankings", a.rankings)
	}
	if a.WS != nil {
		r.Get("/ws", a.WS)
	}
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// listBets nunca retorna erro: lista possivelmente vazia, sempre 200
func (a *API) listBets(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	activeOnly := r.URL.Query().Get("all") != "true"
	writeJSON(w, http.StatusOK, a.Svc.GetBets(r.Context(), userID, activeOnly))
}

type addBetRequest struct {
	bets.AddBetInput
	UserID   string `json:"user_id,omitempty"`
	EventKey string `json:"event_key,omitempty"`
}

func (a *API) addBet(w http.ResponseWriter, r *http.Request) {
	var req addBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}
	writeJSON(w, http.StatusOK, a.Svc.AddBet(r.Context(), req.AddBetInput, req.UserID, req.EventKey))
}

func (a *API) cancelBet(w http.ResponseWriter, r *http.Request) {
	b, userID, ok := a.findBet(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, a.Svc.RemoveBet(r.Context(), b, userID))
}

func (a *API) deleteSettledBet(w http.ResponseWriter, r *http.Request) {
	b, userID, ok := a.findBet(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, a.Svc.DeleteBetWithoutRefund(r.Context(), b, userID))
}

// listMatches repassa as partidas do dia vindas da API de previsões
func (a *API) listMatches(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("day")
	if day == "" {
		day = time.Now().UTC().Format("2006-01-02")
	}
	m, err := a.Pred.Matches(r.Context(), day)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (a *API) matchOdds(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid match id"})
		return
	}
	od, err := a.Pred.MatchOdds(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, od)
}

func (a *API) rankings(w http.ResponseWriter, r *http.Request) {
	rk, err := a.Pred.Rankings(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rk)
}

// findBet localiza a aposta pelo id no histórico completo do usuário
func (a *API) findBet(w http.ResponseWriter, r *http.Request) (bets.Bet, string, bool) {
	id := chi.URLParam(r, "id")
	userID := r.URL.Query().Get("userId")
	for _, b := range a.Svc.GetBets(r.Context(), userID, false) {
		if b.ID == id {
			return b, userID, true
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "bet not found"})
	return bets.Bet{}, "", false
}
