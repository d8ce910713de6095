package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/courtside/tennis-bets-service/internal/bets"
	httpapi "github.com/courtside/tennis-bets-service/internal/bets/http"
)

type stubService struct {
	bets       []bets.Bet
	addResult  bets.AddBetResult
	lastRemove string
	lastDelete string
}

func (s *stubService) GetBets(_ context.Context, _ string, activeOnly bool) []bets.Bet {
	out := []bets.Bet{}
	for _, b := range s.bets {
		if activeOnly && !b.IsActive() {
			continue
		}
		out = append(out, b)
	}
	return out
}

func (s *stubService) AddBet(context.Context, bets.AddBetInput, string, string) bets.AddBetResult {
	return s.addResult
}

func (s *stubService) RemoveBet(_ context.Context, b bets.Bet, _ string) bets.Result {
	s.lastRemove = b.ID
	return bets.Result{Success: true}
}

func (s *stubService) DeleteBetWithoutRefund(_ context.Context, b bets.Bet, _ string) bets.Result {
	s.lastDelete = b.ID
	return bets.Result{Success: true}
}

func newTestAPI(svc httpapi.BetService) http.Handler {
	api := &httpapi.API{Log: zap.NewNop(), Svc: svc}
	return api.Router()
}

func TestListBetsAlwaysOK(t *testing.T) {
	h := newTestAPI(&stubService{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/bets?userId=u1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var out []bets.Bet
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("body not a JSON array: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty array, got %d", len(out))
	}
}

func TestAddBetDomainFailureIsStillOK(t *testing.T) {
	svc := &stubService{addResult: bets.AddBetResult{
		Result: bets.Result{Success: false, Error: "choose a bookmaker"},
	}}
	h := newTestAPI(svc)

	body := `{"stake_eur":10,"odds":2.0,"picked_player":"X"}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/bets", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (domain failures ride the result object)", rec.Code)
	}
	var res bets.Result
	_ = json.Unmarshal(rec.Body.Bytes(), &res)
	if res.Success || res.Error != "choose a bookmaker" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestAddBetBadJSON(t *testing.T) {
	h := newTestAPI(&stubService{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/bets", strings.NewReader("{nope")))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCancelBetFindsRecordInFullHistory(t *testing.T) {
	svc := &stubService{bets: []bets.Bet{{ID: "b7", Status: bets.StatusSettled}}}
	h := newTestAPI(svc)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/bets/b7/cancel?userId=u1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if svc.lastRemove != "b7" {
		t.Errorf("RemoveBet called with %q, want b7", svc.lastRemove)
	}
}

func TestCancelUnknownBetIs404(t *testing.T) {
	h := newTestAPI(&stubService{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/bets/missing/cancel", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteSettledBet(t *testing.T) {
	svc := &stubService{bets: []bets.Bet{{ID: "b9", Status: bets.StatusActive}}}
	h := newTestAPI(svc)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/bets/b9", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if svc.lastDelete != "b9" {
		t.Errorf("DeleteBetWithoutRefund called with %q, want b9", svc.lastDelete)
	}
}
