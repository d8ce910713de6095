package store_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/courtside/tennis-bets-service/internal/bets"
	"github.com/courtside/tennis-bets-service/internal/bets/store"
)

type fakeKV struct {
	data map[string][]byte
	err  error
}

func newFakeKV() *fakeKV { return &fakeKV{data: make(map[string][]byte)} }

func (f *fakeKV) Get(_ context.Context, key string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.data[key], nil
}

func (f *fakeKV) Set(_ context.Context, key string, value []byte) error {
	if f.err != nil {
		return f.err
	}
	f.data[key] = value
	return nil
}

func TestLocalInsertAndList(t *testing.T) {
	kv := newFakeKV()
	l := store.NewLocal(kv)
	ctx := context.Background()

	b := &bets.Bet{MatchID: 7, StakeEur: 10, Bookmaker: "Bwin", Odds: 1.8, PickedPlayer: "Alcaraz"}
	if err := l.Insert(ctx, "", b); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if !strings.HasPrefix(b.ID, "local-") {
		t.Errorf("local id = %q, want local-<millis> prefix", b.ID)
	}
	if b.CreatedAt == "" {
		t.Error("created_at should be stamped on insert")
	}

	out, err := l.List(ctx, "", true)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 bet, got %d", len(out))
	}
	if out[0].StakeEur != 10 || out[0].Bookmaker != "Bwin" || out[0].Odds != 1.8 {
		t.Errorf("round-trip mismatch: %+v", out[0])
	}
}

func TestLocalInsertPrependsNewest(t *testing.T) {
	kv := newFakeKV()
	l := store.NewLocal(kv)
	ctx := context.Background()

	first := &bets.Bet{ID: "local-1", StakeEur: 5}
	second := &bets.Bet{ID: "local-2", StakeEur: 6}
	_ = l.Insert(ctx, "", first)
	_ = l.Insert(ctx, "", second)

	out, _ := l.List(ctx, "", false)
	if len(out) != 2 {
		t.Fatalf("expected 2 bets, got %d", len(out))
	}
	if out[0].ID != "local-2" {
		t.Errorf("newest bet should come first, got %q", out[0].ID)
	}
}

func TestLocalListFiltersAndNormalizes(t *testing.T) {
	kv := newFakeKV()
	l := store.NewLocal(kv)
	ctx := context.Background()

	_ = l.Insert(ctx, "", &bets.Bet{ID: "a", StakeEur: 10, Odds: 2})
	_ = l.Insert(ctx, "", &bets.Bet{ID: "b", StakeEur: 10, Status: bets.StatusCancelled})
	// registro legado: sem status, odds inválida, sem potential win
	_ = l.Insert(ctx, "", &bets.Bet{ID: "c", StakeEur: 12, Odds: 0.4})

	active, _ := l.List(ctx, "", true)
	if len(active) != 2 {
		t.Fatalf("expected 2 active bets, got %d", len(active))
	}
	for _, b := range active {
		if b.Status == "" {
			t.Errorf("bet %q not normalized: empty status", b.ID)
		}
	}
	var legacy *bets.Bet
	for i := range active {
		if active[i].ID == "c" {
			legacy = &active[i]
		}
	}
	if legacy == nil {
		t.Fatal("legacy record missing from active listing")
	}
	if legacy.Odds != 0 {
		t.Errorf("legacy odds = %v, want 0", legacy.Odds)
	}
	if legacy.PotentialWin != 12 {
		t.Errorf("legacy potential win = %v, want stake 12", legacy.PotentialWin)
	}
}

func TestLocalDelete(t *testing.T) {
	kv := newFakeKV()
	l := store.NewLocal(kv)
	ctx := context.Background()

	_ = l.Insert(ctx, "", &bets.Bet{ID: "keep", StakeEur: 5})
	_ = l.Insert(ctx, "", &bets.Bet{ID: "drop", StakeEur: 5})

	if err := l.Delete(ctx, "", "drop"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	out, _ := l.List(ctx, "", false)
	if len(out) != 1 || out[0].ID != "keep" {
		t.Errorf("unexpected listing after delete: %+v", out)
	}
}

func TestLocalCorruptPayloadDegradesToEmpty(t *testing.T) {
	kv := newFakeKV()
	kv.data[store.StorageKey] = []byte("{not json")
	l := store.NewLocal(kv)

	out, err := l.List(context.Background(), "", true)
	if err != nil {
		t.Fatalf("list should not fail on corrupt payload: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty list, got %d", len(out))
	}
}

func TestLocalTruncatesAtCap(t *testing.T) {
	kv := newFakeKV()
	l := store.NewLocal(kv)
	ctx := context.Background()

	for i := 0; i < bets.MaxRecords+5; i++ {
		_ = l.Insert(ctx, "", &bets.Bet{ID: fmt.Sprintf("local-%d", i), StakeEur: 1})
	}
	out, _ := l.List(ctx, "", false)
	if len(out) != bets.MaxRecords {
		t.Errorf("expected %d records after truncation, got %d", bets.MaxRecords, len(out))
	}
	// os mais antigos caem fora
	for _, b := range out {
		if b.ID == "local-0" {
			t.Error("oldest record should have been truncated away")
		}
	}
}
