package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/courtside/tennis-bets-service/internal/bets"
)

// StorageKey é a chave única do backend local: um array JSON com todas as
// apostas do dispositivo. Não é escopado por usuário; só uso anônimo.
const StorageKey = "bets:anonymous"

// KV é a API mínima do storage local (equivalente ao device storage do
// app original). Get devolve nil sem erro quando a chave não existe.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// RedisKV implementa KV sobre Redis
type RedisKV struct{ R *redis.Client }

func (k *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := k.R.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return b, err
}

func (k *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	return k.R.Set(ctx, key, value, 0).Err()
}

// Local é o backend anônimo: o array inteiro vive numa chave só.
// Toda operação carrega, altera em memória e regrava.
type Local struct{ kv KV }

func NewLocal(kv KV) *Local { return &Local{kv: kv} }

// List carrega o array completo, normaliza cada registro e filtra em
// memória. Falha de parse degrada pra lista vazia em vez de quebrar.
func (l *Local) List(ctx context.Context, _ string, activeOnly bool) ([]bets.Bet, error) {
	all := l.load(ctx)
	out := make([]bets.Bet, 0, len(all))
	for _, b := range all {
		b.Normalize()
		if activeOnly && !b.IsActive() {
			continue
		}
		out = append(out, b)
		if len(out) == bets.MaxRecords {
			break
		}
	}
	return out, nil
}

// Insert gera id local, timestampa, insere no topo e regrava truncado
func (l *Local) Insert(ctx context.Context, _ string, b *bets.Bet) error {
	if b.ID == "" {
		b.ID = fmt.Sprintf("local-%d", time.Now().UnixMilli())
	}
	if b.CreatedAt == "" {
		b.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	all := append([]bets.Bet{*b}, l.load(ctx)...)
	if len(all) > bets.MaxRecords {
		all = all[:bets.MaxRecords]
	}
	return l.save(ctx, all)
}

// Delete filtra o array pelo id e regrava
func (l *Local) Delete(ctx context.Context, _, betID string) error {
	all := l.load(ctx)
	kept := all[:0]
	for _, b := range all {
		if b.ID != betID {
			kept = append(kept, b)
		}
	}
	return l.save(ctx, kept)
}

// load nunca falha: chave ausente, erro de leitura ou JSON inválido viram
// array vazio
func (l *Local) load(ctx context.Context) []bets.Bet {
	raw, err := l.kv.Get(ctx, StorageKey)
	if err != nil || len(raw) == 0 {
		return nil
	}
	var all []bets.Bet
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil
	}
	return all
}

func (l *Local) save(ctx context.Context, all []bets.Bet) error {
	if all == nil {
		all = []bets.Bet{}
	}
	raw, _ := json.Marshal(all)
	return l.kv.Set(ctx, StorageKey, raw)
}
