package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/courtside/tennis-bets-service/internal/bets"
)

// Postgres é o backend cloud: linhas na tabela bets, escopadas por user_id
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// List retorna as apostas do usuário, mais recentes primeiro, até
// bets.MaxRecords. Com activeOnly, registros legados sem status contam
// como ativos (status IS NULL).
func (p *Postgres) List(ctx context.Context, userID string, activeOnly bool) ([]bets.Bet, error) {
	q := `
		SELECT id, match_id, stake_eur,
		       COALESCE(player1_name,''), COALESCE(player2_name,''), COALESCE(tournament,''),
		       to_char(created_at, 'YYYY-MM-DD"T"HH24:MI:SSZ'),
		       COALESCE(bookmaker,''), COALESCE(odds,0), COALESCE(picked_player,''),
		       COALESCE(potential_win,0), COALESCE(status,''), COALESCE(event_key,'')
		FROM bets
		WHERE user_id = $1`
	if activeOnly {
		q += ` AND (status = 'activa' OR status IS NULL)`
	}
	q += `
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := p.db.QueryContext(ctx, q, userID, bets.MaxRecords)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []bets.Bet
	for rows.Next() {
		var b bets.Bet
		if err := rows.Scan(&b.ID, &b.MatchID, &b.StakeEur,
			&b.Player1Name, &b.Player2Name, &b.Tournament,
			&b.CreatedAt,
			&b.Bookmaker, &b.Odds, &b.PickedPlayer,
			&b.PotentialWin, &b.Status, &b.EventKey); err != nil {
			return nil, err
		}
		b.Normalize()
		out = append(out, b)
	}
	return out, rows.Err()
}

// Insert grava a aposta com id UUID; created_at fica por conta do servidor
func (p *Postgres) Insert(ctx context.Context, userID string, b *bets.Bet) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt == "" {
		b.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO bets (id, user_id, match_id, stake_eur, player1_name, player2_name,
		                  tournament, bookmaker, odds, picked_player, potential_win,
		                  status, event_key, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,NOW())`,
		b.ID, userID, b.MatchID, b.StakeEur, b.Player1Name, b.Player2Name,
		b.Tournament, b.Bookmaker, b.Odds, b.PickedPlayer, b.PotentialWin,
		b.Status, nullIfEmpty(b.EventKey),
	)
	return err
}

// Delete remove a linha escopada por id e usuário
func (p *Postgres) Delete(ctx context.Context, userID, betID string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM bets WHERE id = $1 AND user_id = $2`, betID, userID)
	return err
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
