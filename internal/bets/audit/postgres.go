package audit

import (
	"context"
	"database/sql"
)

// Postgres grava a trilha de auditoria dos eventos de aposta consumidos
// pelo worker. Append-only; ninguém atualiza ou remove linhas daqui.
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// InsertEvent registra um evento de ciclo de vida com o payload bruto
func (p *Postgres) InsertEvent(ctx context.Context, kind, betID, userID string, payload []byte) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO bet_audit (kind, bet_id, user_id, payload, created_at)
		VALUES ($1,$2,$3,$4,NOW())`,
		kind, betID, userID, payload,
	)
	return err
}
