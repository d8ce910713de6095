package bets

// Status de ciclo de vida de uma aposta. Valores herdados do app original,
// gravados como estão no storage (cloud e local).
const (
	StatusActive    = "activa"
	StatusCancelled = "cancelada"
	StatusSettled   = "completada"
)

// MaxRecords limita o histórico retornado/persistido por usuário
const MaxRecords = 500

// Bet é uma aposta registrada pelo usuário sobre uma partida de tênis.
// IDs: UUID quando gravada no backend cloud, "local-<epoch millis>" no local.
type Bet struct {
	ID           string  `json:"id"`
	MatchID      int64   `json:"match_id"`
	StakeEur     float64 `json:"stake_eur"`
	Player1Name  string  `json:"player1_name"`
	Player2Name  string  `json:"player2_name"`
	Tournament   string  `json:"tournament"`
	CreatedAt    string  `json:"created_at"` // ISO-8601
	Bookmaker    string  `json:"bookmaker"`
	Odds         float64 `json:"odds"` // >= 1.0; 0 significa "não definida"
	PickedPlayer string  `json:"picked_player"`
	PotentialWin float64 `json:"potential_win"`
	Status       string  `json:"status"`
	EventKey     string  `json:"event_key,omitempty"`
}

// Normalize preenche defaults de registros legados/parciais para que
// consumidores nunca quebrem com campos ausentes. Idempotente.
func (b *Bet) Normalize() {
	if b.Odds < 1 {
		b.Odds = 0
	}
	if b.Status == "" {
		b.Status = StatusActive
	}
	if b.PotentialWin <= 0 {
		b.PotentialWin = PotentialWin(b.StakeEur, b.Odds)
	}
}

// IsActive indica se a aposta ainda conta contra o bankroll.
// Registros legados sem status são tratados como ativos.
func (b *Bet) IsActive() bool {
	return b.Status == "" || b.Status == StatusActive
}

// PotentialWin calcula o retorno potencial: stake * odds quando a odd é
// válida (>= 1); caso contrário devolve a própria stake.
func PotentialWin(stakeEur, odds float64) float64 {
	if odds >= 1 {
		return stakeEur * odds
	}
	return stakeEur
}
