package events

// BetPlaced é emitido pelo bets-service após débito do bankroll e gravação da aposta
type BetPlaced struct {
	BetID        string  `json:"bet_id"`
	UserID       string  `json:"user_id,omitempty"` // vazio para usuário anônimo
	MatchID      int64   `json:"match_id"`
	StakeEur     float64 `json:"stake_eur"`
	Odds         float64 `json:"odds"`
	Bookmaker    string  `json:"bookmaker"`
	PickedPlayer string  `json:"picked_player"`
	PotentialWin float64 `json:"potential_win"`
	EventKey     string  `json:"event_key,omitempty"`
	TsUnixMs     int64   `json:"ts_unix_ms"`
}

// BetCancelled é emitido quando uma aposta ativa é cancelada com estorno da stake
type BetCancelled struct {
	BetID    string  `json:"bet_id"`
	UserID   string  `json:"user_id,omitempty"`
	StakeEur float64 `json:"stake_eur"` // valor devolvido ao bankroll
	TsUnixMs int64   `json:"ts_unix_ms"`
}

// BetSettled é emitido quando uma aposta é removida após liquidação da partida
// (o ajuste de bankroll do resultado acontece em outro fluxo)
type BetSettled struct {
	BetID    string `json:"bet_id"`
	UserID   string `json:"user_id,omitempty"`
	TsUnixMs int64  `json:"ts_unix_ms"`
}
