package predictions

// Tipos retornados pela API remota de previsões (somente leitura)

type Match struct {
	ID          int64  `json:"id"`
	Player1Name string `json:"player1_name"`
	Player2Name string `json:"player2_name"`
	Tournament  string `json:"tournament"`
	Round       string `json:"round"`
	ScheduledAt string `json:"scheduled_at"`
	Status      string `json:"status"`
	EventKey    string `json:"event_key,omitempty"`
}

type MatchOdds struct {
	MatchID     int64   `json:"match_id"`
	Bookmaker   string  `json:"bookmaker"`
	Player1Odds float64 `json:"player1_odds"`
	Player2Odds float64 `json:"player2_odds"`
	UpdatedAt   string  `json:"updated_at"`
}

type RankingEntry struct {
	Position int    `json:"position"`
	Player   string `json:"player"`
	Points   int    `json:"points"`
}
