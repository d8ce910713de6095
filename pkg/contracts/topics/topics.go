package topics

const (
	// Bets
	BetPlaced    = "bet_placed"
	BetCancelled = "bet_cancelled"
	BetSettled   = "bet_settled"

	// DLQ
	BetEventsDLQ = "bet_events_dlq"
)
