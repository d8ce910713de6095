package ws

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: subscribe | unsubscribe | ping
type ClientMsg struct {
	Type   string `json:"type"`
	UserID string `json:"userId"` // "" inscreve no feed anônimo
}

// BetUpdate representa uma mudança no ledger enviada aos clientes
// Kind: bet_placed | bet_cancelled | bet_settled
type BetUpdate struct {
	UserID  string      `json:"userId"`
	Kind    string      `json:"kind"`
	Payload interface{} `json:"payload"`
}
