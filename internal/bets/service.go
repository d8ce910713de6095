package bets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/courtside/tennis-bets-service/internal/settings"
	"github.com/courtside/tennis-bets-service/pkg/contracts/events"
)

// Store abstrai o backend de persistência de apostas (cloud ou local)
type Store interface {
	List(ctx context.Context, userID string, activeOnly bool) ([]Bet, error)
	Insert(ctx context.Context, userID string, b *Bet) error
	Delete(ctx context.Context, userID, betID string) error
}

// SettingsAPI abstrai o acessor remoto de settings de apostas (bankroll)
type SettingsAPI interface {
	FetchBettingSettings(ctx context.Context) (settings.Settings, error)
	UpdateBettingBankroll(ctx context.Context, value float64) error
}

// Publisher publica eventos de ciclo de vida das apostas (fire-and-forget)
type Publisher interface {
	PublishBetPlaced(ctx context.Context, e events.BetPlaced) error
	PublishBetCancelled(ctx context.Context, e events.BetCancelled) error
	PublishBetSettled(ctx context.Context, e events.BetSettled) error
}

// Result é o retorno padrão das operações mutadoras: sucesso ou mensagem
// de erro pronta pra exibir ao usuário (sem códigos pra traduzir).
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// AddBetResult carrega o bankroll pós-débito quando disponível.
// O caminho local não devolve bankroll (assimetria herdada do app original).
type AddBetResult struct {
	Result
	Bet         *Bet     `json:"bet,omitempty"`
	NewBankroll *float64 `json:"new_bankroll,omitempty"`
}

// AddBetInput é o payload de criação de aposta vindo da UI
type AddBetInput struct {
	MatchID      int64   `json:"match_id"`
	StakeEur     float64 `json:"stake_eur"`
	Player1Name  string  `json:"player1_name"`
	Player2Name  string  `json:"player2_name"`
	Tournament   string  `json:"tournament"`
	Bookmaker    string  `json:"bookmaker"`
	Odds         float64 `json:"odds"`
	PickedPlayer string  `json:"picked_player"`
}

// Service orquestra o ledger de apostas e a reconciliação do bankroll.
//
// Sequência fixa das mutações: validação -> leitura do bankroll -> escrita
// do bankroll -> escrita da aposta. O débito é o portão: falha no
// débito nunca produz aposta órfã. O inverso não vale: débito aplicado com
// falha na inserção (ou estorno aplicado com falha na remoção) deixa estado
// parcial, mesma janela do app original.
//
// Não há exclusão mútua entre chamadas concorrentes: dois AddBet simultâneos
// podem ler o mesmo bankroll e ambos passarem na checagem de saldo.
type Service struct {
	log      *zap.Logger
	settings SettingsAPI
	cloud    Store // nil quando o backend cloud não está configurado
	local    Store
	publ     Publisher // opcional

	// callbacks de métricas, ligadas no main
	OnPlaced    func()
	OnCancelled func()
	OnSettled   func()
	OnFailure   func(stage string)
}

func NewService(log *zap.Logger, sapi SettingsAPI, cloud, local Store, publ Publisher) *Service {
	return &Service{log: log, settings: sapi, cloud: cloud, local: local, publ: publ}
}

// storeFor seleciona o backend: cloud quando há identidade de usuário e o
// backend cloud está disponível; local caso contrário. Função pura de
// (userID, cloud != nil), então a decisão não se espalha pelas operações.
func (s *Service) storeFor(userID string) Store {
	if userID != "" && s.cloud != nil {
		return s.cloud
	}
	return s.local
}

func (s *Service) usesCloud(userID string) bool {
	return userID != "" && s.cloud != nil
}

// GetBets lista as apostas do usuário, mais recentes primeiro, limitado a
// MaxRecords. Por padrão só apostas ativas; activeOnly=false devolve o
// histórico completo. Nunca falha: erro de leitura degrada pra lista vazia,
// a UI sempre tem um estado renderizável.
func (s *Service) GetBets(ctx context.Context, userID string, activeOnly bool) []Bet {
	out, err := s.storeFor(userID).List(ctx, userID, activeOnly)
	if err != nil {
		s.log.Warn("list bets failed, returning empty", zap.Error(err))
		return []Bet{}
	}
	if out == nil {
		out = []Bet{}
	}
	return out
}

// AddBet valida o input, debita o bankroll e grava a aposta.
// Nenhuma mutação acontece antes de todas as validações passarem.
func (s *Service) AddBet(ctx context.Context, in AddBetInput, userID, eventKey string) AddBetResult {
	if in.StakeEur <= 0 {
		return s.addFailure("validate", "stake must be positive")
	}
	if strings.TrimSpace(in.Bookmaker) == "" {
		return s.addFailure("validate", "choose a bookmaker")
	}
	if in.Odds < 1 {
		return s.addFailure("validate", "odds must be at least 1.00")
	}
	if strings.TrimSpace(in.PickedPlayer) == "" {
		return s.addFailure("validate", "specify the picked player")
	}

	st, err := s.settings.FetchBettingSettings(ctx)
	if err != nil {
		return s.addFailure("fetch_bankroll", err.Error())
	}
	if st.Bankroll < in.StakeEur {
		return s.addFailure("insufficient_funds",
			fmt.Sprintf("insufficient bankroll: have %.2f, need %.2f", st.Bankroll, in.StakeEur))
	}

	// Portão: o débito precede a gravação da aposta
	if err := s.settings.UpdateBettingBankroll(ctx, st.Bankroll-in.StakeEur); err != nil {
		return s.addFailure("debit", err.Error())
	}

	b := &Bet{
		MatchID:      in.MatchID,
		StakeEur:     in.StakeEur,
		Player1Name:  in.Player1Name,
		Player2Name:  in.Player2Name,
		Tournament:   in.Tournament,
		Bookmaker:    strings.TrimSpace(in.Bookmaker),
		Odds:         in.Odds,
		PickedPlayer: strings.TrimSpace(in.PickedPlayer),
		PotentialWin: PotentialWin(in.StakeEur, in.Odds),
		Status:       StatusActive,
		EventKey:     eventKey,
	}

	if err := s.storeFor(userID).Insert(ctx, userID, b); err != nil {
		// débito já aplicado e sem rollback: janela de inconsistência herdada
		s.log.Error("bet insert failed after bankroll debit",
			zap.String("userId", userID), zap.Float64("stakeEur", in.StakeEur), zap.Error(err))
		return s.addFailure("insert", err.Error())
	}

	if s.publ != nil {
		_ = s.publ.PublishBetPlaced(ctx, events.BetPlaced{
			BetID:        b.ID,
			UserID:       userID,
			MatchID:      b.MatchID,
			StakeEur:     b.StakeEur,
			Odds:         b.Odds,
			Bookmaker:    b.Bookmaker,
			PickedPlayer: b.PickedPlayer,
			PotentialWin: b.PotentialWin,
			EventKey:     eventKey,
			TsUnixMs:     time.Now().UnixMilli(),
		})
	}
	if s.OnPlaced != nil {
		s.OnPlaced()
	}

	res := AddBetResult{Result: Result{Success: true}, Bet: b}
	if s.usesCloud(userID) {
		// caminho cloud relê o bankroll pra devolver o valor pós-débito
		if cur, err := s.settings.FetchBettingSettings(ctx); err == nil {
			res.NewBankroll = &cur.Bankroll
		}
	}
	return res
}

// RemoveBet cancela uma aposta ativa devolvendo a stake ao bankroll.
// O estorno precede a remoção: sem estorno confirmado o registro fica
// intocado. Estorno aplicado com falha na remoção é reportado ao caller.
func (s *Service) RemoveBet(ctx context.Context, b Bet, userID string) Result {
	st, err := s.settings.FetchBettingSettings(ctx)
	if err != nil {
		return s.failure("fetch_bankroll", err.Error())
	}
	if err := s.settings.UpdateBettingBankroll(ctx, st.Bankroll+b.StakeEur); err != nil {
		return s.failure("refund", err.Error())
	}

	if err := s.storeFor(userID).Delete(ctx, userID, b.ID); err != nil {
		s.log.Error("bet delete failed after refund",
			zap.String("betId", b.ID), zap.Float64("refundedEur", b.StakeEur), zap.Error(err))
		return s.failure("delete", err.Error())
	}

	if s.publ != nil {
		_ = s.publ.PublishBetCancelled(ctx, events.BetCancelled{
			BetID:    b.ID,
			UserID:   userID,
			StakeEur: b.StakeEur,
			TsUnixMs: time.Now().UnixMilli(),
		})
	}
	if s.OnCancelled != nil {
		s.OnCancelled()
	}
	return Result{Success: true}
}

// DeleteBetWithoutRefund remove o registro sem tocar no bankroll. Usado
// quando a partida já foi liquidada e o ganho/perda entrou por outro fluxo.
func (s *Service) DeleteBetWithoutRefund(ctx context.Context, b Bet, userID string) Result {
	if err := s.storeFor(userID).Delete(ctx, userID, b.ID); err != nil {
		return s.failure("delete", err.Error())
	}

	if s.publ != nil {
		_ = s.publ.PublishBetSettled(ctx, events.BetSettled{
			BetID:    b.ID,
			UserID:   userID,
			TsUnixMs: time.Now().UnixMilli(),
		})
	}
	if s.OnSettled != nil {
		s.OnSettled()
	}
	return Result{Success: true}
}

func (s *Service) failure(stage, msg string) Result {
	if s.OnFailure != nil {
		s.OnFailure(stage)
	}
	return Result{Success: false, Error: msg}
}

func (s *Service) addFailure(stage, msg string) AddBetResult {
	return AddBetResult{Result: s.failure(stage, msg)}
}
