package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/courtside/tennis-bets-service/internal/bets/ws"
	skafka "github.com/courtside/tennis-bets-service/internal/shared/kafka"
	ctopics "github.com/courtside/tennis-bets-service/pkg/contracts/topics"
)

// Broadcaster publica payloads num canal Redis Pub/Sub
type Broadcaster interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// AuditStore grava a trilha de auditoria dos eventos de aposta
type AuditStore interface {
	InsertEvent(ctx context.Context, kind, betID, userID string, payload []byte) error
}

// DLQPublisher recebe mensagens que esgotaram as tentativas de persistência
type DLQPublisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// KafkaDLQ publica no tópico de dead-letter via writer Kafka
type KafkaDLQ struct {
	W *kafka.Writer
}

func (d *KafkaDLQ) Publish(ctx context.Context, key string, value []byte) error {
	return skafka.WriteJSON(ctx, d.W, key, value)
}

// envelope extrai os campos comuns a todos os eventos de aposta
type envelope struct {
	BetID  string `json:"bet_id"`
	UserID string `json:"user_id"`
}

// Processor consome os tópicos de eventos de aposta, grava a trilha de
// auditoria e repassa cada evento pro canal de broadcast do feed ao vivo.
// Falhas de auditoria são retentadas e, persistindo o erro, a mensagem vai
// pra DLQ em vez de ser descartada.
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa
type Processor struct {
	Log         *zap.Logger
	Reader      *kafka.Reader
	Audit       AuditStore
	Broadcaster Broadcaster
	Channel     string
	DLQ         DLQPublisher

	// Intervalo base entre retentativas de insert (default 300ms)
	RetryBackoff time.Duration

	OnConsumed func()       // métricas (counter++)
	OnPersist  func()       // métricas
	OnError    func(string) // métricas por fase
}

const auditRetries = 3

// Run inicia o loop principal de consumo e processamento das mensagens Kafka
func (p *Processor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("read")
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed()
		}
		p.handle(ctx, m)
	}
}

func (p *Processor) handle(ctx context.Context, m kafka.Message) {
	kind := kindFor(m.Topic)
	var env envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		p.Log.Warn("invalid message", zap.String("topic", m.Topic), zap.Error(err))
		if p.OnError != nil {
			p.OnError("decode")
		}
		return
	}

	// Trilha de auditoria no Postgres, com retentativas antes da DLQ
	if err := p.insertWithRetry(ctx, kind, env, m.Value); err != nil {
		p.Log.Error("audit insert exhausted retries",
			zap.String("bet_id", env.BetID), zap.Error(err))
		if p.OnError != nil {
			p.OnError("db_insert")
		}
		if p.DLQ != nil {
			if derr := p.DLQ.Publish(ctx, env.BetID, m.Value); derr != nil {
				p.Log.Error("dlq publish failed, event lost",
					zap.String("bet_id", env.BetID), zap.Error(derr))
				if p.OnError != nil {
					p.OnError("dlq")
				}
			}
		}
		return
	}
	if p.OnPersist != nil {
		p.OnPersist()
	}

	// Repassa pro feed ao vivo via Redis Pub/Sub
	if p.Broadcaster != nil {
		upd := ws.BetUpdate{UserID: env.UserID, Kind: kind, Payload: json.RawMessage(m.Value)}
		b, _ := json.Marshal(upd)

		pctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
		if err := p.Broadcaster.Publish(pctx, p.Channel, b); err != nil {
			p.Log.Warn("broadcast publish failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("broadcast")
			}
		}
		cancel()
	}
}

func (p *Processor) insertWithRetry(ctx context.Context, kind string, env envelope, payload []byte) error {
	err := p.Audit.InsertEvent(ctx, kind, env.BetID, env.UserID, payload)
	if err == nil {
		return nil
	}

	backoff := p.RetryBackoff
	if backoff <= 0 {
		backoff = 300 * time.Millisecond
	}
	for i := 0; i < auditRetries; i++ {
		p.Log.Warn("audit insert failed, retrying",
			zap.Int("attempt", i+1), zap.Error(err))
		time.Sleep(backoff * time.Duration(i+1))
		if err = p.Audit.InsertEvent(ctx, kind, env.BetID, env.UserID, payload); err == nil {
			return nil
		}
	}
	return err
}

func kindFor(topic string) string {
	switch topic {
	case ctopics.BetPlaced, ctopics.BetCancelled, ctopics.BetSettled:
		return topic
	default:
		return "unknown"
	}
}
