package producer

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	skafka "github.com/courtside/tennis-bets-service/internal/shared/kafka"
	"github.com/courtside/tennis-bets-service/pkg/contracts/events"
)

// KafkaPublisher publica os eventos de ciclo de vida das apostas, um
// writer por tópico
type KafkaPublisher struct {
	Placed    *kafka.Writer
	Cancelled *kafka.Writer
	Settled   *kafka.Writer
}

func NewKafkaPublisher(placed, cancelled, settled *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{Placed: placed, Cancelled: cancelled, Settled: settled}
}

func (p *KafkaPublisher) PublishBetPlaced(ctx context.Context, e events.BetPlaced) error {
	b, _ := json.Marshal(e)
	return skafka.WriteJSON(ctx, p.Placed, e.BetID, b)
}

func (p *KafkaPublisher) PublishBetCancelled(ctx context.Context, e events.BetCancelled) error {
	b, _ := json.Marshal(e)
	return skafka.WriteJSON(ctx, p.Cancelled, e.BetID, b)
}

func (p *KafkaPublisher) PublishBetSettled(ctx context.Context, e events.BetSettled) error {
	b, _ := json.Marshal(e)
	return skafka.WriteJSON(ctx, p.Settled, e.BetID, b)
}

func (p *KafkaPublisher) Close() error {
	for _, w := range []*kafka.Writer{p.Placed, p.Cancelled, p.Settled} {
		if w != nil {
			_ = w.Close()
		}
	}
	return nil
}
