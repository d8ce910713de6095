package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/courtside/tennis-bets-service/internal/bets/audit"
	"github.com/courtside/tennis-bets-service/internal/bets/consumer"
	sharedcache "github.com/courtside/tennis-bets-service/internal/shared/cache"
	"github.com/courtside/tennis-bets-service/internal/shared/config"
	"github.com/courtside/tennis-bets-service/internal/shared/db"
	skafka "github.com/courtside/tennis-bets-service/internal/shared/kafka"
	"github.com/courtside/tennis-bets-service/internal/shared/logger"
	"github.com/courtside/tennis-bets-service/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New("bets-events-worker", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Postgres para a trilha de auditoria dos eventos
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	// Redis Pub/Sub alimenta o feed WebSocket do bets-service
	rdb, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer rdb.Close()

	// Consumer group único para os três tópicos de ciclo de vida
	reader := skafka.NewGroupReader(cfg.KafkaBrokers,
		[]string{cfg.TopicBetPlaced, cfg.TopicBetCancelled, cfg.TopicBetSettled},
		"bets-events")
	defer reader.Close()

	// Mensagens que esgotarem as retentativas de auditoria vão pra DLQ
	var dlq consumer.DLQPublisher
	if cfg.TopicBetEventsDLQ != "" {
		dlqWriter := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetEventsDLQ)
		defer dlqWriter.Close()
		dlq = &consumer.KafkaDLQ{W: dlqWriter}
	}

	// Métricas Prometheus para monitoramento do processamento
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "bet_events_consumed_total", Help: "mensagens consumidas"})
	persist := prometheus.NewCounter(prometheus.CounterOpts{Name: "bet_events_audited_total", Help: "eventos gravados na auditoria"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "bet_events_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, persist, errorsBy)

	proc := &consumer.Processor{
		Log:         log,
		Reader:      reader,
		Audit:       audit.NewPostgres(pg),
		Broadcaster: consumer.NewRedisBroadcaster(rdb),
		Channel:     cfg.RedisPubSubChannel,
		DLQ:         dlq,

		OnConsumed: func() { consumed.Inc() },
		OnPersist:  func() { persist.Inc() },
		OnError:    func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	// Servidor HTTP para métricas e health check
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return fmt.Errorf("pg: %w", err)
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		return nil
	})
	defer metricsSrv.Close()
	log.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))

	// Shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("bets-events-worker started",
		zap.String("consume", cfg.TopicBetPlaced+","+cfg.TopicBetCancelled+","+cfg.TopicBetSettled),
		zap.String("broadcast", cfg.RedisPubSubChannel),
	)
	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("processor stopped with error", zap.Error(err))
	}
	log.Info("bets-events-worker stopped")
}
