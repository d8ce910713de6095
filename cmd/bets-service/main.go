package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/courtside/tennis-bets-service/internal/bets"
	bhttp "github.com/courtside/tennis-bets-service/internal/bets/http"
	kpub "github.com/courtside/tennis-bets-service/internal/bets/producer"
	"github.com/courtside/tennis-bets-service/internal/bets/store"
	"github.com/courtside/tennis-bets-service/internal/bets/ws"
	"github.com/courtside/tennis-bets-service/internal/predictions"
	"github.com/courtside/tennis-bets-service/internal/settings"
	sharedcache "github.com/courtside/tennis-bets-service/internal/shared/cache"
	"github.com/courtside/tennis-bets-service/internal/shared/config"
	"github.com/courtside/tennis-bets-service/internal/shared/db"
	skafka "github.com/courtside/tennis-bets-service/internal/shared/kafka"
	"github.com/courtside/tennis-bets-service/internal/shared/logger"
)

func main() {
	cfg := config.Load()
	log, err := logger.New("bets-service", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Redis: storage local anônimo, cache de previsões e pub/sub do feed
	rdb, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer rdb.Close()

	// Postgres é opcional: DSN vazio desabilita o backend cloud e o
	// serviço opera só com o storage local (modo anônimo)
	var cloud bets.Store
	if cfg.PostgresDSN != "" {
		pg, err := db.ConnectPostgres(cfg.PostgresDSN)
		if err != nil {
			log.Fatal("postgres connect", zap.Error(err))
		}
		defer pg.Close()
		cloud = store.NewPostgres(pg)
	} else {
		log.Warn("no postgres dsn, cloud backend disabled")
	}
	local := store.NewLocal(&store.RedisKV{R: rdb})

	// Publisher Kafka dos eventos de ciclo de vida
	publ := kpub.NewKafkaPublisher(
		skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetPlaced),
		skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetCancelled),
		skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetSettled),
	)
	defer publ.Close()

	// Acessor remoto do bankroll
	sapi := settings.New(cfg.SettingsAPIURL)

	svc := bets.NewService(log, sapi, cloud, local, publ)

	// Métricas Prometheus do ledger
	placed := prometheus.NewCounter(prometheus.CounterOpts{Name: "bets_placed_total", Help: "apostas criadas"})
	cancelled := prometheus.NewCounter(prometheus.CounterOpts{Name: "bets_cancelled_total", Help: "apostas canceladas com estorno"})
	settled := prometheus.NewCounter(prometheus.CounterOpts{Name: "bets_settled_total", Help: "apostas removidas após liquidação"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "bet_failures_total", Help: "falhas por estágio"}, []string{"stage"})
	prometheus.MustRegister(placed, cancelled, settled, failures)
	svc.OnPlaced = func() { placed.Inc() }
	svc.OnCancelled = func() { cancelled.Inc() }
	svc.OnSettled = func() { settled.Inc() }
	svc.OnFailure = func(stage string) { failures.WithLabelValues(stage).Inc() }

	// Cliente da API de previsões com cache TTL injetado
	predCache := predictions.NewRedisCache(rdb)
	pred := predictions.New(cfg.PredictionsAPIURL, predCache, log)

	// Feed ao vivo: hub WS alimentado pelo Redis Pub/Sub do worker
	hub := ws.NewHub(func(r *http.Request) bool { return true })
	ws.StartRedisSubscriber(context.Background(), rdb, hub)

	api := &bhttp.API{Log: log, Svc: svc, Pred: pred, WS: hub.HandleWS}
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	// metrics/health
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := rdb.Ping(r.Context()).Err(); err != nil {
			http.Error(w, "redis", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	go func() {
		addr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("metrics/health", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, metricsMux)
	}()

	log.Info("bets-service listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
