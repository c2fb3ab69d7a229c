// cmd/ingest/main.go
// Worker ingest: consume topic telemetry, jalankan pipeline

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gram-meter/internal/analytics"
	"gram-meter/internal/config"
	"gram-meter/internal/ingest"
	"gram-meter/internal/notify"
	mysqlrepo "gram-meter/internal/repositories/mysql"
	"gram-meter/internal/server"
	"gram-meter/pkg/db"
)

func main() {
	cfg := config.Load()

	conn, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("mysql init: %v", err)
	}
	defer conn.Close()

	var engineOpts []analytics.Option
	if cfg.ModelPath != "" {
		if models, err := analytics.LoadModelSet(cfg.ModelPath); err != nil {
			log.Printf("[WARN] load model file: %v (falling back)", err)
		} else {
			engineOpts = append(engineOpts, analytics.WithModels(models))
		}
	}
	engine := analytics.NewEngine(engineOpts...)

	pipeline := ingest.NewPipeline(
		engine,
		&mysqlrepo.ReadingsRepo{DB: conn},
		&mysqlrepo.MetersRepo{DB: conn},
		&mysqlrepo.AlertsRepo{DB: conn},
		notify.FromConfig(cfg.AlertWebhookURL),
	)

	consumer, err := ingest.NewConsumer(ingest.ConsumerConfig{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	}, pipeline)
	if err != nil {
		log.Fatalf("kafka init: %v", err)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// health + metrics di port terpisah
	go func() {
		addr := ":" + getenv("WORKER_PORT", "8081")
		log.Printf("ingest worker health on %s", addr)
		if err := http.ListenAndServe(addr, server.NewMux(conn)); err != nil {
			log.Printf("[ERROR] health server: %v", err)
		}
	}()

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		log.Println("shutting down ingest worker...")
		cancel()
	}()

	log.Printf("consuming topic %s from %v", cfg.Kafka.Topic, cfg.Kafka.Brokers)
	if err := consumer.Run(ctx); err != nil {
		log.Fatalf("consumer: %v", err)
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
