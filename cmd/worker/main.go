package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/ignite/adlens/internal/app"
	"github.com/ignite/adlens/internal/config"
	"github.com/ignite/adlens/internal/pkg/distlock"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run due schedules once and exit")
	metricsAddr := flag.String("metrics-addr", ":9090", "address for the /metrics endpoint (empty disables)")
	flag.Parse()

	log.Println("Starting adlens report worker...")

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}
	defer a.Close()

	if *once {
		summary, err := a.Scheduler.RunOnce(ctx)
		if errors.Is(err, distlock.ErrNotAcquired) {
			log.Println("Another worker is processing scheduled reports")
			return
		}
		if err != nil {
			log.Fatalf("Run failed: %v", err)
		}
		json.NewEncoder(os.Stdout).Encode(summary)
		return
	}

	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", a.Metrics.Handler())
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				log.Printf("Metrics server error: %v", err)
			}
		}()
	}

	if err := a.Scheduler.Start(); err != nil {
		log.Fatalf("Failed to start report scheduler: %v", err)
	}
	log.Println("Worker running...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down worker...")
	done := make(chan struct{})
	go func() {
		a.Scheduler.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Minute):
		log.Println("Timed out waiting for in-flight reports")
	}
	log.Println("Worker stopped")
}
