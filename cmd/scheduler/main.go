package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ea-licensing-be/internal/bootstrap"
	"ea-licensing-be/internal/config"
	"ea-licensing-be/pkg/database"

	"github.com/robfig/cron/v3"
)

// sweep is one batch job; it returns the number of rows it changed.
type sweep func(ctx context.Context, now time.Time) (int, error)

func main() {
	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()
	defer container.Logger.Sync()

	// Sweeps enqueue notifications; the consumer delivers them. Websocket pushes reach the
	// API instances through the hub's redis channel.
	consumerCtx, cancelConsumer := context.WithCancel(context.Background())
	defer cancelConsumer()
	if err := container.ConsumerService.Consume(consumerCtx); err != nil {
		log.Printf("[WARN] Consumer not started: %v", err)
	}

	timeout := time.Duration(cfg.Scheduler.JobTimeoutSeconds) * time.Second
	run := func(name string, job sweep) func() {
		return func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			start := time.Now()
			count, err := job(ctx, container.Clock())
			if err != nil {
				container.Logger.Error("SCHEDULER", name+" failed", map[string]interface{}{"error": err.Error()})
				return
			}
			container.Logger.Info("SCHEDULER", name+" finished", map[string]interface{}{
				"processed":   count,
				"duration_ms": time.Since(start).Milliseconds(),
			})
		}
	}

	jobs := []struct {
		name string
		spec string
		job  sweep
	}{
		{"license expiry sweep", cfg.Scheduler.LicenseExpirySpec, container.LicenseService.ExpireSweep},
		{"renewal reminder sweep", cfg.Scheduler.RenewalReminderSpec, container.SubscriptionService.RenewalReminderSweep},
		{"subscription expiry sweep", cfg.Scheduler.SubscriptionExpiry, container.SubscriptionService.ExpireSubscriptionsSweep},
	}

	// SkipIfStillRunning keeps a slow sweep from overlapping with its next tick.
	scheduler := cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	for _, j := range jobs {
		if _, err := scheduler.AddFunc(j.spec, run(j.name, j.job)); err != nil {
			log.Fatalf("Failed to add %s (%q): %v", j.name, j.spec, err)
		}
		log.Printf("Scheduled %s: %s", j.name, j.spec)
	}

	if cfg.Scheduler.RunOnStart {
		for _, j := range jobs {
			run(j.name, j.job)()
		}
	}

	scheduler.Start()
	log.Println("Scheduler started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down gracefully...")
	ctx := scheduler.Stop()
	select {
	case <-ctx.Done():
		log.Println("Cron jobs stopped gracefully")
	case <-time.After(5 * time.Second):
		log.Println("Cron jobs forced to stop after timeout")
	}
}
