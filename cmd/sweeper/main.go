// Command sweeper runs the scheduled-message sweep on a fixed interval. Use
// it where no external cron can hit GET /scheduled-sweep.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"example/companion-api/app"
	"example/companion-api/app/config"

	"github.com/go-co-op/gocron/v2"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	app.MustInitDB()

	s, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("failed to create scheduler: %v", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 55*time.Second)
			defer cancel()

			processed, results, err := app.RunScheduledSweep(ctx, cfg)
			if err != nil {
				log.Printf("sweep failed: %v", err)
				return
			}
			if len(results) > 0 {
				log.Printf("sweep done processed=%d total=%d", processed, len(results))
			}
		}),
	)
	if err != nil {
		log.Fatalf("failed to register sweep job: %v", err)
	}

	s.Start()
	log.Println("sweeper started, interval 1m")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	if err := s.Shutdown(); err != nil {
		log.Printf("scheduler shutdown: %v", err)
	}
}
