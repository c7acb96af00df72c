package main

import (
	"context"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"podtrack/internal/calendar"
	"podtrack/internal/config"
	"podtrack/internal/db"
	"podtrack/internal/worker"
	"podtrack/pkg/tasks"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	cfg := config.Load()
	db.InitDB()

	var src calendar.EventSource
	if gsrc, err := calendar.NewGoogleSource(context.Background(), cfg); err != nil {
		log.Printf("Calendar integration unavailable: %v", err)
	} else if gsrc != nil {
		src = gsrc
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		asynq.Config{
			// One job at a time: the daily pass and calendar sync both walk
			// the same episode and task tables.
			Concurrency: 1,
			Queues: map[string]int{
				"high":    2,
				"default": 1,
			},
			// Custom retry delay function for exponential backoff
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				delay := 5 * time.Minute
				maxDelay := 24 * time.Hour

				// Exponential backoff: 5min, 10min, 20min, 40min, 80min, etc.
				for i := 0; i < n; i++ {
					delay *= 2
					if delay > maxDelay {
						delay = maxDelay
						break
					}
				}

				log.Printf("Task %s failed %d times, retrying in %v", task.Type(), n+1, delay)
				return delay
			},
		},
	)

	mux := asynq.NewServeMux()
	taskHandler := worker.NewTaskHandler(cfg, src)

	mux.HandleFunc(tasks.TypeDailyWorkflow, taskHandler.HandleDailyWorkflowTask)
	mux.HandleFunc(tasks.TypeCalendarSync, taskHandler.HandleCalendarSyncTask)

	log.Printf("Worker starting (commit: %s)", CommitSHA)
	if err := srv.Run(mux); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
