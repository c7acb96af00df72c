package main

import (
	"log"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"podtrack/internal/config"
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

	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		&asynq.SchedulerOpts{Location: cfg.Location()},
	)

	daily, err := tasks.NewDailyWorkflowTask()
	if err != nil {
		log.Fatalf("could not create daily workflow task: %v", err)
	}
	// Early-morning pass so studio prep tasks exist before sessions start.
	_, err = scheduler.Register("0 6 * * *", daily)
	if err != nil {
		log.Fatalf("could not register daily workflow task: %v", err)
	}

	sync, err := tasks.NewCalendarSyncTask(cfg.CalendarLookaheadDays)
	if err != nil {
		log.Fatalf("could not create calendar sync task: %v", err)
	}
	_, err = scheduler.Register("@every 6h", sync)
	if err != nil {
		log.Fatalf("could not register calendar sync task: %v", err)
	}

	log.Printf("Scheduler starting (commit: %s)", CommitSHA)
	if err := scheduler.Run(); err != nil {
		log.Fatalf("could not run scheduler: %v", err)
	}
}
