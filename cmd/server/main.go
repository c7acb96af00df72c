package main

import (
	"log"
	"net/http"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"podtrack/internal/config"
	"podtrack/internal/db"
	"podtrack/internal/handlers"
	"podtrack/internal/middleware"
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

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer asynqClient.Close()

	h := handlers.New(cfg, asynqClient)
	router := handlers.NewRouter(h)

	limiter := middleware.NewRateLimiterMiddleware(rate.Limit(5), 10)

	log.Printf("Starting server on :%s (commit: %s)", cfg.Port, CommitSHA)
	if err := http.ListenAndServe(":"+cfg.Port, limiter.Middleware(router)); err != nil {
		log.Fatal(err)
	}
}
