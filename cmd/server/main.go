package main

import (
	"context"
	"log"
	"net/http"

	webAdapter "mandi-billing/internal/adapters/web"
	"mandi-billing/internal/ai"
	"mandi-billing/internal/app"
	"mandi-billing/internal/config"
	"mandi-billing/internal/core"
	"mandi-billing/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	config.SetLogLevel(cfg.LogLevel)

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	partyService := core.NewPartyService(pool)
	productService := core.NewProductService(pool)
	transactionService := core.NewTransactionService(pool, partyService)
	snapshotService := core.NewSnapshotService(pool)
	summaryService := core.NewSummaryService(pool)
	userService := core.NewUserService(pool)

	if cfg.OpenAIKey == "" {
		log.Println("Warning: OPENAI_API_KEY is not set")
	}
	agent := ai.NewAgent(cfg.OpenAIKey)

	svc := app.NewAppService(pool, partyService, productService, transactionService,
		snapshotService, summaryService, userService, agent)

	handler := webAdapter.NewHandler(svc, cfg.AllowedOrigins, cfg.JWTSecret)

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := http.ListenAndServe(":"+cfg.ServerPort, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
