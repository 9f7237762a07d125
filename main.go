package main

import (
	"log"
	"net/http"
	"time"

	"github.com/Matthew12-t/UAS-TST/config"
	"github.com/Matthew12-t/UAS-TST/handlers"
	"github.com/Matthew12-t/UAS-TST/policy"
	"github.com/Matthew12-t/UAS-TST/store"
	"github.com/Matthew12-t/UAS-TST/utils"
)

func main() {
	cfg := config.FromEnv()

	if cfg.DatabaseDSN == "" {
		log.Fatal("DATABASE_DSN is not set")
	}

	st, err := store.NewMySQLStore(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer st.Close()

	if err := st.InitSchema(); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	log.Println("Connected to database")

	if cfg.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET is not set; /auth/login will answer ConfigError")
	}

	tokens := utils.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	engine := policy.NewEngine(st, cfg)

	hub := utils.NewHub()
	go hub.Run()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handlers.Router(cfg, st, tokens, engine, hub),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Printf("circulation-service listening on :%s", cfg.Port)
	log.Fatal(srv.ListenAndServe())
}
