package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dpalmie/palmietopia/internal/game"
	"github.com/dpalmie/palmietopia/internal/hub"
	"github.com/dpalmie/palmietopia/internal/lobby"
	"github.com/dpalmie/palmietopia/internal/store"
	"github.com/dpalmie/palmietopia/internal/websocket"
)

func serve(ctx context.Context, cfg *Config) error {
	st := store.NewMemoryStore()
	broadcast := hub.NewHub(cfg.broadcastBacklog)
	games := game.NewManager(game.Config{
		BaseTimeMs:   cfg.baseTime.Milliseconds(),
		IncrementMs:  cfg.increment.Milliseconds(),
		StartingGold: cfg.startingGold,
		BaseIncome:   cfg.baseIncome,
		TimerTick:    cfg.timerTick,
	}, broadcast)
	lobbies := lobby.NewManager(st, broadcast, games, cfg.maxPlayers)
	registry := websocket.NewRegistry()

	deps := websocket.ServerDeps{
		Lobbies: lobbies,
		Games:   games,
		Hub:     broadcast,
	}

	router := mux.NewRouter()

	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		websocket.ServeWs(deps, registry, w, r)
	})

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	router.HandleFunc("/api/lobbies", func(w http.ResponseWriter, r *http.Request) {
		waiting, err := lobbies.ListWaiting(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(waiting); err != nil {
			log.Printf("encode lobby list: %v", err)
		}
	})

	router.Use(corsMiddleware)

	addr := fmt.Sprintf("%s:%d", cfg.bind, cfg.port)
	srv := &http.Server{Addr: addr, Handler: router}

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	log.Printf("Palmietopia server starting on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
