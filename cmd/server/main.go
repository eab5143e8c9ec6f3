package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/trytobebee/snake_net/pkg/config"
	"github.com/trytobebee/snake_net/pkg/game"
	"github.com/trytobebee/snake_net/pkg/server"
)

func main() {
	// Optional .env for deployment settings; flags win over env.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded settings from .env")
	}

	addr := flag.String("addr", envOr("SNAKE_ADDR", ":12345"), "listen address")
	cfgPath := flag.String("config", envOr("SNAKE_CONFIG", "config.json"), "session config file")
	dbPath := flag.String("db", envOr("SNAKE_DB", "data/sessions.db"), "results database path")
	record := flag.Bool("record", false, "record broadcast token lists to records/")
	flag.Parse()

	cfg := config.Load(*cfgPath)
	if len(cfg.Snakes) == 0 {
		log.Fatal("Config defines 0 snakes, nothing to coordinate")
	}

	coord := server.New(cfg)

	store, err := game.OpenStore(*dbPath)
	if err != nil {
		log.Printf("Results store disabled: %v", err)
	} else {
		coord.Store = store
		defer store.Close()
	}

	if *record {
		rec, err := game.NewRecorder(coord.SessionID(), cfg)
		if err != nil {
			log.Printf("Recording disabled: %v", err)
		} else {
			coord.Recorder = rec
			log.Printf("Recording session to %s", rec.Path())
		}
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", coord.Handler())

	httpServer := &http.Server{Addr: *addr, Handler: mux}
	go func() {
		log.Printf("Snake server listening on %s", *addr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	if err := coord.Run(); err != nil {
		log.Printf("Session ended with error: %v", err)
	}
	httpServer.Close()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
