package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/trytobebee/snake_net/pkg/config"
	"github.com/trytobebee/snake_net/pkg/game"
	"github.com/trytobebee/snake_net/pkg/input"
	"github.com/trytobebee/snake_net/pkg/proto"
	"github.com/trytobebee/snake_net/pkg/renderer"
)

// Single-process variant: the same simulation engine with an empty
// network layer. All snakes share one keyboard, so local keys are
// namespaced for every snake id and each snake picks up its own.
func main() {
	cfgPath := flag.String("config", "config.json", "session config file")
	record := flag.Bool("record", false, "record token lists to records/")
	flag.Parse()

	cfg := config.Load(*cfgPath)
	g, err := game.NewEngine(cfg)
	if err != nil {
		log.Fatal("Bad session config:", err)
	}

	var rec *game.Recorder
	if *record {
		rec, err = game.NewRecorder(uuid.NewString(), cfg)
		if err != nil {
			log.Printf("Recording disabled: %v", err)
			rec = nil
		} else {
			defer rec.Close()
			log.Printf("Recording to %s", rec.Path())
		}
	}

	inputHandler := input.NewKeyboardHandler()
	if err := inputHandler.Start(); err != nil {
		fmt.Println("Error opening keyboard:", err)
		return
	}
	defer inputHandler.Stop()

	render := renderer.NewTerminalRenderer(cfg)
	render.HideCursor()
	defer render.ShowCursor()

	render.Render(g, -1)

	ticker := time.NewTicker(config.TickInterval)
	defer ticker.Stop()

	for range ticker.C {
		keys, quit := inputHandler.Poll()
		if quit {
			fmt.Println("\n  Thanks for playing!")
			return
		}

		var tokens []string
		for _, k := range keys {
			for id := range cfg.Snakes {
				tokens = append(tokens, proto.Token(id, k))
			}
		}

		g.Step(tokens)
		if rec != nil {
			rec.Record(game.TickRecord{Turn: g.Turn - 1, Tokens: tokens, Checksum: g.Checksum()})
		}
		render.Render(g, -1)

		if !g.Alive() {
			fmt.Println("\n  All snakes are dead. Game over!")
			return
		}
	}
}
