package main

import (
	"flag"
	"log"
	"time"

	"github.com/trytobebee/snake_net/pkg/game"
	"github.com/trytobebee/snake_net/pkg/renderer"
)

// Replays a recorded token log through a fresh engine. Because the
// simulation is deterministic, the replay reproduces the session
// exactly; recorded checksums, when present, are verified along the way.
func main() {
	path := flag.String("log", "", "token log file (records/session_*.jsonl)")
	visual := flag.Bool("visual", false, "render each tick to the terminal")
	speed := flag.Duration("speed", 50*time.Millisecond, "delay between ticks in visual mode")
	flag.Parse()

	if *path == "" {
		log.Fatal("Usage: replay -log records/session_<id>_<ts>.jsonl")
	}

	cfg, ticks, err := game.ReadLog(*path)
	if err != nil {
		log.Fatal("Failed to read log:", err)
	}

	g, err := game.NewEngine(cfg)
	if err != nil {
		log.Fatal("Bad config in log:", err)
	}

	var render *renderer.TerminalRenderer
	if *visual {
		render = renderer.NewTerminalRenderer(cfg)
		render.HideCursor()
		defer render.ShowCursor()
	}

	mismatches := 0
	for _, rec := range ticks {
		g.Step(rec.Tokens)

		if rec.Checksum != "" && rec.Checksum != g.Checksum() {
			mismatches++
			log.Printf("Checksum mismatch at turn %d: log %s, replay %s", rec.Turn, rec.Checksum, g.Checksum())
		}

		if render != nil {
			render.Render(g, -1)
			time.Sleep(*speed)
		}
	}

	log.Printf("Replayed %d ticks: %d snakes alive, final checksum %s", len(ticks), len(g.Snakes), g.Checksum())
	if mismatches > 0 {
		log.Fatalf("%d checksum mismatches: replay diverged from the recorded run", mismatches)
	}
}
