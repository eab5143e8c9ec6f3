package config

import (
	"encoding/json"
	"log"
	"os"
	"time"
)

// Tick pacing shared by server and clients (~10 ticks per second)
const (
	TickInterval = 100 * time.Millisecond
	FruitPeriod  = 10 // a fruit is placed every FruitPeriod ticks
)

// Wire size ceilings
const (
	MaxHandshakeBytes = 4096
	MaxTickBytes      = 4096
)

// Color is an RGB triple. It is purely a rendering concern: the core
// simulation identifies cells by tagged state, never by color.
type Color [3]uint8

// SnakeDef describes one snake as distributed in the handshake.
// Keys maps input tokens (already namespaced per client, e.g. "snake_0_w")
// to direction names ("UP", "DOWN", "LEFT", "RIGHT").
type SnakeDef struct {
	Keys      map[string]string `json:"keys"`
	StartX    int               `json:"sx"`
	StartY    int               `json:"sy"`
	Color     Color             `json:"color"`
	Direction string            `json:"direction"`
}

// Session holds all simulation-construction parameters. It is loaded once
// at startup and passed by value into the engine and client constructors;
// nothing mutates it after the handshake.
type Session struct {
	BackColor  Color      `json:"back_color"`
	FruitColor Color      `json:"fruit_color"`
	BlockColor Color      `json:"block_color"`
	CellSize   int        `json:"cell_size"`
	BlockCells [][2]int   `json:"block_cells"`
	GridSize   int        `json:"table_size"`
	Height     int        `json:"height"`
	Width      int        `json:"width"`
	Snakes     []SnakeDef `json:"snakes"`
}

// Default returns the built-in two-player session configuration.
func Default() Session {
	return Session{
		BackColor:  Color{255, 255, 255},
		FruitColor: Color{255, 0, 0},
		BlockColor: Color{139, 69, 19},
		CellSize:   30,
		BlockCells: [][2]int{},
		GridSize:   20,
		Height:     800,
		Width:      800,
		Snakes: []SnakeDef{
			{
				Keys: map[string]string{
					"snake_0_w": "UP",
					"snake_0_s": "DOWN",
					"snake_0_a": "LEFT",
					"snake_0_d": "RIGHT",
				},
				StartX:    3,
				StartY:    3,
				Color:     Color{0, 128, 0},
				Direction: "RIGHT",
			},
			{
				Keys: map[string]string{
					"snake_1_i": "UP",
					"snake_1_k": "DOWN",
					"snake_1_j": "LEFT",
					"snake_1_l": "RIGHT",
				},
				StartX:    16,
				StartY:    16,
				Color:     Color{0, 0, 200},
				Direction: "LEFT",
			},
		},
	}
}

// Load reads a session configuration from a JSON file. Any failure (missing
// file, bad JSON) falls back to the built-in defaults rather than aborting
// startup.
func Load(path string) Session {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("config: %v, using defaults", err)
		return Default()
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Printf("config: %s is not valid JSON: %v, using defaults", path, err)
		return Default()
	}
	return cfg
}
