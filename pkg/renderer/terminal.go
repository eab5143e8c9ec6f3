package renderer

import (
	"fmt"
	"strings"

	"github.com/trytobebee/snake_net/pkg/config"
	"github.com/trytobebee/snake_net/pkg/game"
)

// TerminalRenderer draws the grid's cell states to the terminal. Colors
// come straight from the session configuration; the simulation itself
// only knows tagged cell states.
type TerminalRenderer struct {
	cfg    config.Session
	buffer strings.Builder
}

// NewTerminalRenderer creates a renderer for the given session.
func NewTerminalRenderer(cfg config.Session) *TerminalRenderer {
	return &TerminalRenderer{cfg: cfg}
}

// clearScreen clears the terminal using ANSI escape codes
func (r *TerminalRenderer) clearScreen() {
	fmt.Print("\033[H\033[2J\033[3J")
}

// ShowCursor shows the cursor (call on exit)
func (r *TerminalRenderer) ShowCursor() {
	fmt.Print("\033[?25h")
}

// HideCursor hides the cursor (call on start)
func (r *TerminalRenderer) HideCursor() {
	fmt.Print("\033[?25l")
}

func cellBlock(c config.Color) string {
	// Two spaces on a truecolor background read as one square cell.
	return fmt.Sprintf("\033[48;2;%d;%d;%dm  \033[0m", c[0], c[1], c[2])
}

func (r *TerminalRenderer) colorFor(cell game.Cell) config.Color {
	switch cell.Kind {
	case game.CellFruit:
		return r.cfg.FruitColor
	case game.CellBlock:
		return r.cfg.BlockColor
	case game.CellSnake:
		if cell.Owner >= 0 && cell.Owner < len(r.cfg.Snakes) {
			return r.cfg.Snakes[cell.Owner].Color
		}
		return config.Color{0, 0, 0}
	}
	return r.cfg.BackColor
}

// Render draws the current engine state once per tick.
func (r *TerminalRenderer) Render(e *game.Engine, clientID int) {
	r.clearScreen()
	r.buffer.Reset()

	r.buffer.WriteString("\n  SNAKE LOCKSTEP\n")
	r.buffer.WriteString(fmt.Sprintf("  Turn: %d  |  Snakes alive: %d", e.Turn, len(e.Snakes)))
	if clientID >= 0 {
		if s := e.SnakeByID(clientID); s != nil {
			r.buffer.WriteString(fmt.Sprintf("  |  You: snake %d, length %d", clientID, s.Len()))
		} else {
			r.buffer.WriteString(fmt.Sprintf("  |  You: snake %d, DEAD", clientID))
		}
	}
	r.buffer.WriteString("\n\n")

	n := e.Grid.Size
	for y := 0; y < n; y++ {
		r.buffer.WriteString("  ")
		for x := 0; x < n; x++ {
			cell, _ := e.Grid.At(game.Point{X: x, Y: y})
			r.buffer.WriteString(cellBlock(r.colorFor(cell)))
		}
		r.buffer.WriteString("\n")
	}

	r.buffer.WriteString("\n  WASD or arrows to steer, Q to quit\n")

	if len(e.Snakes) == 0 {
		r.buffer.WriteString("\n  GAME OVER - all snakes are dead\n")
	}

	fmt.Print(r.buffer.String())
}
