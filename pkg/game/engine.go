package game

import (
	"fmt"

	"github.com/trytobebee/snake_net/pkg/config"
)

// Engine owns the grid and the ordered set of live snakes and advances
// them one deterministic tick at a time. Every participant in a session
// runs its own engine against the same token stream; there is no
// authoritative copy, so Step must be bit-for-bit reproducible given the
// same starting state and tokens. Snake order is fixed at construction
// and is part of that contract.
type Engine struct {
	Grid   *Grid
	Snakes []*Snake
	Turn   int
}

// NewEngine constructs a grid and snakes from the session configuration.
// It fails on malformed snake definitions (bad direction name, start
// position outside the grid) rather than guessing.
func NewEngine(cfg config.Session) (*Engine, error) {
	if cfg.GridSize <= 0 {
		return nil, fmt.Errorf("engine: grid size %d", cfg.GridSize)
	}

	blocks := make([]Point, len(cfg.BlockCells))
	for i, b := range cfg.BlockCells {
		blocks[i] = Point{X: b[0], Y: b[1]}
	}
	grid := NewGrid(cfg.GridSize, blocks)

	e := &Engine{Grid: grid}
	for i, def := range cfg.Snakes {
		dir, err := ParseDirection(def.Direction)
		if err != nil {
			return nil, fmt.Errorf("engine: snake %d: %w", i, err)
		}
		start := Point{X: def.StartX, Y: def.StartY}
		if _, ok := grid.At(start); !ok {
			return nil, fmt.Errorf("engine: snake %d starts off-grid at (%d,%d)", i, def.StartX, def.StartY)
		}
		keys := make(map[string]Direction, len(def.Keys))
		for tok, name := range def.Keys {
			d, err := ParseDirection(name)
			if err != nil {
				return nil, fmt.Errorf("engine: snake %d key %q: %w", i, tok, err)
			}
			keys[tok] = d
		}
		s := &Snake{ID: i, Body: []Point{start}, Dir: dir, Keys: keys}
		grid.Set(start, Cell{Kind: CellSnake, Owner: i})
		e.Snakes = append(e.Snakes, s)
	}
	return e, nil
}

// Wrap maps p onto the grid, each axis independently wrapping modulo the
// grid size.
func (e *Engine) Wrap(p Point) Point {
	n := e.Grid.Size
	return Point{
		X: ((p.X % n) + n) % n,
		Y: ((p.Y % n) + n) % n,
	}
}

// Step advances the simulation by one tick: steer every live snake from
// the combined token list, move snakes in list order, then place a fruit
// on every FruitPeriod-th turn. Moving in list order matters: an earlier
// snake's move can occupy a cell before a later snake's collision check,
// and a snake that dies is removed before later snakes move.
func (e *Engine) Step(tokens []string) {
	for _, s := range e.Snakes {
		s.Steer(tokens)
	}

	for i := 0; i < len(e.Snakes); {
		if e.moveSnake(e.Snakes[i]) {
			i++
			continue
		}
		// Dead: remove from the live set immediately. The cells the
		// snake occupied are deliberately left as obstacles.
		e.Snakes = append(e.Snakes[:i], e.Snakes[i+1:]...)
	}

	e.Turn++
	if e.Turn%config.FruitPeriod == 0 {
		if pos, ok := e.bestFruitCell(); ok {
			if c, _ := e.Grid.At(pos); c.Kind == CellEmpty {
				e.Grid.Set(pos, Cell{Kind: CellFruit})
			}
		}
	}
}

// moveSnake advances one snake and reports whether it survived.
func (e *Engine) moveSnake(s *Snake) bool {
	head := s.Head()
	off := s.Dir.Offset()
	next := e.Wrap(Point{X: head.X + off.X, Y: head.Y + off.Y})

	cell, ok := e.Grid.At(next)
	if !ok {
		// Wrap guarantees in-range coordinates; reaching this is an
		// invariant violation with no recovery path.
		panic(fmt.Sprintf("engine: wrapped position (%d,%d) off grid", next.X, next.Y))
	}

	switch cell.Kind {
	case CellFruit:
		s.Body = append(s.Body, next)
		e.Grid.Set(next, Cell{Kind: CellSnake, Owner: s.ID})
		return true
	case CellEmpty:
		s.Body = append(s.Body, next)
		tail := s.Body[0]
		s.Body = s.Body[1:]
		e.Grid.Set(next, Cell{Kind: CellSnake, Owner: s.ID})
		e.Grid.Set(tail, Cell{Kind: CellEmpty})
		return true
	}
	// Block, own body or another snake: the snake dies.
	return false
}

// bestFruitCell returns the empty cell whose minimum Manhattan distance
// to any non-empty cell is maximal. Ties go to the first such cell in
// row-major scan order. The search is exhaustive; fine for the small
// grids this game runs on, quadratic blow-up on large ones.
func (e *Engine) bestFruitCell() (Point, bool) {
	n := e.Grid.Size

	var occupied []Point
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if c, _ := e.Grid.At(Point{X: x, Y: y}); c.Kind != CellEmpty {
				occupied = append(occupied, Point{X: x, Y: y})
			}
		}
	}

	best := Point{X: -1, Y: -1}
	bestDist := -1
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			p := Point{X: x, Y: y}
			if c, _ := e.Grid.At(p); c.Kind != CellEmpty {
				continue
			}
			minDist := 2 * n // larger than any reachable distance
			for _, q := range occupied {
				d := abs(p.X-q.X) + abs(p.Y-q.Y)
				if d < minDist {
					minDist = d
				}
			}
			if minDist > bestDist {
				bestDist = minDist
				best = p
			}
		}
	}

	if bestDist < 0 {
		return Point{}, false
	}
	return best, true
}

// Alive reports whether any snake is still live.
func (e *Engine) Alive() bool {
	return len(e.Snakes) > 0
}

// SnakeByID returns the live snake with the given id, or nil once it has
// died.
func (e *Engine) SnakeByID(id int) *Snake {
	for _, s := range e.Snakes {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
