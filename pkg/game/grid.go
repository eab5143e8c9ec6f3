package game

// Point represents a coordinate on the game grid
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// CellKind is the tagged state of a grid cell. Colors are a rendering
// concern and never appear here.
type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellFruit
	CellBlock
	CellSnake
)

// Cell is the state of a single grid cell. Owner is the id of the
// occupying snake and is meaningful only when Kind is CellSnake.
type Cell struct {
	Kind  CellKind `json:"kind"`
	Owner int      `json:"owner,omitempty"`
}

// Grid is a fixed Size x Size array of cells. It has no wrap-around
// logic of its own; wrapping is the mover's responsibility.
type Grid struct {
	Size  int
	cells [][]Cell
}

// NewGrid creates an empty grid and marks the given block cells.
// Block positions outside the grid are ignored.
func NewGrid(size int, blocks []Point) *Grid {
	cells := make([][]Cell, size)
	for y := range cells {
		cells[y] = make([]Cell, size)
	}
	g := &Grid{Size: size, cells: cells}
	for _, p := range blocks {
		if g.inBounds(p) {
			g.cells[p.Y][p.X] = Cell{Kind: CellBlock}
		}
	}
	return g
}

func (g *Grid) inBounds(p Point) bool {
	return p.X >= 0 && p.X < g.Size && p.Y >= 0 && p.Y < g.Size
}

// At returns the cell at p, or ok=false when p is outside the grid.
func (g *Grid) At(p Point) (Cell, bool) {
	if !g.inBounds(p) {
		return Cell{}, false
	}
	return g.cells[p.Y][p.X], true
}

// Set mutates the state of a single cell. Callers are expected to pass
// wrapped, in-range coordinates; anything else is an invariant violation
// with no recovery path.
func (g *Grid) Set(p Point, c Cell) {
	if !g.inBounds(p) {
		panic("grid: Set out of range")
	}
	g.cells[p.Y][p.X] = c
}
