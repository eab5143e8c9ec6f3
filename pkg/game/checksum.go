package game

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
)

// Checksum returns a hex digest of the full simulation state: turn
// counter, grid cells in row-major order, and every live snake's id,
// direction and body. Two participants that are still in lockstep
// produce the same digest for the same turn; clients exchange these
// periodically so divergence is flagged instead of passing unnoticed.
func (e *Engine) Checksum() string {
	h := fnv.New64a()
	var buf [8]byte

	writeInt := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(v)))
		h.Write(buf[:])
	}

	writeInt(e.Turn)
	writeInt(e.Grid.Size)

	n := e.Grid.Size
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			c, _ := e.Grid.At(Point{X: x, Y: y})
			h.Write([]byte{byte(c.Kind)})
			if c.Kind == CellSnake {
				writeInt(c.Owner)
			}
		}
	}

	writeInt(len(e.Snakes))
	for _, s := range e.Snakes {
		writeInt(s.ID)
		h.Write([]byte{byte(s.Dir)})
		writeInt(len(s.Body))
		for _, p := range s.Body {
			writeInt(p.X)
			writeInt(p.Y)
		}
	}

	return fmt.Sprintf("%016x", h.Sum64())
}
