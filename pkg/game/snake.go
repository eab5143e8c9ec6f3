package game

import "fmt"

// Direction is one of the four cardinal movement directions
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// ParseDirection parses a direction name as it appears in the session
// configuration ("UP", "DOWN", "LEFT", "RIGHT").
func ParseDirection(name string) (Direction, error) {
	switch name {
	case "UP":
		return Up, nil
	case "DOWN":
		return Down, nil
	case "LEFT":
		return Left, nil
	case "RIGHT":
		return Right, nil
	}
	return Up, fmt.Errorf("unknown direction %q", name)
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	}
	return "UNKNOWN"
}

// Opposite returns the reverse of d.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	}
	return Left
}

// Offset returns the unit movement vector for d. Y grows downward.
func (d Direction) Offset() Point {
	switch d {
	case Up:
		return Point{X: 0, Y: -1}
	case Down:
		return Point{X: 0, Y: 1}
	case Left:
		return Point{X: -1, Y: 0}
	}
	return Point{X: 1, Y: 0}
}

// Snake is one snake in the simulation. Body is ordered tail to head,
// head last; consecutive body points are grid-adjacent modulo wrap.
// Keys maps input tokens to the direction they request for this snake.
type Snake struct {
	ID   int
	Body []Point
	Dir  Direction
	Keys map[string]Direction
}

// Head returns the snake's head position.
func (s *Snake) Head() Point {
	return s.Body[len(s.Body)-1]
}

// Len returns the body length.
func (s *Snake) Len() int {
	return len(s.Body)
}

// Steer applies the tick's combined token list. The first token bound in
// this snake's key table fixes the candidate direction; the candidate is
// adopted unless it is the exact opposite of the current direction. At
// most one direction change happens per tick.
func (s *Snake) Steer(tokens []string) {
	for _, tok := range tokens {
		dir, ok := s.Keys[tok]
		if !ok {
			continue
		}
		if dir != s.Dir.Opposite() {
			s.Dir = dir
		}
		return
	}
}
