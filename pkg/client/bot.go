package client

import (
	"github.com/trytobebee/snake_net/pkg/game"
	"github.com/trytobebee/snake_net/pkg/proto"
)

// Bot picks keys for a session without a human at the keyboard, so a
// fixed-count session can always be filled. It is a plain heuristic:
// keep going unless the next cell kills us, otherwise turn onto the
// first survivable direction, preferring fruit.
type Bot struct {
	sess *Session
	keys map[game.Direction]string
}

// NewBot builds a bot for the given session, inverting the snake's
// token bindings back into raw keys.
func NewBot(sess *Session) *Bot {
	keys := make(map[game.Direction]string)
	def := sess.Handshake.Config.Snakes[sess.ID()]
	for tok, name := range def.Keys {
		dir, err := game.ParseDirection(name)
		if err != nil {
			continue
		}
		if raw, ok := proto.KeyFromToken(sess.ID(), tok); ok {
			keys[dir] = raw
		}
	}
	return &Bot{sess: sess, keys: keys}
}

// ChooseKeys returns the raw keys to press this tick (at most one).
func (b *Bot) ChooseKeys() []string {
	snake := b.sess.Snake()
	if snake == nil {
		return nil
	}

	e := b.sess.Engine
	cur := snake.Dir

	// Candidate order is deterministic: current direction first, then
	// the two perpendiculars, never the reverse.
	candidates := []game.Direction{cur}
	switch cur {
	case game.Up, game.Down:
		candidates = append(candidates, game.Left, game.Right)
	default:
		candidates = append(candidates, game.Up, game.Down)
	}

	choice := cur
	found := false
	for _, d := range candidates {
		off := d.Offset()
		next := e.Wrap(game.Point{X: snake.Head().X + off.X, Y: snake.Head().Y + off.Y})
		cell, _ := e.Grid.At(next)
		if cell.Kind == game.CellFruit {
			choice = d
			found = true
			break
		}
		if cell.Kind == game.CellEmpty && !found {
			choice = d
			found = true
		}
	}

	if choice == cur {
		// No key needed to keep going straight.
		return nil
	}
	key, ok := b.keys[choice]
	if !ok {
		return nil
	}
	return []string{key}
}
