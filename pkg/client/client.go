// Package client implements the player side of a lockstep session: send
// this tick's local input, block for the server's combined broadcast,
// and advance the local simulation with it. The client's engine IS the
// game state; the server never sends state, only tokens.
package client

import (
	"fmt"
	"log"

	"github.com/gorilla/websocket"

	"github.com/trytobebee/snake_net/pkg/config"
	"github.com/trytobebee/snake_net/pkg/game"
	"github.com/trytobebee/snake_net/pkg/proto"
)

// ChecksumPeriod controls how often a state digest rides along with the
// client tick for the server-side desync detector.
const ChecksumPeriod = 10

// Session is one client's connection to a running game session.
type Session struct {
	Handshake proto.Handshake
	Engine    *game.Engine

	conn *websocket.Conn
	turn int
}

// Dial connects to a server, waits for the handshake, and builds the
// local simulation from the received configuration.
func Dial(url string) (*Session, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	conn.SetReadLimit(config.MaxHandshakeBytes)
	var hs proto.Handshake
	if err := conn.ReadJSON(&hs); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to read handshake: %w", err)
	}

	engine, err := game.NewEngine(hs.Config)
	if err != nil {
		conn.Close()
		return nil, err
	}

	conn.SetReadLimit(config.MaxTickBytes)
	return &Session{Handshake: hs, Engine: engine, conn: conn}, nil
}

// ID returns the client id assigned by the server.
func (s *Session) ID() int {
	return s.Handshake.ClientID
}

// Snake returns this client's snake, nil once it has died.
func (s *Session) Snake() *game.Snake {
	return s.Engine.SnakeByID(s.Handshake.ClientID)
}

// Tick runs one lockstep cycle: namespace and send the raw keys pressed
// locally this tick, block for the broadcast, and step the engine with
// the combined token list, which is returned. Any send or receive
// failure is terminal for the session.
func (s *Session) Tick(keys []string) ([]string, error) {
	tokens := make([]string, 0, len(keys))
	for _, k := range keys {
		tokens = append(tokens, proto.Token(s.Handshake.ClientID, k))
	}

	msg := proto.ClientTick{Turn: s.turn, Tokens: tokens}
	if s.turn%ChecksumPeriod == 0 {
		msg.Checksum = s.Engine.Checksum()
	}
	if err := s.conn.WriteJSON(msg); err != nil {
		return nil, fmt.Errorf("failed to send tick: %w", err)
	}

	var st proto.ServerTick
	if err := s.conn.ReadJSON(&st); err != nil {
		return nil, fmt.Errorf("failed to receive broadcast: %w", err)
	}
	if st.Desync {
		log.Printf("Server flagged state divergence at turn %d", st.Turn)
	}

	s.Engine.Step(st.Tokens)
	s.turn++
	return st.Tokens, nil
}

// Leave signals voluntary exit for this tick. The connection stays open;
// callers normally Close right after.
func (s *Session) Leave() error {
	return s.conn.WriteJSON(proto.ClientTick{Turn: s.turn, Dead: true})
}

// Close closes the connection.
func (s *Session) Close() {
	s.conn.Close()
}
