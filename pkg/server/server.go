// Package server implements the session coordinator. The coordinator
// never runs the canonical simulation: every client advances its own
// engine from the same broadcast token stream (deterministic lockstep
// replication), and the server's whole job is to gather one message per
// client per tick and rebroadcast the combined token list.
package server

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/trytobebee/snake_net/pkg/config"
	"github.com/trytobebee/snake_net/pkg/game"
	"github.com/trytobebee/snake_net/pkg/proto"
)

// State is the coordinator lifecycle phase.
type State int

const (
	StateWaiting State = iota
	StateConfigSent
	StateRunning
	StateShutdown
)

func (s State) String() string {
	switch s {
	case StateWaiting:
		return "waiting_for_clients"
	case StateConfigSent:
		return "config_sent"
	case StateRunning:
		return "running"
	}
	return "shutdown"
}

// DefaultTickTimeout bounds how long one tick waits for a client's
// message before that client is dropped, so a stalled client cannot
// block the whole session indefinitely.
const DefaultTickTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// client is one accepted connection. A reader goroutine feeds ticks and
// a writer goroutine drains send, so the aggregator in runTick stays
// single-threaded while per-client I/O cannot stall each other.
type client struct {
	id   int
	addr string
	conn *websocket.Conn

	ticks chan proto.ClientTick
	send  chan proto.ServerTick

	closed    chan struct{}
	closeOnce sync.Once

	droppedTurn int
	dead        bool
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.conn.Close()
	})
}

func (c *client) readPump() {
	defer c.close()
	c.conn.SetReadLimit(config.MaxTickBytes)
	for {
		var msg proto.ClientTick
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		select {
		case c.ticks <- msg:
		case <-c.closed:
			return
		}
	}
}

func (c *client) writePump() {
	defer c.close()
	for {
		select {
		case <-c.closed:
			return
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}
}

// Coordinator accepts a fixed number of clients, distributes the session
// configuration, and runs the aggregate-and-broadcast tick cycle.
type Coordinator struct {
	// Store, when set, receives the session summary at shutdown.
	Store *game.Store
	// Recorder, when set, logs every broadcast token list.
	Recorder *game.Recorder
	// TickTimeout is the per-tick read deadline (DefaultTickTimeout when zero).
	TickTimeout time.Duration

	cfg       config.Session
	sessionID string
	want      int

	mu      sync.Mutex
	state   State
	clients []*client
	all     []*client
	full    chan struct{}

	stop     chan struct{}
	stopOnce sync.Once

	turn      int
	desyncs   int
	checksums map[int]map[int]string
}

// New creates a coordinator for a session with exactly len(cfg.Snakes)
// clients.
func New(cfg config.Session) *Coordinator {
	return &Coordinator{
		cfg:       cfg,
		sessionID: uuid.NewString(),
		want:      len(cfg.Snakes),
		full:      make(chan struct{}),
		stop:      make(chan struct{}),
		checksums: make(map[int]map[int]string),
	}
}

// SessionID returns the unique id of this session.
func (s *Coordinator) SessionID() string {
	return s.sessionID
}

// State returns the current lifecycle phase.
func (s *Coordinator) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Handler returns the websocket endpoint clients connect to.
func (s *Coordinator) Handler() http.Handler {
	return http.HandlerFunc(s.handleWS)
}

func (s *Coordinator) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}

	s.mu.Lock()
	if s.state != StateWaiting || len(s.clients) >= s.want {
		s.mu.Unlock()
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session full"))
		conn.Close()
		return
	}

	c := &client{
		id:          len(s.clients),
		addr:        r.RemoteAddr,
		conn:        conn,
		ticks:       make(chan proto.ClientTick, 8),
		send:        make(chan proto.ServerTick, 8),
		closed:      make(chan struct{}),
		droppedTurn: -1,
	}
	s.clients = append(s.clients, c)
	s.all = append(s.all, c)
	connected := len(s.clients)
	if connected == s.want {
		close(s.full)
	}
	s.mu.Unlock()

	log.Printf("Client %d connected from %s (%d/%d)", c.id, c.addr, connected, s.want)

	go c.readPump()
	go c.writePump()
}

// Run drives the coordinator through its whole lifecycle. It blocks in
// the waiting phase until exactly the configured number of clients has
// connected; with fewer clients it never proceeds (and never ticks).
func (s *Coordinator) Run() error {
	log.Printf("Session %s waiting for %d clients", s.sessionID, s.want)

	select {
	case <-s.full:
	case <-s.stop:
		s.shutdown()
		return nil
	}

	started := time.Now()
	s.sendHandshakes()

	s.mu.Lock()
	s.state = StateRunning
	s.mu.Unlock()
	log.Printf("All %d clients connected, session %s running", s.want, s.sessionID)

	ticker := time.NewTicker(config.TickInterval)
	defer ticker.Stop()

	for s.runTick() {
		select {
		case <-ticker.C:
		case <-s.stop:
			s.shutdown()
			return s.saveResults(started)
		}
	}

	log.Println("All clients disconnected or inactive, stopping session")
	s.shutdown()
	return s.saveResults(started)
}

// Stop asks Run to exit; safe to call at any phase.
func (s *Coordinator) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// sendHandshakes distributes the configuration with per-client ids, in
// accept order. A client that cannot be written to is removed from the
// session before the run starts.
func (s *Coordinator) sendHandshakes() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateConfigSent

	kept := s.clients[:0]
	for _, c := range s.clients {
		hs := proto.Handshake{Config: s.cfg, ClientID: c.id, Clients: s.want}
		if err := c.conn.WriteJSON(hs); err != nil {
			log.Printf("Error sending config to client %d: %v", c.id, err)
			c.droppedTurn = 0
			c.close()
			continue
		}
		kept = append(kept, c)
	}
	s.clients = kept
}

// runTick executes one aggregate-and-broadcast cycle. It reads one
// message from every remaining client under a shared deadline, drops
// clients that failed, disconnected, or stalled, and broadcasts the
// combined token list of all active clients. It reports whether the
// session should continue.
func (s *Coordinator) runTick() bool {
	s.mu.Lock()
	clients := make([]*client, len(s.clients))
	copy(clients, s.clients)
	s.mu.Unlock()

	timeout := s.TickTimeout
	if timeout <= 0 {
		timeout = DefaultTickTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var tokens []string
	active := 0
	expired := false
	var drops []*client

	for _, c := range clients {
		var msg proto.ClientTick
		got := false

		if expired {
			// The tick deadline already passed: take only what has
			// already arrived.
			select {
			case msg = <-c.ticks:
				got = true
			default:
			}
		} else {
			select {
			case msg = <-c.ticks:
				got = true
			case <-c.closed:
			case <-timer.C:
				expired = true
				select {
				case msg = <-c.ticks:
					got = true
				default:
				}
			}
		}

		if !got {
			drops = append(drops, c)
			continue
		}

		if msg.Dead {
			c.dead = true
		} else {
			active++
			tokens = append(tokens, msg.Tokens...)
		}
		if msg.Checksum != "" {
			if s.recordChecksum(msg.Turn, c.id, msg.Checksum) {
				s.desyncs++
			}
		}
	}

	if len(drops) > 0 {
		s.dropClients(drops)
	}

	s.mu.Lock()
	remaining := make([]*client, len(s.clients))
	copy(remaining, s.clients)
	s.mu.Unlock()

	if len(remaining) == 0 || active == 0 {
		return false
	}

	st := proto.ServerTick{Turn: s.turn, Tokens: tokens, Desync: s.desyncs > 0}
	if s.Recorder != nil {
		s.Recorder.Record(game.TickRecord{Turn: s.turn, Tokens: tokens})
	}

	for _, c := range remaining {
		select {
		case c.send <- st:
		default:
			// Writer backed up: this client misses this tick's
			// broadcast but stays in the session.
		}
	}

	s.turn++
	return true
}

func (s *Coordinator) dropClients(drops []*client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range drops {
		for i, c := range s.clients {
			if c == d {
				s.clients = append(s.clients[:i], s.clients[i+1:]...)
				break
			}
		}
		d.droppedTurn = s.turn
		d.close()
		log.Printf("Client %d dropped at turn %d", d.id, s.turn)
	}
}

// recordChecksum stores one client's periodic state digest and reports
// whether it disagrees with another client's digest for the same turn.
// Divergence is flagged, never corrected: lockstep replication has no
// authoritative state to roll back to.
func (s *Coordinator) recordChecksum(turn, clientID int, sum string) bool {
	byClient, ok := s.checksums[turn]
	if !ok {
		byClient = make(map[int]string)
		s.checksums[turn] = byClient
	}
	byClient[clientID] = sum

	mismatch := false
	for id, other := range byClient {
		if id != clientID && other != sum {
			mismatch = true
			log.Printf("DESYNC at turn %d: client %d=%s client %d=%s", turn, clientID, sum, id, other)
		}
	}

	for t := range s.checksums {
		if t < turn-50 {
			delete(s.checksums, t)
		}
	}
	return mismatch
}

// shutdown closes every client connection. The HTTP listener is owned by
// the caller; once shutdown runs the handler rejects new connections.
func (s *Coordinator) shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateShutdown
	log.Printf("Session %s shutting down", s.sessionID)
	for _, c := range s.clients {
		c.close()
	}
	s.clients = nil
}

func (s *Coordinator) saveResults(started time.Time) error {
	if s.Recorder != nil {
		s.Recorder.Close()
	}
	if s.Store == nil {
		return nil
	}

	res := game.SessionResult{
		ID:      s.sessionID,
		Started: started,
		Ended:   time.Now(),
		Clients: s.want,
		Ticks:   s.turn,
		Desyncs: s.desyncs,
	}

	s.mu.Lock()
	var clients []game.ClientResult
	for _, c := range s.all {
		clients = append(clients, game.ClientResult{
			SessionID:   s.sessionID,
			ClientID:    c.id,
			RemoteAddr:  c.addr,
			DroppedTurn: c.droppedTurn,
			Dead:        c.dead,
		})
	}
	s.mu.Unlock()

	return s.Store.SaveSession(res, clients)
}
