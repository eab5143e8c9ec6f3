package server_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/trytobebee/snake_net/pkg/client"
	"github.com/trytobebee/snake_net/pkg/config"
	"github.com/trytobebee/snake_net/pkg/game"
	"github.com/trytobebee/snake_net/pkg/proto"
	"github.com/trytobebee/snake_net/pkg/server"
)

func startSession(t *testing.T, cfg config.Session, tickTimeout time.Duration) (*server.Coordinator, string, chan error) {
	t.Helper()
	coord := server.New(cfg)
	coord.TickTimeout = tickTimeout

	ts := httptest.NewServer(coord.Handler())
	t.Cleanup(ts.Close)
	t.Cleanup(coord.Stop)

	done := make(chan error, 1)
	go func() { done <- coord.Run() }()

	return coord, "ws" + strings.TrimPrefix(ts.URL, "http"), done
}

func oneSnakeConfig() config.Session {
	cfg := config.Default()
	cfg.Snakes = cfg.Snakes[:1]
	return cfg
}

// dialPair joins two clients at once. Dial blocks until the server sends
// the handshake, and the server waits for the full client count, so the
// two dials have to be concurrent. Returns the sessions ordered by
// assigned id.
func dialPair(t *testing.T, url string) (*client.Session, *client.Session) {
	t.Helper()

	sessions := make(chan *client.Session, 2)
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			sess, err := client.Dial(url)
			if err != nil {
				errs <- err
				return
			}
			sessions <- sess
		}()
	}

	var a, b *client.Session
	for i := 0; i < 2; i++ {
		select {
		case sess := <-sessions:
			if sess.ID() == 0 {
				a = sess
			} else {
				b = sess
			}
			t.Cleanup(sess.Close)
		case err := <-errs:
			t.Fatal(err)
		case <-time.After(5 * time.Second):
			t.Fatal("clients never received the handshake")
		}
	}
	if a == nil || b == nil {
		t.Fatalf("expected client ids 0 and 1")
	}
	return a, b
}

func TestTwoClientTokenUnion(t *testing.T) {
	_, url, _ := startSession(t, config.Default(), 2*time.Second)
	a, b := dialPair(t, url)

	if a.Handshake.Clients != 2 {
		t.Errorf("handshake client count = %d", a.Handshake.Clients)
	}

	// Both clients must tick for the broadcast to happen; run B in the
	// background. A presses "w" (UP for snake 0), B presses nothing.
	bTokens := make(chan []string, 1)
	go func() {
		toks, err := b.Tick(nil)
		if err != nil {
			t.Error("client B tick:", err)
		}
		bTokens <- toks
	}()

	aTokens, err := a.Tick([]string{"w"})
	if err != nil {
		t.Fatal("client A tick:", err)
	}

	want := proto.Token(0, "w")
	if len(aTokens) != 1 || aTokens[0] != want {
		t.Errorf("broadcast tokens = %v, want [%s]", aTokens, want)
	}

	select {
	case toks := <-bTokens:
		if len(toks) != 1 || toks[0] != want {
			t.Errorf("client B saw %v, want [%s]", toks, want)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("client B never received the broadcast")
	}

	// Applying the same token list locally moved snake 0 up by one row
	// on both replicas.
	start := config.Default().Snakes[0]
	wantHead := game.Point{X: start.StartX, Y: start.StartY - 1}
	for name, sess := range map[string]*client.Session{"A": a, "B": b} {
		s := sess.Engine.SnakeByID(0)
		if s == nil {
			t.Fatalf("%s: snake 0 missing", name)
		}
		if s.Head() != wantHead {
			t.Errorf("%s: snake 0 head = %v, want %v", name, s.Head(), wantHead)
		}
	}
	if a.Engine.Checksum() != b.Engine.Checksum() {
		t.Error("replicas diverged after one tick")
	}
}

func TestWaitsForeverBelowClientCount(t *testing.T) {
	coord, url, _ := startSession(t, config.Default(), 2*time.Second) // wants 2 clients

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	// With only one of two clients connected no handshake may arrive
	// and no tick may run.
	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	var hs proto.Handshake
	if err := conn.ReadJSON(&hs); err == nil {
		t.Fatal("received a handshake with the session below client count")
	}

	if got := coord.State(); got != server.StateWaiting {
		t.Errorf("coordinator state = %v, want %v", got, server.StateWaiting)
	}
}

func TestExtraClientIsRejected(t *testing.T) {
	_, url, _ := startSession(t, oneSnakeConfig(), 2*time.Second)

	first, err := client.Dial(url)
	if err != nil {
		t.Fatal(err)
	}
	defer first.Close()

	// The session is full: the next connection gets closed without a
	// handshake.
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("extra client was not closed")
	}
}

func TestSessionEndsWhenClientLeaves(t *testing.T) {
	_, url, done := startSession(t, oneSnakeConfig(), 2*time.Second)

	sess, err := client.Dial(url)
	if err != nil {
		t.Fatal(err)
	}
	defer sess.Close()

	if _, err := sess.Tick([]string{"w"}); err != nil {
		t.Fatal(err)
	}
	if err := sess.Leave(); err != nil {
		t.Fatal(err)
	}

	// A lone dead client leaves no one active: the coordinator must
	// shut down on its own.
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("coordinator did not shut down after the only client left")
	}
}

func TestDroppedClientDoesNotStallOthers(t *testing.T) {
	_, url, done := startSession(t, config.Default(), 300*time.Millisecond)

	// B connects, then goes silent forever. A must still make progress
	// once the per-tick deadline drops B.
	a, b := dialPair(t, url)
	_ = b

	for i := 0; i < 3; i++ {
		if _, err := a.Tick(nil); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}

	select {
	case <-done:
		t.Fatal("session ended while an active client remained")
	default:
	}
}
