package proto

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/trytobebee/snake_net/pkg/config"
)

func TestTokenRoundTrip(t *testing.T) {
	tok := Token(0, "w")
	if tok != "snake_0_w" {
		t.Errorf("Token(0, w) = %q", tok)
	}

	key, ok := KeyFromToken(0, tok)
	if !ok || key != "w" {
		t.Errorf("KeyFromToken(0, %q) = %q, %v", tok, key, ok)
	}

	// Another client's token never parses as ours.
	if _, ok := KeyFromToken(1, tok); ok {
		t.Error("client 1 claimed client 0's token")
	}
}

func TestHandshakeFitsReadLimit(t *testing.T) {
	hs := Handshake{Config: config.Default(), ClientID: 1, Clients: 2}
	data, err := json.Marshal(hs)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) > config.MaxHandshakeBytes {
		t.Errorf("default handshake is %d bytes, over the %d ceiling", len(data), config.MaxHandshakeBytes)
	}
	t.Logf("default handshake: %d bytes", len(data))
}

func TestClientTickFitsReadLimit(t *testing.T) {
	// A burst far beyond what one 100ms tick can produce on a keyboard.
	var tokens []string
	for i := 0; i < 40; i++ {
		tokens = append(tokens, Token(3, fmt.Sprintf("k%d", i%10)))
	}
	msg := ClientTick{Turn: 123456, Tokens: tokens, Checksum: "0123456789abcdef"}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) > config.MaxTickBytes {
		t.Errorf("tick message is %d bytes, over the %d ceiling", len(data), config.MaxTickBytes)
	}
}
