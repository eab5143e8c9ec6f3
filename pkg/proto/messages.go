// Package proto defines the wire messages exchanged between the server
// coordinator and the clients. One JSON schema is used symmetrically by
// both sides, carried in websocket frames so message boundaries are
// explicit and a payload can never silently truncate against a receive
// buffer. Read limits cap message sizes instead.
package proto

import (
	"fmt"
	"strings"

	"github.com/trytobebee/snake_net/pkg/config"
)

// Handshake is sent by the server to each client exactly once, right
// after the full client count has connected. It carries everything the
// client needs to construct its local simulation plus the sequential id
// (0..C-1) assigned at accept time.
type Handshake struct {
	Config   config.Session `json:"config"`
	ClientID int            `json:"id"`
	Clients  int            `json:"clients"`
}

// ClientTick is the per-tick client to server message. Tokens is the set
// of input tokens pressed this tick (already namespaced, see Token).
// Dead signals voluntary exit: a dead client contributes no tokens and
// does not count as active. Checksum is attached periodically for the
// desync detector.
type ClientTick struct {
	Turn     int      `json:"turn"`
	Tokens   []string `json:"tokens"`
	Dead     bool     `json:"dead"`
	Checksum string   `json:"checksum,omitempty"`
}

// ServerTick is the per-tick broadcast: the union of all active clients'
// tokens for the turn, in client-id order. Desync is raised when the
// clients' periodic checksums disagree for the same turn.
type ServerTick struct {
	Turn   int      `json:"turn"`
	Tokens []string `json:"tokens"`
	Desync bool     `json:"desync,omitempty"`
}

// Token namespaces a raw local key for a given client, e.g. key "w" for
// client 0 becomes "snake_0_w". Snake key-binding tables are keyed by
// these tokens, so a client's keys only ever steer its own snake.
func Token(clientID int, key string) string {
	return fmt.Sprintf("snake_%d_%s", clientID, key)
}

// KeyFromToken recovers the raw key from a token owned by clientID.
func KeyFromToken(clientID int, token string) (string, bool) {
	return strings.CutPrefix(token, fmt.Sprintf("snake_%d_", clientID))
}
