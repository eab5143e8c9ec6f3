package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/trytobebee/snake_net/pkg/client"
	"github.com/trytobebee/snake_net/pkg/config"
	"github.com/trytobebee/snake_net/pkg/input"
	"github.com/trytobebee/snake_net/pkg/renderer"
)

func main() {
	url := flag.String("url", "ws://localhost:12345/ws", "server websocket URL")
	flag.Parse()

	sess, err := client.Dial(*url)
	if err != nil {
		log.Fatal("Failed to join session:", err)
	}
	defer sess.Close()

	inputHandler := input.NewKeyboardHandler()
	if err := inputHandler.Start(); err != nil {
		fmt.Println("Error opening keyboard:", err)
		return
	}
	defer inputHandler.Stop()

	render := renderer.NewTerminalRenderer(sess.Handshake.Config)
	render.HideCursor()
	defer render.ShowCursor()

	render.Render(sess.Engine, sess.ID())

	// Lockstep loop: send, block for the broadcast, step, draw. The
	// ticker only paces the sends; the receive is what really gates us.
	ticker := time.NewTicker(config.TickInterval)
	defer ticker.Stop()

	for range ticker.C {
		keys, quit := inputHandler.Poll()
		if quit {
			sess.Leave()
			fmt.Println("\n  Thanks for playing!")
			return
		}

		if _, err := sess.Tick(keys); err != nil {
			render.ShowCursor()
			log.Println("Disconnected from server:", err)
			return
		}
		render.Render(sess.Engine, sess.ID())
	}
}
