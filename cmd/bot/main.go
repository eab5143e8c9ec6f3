package main

import (
	"flag"
	"log"
	"time"

	"github.com/trytobebee/snake_net/pkg/client"
	"github.com/trytobebee/snake_net/pkg/config"
)

// Headless client that fills a seat in a fixed-count session and steers
// its snake with a simple survival heuristic.
func main() {
	url := flag.String("url", "ws://localhost:12345/ws", "server websocket URL")
	maxTurns := flag.Int("turns", 0, "leave after this many turns (0 = play until dropped)")
	flag.Parse()

	sess, err := client.Dial(*url)
	if err != nil {
		log.Fatal("Failed to join session:", err)
	}
	defer sess.Close()

	log.Printf("Bot joined as client %d", sess.ID())
	bot := client.NewBot(sess)

	ticker := time.NewTicker(config.TickInterval)
	defer ticker.Stop()

	turns := 0
	for range ticker.C {
		if *maxTurns > 0 && turns >= *maxTurns {
			sess.Leave()
			log.Printf("Bot leaving after %d turns", turns)
			return
		}
		if _, err := sess.Tick(bot.ChooseKeys()); err != nil {
			log.Println("Bot disconnected:", err)
			return
		}
		turns++
	}
}
