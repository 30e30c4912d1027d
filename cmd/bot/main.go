// Command bot joins a running pong server as a computer player. It takes the
// next free seat, readies up after every reset and steers its paddle from the
// snapshots it receives. Run two to watch a full match.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/wricardo/mcp-training/pongserver/game/bot"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "Server base URL")
	codec := flag.String("codec", "json", "Wire codec: json or msgpack")
	predict := flag.Bool("predict", true, "Aim where the ball will arrive instead of chasing it")
	deadband := flag.Float64("deadband", 0.2, "Fraction of half the paddle the ball may be off centre before moving")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	player, err := Dial(ctx, *serverURL, *codec, bot.Tracker{Deadband: *deadband, Predict: *predict})
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	log.Printf("Connected to %s (codec %s)", *serverURL, *codec)

	if err := player.Run(ctx); err != nil {
		log.Fatalf("Bot stopped: %v", err)
	}
	log.Println("Bot stopped")
}
