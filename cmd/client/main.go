package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cbodonnell/snake/client/game"
	"github.com/cbodonnell/snake/client/session"
	pkggame "github.com/cbodonnell/snake/pkg/game"
	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/version"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	config := pkggame.DefaultConfig()
	config.BindFlags(flag.CommandLine)
	serverURL := flag.String("server", os.Getenv("SNAKE_SERVER_URL"), "WebSocket URL of a game server, empty to play locally")
	seed := flag.Uint64("seed", 0, "Food placement seed for local games, 0 for a time based seed")
	debug := flag.Bool("debug", false, "Show debug information")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting client version %s", version.Get())

	var s session.Session
	if *serverURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		remote, err := session.DialRemoteSession(ctx, *serverURL)
		cancel()
		if err != nil {
			panic(fmt.Sprintf("Failed to join game server: %v", err))
		}
		s = remote
	} else {
		opts := session.NewLocalSessionOptions{Config: config}
		if *seed != 0 {
			opts.FoodSource = pkggame.NewRandomFoodSource(*seed)
		}
		local, err := session.NewLocalSession(opts)
		if err != nil {
			panic(fmt.Sprintf("Failed to start local game: %v", err))
		}
		s = local
	}
	defer s.Close()

	g, err := game.NewGame(game.NewGameOptions{
		Debug:   *debug,
		Session: s,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create game: %v", err))
	}

	width, height := g.Layout(0, 0)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("Snake")
	if err := ebiten.RunGame(g); err != nil {
		panic(fmt.Sprintf("Failed to run game: %v", err))
	}
}
