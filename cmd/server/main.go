package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/cbodonnell/snake/pkg/api"
	"github.com/cbodonnell/snake/pkg/game"
	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/network"
	"github.com/cbodonnell/snake/pkg/version"
)

func main() {
	config := game.DefaultConfig()
	config.BindFlags(flag.CommandLine)
	port := flag.Int("port", envInt("SNAKE_PORT", 8080), "Port to listen on")
	staticDir := flag.String("static-dir", os.Getenv("SNAKE_STATIC_DIR"), "Directory with the browser client to serve at /")
	maxSessions := flag.Int("max-sessions", 100, "Maximum number of concurrent games, 0 for no limit")
	allowedOrigins := flag.String("allowed-origins", os.Getenv("SNAKE_ALLOWED_ORIGINS"), "Comma separated origin patterns allowed to open cross-origin sessions")
	certFile := flag.String("tls-cert", "", "TLS certificate file")
	keyFile := flag.String("tls-key", "", "TLS key file")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	if err := config.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid game config: %v", err))
	}

	log.Info("Starting server version %s", version.Get())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var originPatterns []string
	if *allowedOrigins != "" {
		originPatterns = strings.Split(*allowedOrigins, ",")
	}
	sessions := network.NewSessionServer(network.NewSessionServerOptions{
		Config:         config,
		MaxSessions:    *maxSessions,
		OriginPatterns: originPatterns,
	})

	var tlsConfig *api.TLSConfig
	if *certFile != "" && *keyFile != "" {
		tlsConfig = &api.TLSConfig{
			CertFile: *certFile,
			KeyFile:  *keyFile,
		}
	}
	apiServer := api.NewAPIServer(api.NewAPIServerOptions{
		Port:      *port,
		TLS:       tlsConfig,
		Config:    config,
		Sessions:  sessions,
		StaticDir: *staticDir,
	})
	go apiServer.Start()

	<-ctx.Done()
	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop API server: %v", err)
	}
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse %s: %v", key, err))
	}
	return i
}
