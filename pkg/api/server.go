package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cbodonnell/snake/pkg/api/handlers"
	"github.com/cbodonnell/snake/pkg/api/middleware"
	"github.com/cbodonnell/snake/pkg/game"
	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/network"
	"github.com/gorilla/mux"
)

type APIServer struct {
	server   *http.Server
	tls      *TLSConfig
	sessions *network.SessionServer
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewAPIServerOptions struct {
	Port     int
	TLS      *TLSConfig
	Config   game.Config
	Sessions *network.SessionServer
	// StaticDir is served at / when set, typically the wasm client bundle
	StaticDir string
}

// NewAPIServer creates a new http.Server for the game endpoints
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	return &APIServer{
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", opts.Port),
			Handler: NewRouter(opts),
		},
		tls:      opts.TLS,
		sessions: opts.Sessions,
	}
}

func NewRouter(opts NewAPIServerOptions) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.NewLoggingMiddleware())

	apiRouter := r.NewRoute().Subrouter()
	apiRouter.Use(middleware.NewCORSMiddleware())
	apiRouter.HandleFunc("/healthz", handlers.HandleHealth(opts.Sessions)).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/version", handlers.HandleVersion()).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/config", handlers.HandleConfig(opts.Config)).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/ws", opts.Sessions).Methods(http.MethodGet)

	if opts.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(opts.StaticDir))).Methods(http.MethodGet, http.MethodHead)
	}
	return r
}

// Start starts the APIServer
func (s *APIServer) Start() {
	var listenAndServe func() error
	if s.tls != nil {
		log.Info("API server listening on %s with TLS", s.server.Addr)
		listenAndServe = func() error {
			return s.server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("API server listening on %s", s.server.Addr)
		listenAndServe = s.server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("API server closed")
			return
		}
		log.Error("API server error: %v", err)
	}
}

// Stop ends live sessions and shuts the server down
func (s *APIServer) Stop(ctx context.Context) error {
	// hijacked websocket connections are not tracked by Shutdown
	s.sessions.Shutdown()
	return s.server.Shutdown(ctx)
}
