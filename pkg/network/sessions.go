package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cbodonnell/snake/pkg/events"
	"github.com/cbodonnell/snake/pkg/game"
	"github.com/cbodonnell/snake/pkg/game/constants"
	"github.com/cbodonnell/snake/pkg/game/types"
	"github.com/cbodonnell/snake/pkg/input"
	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/messages"
	"github.com/cbodonnell/snake/pkg/queue"
	"github.com/cbodonnell/snake/pkg/state"
	"github.com/cbodonnell/snake/pkg/workers"
	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

// ErrTooManySessions is returned when the session limit is reached.
var ErrTooManySessions = errors.New("too many sessions")

// SessionServer runs one game per websocket connection.
type SessionServer struct {
	config         game.Config
	maxSessions    int
	originPatterns []string
	newFoodSource  func() game.FoodSource

	lock     sync.Mutex
	sessions map[string]context.CancelFunc
}

type NewSessionServerOptions struct {
	Config game.Config
	// MaxSessions of zero means unlimited
	MaxSessions int
	// OriginPatterns lists the hosts allowed to open cross-origin connections
	OriginPatterns []string
	// NewFoodSource defaults to a time seeded RandomFoodSource
	NewFoodSource func() game.FoodSource
}

func NewSessionServer(opts NewSessionServerOptions) *SessionServer {
	newFoodSource := opts.NewFoodSource
	if newFoodSource == nil {
		newFoodSource = func() game.FoodSource {
			return game.NewRandomFoodSource(uint64(time.Now().UnixNano()))
		}
	}
	return &SessionServer{
		config:         opts.Config,
		maxSessions:    opts.MaxSessions,
		originPatterns: opts.OriginPatterns,
		newFoodSource:  newFoodSource,
		sessions:       make(map[string]context.CancelFunc),
	}
}

// ServeHTTP upgrades the request and serves a game until the connection closes.
func (s *SessionServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.originPatterns,
	})
	if err != nil {
		log.Error("Failed to accept WebSocket connection: %v", err)
		return
	}
	conn.SetReadLimit(messages.MessageReadLimit)

	sessionID := uuid.New().String()
	logger := log.Default().With("session", sessionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	if err := s.register(sessionID, cancel); err != nil {
		logger.Warn("Rejecting connection from %s: %v", r.RemoteAddr, err)
		conn.Close(websocket.StatusTryAgainLater, err.Error())
		return
	}
	defer s.unregister(sessionID)

	logger.Info("Session started for %s", r.RemoteAddr)
	err = s.serveSession(ctx, conn, sessionID, logger)
	switch {
	case err == nil, IsNormalClose(err), errors.Is(err, context.Canceled):
		logger.Info("Session ended")
		conn.Close(websocket.StatusNormalClosure, "")
	default:
		logger.Error("Session failed: %v", err)
		conn.Close(websocket.StatusInternalError, "session failed")
	}
}

func (s *SessionServer) serveSession(ctx context.Context, conn *websocket.Conn, sessionID string, logger *log.Logger) error {
	engine, err := game.NewEngine(game.NewEngineOptions{
		Config:     s.config,
		FoodSource: s.newFoodSource(),
	})
	if err != nil {
		return fmt.Errorf("failed to create engine: %v", err)
	}

	bus := events.NewBus(constants.EventBufferSize, logger)
	defer bus.Close()
	subscription := bus.Subscribe()
	defer subscription.Close()

	gameManager := game.NewGameManager(game.NewGameManagerOptions{
		Engine:       engine,
		CommandQueue: queue.NewInMemoryQueue(constants.CommandQueueSize),
		StateManager: state.NewInMemoryStateManager(),
		EventBus:     bus,
		Logger:       logger,
	})

	sender := NewWSConn(conn)
	session, err := messages.NewMessage(messages.MessageTypeServerSession, &messages.ServerSession{
		SessionID: sessionID,
		Cols:      s.config.Cols,
		Rows:      s.config.Rows,
		CellSize:  s.config.CellSize,
	})
	if err != nil {
		return fmt.Errorf("failed to build session message: %v", err)
	}
	if err := sender.SendMessage(ctx, session); err != nil {
		return fmt.Errorf("failed to send session message: %v", err)
	}

	broadcastWorker := workers.NewBroadcastWorker(workers.NewBroadcastWorkerOptions{
		Subscription: subscription,
		Sender:       sender,
		Logger:       logger,
	})
	go broadcastWorker.Start(ctx)

	go func() {
		if err := gameManager.Start(ctx); err != nil {
			logger.Error("Game loop stopped: %v", err)
		}
	}()

	for {
		msg, err := ReadMessageFromWS(ctx, conn)
		if err != nil {
			if websocket.CloseStatus(err) != -1 || ctx.Err() != nil {
				return err
			}
			return fmt.Errorf("failed to read message: %v", err)
		}
		if err := handleClientMessage(ctx, gameManager, sender, msg); err != nil {
			logger.Warn("Failed to handle %s message: %v", msg.Type, err)
		}
	}
}

// handleClientMessage translates a client message into a controller call.
func handleClientMessage(ctx context.Context, controller input.Controller, sender workers.Sender, msg *messages.Message) error {
	switch msg.Type {
	case messages.MessageTypeClientPing:
		ping := &messages.ClientPing{}
		if err := json.Unmarshal(msg.Payload, ping); err != nil {
			return fmt.Errorf("failed to unmarshal ping: %v", err)
		}
		pong, err := messages.NewMessage(messages.MessageTypeServerPong, &messages.ServerPong{
			ClientTimestamp: ping.Timestamp,
			ServerTimestamp: time.Now().UnixMilli(),
		})
		if err != nil {
			return err
		}
		return sender.SendMessage(ctx, pong)
	case messages.MessageTypeClientDirection:
		payload := &messages.ClientDirection{}
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			return fmt.Errorf("failed to unmarshal direction: %v", err)
		}
		d, err := types.ParseDirection(payload.Direction)
		if err != nil {
			return err
		}
		return controller.SetDirection(d)
	case messages.MessageTypeClientPause:
		return controller.TogglePause()
	case messages.MessageTypeClientReset:
		return controller.Reset()
	case messages.MessageTypeClientKey:
		payload := &messages.ClientKey{}
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			return fmt.Errorf("failed to unmarshal key: %v", err)
		}
		action, ok := input.ActionFromKey(payload.Key)
		if !ok {
			return nil
		}
		return input.Dispatch(controller, action)
	case messages.MessageTypeClientSwipe:
		payload := &messages.ClientSwipe{}
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			return fmt.Errorf("failed to unmarshal swipe: %v", err)
		}
		d, ok := input.DirectionFromSwipe(payload.DX, payload.DY, constants.SwipeThreshold)
		if !ok {
			return nil
		}
		return controller.SetDirection(d)
	default:
		return fmt.Errorf("unexpected message type %d", msg.Type)
	}
}

func (s *SessionServer) register(id string, cancel context.CancelFunc) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		return ErrTooManySessions
	}
	s.sessions[id] = cancel
	return nil
}

func (s *SessionServer) unregister(id string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	delete(s.sessions, id)
}

// Count returns the number of live sessions.
func (s *SessionServer) Count() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.sessions)
}

// Shutdown cancels every live session.
func (s *SessionServer) Shutdown() {
	s.lock.Lock()
	defer s.lock.Unlock()
	for id, cancel := range s.sessions {
		cancel()
		delete(s.sessions, id)
	}
}
