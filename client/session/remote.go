package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cbodonnell/snake/pkg/game"
	"github.com/cbodonnell/snake/pkg/game/types"
	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/messages"
	"github.com/cbodonnell/snake/pkg/network"
	"nhooyr.io/websocket"
)

const (
	pingInterval = 2 * time.Second
	writeTimeout = 2 * time.Second
)

// RemoteSession plays a game hosted by the server over a websocket.
type RemoteSession struct {
	id     string
	config game.Config
	conn   *websocket.Conn
	sender *network.WSConn
	logger *log.Logger
	cancel context.CancelFunc
	done   chan struct{}

	latency latencyTracker

	lock     sync.RWMutex
	snapshot *types.GameState
	err      error
}

var _ Session = &RemoteSession{}

// DialRemoteSession connects to the server and waits for it to describe the session.
func DialRemoteSession(ctx context.Context, url string) (*RemoteSession, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %v", url, err)
	}
	conn.SetReadLimit(messages.MessageReadLimit)

	msg, err := network.ReadMessageFromWS(ctx, conn)
	if err != nil {
		conn.Close(websocket.StatusInternalError, "no session")
		return nil, fmt.Errorf("failed to read session message: %v", err)
	}
	if msg.Type != messages.MessageTypeServerSession {
		conn.Close(websocket.StatusPolicyViolation, "expected session")
		return nil, fmt.Errorf("expected %s message, got %s", messages.MessageTypeServerSession, msg.Type)
	}
	payload := &messages.ServerSession{}
	if err := json.Unmarshal(msg.Payload, payload); err != nil {
		conn.Close(websocket.StatusInternalError, "bad session")
		return nil, fmt.Errorf("failed to unmarshal session: %v", err)
	}

	config := game.DefaultConfig()
	config.Cols = payload.Cols
	config.Rows = payload.Rows
	config.CellSize = payload.CellSize

	runCtx, cancel := context.WithCancel(context.Background())
	s := &RemoteSession{
		id:     payload.SessionID,
		config: config,
		conn:   conn,
		sender: network.NewWSConn(conn),
		logger: log.Default().With("session", payload.SessionID),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s.logger.Info("Joined session on %s with a %dx%d board", url, config.Cols, config.Rows)

	go s.ping(runCtx)
	go s.handleMessages(runCtx)

	return s, nil
}

func (s *RemoteSession) handleMessages(ctx context.Context) {
	defer close(s.done)
	for {
		msg, err := network.ReadMessageFromWS(ctx, s.conn)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if network.IsNormalClose(err) {
				s.setErr(ErrClosed)
				return
			}
			s.logger.Error("Failed to read from server: %v", err)
			s.setErr(err)
			return
		}
		if err := s.handleServerMessage(msg); err != nil {
			s.logger.Warn("Failed to handle %s message: %v", msg.Type, err)
		}
	}
}

func (s *RemoteSession) handleServerMessage(msg *messages.Message) error {
	switch msg.Type {
	case messages.MessageTypeServerSnapshot:
		snapshot, err := messages.DeserializeSnapshot(msg.Payload)
		if err != nil {
			return err
		}
		s.lock.Lock()
		s.snapshot = snapshot
		s.lock.Unlock()
	case messages.MessageTypeServerGameOver:
		payload := &messages.ServerGameOver{}
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			return fmt.Errorf("failed to unmarshal game over: %v", err)
		}
		s.logger.Info("Game over with score %d after %s collision", payload.Score, payload.Collision)
	case messages.MessageTypeServerPong:
		payload := &messages.ServerPong{}
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			return fmt.Errorf("failed to unmarshal pong: %v", err)
		}
		rtt := time.Duration(time.Now().UnixMilli()-payload.ClientTimestamp) * time.Millisecond
		s.latency.record(rtt)
		s.logger.Trace("Round trip %v", rtt)
	default:
		return fmt.Errorf("unexpected message type %d", msg.Type)
	}
	return nil
}

func (s *RemoteSession) ping(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.send(messages.MessageTypeClientPing, &messages.ClientPing{Timestamp: time.Now().UnixMilli()}); err != nil {
				s.logger.Debug("Failed to send ping: %v", err)
			}
		}
	}
}

func (s *RemoteSession) send(t messages.MessageType, payload interface{}) error {
	if err := s.Err(); err != nil {
		return err
	}
	msg, err := messages.NewMessage(t, payload)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	return s.sender.SendMessage(ctx, msg)
}

func (s *RemoteSession) SetDirection(d types.Direction) error {
	return s.send(messages.MessageTypeClientDirection, &messages.ClientDirection{Direction: d.String()})
}

func (s *RemoteSession) TogglePause() error {
	return s.send(messages.MessageTypeClientPause, nil)
}

func (s *RemoteSession) Reset() error {
	return s.send(messages.MessageTypeClientReset, nil)
}

// Snapshot returns the last state received. Callers must not modify it.
func (s *RemoteSession) Snapshot() *types.GameState {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.snapshot
}

func (s *RemoteSession) ID() string {
	return s.id
}

func (s *RemoteSession) Config() game.Config {
	return s.config
}

func (s *RemoteSession) Latency() time.Duration {
	return s.latency.average()
}

func (s *RemoteSession) Err() error {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.err
}

func (s *RemoteSession) setErr(err error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.err == nil {
		s.err = err
	}
}

func (s *RemoteSession) Close() error {
	err := s.conn.Close(websocket.StatusNormalClosure, "client closed")
	s.cancel()
	<-s.done
	s.setErr(ErrClosed)
	return err
}
