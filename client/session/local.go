package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cbodonnell/snake/pkg/game"
	"github.com/cbodonnell/snake/pkg/game/constants"
	"github.com/cbodonnell/snake/pkg/game/types"
	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/queue"
	"github.com/cbodonnell/snake/pkg/state"
)

// LocalSession runs the game loop in-process.
type LocalSession struct {
	manager *game.GameManager
	cancel  context.CancelFunc
	done    chan struct{}

	lock sync.RWMutex
	err  error
}

type NewLocalSessionOptions struct {
	Config game.Config
	// FoodSource defaults to a time seeded random source
	FoodSource game.FoodSource
}

var _ Session = &LocalSession{}

func NewLocalSession(opts NewLocalSessionOptions) (*LocalSession, error) {
	engine, err := game.NewEngine(game.NewEngineOptions{
		Config:     opts.Config,
		FoodSource: opts.FoodSource,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %v", err)
	}

	manager := game.NewGameManager(game.NewGameManagerOptions{
		Engine:       engine,
		CommandQueue: queue.NewInMemoryQueue(constants.CommandQueueSize),
		StateManager: state.NewInMemoryStateManager(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	s := &LocalSession{
		manager: manager,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		if err := manager.Start(ctx); err != nil {
			log.Error("Local game loop stopped: %v", err)
			s.setErr(err)
		}
	}()

	return s, nil
}

func (s *LocalSession) SetDirection(d types.Direction) error {
	return s.manager.SetDirection(d)
}

func (s *LocalSession) TogglePause() error {
	return s.manager.TogglePause()
}

func (s *LocalSession) Reset() error {
	return s.manager.Reset()
}

func (s *LocalSession) Snapshot() *types.GameState {
	st, err := s.manager.State(context.Background())
	if err != nil {
		return nil
	}
	return st
}

func (s *LocalSession) Config() game.Config {
	return s.manager.Config()
}

func (s *LocalSession) Latency() time.Duration {
	return 0
}

func (s *LocalSession) Err() error {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.err
}

func (s *LocalSession) setErr(err error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.err == nil {
		s.err = err
	}
}

func (s *LocalSession) Close() error {
	s.cancel()
	<-s.done
	return nil
}
