package workers

import (
	"context"
	"fmt"

	"github.com/cbodonnell/snake/pkg/events"
	"github.com/cbodonnell/snake/pkg/game/types"
	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/messages"
)

// Sender delivers a message to one client.
type Sender interface {
	SendMessage(ctx context.Context, msg *messages.Message) error
}

// BroadcastWorker forwards game events from a subscription to a client.
type BroadcastWorker struct {
	subscription *events.Subscription
	sender       Sender
	logger       *log.Logger
}

type NewBroadcastWorkerOptions struct {
	Subscription *events.Subscription
	Sender       Sender
	Logger       *log.Logger
}

func NewBroadcastWorker(opts NewBroadcastWorkerOptions) *BroadcastWorker {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &BroadcastWorker{
		subscription: opts.Subscription,
		sender:       opts.Sender,
		logger:       logger,
	}
}

// Start runs until ctx is done or the subscription is closed.
func (w *BroadcastWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case item, ok := <-w.subscription.Events():
			if !ok {
				return
			}
			switch event := item.(type) {
			case *types.StateUpdatedEvent:
				if err := w.handleStateUpdated(ctx, event); err != nil {
					w.logger.Error("Failed to handle state update: %v", err)
				}
			case *types.GameOverEvent:
				if err := w.handleGameOver(ctx, event); err != nil {
					w.logger.Error("Failed to handle game over: %v", err)
				}
			default:
				w.logger.Trace("Not forwarding %T", item)
			}
		}
	}
}

func (w *BroadcastWorker) handleStateUpdated(ctx context.Context, event *types.StateUpdatedEvent) error {
	msg, err := messages.NewSnapshotMessage(event.State)
	if err != nil {
		return fmt.Errorf("failed to build snapshot message: %v", err)
	}
	if err := w.sender.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("failed to send snapshot: %v", err)
	}
	return nil
}

func (w *BroadcastWorker) handleGameOver(ctx context.Context, event *types.GameOverEvent) error {
	msg, err := messages.NewMessage(messages.MessageTypeServerGameOver, &messages.ServerGameOver{
		Score:     event.Score,
		Collision: event.Collision.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to build game over message: %v", err)
	}
	if err := w.sender.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("failed to send game over: %v", err)
	}
	return nil
}
