package events

import (
	"bytes"
	"testing"

	"github.com/cbodonnell/snake/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishSubscribe(t *testing.T) {
	b := NewBus(4, nil)
	first := b.Subscribe()
	second := b.Subscribe()

	b.Publish("hello")

	assert.Equal(t, "hello", <-first.Events())
	assert.Equal(t, "hello", <-second.Events())
}

func TestBus_dropsWhenFull(t *testing.T) {
	b := NewBus(1, nil)
	sub := b.Subscribe()

	b.Publish(1)
	b.Publish(2)

	assert.Equal(t, 1, <-sub.Events())
	select {
	case event := <-sub.Events():
		t.Fatalf("unexpected event %v", event)
	default:
	}
}

func TestBus_dropLogsWithBusLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := log.New(buf, "", 0, log.LogLevelWarn).With("session", "abc")
	b := NewBus(1, logger)
	sub := b.Subscribe()
	defer sub.Close()

	b.Publish(1)
	assert.Empty(t, buf.String())

	b.Publish(2)
	assert.Contains(t, buf.String(), `"session":"abc"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "Dropping int")
}

func TestSubscription_Close(t *testing.T) {
	b := NewBus(1, nil)
	sub := b.Subscribe()
	require.Equal(t, 1, b.Len())

	sub.Close()
	sub.Close()

	assert.Equal(t, 0, b.Len())
	_, ok := <-sub.Events()
	assert.False(t, ok)

	b.Publish("after close")
}

func TestBus_Close(t *testing.T) {
	b := NewBus(1, nil)
	sub := b.Subscribe()

	b.Close()
	sub.Close()

	_, ok := <-sub.Events()
	assert.False(t, ok)

	late := b.Subscribe()
	_, ok = <-late.Events()
	assert.False(t, ok)
	assert.Equal(t, 0, b.Len())
}
