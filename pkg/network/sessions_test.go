package network

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cbodonnell/snake/pkg/game"
	"github.com/cbodonnell/snake/pkg/game/types"
	"github.com/cbodonnell/snake/pkg/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
)

type fixedFoodSource struct {
	food types.Coordinate
}

func (s *fixedFoodSource) Next(cols, rows int) types.Coordinate {
	return s.food
}

func newTestSessionServer(t *testing.T, maxSessions int) (*SessionServer, string) {
	t.Helper()
	s := NewSessionServer(NewSessionServerOptions{
		Config: game.Config{
			Cols:           10,
			Rows:           10,
			CellSize:       20,
			InitialSpeed:   20 * time.Millisecond,
			MinSpeed:       10 * time.Millisecond,
			SpeedDecrement: time.Millisecond,
			Origin:         types.Coordinate{X: 2, Y: 5},
		},
		MaxSessions: maxSessions,
		NewFoodSource: func() game.FoodSource {
			return &fixedFoodSource{food: types.Coordinate{X: 0, Y: 0}}
		},
	})
	server := httptest.NewServer(s)
	t.Cleanup(server.Close)
	return s, "ws" + strings.TrimPrefix(server.URL, "http")
}

func dial(t *testing.T, ctx context.Context, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		conn.Close(websocket.StatusNormalClosure, "")
	})
	return conn
}

func readUntil(t *testing.T, ctx context.Context, conn *websocket.Conn, match func(msg *messages.Message) bool) *messages.Message {
	t.Helper()
	for {
		msg, err := ReadMessageFromWS(ctx, conn)
		require.NoError(t, err)
		if match(msg) {
			return msg
		}
	}
}

func send(t *testing.T, ctx context.Context, conn *websocket.Conn, typ messages.MessageType, payload interface{}) {
	t.Helper()
	msg, err := messages.NewMessage(typ, payload)
	require.NoError(t, err)
	require.NoError(t, WriteMessageToWS(ctx, conn, msg))
}

func TestSessionServer_session(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, url := newTestSessionServer(t, 0)
	conn := dial(t, ctx, url)

	msg, err := ReadMessageFromWS(ctx, conn)
	require.NoError(t, err)
	require.Equal(t, messages.MessageTypeServerSession, msg.Type)
	session := &messages.ServerSession{}
	require.NoError(t, json.Unmarshal(msg.Payload, session))
	assert.NotEmpty(t, session.SessionID)
	assert.Equal(t, 10, session.Cols)
	assert.Equal(t, 10, session.Rows)
	assert.Equal(t, 20, session.CellSize)

	// heading right from (2,5) on a 10 wide board hits the wall after 7 moves
	msg = readUntil(t, ctx, conn, func(msg *messages.Message) bool {
		return msg.Type == messages.MessageTypeServerGameOver
	})
	gameOver := &messages.ServerGameOver{}
	require.NoError(t, json.Unmarshal(msg.Payload, gameOver))
	assert.Equal(t, "wall", gameOver.Collision)

	send(t, ctx, conn, messages.MessageTypeClientReset, nil)
	send(t, ctx, conn, messages.MessageTypeClientKey, &messages.ClientKey{Key: "ArrowDown"})

	msg = readUntil(t, ctx, conn, func(msg *messages.Message) bool {
		if msg.Type != messages.MessageTypeServerSnapshot {
			return false
		}
		s, err := messages.DeserializeSnapshot(msg.Payload)
		require.NoError(t, err)
		return !s.GameOver && s.Direction == types.DirectionDown && s.Ticks > 0
	})
	s, err := messages.DeserializeSnapshot(msg.Payload)
	require.NoError(t, err)
	assert.Greater(t, s.Head().Y, 5)
}

func TestSessionServer_ping(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, url := newTestSessionServer(t, 0)
	conn := dial(t, ctx, url)

	send(t, ctx, conn, messages.MessageTypeClientPing, &messages.ClientPing{Timestamp: 1234})
	msg := readUntil(t, ctx, conn, func(msg *messages.Message) bool {
		return msg.Type == messages.MessageTypeServerPong
	})
	pong := &messages.ServerPong{}
	require.NoError(t, json.Unmarshal(msg.Payload, pong))
	assert.Equal(t, int64(1234), pong.ClientTimestamp)
}

func TestSessionServer_maxSessions(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s, url := newTestSessionServer(t, 1)

	first := dial(t, ctx, url)
	_, err := ReadMessageFromWS(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Count())

	second := dial(t, ctx, url)
	_, err = ReadMessageFromWS(ctx, second)
	require.Error(t, err)
	assert.Equal(t, websocket.StatusTryAgainLater, websocket.CloseStatus(err))

	first.Close(websocket.StatusNormalClosure, "")
	assert.Eventually(t, func() bool {
		return s.Count() == 0
	}, 5*time.Second, 10*time.Millisecond)
}

type recordingController struct {
	directions []types.Direction
	pauses     int
	resets     int
}

func (c *recordingController) SetDirection(d types.Direction) error {
	c.directions = append(c.directions, d)
	return nil
}

func (c *recordingController) TogglePause() error {
	c.pauses++
	return nil
}

func (c *recordingController) Reset() error {
	c.resets++
	return nil
}

func TestHandleClientMessage(t *testing.T) {
	newMessage := func(typ messages.MessageType, payload interface{}) *messages.Message {
		msg, err := messages.NewMessage(typ, payload)
		require.NoError(t, err)
		return msg
	}
	c := &recordingController{}
	ctx := context.Background()

	assert.NoError(t, handleClientMessage(ctx, c, nil, newMessage(messages.MessageTypeClientDirection, &messages.ClientDirection{Direction: "up"})))
	assert.NoError(t, handleClientMessage(ctx, c, nil, newMessage(messages.MessageTypeClientKey, &messages.ClientKey{Key: "ArrowLeft"})))
	assert.NoError(t, handleClientMessage(ctx, c, nil, newMessage(messages.MessageTypeClientKey, &messages.ClientKey{Key: "x"})))
	assert.NoError(t, handleClientMessage(ctx, c, nil, newMessage(messages.MessageTypeClientKey, &messages.ClientKey{Key: "p"})))
	assert.NoError(t, handleClientMessage(ctx, c, nil, newMessage(messages.MessageTypeClientSwipe, &messages.ClientSwipe{DX: 3, DY: 90})))
	assert.NoError(t, handleClientMessage(ctx, c, nil, newMessage(messages.MessageTypeClientSwipe, &messages.ClientSwipe{DX: 3, DY: 4})))
	assert.NoError(t, handleClientMessage(ctx, c, nil, newMessage(messages.MessageTypeClientPause, nil)))
	assert.NoError(t, handleClientMessage(ctx, c, nil, newMessage(messages.MessageTypeClientReset, nil)))

	assert.Error(t, handleClientMessage(ctx, c, nil, newMessage(messages.MessageTypeClientDirection, &messages.ClientDirection{Direction: "sideways"})))
	assert.Error(t, handleClientMessage(ctx, c, nil, newMessage(messages.MessageTypeServerSnapshot, nil)))

	assert.Equal(t, []types.Direction{types.DirectionUp, types.DirectionLeft, types.DirectionDown}, c.directions)
	assert.Equal(t, 2, c.pauses)
	assert.Equal(t, 1, c.resets)
}
