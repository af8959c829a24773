package messages

import (
	"encoding/json"
	"testing"
	"time"

	gametypes "github.com/cbodonnell/snake/pkg/game/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeDeserializeMessage(t *testing.T) {
	m, err := NewMessage(MessageTypeClientDirection, &ClientDirection{Direction: "UP"})
	require.NoError(t, err)

	b, err := SerializeMessage(m)
	require.NoError(t, err)

	got, err := DeserializeMessage(b)
	require.NoError(t, err)
	assert.Equal(t, MessageTypeClientDirection, got.Type)

	direction := &ClientDirection{}
	require.NoError(t, json.Unmarshal(got.Payload, direction))
	assert.Equal(t, "UP", direction.Direction)
}

func TestDeserializeMessage_invalid(t *testing.T) {
	_, err := DeserializeMessage([]byte("not zstd"))
	assert.Error(t, err)

	_, err = DeserializeMessageFlatbuffer([]byte{1})
	assert.Error(t, err)
}

func TestDeserializeMessage_decodedSizeLimit(t *testing.T) {
	frame := encoder.EncodeAll(make([]byte, MaxDecodedSize+1), nil)
	require.Less(t, len(frame), MessageReadLimit)

	_, err := DeserializeMessage(frame)
	assert.Error(t, err)

	frame = encoder.EncodeAll(make([]byte, 64<<20), nil)
	require.Less(t, len(frame), MessageReadLimit)

	_, err = DeserializeMessage(frame)
	assert.Error(t, err)
}

func TestSerializeDeserializeSnapshot(t *testing.T) {
	tests := []struct {
		name  string
		state *gametypes.GameState
	}{
		{
			name: "running",
			state: &gametypes.GameState{
				Snake:     []gametypes.Coordinate{{X: 11, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 11}},
				Food:      gametypes.Coordinate{X: 0, Y: 39},
				Direction: gametypes.DirectionRight,
				Score:     1,
				Speed:     795 * time.Millisecond,
				Ticks:     42,
			},
		},
		{
			name: "game over",
			state: &gametypes.GameState{
				Snake:     []gametypes.Coordinate{{X: 0, Y: 5}},
				Food:      gametypes.Coordinate{X: 3, Y: 3},
				Direction: gametypes.DirectionLeft,
				Score:     17,
				Speed:     50 * time.Millisecond,
				Paused:    true,
				GameOver:  true,
				Collision: gametypes.CollisionWall,
				Ticks:     1000,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewSnapshotMessage(tt.state)
			require.NoError(t, err)
			b, err := SerializeMessage(m)
			require.NoError(t, err)

			decoded, err := DeserializeMessage(b)
			require.NoError(t, err)
			require.Equal(t, MessageTypeServerSnapshot, decoded.Type)

			got, err := DeserializeSnapshot(decoded.Payload)
			require.NoError(t, err)
			assert.Equal(t, tt.state, got)
		})
	}
}

func TestSerializeSnapshot_nil(t *testing.T) {
	_, err := SerializeSnapshot(nil)
	assert.Error(t, err)
}
