package messages

import (
	"encoding/json"
	"fmt"
	"time"

	messagefb "github.com/cbodonnell/snake/flatbuffers/message"
	snapshotfb "github.com/cbodonnell/snake/flatbuffers/snapshot"
	gametypes "github.com/cbodonnell/snake/pkg/game/types"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/klauspost/compress/zstd"
)

var (
	encoder *zstd.Encoder
	decoder *zstd.Decoder
)

func init() {
	var err error
	encoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		panic(fmt.Sprintf("failed to create zstd encoder: %v", err))
	}
	decoder, err = zstd.NewReader(nil,
		zstd.WithDecoderMaxMemory(MaxDecodedSize),
		zstd.WithDecoderMaxWindow(MaxDecodedSize),
	)
	if err != nil {
		panic(fmt.Sprintf("failed to create zstd decoder: %v", err))
	}
}

// SerializeMessage encodes m as a compressed flatbuffer.
func SerializeMessage(m *Message) ([]byte, error) {
	b, err := SerializeMessageFlatbuffer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize message: %v", err)
	}
	return encoder.EncodeAll(b, nil), nil
}

func DeserializeMessage(data []byte) (*Message, error) {
	b, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress message: %v", err)
	}

	message, err := DeserializeMessageFlatbuffer(b)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize message: %v", err)
	}

	return message, nil
}

func SerializeMessageFlatbuffer(m *Message) ([]byte, error) {
	builder := flatbuffers.NewBuilder(len(m.Payload) + 32)

	payload := builder.CreateByteVector(m.Payload)

	messagefb.MessageStart(builder)
	messagefb.MessageAddType(builder, byte(m.Type))
	messagefb.MessageAddPayload(builder, payload)
	messageOffset := messagefb.MessageEnd(builder)
	builder.Finish(messageOffset)

	return builder.FinishedBytes(), nil
}

func DeserializeMessageFlatbuffer(b []byte) (m *Message, err error) {
	// flatbuffers panics on truncated input
	defer func() {
		if r := recover(); r != nil {
			m = nil
			err = fmt.Errorf("malformed message: %v", r)
		}
	}()
	if len(b) < flatbuffers.SizeUOffsetT {
		return nil, fmt.Errorf("message too short: %d bytes", len(b))
	}

	messageFlatbuffer := messagefb.GetRootAsMessage(b, 0)
	return &Message{
		Type:    MessageType(messageFlatbuffer.Type()),
		Payload: messageFlatbuffer.PayloadBytes(),
	}, nil
}

// SerializeSnapshot encodes a game state as a Snapshot flatbuffer.
func SerializeSnapshot(state *gametypes.GameState) ([]byte, error) {
	if state == nil {
		return nil, fmt.Errorf("game state is nil")
	}
	builder := flatbuffers.NewBuilder(64 + len(state.Snake)*8)

	snapshotfb.SnapshotStartSnakeVector(builder, len(state.Snake))
	for i := len(state.Snake) - 1; i >= 0; i-- {
		snapshotfb.CreateCoordinate(builder, int32(state.Snake[i].X), int32(state.Snake[i].Y))
	}
	snake := builder.EndVector(len(state.Snake))

	snapshotfb.SnapshotStart(builder)
	snapshotfb.SnapshotAddTicks(builder, state.Ticks)
	snapshotfb.SnapshotAddScore(builder, int32(state.Score))
	snapshotfb.SnapshotAddSpeedMs(builder, int32(state.Speed.Milliseconds()))
	snapshotfb.SnapshotAddDirection(builder, byte(state.Direction))
	snapshotfb.SnapshotAddPaused(builder, state.Paused)
	snapshotfb.SnapshotAddGameOver(builder, state.GameOver)
	snapshotfb.SnapshotAddCollision(builder, byte(state.Collision))
	snapshotfb.SnapshotAddFood(builder, snapshotfb.CreateCoordinate(builder, int32(state.Food.X), int32(state.Food.Y)))
	snapshotfb.SnapshotAddSnake(builder, snake)
	builder.Finish(snapshotfb.SnapshotEnd(builder))

	return builder.FinishedBytes(), nil
}

func DeserializeSnapshot(b []byte) (state *gametypes.GameState, err error) {
	defer func() {
		if r := recover(); r != nil {
			state = nil
			err = fmt.Errorf("malformed snapshot: %v", r)
		}
	}()
	if len(b) < flatbuffers.SizeUOffsetT {
		return nil, fmt.Errorf("snapshot too short: %d bytes", len(b))
	}

	snapshotFlatbuffer := snapshotfb.GetRootAsSnapshot(b, 0)
	state = &gametypes.GameState{
		Ticks:     snapshotFlatbuffer.Ticks(),
		Score:     int(snapshotFlatbuffer.Score()),
		Speed:     time.Duration(snapshotFlatbuffer.SpeedMs()) * time.Millisecond,
		Direction: gametypes.Direction(snapshotFlatbuffer.Direction()),
		Paused:    snapshotFlatbuffer.Paused(),
		GameOver:  snapshotFlatbuffer.GameOver(),
		Collision: gametypes.CollisionType(snapshotFlatbuffer.Collision()),
	}
	if food := snapshotFlatbuffer.Food(nil); food != nil {
		state.Food = gametypes.Coordinate{X: int(food.X()), Y: int(food.Y())}
	}

	state.Snake = make([]gametypes.Coordinate, snapshotFlatbuffer.SnakeLength())
	segment := &snapshotfb.Coordinate{}
	for i := range state.Snake {
		if snapshotFlatbuffer.Snake(segment, i) {
			state.Snake[i] = gametypes.Coordinate{X: int(segment.X()), Y: int(segment.Y())}
		}
	}

	return state, nil
}

// NewMessage builds a message whose payload is v encoded as JSON.
func NewMessage(t MessageType, v interface{}) (*Message, error) {
	var payload []byte
	if v != nil {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %v", t, err)
		}
		payload = b
	}
	return &Message{Type: t, Payload: payload}, nil
}

// NewSnapshotMessage wraps a snapshot flatbuffer in a message.
func NewSnapshotMessage(state *gametypes.GameState) (*Message, error) {
	payload, err := SerializeSnapshot(state)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize snapshot: %v", err)
	}
	return &Message{Type: MessageTypeServerSnapshot, Payload: payload}, nil
}
