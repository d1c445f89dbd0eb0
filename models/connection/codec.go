package connection

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	cerr "github.com/saeidalz13/battleship-p2p/internal/error"
	mb "github.com/saeidalz13/battleship-p2p/models/battleship"
)

const (
	CodecJSON  = "json"
	CodecProto = "proto"
)

// Codec turns messages into websocket frames and back.
type Codec interface {
	Name() string
	// FrameType is the websocket message type frames are sent as.
	FrameType() int
	Encode(msg Message) ([]byte, error)
	Decode(frame []byte) (Message, error)
}

func NewCodec(name string) (Codec, error) {
	switch name {
	case CodecJSON, "":
		return JSONCodec{}, nil
	case CodecProto:
		return ProtoCodec{}, nil
	}
	return nil, fmt.Errorf("unknown codec: %s", name)
}

type wireMessage[T any] struct {
	Code    uint8 `json:"code"`
	Payload T     `json:"payload"`
}

// wireFields accepts any payload so decoding can tell which
// fields were actually populated.
type wireFields struct {
	Coordinate *mb.Coordinates `json:"coordinate"`
	Grid       *[][]mb.Cell    `json:"grid"`
	Reason     *string         `json:"reason"`
}

// JSONCodec writes text frames shaped as {"code": N, "payload": {...}}.
type JSONCodec struct{}

var _ Codec = JSONCodec{}

func (JSONCodec) Name() string {
	return CodecJSON
}

func (JSONCodec) FrameType() int {
	return websocket.TextMessage
}

func (JSONCodec) Encode(msg Message) ([]byte, error) {
	switch m := msg.(type) {
	case Move:
		return json.Marshal(wireMessage[Move]{Code: m.Code(), Payload: m})
	case GridUpdate:
		return json.Marshal(wireMessage[GridUpdate]{Code: m.Code(), Payload: m})
	case Termination:
		return json.Marshal(wireMessage[Termination]{Code: m.Code(), Payload: m})
	case Reveal:
		return json.Marshal(wireMessage[Reveal]{Code: m.Code(), Payload: m})
	}
	return nil, NewConnErr(ConnInvalidMsgType).AddDesc(fmt.Sprintf("cannot encode %T", msg))
}

func (JSONCodec) Decode(frame []byte) (Message, error) {
	var signal Signal
	if err := json.Unmarshal(frame, &signal); err != nil {
		return nil, cerr.ErrMalformedMessage("incoming frame must be json containing the field 'code'")
	}

	var msg wireMessage[*wireFields]
	if err := json.Unmarshal(frame, &msg); err != nil {
		return nil, cerr.ErrMalformedMessage(err.Error())
	}
	if msg.Payload == nil {
		return nil, cerr.ErrMalformedMessage(CodeName(signal.Code) + " without payload")
	}

	fields := msg.Payload
	var grid *mb.Snapshot
	if fields.Grid != nil {
		g, err := snapshotFromRows(*fields.Grid)
		if err != nil {
			return nil, err
		}
		grid = &g
	}
	return assemble(signal.Code, fields.Coordinate, grid, fields.Reason)
}

func snapshotFromRows(rows [][]mb.Cell) (mb.Snapshot, error) {
	var snap mb.Snapshot
	if len(rows) != mb.GridSize {
		return snap, cerr.ErrMalformedMessage(fmt.Sprintf("grid must have %d rows, got %d", mb.GridSize, len(rows)))
	}
	for y, row := range rows {
		if len(row) != mb.GridSize {
			return snap, cerr.ErrMalformedMessage(fmt.Sprintf("grid row %d must have %d cells, got %d", y, mb.GridSize, len(row)))
		}
		copy(snap[y][:], row)
	}
	return snap, nil
}

// assemble builds the message for code, requiring that exactly the
// payload field belonging to code is present.
func assemble(code uint8, coordinate *mb.Coordinates, grid *mb.Snapshot, reason *string) (Message, error) {
	var populated int
	for _, set := range []bool{coordinate != nil, grid != nil, reason != nil} {
		if set {
			populated++
		}
	}
	if populated != 1 {
		return nil, cerr.ErrMalformedMessage(fmt.Sprintf("%s must carry exactly one payload field, got %d", CodeName(code), populated))
	}

	switch {
	case code == CodeMove && coordinate != nil:
		return NewMove(*coordinate), nil
	case code == CodeGridUpdate && grid != nil:
		return NewGridUpdate(*grid), nil
	case code == CodeTermination && reason != nil:
		return NewTermination(*reason), nil
	case code == CodeReveal && grid != nil:
		return NewReveal(*grid), nil
	}
	return nil, cerr.ErrMalformedMessage(fmt.Sprintf("payload does not match code %d (%s)", code, CodeName(code)))
}
