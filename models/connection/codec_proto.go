package connection

import (
	"fmt"

	"github.com/gorilla/websocket"
	cerr "github.com/saeidalz13/battleship-p2p/internal/error"
	mb "github.com/saeidalz13/battleship-p2p/models/battleship"
	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the binary frame:
//
//	message Frame {
//	  uint32 code = 1;
//	  Coordinate coordinate = 2; // { sint32 x = 1; sint32 y = 2; }
//	  repeated uint32 grid = 3 [packed = true]; // row-major cells
//	  string reason = 4;
//	}
const (
	fieldCode       protowire.Number = 1
	fieldCoordinate protowire.Number = 2
	fieldGrid       protowire.Number = 3
	fieldReason     protowire.Number = 4

	fieldX protowire.Number = 1
	fieldY protowire.Number = 2
)

// ProtoCodec writes binary frames in protobuf wire format.
type ProtoCodec struct{}

var _ Codec = ProtoCodec{}

func (ProtoCodec) Name() string {
	return CodecProto
}

func (ProtoCodec) FrameType() int {
	return websocket.BinaryMessage
}

func (ProtoCodec) Encode(msg Message) ([]byte, error) {
	var b []byte
	b = protowire.AppendTag(b, fieldCode, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(msg.Code()))

	switch m := msg.(type) {
	case Move:
		b = protowire.AppendTag(b, fieldCoordinate, protowire.BytesType)
		b = protowire.AppendBytes(b, appendCoordinate(nil, m.Target))
	case GridUpdate:
		b = appendGrid(b, m.Grid)
	case Termination:
		b = protowire.AppendTag(b, fieldReason, protowire.BytesType)
		b = protowire.AppendString(b, m.Reason)
	case Reveal:
		b = appendGrid(b, m.Grid)
	default:
		return nil, NewConnErr(ConnInvalidMsgType).AddDesc(fmt.Sprintf("cannot encode %T", msg))
	}
	return b, nil
}

func appendCoordinate(b []byte, c mb.Coordinates) []byte {
	b = protowire.AppendTag(b, fieldX, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(c.X)))
	b = protowire.AppendTag(b, fieldY, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(c.Y)))
	return b
}

func appendGrid(b []byte, grid mb.Snapshot) []byte {
	var packed []byte
	for y := range grid {
		for x := range grid[y] {
			packed = protowire.AppendVarint(packed, uint64(grid[y][x]))
		}
	}
	b = protowire.AppendTag(b, fieldGrid, protowire.BytesType)
	return protowire.AppendBytes(b, packed)
}

func (ProtoCodec) Decode(frame []byte) (Message, error) {
	var (
		code       uint64
		hasCode    bool
		coordinate *mb.Coordinates
		grid       *mb.Snapshot
		reason     *string
	)

	for len(frame) > 0 {
		num, typ, n := protowire.ConsumeTag(frame)
		if n < 0 {
			return nil, cerr.ErrMalformedMessage(protowire.ParseError(n).Error())
		}
		frame = frame[n:]

		switch {
		case num == fieldCode && typ == protowire.VarintType:
			code, n = protowire.ConsumeVarint(frame)
			hasCode = true

		case num == fieldCoordinate && typ == protowire.BytesType:
			var raw []byte
			raw, n = protowire.ConsumeBytes(frame)
			if n >= 0 {
				c, err := consumeCoordinate(raw)
				if err != nil {
					return nil, err
				}
				coordinate = &c
			}

		case num == fieldGrid && typ == protowire.BytesType:
			var raw []byte
			raw, n = protowire.ConsumeBytes(frame)
			if n >= 0 {
				g, err := consumeGrid(raw)
				if err != nil {
					return nil, err
				}
				grid = &g
			}

		case num == fieldReason && typ == protowire.BytesType:
			var s string
			s, n = protowire.ConsumeString(frame)
			reason = &s

		default:
			n = protowire.ConsumeFieldValue(num, typ, frame)
		}

		if n < 0 {
			return nil, cerr.ErrMalformedMessage(protowire.ParseError(n).Error())
		}
		frame = frame[n:]
	}

	if !hasCode || code > uint64(CodeReveal) {
		return nil, cerr.ErrMalformedMessage("frame without a known code")
	}
	return assemble(uint8(code), coordinate, grid, reason)
}

func consumeCoordinate(b []byte) (mb.Coordinates, error) {
	var c mb.Coordinates
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return c, cerr.ErrMalformedMessage(protowire.ParseError(n).Error())
		}
		b = b[n:]

		if typ != protowire.VarintType {
			n = protowire.ConsumeFieldValue(num, typ, b)
		} else {
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			switch num {
			case fieldX:
				c.X = int(protowire.DecodeZigZag(v))
			case fieldY:
				c.Y = int(protowire.DecodeZigZag(v))
			}
		}
		if n < 0 {
			return c, cerr.ErrMalformedMessage(protowire.ParseError(n).Error())
		}
		b = b[n:]
	}
	return c, nil
}

func consumeGrid(b []byte) (mb.Snapshot, error) {
	var snap mb.Snapshot
	var i int
	for len(b) > 0 {
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return snap, cerr.ErrMalformedMessage(protowire.ParseError(n).Error())
		}
		b = b[n:]

		if i >= mb.GridSize*mb.GridSize {
			return snap, cerr.ErrMalformedMessage("grid has more than 100 cells")
		}
		if v > uint64(mb.CellMiss) {
			return snap, cerr.ErrMalformedMessage(fmt.Sprintf("invalid cell state: %d", v))
		}
		snap[i/mb.GridSize][i%mb.GridSize] = mb.Cell(v)
		i++
	}
	if i != mb.GridSize*mb.GridSize {
		return snap, cerr.ErrMalformedMessage(fmt.Sprintf("grid must have %d cells, got %d", mb.GridSize*mb.GridSize, i))
	}
	return snap, nil
}
