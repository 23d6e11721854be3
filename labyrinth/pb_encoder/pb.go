// Package pb encodes labyrinths in the protobuf wire format.
//
// Message layout:
//
//	message Position  { uint32 x = 1; uint32 z = 2; }
//	message Labyrinth {
//	  uint32 width = 1;
//	  uint32 length = 2;
//	  Position entrance = 3;
//	  bytes cells = 4;              // one bit per cell, set when open
//	  repeated Position placements = 5;
//	  uint32 attempts = 6;
//	  uint64 seed = 7;
//	}
package pb

import (
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-labyrinth/labyrinth"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	positionX protowire.Number = 1
	positionZ protowire.Number = 2

	labyrinthWidth      protowire.Number = 1
	labyrinthLength     protowire.Number = 2
	labyrinthEntrance   protowire.Number = 3
	labyrinthCells      protowire.Number = 4
	labyrinthPlacements protowire.Number = 5
	labyrinthAttempts   protowire.Number = 6
	labyrinthSeed       protowire.Number = 7
)

var (
	ErrInvalidProtobufMessage = errors.New("invalid protobuf message")
)

// Protobuf implements i.LabyrinthEncoder.
type Protobuf struct{}

// MarshalLabyrinth encodes res.
func (p *Protobuf) MarshalLabyrinth(res *labyrinth.Result) ([]byte, error) {
	if res == nil || res.Grid == nil {
		return nil, ErrInvalidProtobufMessage
	}
	g := res.Grid

	var b []byte
	b = appendVarint(b, labyrinthWidth, uint64(g.Width()))
	b = appendVarint(b, labyrinthLength, uint64(g.Length()))
	b = protowire.AppendTag(b, labyrinthEntrance, protowire.BytesType)
	b = protowire.AppendBytes(b, marshalPosition(g.Entrance()))
	b = protowire.AppendTag(b, labyrinthCells, protowire.BytesType)
	b = protowire.AppendBytes(b, g.Bits())
	for _, pos := range res.Placements {
		b = protowire.AppendTag(b, labyrinthPlacements, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalPosition(pos))
	}
	b = appendVarint(b, labyrinthAttempts, uint64(res.Attempts))
	b = appendVarint(b, labyrinthSeed, res.Seed)
	return b, nil
}

// UnmarshalLabyrinth decodes a message produced by MarshalLabyrinth.
func (p *Protobuf) UnmarshalLabyrinth(b []byte) (*labyrinth.Result, error) {
	var (
		width, length int
		entrance      labyrinth.CellPosition
		cells         []byte
		res           = &labyrinth.Result{}
	)

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, wireError(n)
		}
		b = b[n:]

		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, wireError(n)
			}
			b = b[n:]
			switch num {
			case labyrinthWidth:
				width = int(v)
			case labyrinthLength:
				length = int(v)
			case labyrinthAttempts:
				res.Attempts = int(v)
			case labyrinthSeed:
				res.Seed = v
			}
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, wireError(n)
			}
			b = b[n:]
			switch num {
			case labyrinthEntrance:
				pos, err := unmarshalPosition(v)
				if err != nil {
					return nil, err
				}
				entrance = pos
			case labyrinthCells:
				cells = v
			case labyrinthPlacements:
				pos, err := unmarshalPosition(v)
				if err != nil {
					return nil, err
				}
				res.Placements = append(res.Placements, pos)
			}
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, wireError(n)
			}
			b = b[n:]
		}
	}

	grid, err := labyrinth.GridFromBits(width, length, entrance, cells)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProtobufMessage, err)
	}
	res.Grid = grid
	return res, nil
}

func marshalPosition(pos labyrinth.CellPosition) []byte {
	var b []byte
	b = appendVarint(b, positionX, uint64(pos.X))
	b = appendVarint(b, positionZ, uint64(pos.Z))
	return b
}

func unmarshalPosition(b []byte) (labyrinth.CellPosition, error) {
	var pos labyrinth.CellPosition
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return pos, wireError(n)
		}
		b = b[n:]

		if typ != protowire.VarintType {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return pos, wireError(n)
			}
			b = b[n:]
			continue
		}

		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return pos, wireError(n)
		}
		b = b[n:]
		switch num {
		case positionX:
			pos.X = int(v)
		case positionZ:
			pos.Z = int(v)
		}
	}
	return pos, nil
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func wireError(n int) error {
	return fmt.Errorf("%w: %w", ErrInvalidProtobufMessage, protowire.ParseError(n))
}
