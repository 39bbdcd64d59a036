// Package wire implements the controller protocol: little-endian "set pixel
// ranges" and "start animation" commands over a byte stream.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/san-kum/ledpanel/internal/color"
)

type Op uint8

const (
	OpSet   Op = 0
	OpStart Op = 1
)

// MaxRanges is the most ranges one set command can carry.
const MaxRanges = 255

// StopID stops the controller's running animation.
const StopID = 255

var (
	ErrTooManyRanges = errors.New("wire: too many ranges in one set command")
	ErrUnknownOp     = errors.New("wire: unknown command")
)

// Range paints Count pixels from Start with one color.
type Range struct {
	Color color.RGB
	Start uint16
	Count uint16
}

type Command struct {
	Op Op

	// set
	Refresh bool
	Ranges  []Range

	// start
	ID     uint16
	Params []byte
}

func SetCommand(ranges []Range, refresh bool) Command {
	return Command{Op: OpSet, Ranges: ranges, Refresh: refresh}
}

func StartCommand(id uint16, params []byte) Command {
	return Command{Op: OpStart, ID: id, Params: params}
}

func StopCommand() Command {
	return StartCommand(StopID, nil)
}

// AppendBinary appends the encoded command to dst.
func (c Command) AppendBinary(dst []byte) ([]byte, error) {
	switch c.Op {
	case OpSet:
		if len(c.Ranges) > MaxRanges {
			return dst, fmt.Errorf("%w: %d", ErrTooManyRanges, len(c.Ranges))
		}
		refresh := byte(0)
		if c.Refresh {
			refresh = 1
		}
		dst = append(dst, byte(OpSet), byte(len(c.Ranges)), refresh)
		for _, r := range c.Ranges {
			dst = append(dst, r.Color.R, r.Color.G, r.Color.B)
			dst = binary.LittleEndian.AppendUint16(dst, r.Start)
			dst = binary.LittleEndian.AppendUint16(dst, r.Count)
		}
		return dst, nil
	case OpStart:
		if len(c.Params) > 0xffff {
			return dst, fmt.Errorf("wire: parameter block of %d bytes", len(c.Params))
		}
		dst = append(dst, byte(OpStart))
		dst = binary.LittleEndian.AppendUint16(dst, c.ID)
		dst = binary.LittleEndian.AppendUint16(dst, uint16(len(c.Params)))
		return append(dst, c.Params...), nil
	}
	return dst, fmt.Errorf("%w: %d", ErrUnknownOp, c.Op)
}

func (c Command) MarshalBinary() ([]byte, error) {
	return c.AppendBinary(nil)
}

// ReadCommand reads one command from r. A clean end of stream before the
// first byte returns io.EOF.
func ReadCommand(r io.Reader) (Command, error) {
	var op [1]byte
	if _, err := io.ReadFull(r, op[:]); err != nil {
		return Command{}, err
	}

	switch Op(op[0]) {
	case OpSet:
		var hdr [2]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return Command{}, unexpected(err)
		}
		c := Command{Op: OpSet, Refresh: hdr[1] != 0, Ranges: make([]Range, hdr[0])}
		var buf [7]byte
		for i := range c.Ranges {
			if _, err := io.ReadFull(r, buf[:]); err != nil {
				return Command{}, unexpected(err)
			}
			c.Ranges[i] = Range{
				Color: color.RGB{R: buf[0], G: buf[1], B: buf[2]},
				Start: binary.LittleEndian.Uint16(buf[3:5]),
				Count: binary.LittleEndian.Uint16(buf[5:7]),
			}
		}
		return c, nil
	case OpStart:
		var hdr [4]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return Command{}, unexpected(err)
		}
		c := Command{Op: OpStart, ID: binary.LittleEndian.Uint16(hdr[0:2])}
		if n := binary.LittleEndian.Uint16(hdr[2:4]); n > 0 {
			c.Params = make([]byte, n)
			if _, err := io.ReadFull(r, c.Params); err != nil {
				return Command{}, unexpected(err)
			}
		}
		return c, nil
	}
	return Command{}, fmt.Errorf("%w: %d", ErrUnknownOp, op[0])
}

func unexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
