package cbor

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

const (
	minorArg1 = 24
	minorArg2 = 25
	minorArg4 = 26
	minorArg8 = 27

	minorIndefinite = 31
)

const (
	major7False = iota + 0b_10100
	major7True
	major7Nil
	major7Undefined
)

const (
	major7Float16 = iota + 0b_11001
	major7Float32
	major7Float64
)

// a length argument above this cannot back a contiguous allocation
const maxLength = uint64(math.MaxInt)

// cap on speculative container pre-allocation; claimed lengths above this
// grow by append so a short buffer can't demand a huge up-front make
const maxAlloc = 0xff

// DefaultMaxNestingDepth is the container nesting limit applied when
// DecodeOptions leaves MaxNestingDepth unset.
const DefaultMaxNestingDepth = 256

// DecodeOptions configures a Decoder.
type DecodeOptions struct {
	// MaxNestingDepth bounds how many containers (arrays, maps, tags, and
	// indefinite-length strings) may be open at once. The top-level item sits
	// at depth zero; an input nesting more containers than the limit fails
	// with ErrExcessiveNesting. Zero means DefaultMaxNestingDepth.
	MaxNestingDepth int

	// AllowTrailingData permits input to continue past the first top-level
	// item. When false (the default), Decode fails with ErrTrailingBytes if
	// any bytes remain unconsumed.
	AllowTrailingData bool
}

// Decoder decodes RFC 8949 binary data into Values.
//
// The decoder keeps no state between calls; a single Decoder may be used
// from multiple goroutines concurrently.
type Decoder struct {
	opts DecodeOptions
}

// NewDecoder returns a Decoder with the given options.
func NewDecoder(opts DecodeOptions) *Decoder {
	if opts.MaxNestingDepth == 0 {
		opts.MaxNestingDepth = DefaultMaxNestingDepth
	}
	return &Decoder{opts: opts}
}

// Options returns the decoder's effective options.
func (d *Decoder) Options() DecodeOptions {
	return d.opts
}

// Decode returns the Value encoded in the given byte slice.
func (d *Decoder) Decode(p []byte) (Value, error) {
	v, n, err := d.decode(p, 0)
	if err != nil {
		return nil, err
	}
	if n != len(p) && !d.opts.AllowTrailingData {
		return nil, fmt.Errorf("%w (%d of %d consumed)", ErrTrailingBytes, n, len(p))
	}
	return v, nil
}

// DecodeFirst returns the first top-level Value in the given byte slice
// along with the number of bytes it occupied, ignoring the trailing-data
// policy. Callers consuming a concatenated stream resume at p[n:].
func (d *Decoder) DecodeFirst(p []byte) (Value, int, error) {
	return d.decode(p, 0)
}

// Decode returns the Value encoded in the given byte slice using default
// options.
func Decode(p []byte) (Value, error) {
	return NewDecoder(DecodeOptions{}).Decode(p)
}

func (d *Decoder) decode(p []byte, depth int) (Value, int, error) {
	if len(p) == 0 {
		return nil, 0, ErrUnexpectedEnd
	}

	switch peekMajor(p) {
	case MajorTypeUint:
		i, off, err := decodeArgument(p)
		if err != nil {
			return nil, 0, fmt.Errorf("decode argument: %w", err)
		}
		return Uint(i), off, nil
	case MajorTypeNegInt:
		i, off, err := decodeArgument(p)
		if err != nil {
			return nil, 0, fmt.Errorf("decode argument: %w", err)
		}
		return NegInt(i), off, nil
	case MajorTypeSlice:
		s, n, err := d.decodeBytes(p, MajorTypeSlice, depth)
		return Slice(s), n, err
	case MajorTypeString:
		s, n, err := d.decodeBytes(p, MajorTypeString, depth)
		if err != nil {
			return nil, 0, err
		}
		if !utf8.Valid(s) {
			return nil, 0, &InvalidUTF8Error{Bytes: s}
		}
		return String(s), n, nil
	case MajorTypeList:
		return d.decodeList(p, depth)
	case MajorTypeMap:
		return d.decodeMap(p, depth)
	case MajorTypeTag:
		return d.decodeTag(p, depth)
	default: // MajorType7
		return decodeMajor7(p)
	}
}

// this routine covers both string major types, the value of inner specifies
// which context we're in (needed for validating chunks inside indefinite
// encodings)
func (d *Decoder) decodeBytes(p []byte, inner MajorType, depth int) ([]byte, int, error) {
	if peekMinor(p) == minorIndefinite {
		return d.decodeBytesIndefinite(p, inner, depth)
	}

	slen, off, err := decodeArgument(p)
	if err != nil {
		return nil, 0, fmt.Errorf("decode argument: %w", err)
	}
	if slen > maxLength {
		return nil, 0, fmt.Errorf("string length %d: %w", slen, ErrLengthOutOfRange)
	}

	p = p[off:]
	if uint64(len(p)) < slen {
		return nil, 0, fmt.Errorf("string length %d greater than remaining buf: %w", slen, ErrUnexpectedEnd)
	}

	return p[:slen], off + int(slen), nil
}

func (d *Decoder) decodeBytesIndefinite(p []byte, inner MajorType, depth int) ([]byte, int, error) {
	if depth >= d.opts.MaxNestingDepth {
		return nil, 0, ErrExcessiveNesting
	}
	p = p[1:]

	s := []byte{}
	for off := 1; len(p) > 0; {
		if p[0] == 0xff {
			return s, off + 1, nil
		}

		if major := peekMajor(p); major != inner {
			return nil, 0, &InvalidChunkTypeError{Expect: inner}
		}
		if peekMinor(p) == minorIndefinite {
			return nil, 0, &InvalidChunkTypeError{Expect: inner}
		}

		chunk, n, err := d.decodeBytes(p, inner, depth+1)
		if err != nil {
			return nil, 0, fmt.Errorf("decode chunk: %w", err)
		}
		p = p[n:]

		s = append(s, chunk...)
		off += n
	}
	return nil, 0, fmt.Errorf("expected break marker: %w", ErrUnexpectedEnd)
}

func (d *Decoder) decodeList(p []byte, depth int) (Value, int, error) {
	if depth >= d.opts.MaxNestingDepth {
		return nil, 0, ErrExcessiveNesting
	}
	if peekMinor(p) == minorIndefinite {
		return d.decodeListIndefinite(p, depth)
	}

	alen, off, err := decodeArgument(p)
	if err != nil {
		return nil, 0, fmt.Errorf("decode argument: %w", err)
	}
	if alen > maxLength {
		return nil, 0, fmt.Errorf("list length %d: %w", alen, ErrLengthOutOfRange)
	}
	p = p[off:]

	l := make(List, 0, min(alen, maxAlloc))
	for i := uint64(0); i < alen; i++ {
		item, n, err := d.decode(p, depth+1)
		if err != nil {
			return nil, 0, fmt.Errorf("decode item: %w", err)
		}
		p = p[n:]

		l = append(l, item)
		off += n
	}

	return l, off, nil
}

func (d *Decoder) decodeListIndefinite(p []byte, depth int) (Value, int, error) {
	p = p[1:]

	l := List{}
	for off := 1; len(p) > 0; {
		if p[0] == 0xff {
			return l, off + 1, nil
		}

		item, n, err := d.decode(p, depth+1)
		if err != nil {
			return nil, 0, fmt.Errorf("decode item: %w", err)
		}
		p = p[n:]

		l = append(l, item)
		off += n
	}
	return nil, 0, fmt.Errorf("expected break marker: %w", ErrUnexpectedEnd)
}

func (d *Decoder) decodeMap(p []byte, depth int) (Value, int, error) {
	if depth >= d.opts.MaxNestingDepth {
		return nil, 0, ErrExcessiveNesting
	}
	if peekMinor(p) == minorIndefinite {
		return d.decodeMapIndefinite(p, depth)
	}

	mlen, off, err := decodeArgument(p)
	if err != nil {
		return nil, 0, fmt.Errorf("decode argument: %w", err)
	}
	if mlen > maxLength/2 {
		return nil, 0, fmt.Errorf("map length %d: %w", mlen, ErrLengthOutOfRange)
	}
	p = p[off:]

	m := make(Map, 0, min(mlen, maxAlloc))
	for i := uint64(0); i < mlen; i++ {
		key, kn, err := d.decode(p, depth+1)
		if err != nil {
			return nil, 0, fmt.Errorf("decode key: %w", err)
		}
		p = p[kn:]

		value, vn, err := d.decode(p, depth+1)
		if err != nil {
			return nil, 0, fmt.Errorf("decode value: %w", err)
		}
		p = p[vn:]

		m = append(m, Entry{Key: key, Value: value})
		off += kn + vn
	}

	return m, off, nil
}

func (d *Decoder) decodeMapIndefinite(p []byte, depth int) (Value, int, error) {
	p = p[1:]

	m := Map{}
	for off := 1; len(p) > 0; {
		if p[0] == 0xff {
			return m, off + 1, nil
		}

		key, kn, err := d.decode(p, depth+1)
		if err != nil {
			return nil, 0, fmt.Errorf("decode key: %w", err)
		}
		p = p[kn:]

		value, vn, err := d.decode(p, depth+1)
		if err != nil {
			return nil, 0, fmt.Errorf("decode value: %w", err)
		}
		p = p[vn:]

		m = append(m, Entry{Key: key, Value: value})
		off += kn + vn
	}
	return nil, 0, fmt.Errorf("expected break marker: %w", ErrUnexpectedEnd)
}

func (d *Decoder) decodeTag(p []byte, depth int) (Value, int, error) {
	if depth >= d.opts.MaxNestingDepth {
		return nil, 0, ErrExcessiveNesting
	}

	num, off, err := decodeArgument(p)
	if err != nil {
		return nil, 0, fmt.Errorf("decode argument: %w", err)
	}
	p = p[off:]

	v, n, err := d.decode(p, depth+1)
	if err != nil {
		return nil, 0, fmt.Errorf("decode value: %w", err)
	}

	return &Tag{Num: num, Value: v}, off + n, nil
}

func decodeMajor7(p []byte) (Value, int, error) {
	switch m := peekMinor(p); m {
	case major7True, major7False:
		return Bool(m == major7True), 1, nil
	case major7Nil:
		return Nil{}, 1, nil
	case major7Undefined:
		return Undefined{}, 1, nil
	case minorArg1:
		if len(p) < 2 {
			return nil, 0, fmt.Errorf("incomplete simple value: %w", ErrUnexpectedEnd)
		}
		return Simple(p[1]), 2, nil
	case major7Float16:
		if len(p) < 3 {
			return nil, 0, fmt.Errorf("incomplete float16: %w", ErrUnexpectedEnd)
		}
		return Float16(binary.BigEndian.Uint16(p[1:])), 3, nil
	case major7Float32:
		if len(p) < 5 {
			return nil, 0, fmt.Errorf("incomplete float32: %w", ErrUnexpectedEnd)
		}
		return Float32(math.Float32frombits(binary.BigEndian.Uint32(p[1:]))), 5, nil
	case major7Float64:
		if len(p) < 9 {
			return nil, 0, fmt.Errorf("incomplete float64: %w", ErrUnexpectedEnd)
		}
		return Float64(math.Float64frombits(binary.BigEndian.Uint64(p[1:]))), 9, nil
	case minorIndefinite:
		return nil, 0, ErrUnexpectedBreak
	default:
		if m < major7False { // 0..19: the code is the additional info itself
			return Simple(m), 1, nil
		}
		return nil, 0, &InvalidAdditionalInfoError{Info: m} // 28..30
	}
}

func peekMajor(p []byte) MajorType {
	return MajorType(p[0] & 0b_111_00000 >> 5)
}

func peekMinor(p []byte) byte {
	return p[0] & 0b_11111
}

// pulls the next argument out of the buffer
//
// expects one of the sized arguments and will error otherwise - callers that
// need to check for the indefinite flag must do so externally
func decodeArgument(p []byte) (uint64, int, error) {
	minor := peekMinor(p)
	if minor < minorArg1 {
		return uint64(minor), 1, nil
	}

	switch minor {
	case minorArg1, minorArg2, minorArg4, minorArg8:
		argLen := mtol(minor)
		if len(p) < argLen+1 {
			return 0, 0, fmt.Errorf("arg len %d greater than remaining buf: %w", argLen, ErrUnexpectedEnd)
		}
		return readArgument(p[1:], argLen), argLen + 1, nil
	default:
		return 0, 0, &InvalidAdditionalInfoError{Info: minor}
	}
}

// minor value to arg len in bytes
func mtol(minor byte) int {
	if minor == minorArg1 {
		return 1
	} else if minor == minorArg2 {
		return 2
	} else if minor == minorArg4 {
		return 4
	}
	return 8
}

func readArgument(p []byte, argLen int) uint64 {
	if argLen == 1 {
		return uint64(p[0])
	} else if argLen == 2 {
		return uint64(binary.BigEndian.Uint16(p))
	} else if argLen == 4 {
		return uint64(binary.BigEndian.Uint32(p))
	}
	return binary.BigEndian.Uint64(p)
}
