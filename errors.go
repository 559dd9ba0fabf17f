package cbor

import (
	"errors"
	"fmt"
)

// The decoder reports failures through a closed taxonomy. Sentinel errors
// cover the payload-free kinds and remain matchable through errors.Is even
// when wrapped with positional context; the struct kinds carry the offending
// input and are matchable with errors.As.
var (
	// ErrUnexpectedEnd indicates the decoder needed to read past the end of
	// the payload.
	ErrUnexpectedEnd = errors.New("unexpected end of payload")

	// ErrUnexpectedBreak indicates a break code (0xff) appeared at a value
	// position instead of closing an indefinite-length container.
	ErrUnexpectedBreak = errors.New("unexpected break code")

	// ErrExcessiveNesting indicates the input nests more containers than the
	// decoder's configured maximum.
	ErrExcessiveNesting = errors.New("maximum nesting depth exceeded")

	// ErrTrailingBytes indicates input remained after the first top-level
	// item and the decoder was not configured to allow it.
	ErrTrailingBytes = errors.New("unconsumed bytes after top-level item")

	// ErrLengthOutOfRange indicates a length argument exceeds the range
	// addressable by a contiguous buffer on this platform.
	ErrLengthOutOfRange = errors.New("length argument exceeds addressable range")

	// ErrInvalidMapStructure is reserved for map well-formedness violations.
	// No decode path currently emits it; it is declared so the taxonomy is
	// closed and stable for callers.
	ErrInvalidMapStructure = errors.New("invalid map structure")
)

// InvalidAdditionalInfoError indicates an initial byte carried additional
// info 28-30, or the indefinite-length marker 31 for a major type where it
// is not legal.
type InvalidAdditionalInfoError struct {
	Info byte
}

func (e *InvalidAdditionalInfoError) Error() string {
	return fmt.Sprintf("invalid additional info %d", e.Info)
}

// InvalidInitialByteError indicates a structurally impossible initial byte.
// Every value of the initial byte maps to one of the eight major types, so
// this kind is unreachable from Decode today; it exists to keep the error
// surface closed against future strictness.
type InvalidInitialByteError struct {
	Byte byte
}

func (e *InvalidInitialByteError) Error() string {
	return fmt.Sprintf("invalid initial byte 0x%02x", e.Byte)
}

// InvalidUTF8Error indicates a text string payload, after concatenating any
// indefinite-length chunks, is not valid UTF-8.
type InvalidUTF8Error struct {
	Bytes []byte
}

func (e *InvalidUTF8Error) Error() string {
	return fmt.Sprintf("text string of length %d is not valid UTF-8", len(e.Bytes))
}

// InvalidChunkTypeError indicates an indefinite-length byte or text string
// contained a chunk that was not a definite-length string of the same major
// type.
type InvalidChunkTypeError struct {
	Expect MajorType
}

func (e *InvalidChunkTypeError) Error() string {
	return fmt.Sprintf("indefinite-length string requires definite chunks of major type %d", byte(e.Expect))
}
