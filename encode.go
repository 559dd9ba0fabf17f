package cbor

import (
	"bytes"
	"encoding/binary"
	"math"
	"sort"
)

// EncodeOptions configures an Encoder.
type EncodeOptions struct {
	// Canonical enables the deterministic encoding of RFC 8949 section 4.2:
	// map entries are sorted by the bytewise lexicographic order of their
	// encoded keys, and floating-point values are emitted in the narrowest
	// IEEE 754 width whose bit pattern survives the round trip. The single
	// flag drives both behaviors.
	Canonical bool
}

// Encoder encodes Values into their RFC 8949 binary form.
//
// The encoder always emits definite-length containers with shortest-width
// argument prefixes. Encode keeps no state between calls; a single Encoder
// may be used from multiple goroutines concurrently as long as SetOptions is
// not called at the same time, since SetOptions is not synchronized.
type Encoder struct {
	opts EncodeOptions
}

// NewEncoder returns an Encoder with the given options.
func NewEncoder(opts EncodeOptions) *Encoder {
	return &Encoder{opts: opts}
}

// Options returns the encoder's current options.
func (e *Encoder) Options() EncodeOptions {
	return e.opts
}

// SetOptions replaces the encoder's options for subsequent calls.
func (e *Encoder) SetOptions(opts EncodeOptions) {
	e.opts = opts
}

// Encode returns a byte slice that encodes the given Value.
func (e *Encoder) Encode(v Value) []byte {
	return e.appendValue(nil, v)
}

// Encode returns a byte slice that encodes the given Value without canonical
// reordering, preserving map entry order and float widths as constructed.
func Encode(v Value) []byte {
	return NewEncoder(EncodeOptions{}).Encode(v)
}

func (e *Encoder) appendValue(p []byte, v Value) []byte {
	switch vv := v.(type) {
	case Uint:
		return appendArg(p, MajorTypeUint, uint64(vv))
	case NegInt:
		return appendArg(p, MajorTypeNegInt, uint64(vv))
	case Slice:
		p = appendArg(p, MajorTypeSlice, uint64(len(vv)))
		return append(p, vv...)
	case String:
		p = appendArg(p, MajorTypeString, uint64(len(vv)))
		return append(p, vv...)
	case List:
		p = appendArg(p, MajorTypeList, uint64(len(vv)))
		for _, item := range vv {
			p = e.appendValue(p, item)
		}
		return p
	case Map:
		if e.opts.Canonical {
			return e.appendCanonicalMap(p, vv)
		}
		p = appendArg(p, MajorTypeMap, uint64(len(vv)))
		for _, entry := range vv {
			p = e.appendValue(p, entry.Key)
			p = e.appendValue(p, entry.Value)
		}
		return p
	case *Tag:
		p = appendArg(p, MajorTypeTag, vv.Num)
		return e.appendValue(p, vv.Value)
	case Simple:
		if vv < 24 {
			return append(p, compose(MajorType7, byte(vv)))
		}
		return append(p, compose(MajorType7, minorArg1), byte(vv))
	case Bool:
		if vv {
			return append(p, compose(MajorType7, major7True))
		}
		return append(p, compose(MajorType7, major7False))
	case Nil:
		return append(p, compose(MajorType7, major7Nil))
	case Undefined:
		return append(p, compose(MajorType7, major7Undefined))
	case Float16:
		if e.opts.Canonical {
			return appendFloatCanonical(p, half16ToFloat64Bits(uint16(vv)))
		}
		p = append(p, compose(MajorType7, major7Float16))
		return binary.BigEndian.AppendUint16(p, uint16(vv))
	case Float32:
		if e.opts.Canonical {
			return appendFloatCanonical(p, math.Float64bits(float64(vv)))
		}
		p = append(p, compose(MajorType7, major7Float32))
		return binary.BigEndian.AppendUint32(p, math.Float32bits(float32(vv)))
	case Float64:
		if e.opts.Canonical {
			return appendFloatCanonical(p, math.Float64bits(float64(vv)))
		}
		p = append(p, compose(MajorType7, major7Float64))
		return binary.BigEndian.AppendUint64(p, math.Float64bits(float64(vv)))
	default:
		// the Value interface is closed over the variants above
		panic("cbor: unrecognized Value variant")
	}
}

// appendCanonicalMap emits a map with entries sorted by the bytewise
// lexicographic order of their encoded keys. Keys are encoded up front (in
// canonical mode, so nested containers used as keys sort canonically too);
// entries whose keys encode identically keep no particular relative order.
func (e *Encoder) appendCanonicalMap(p []byte, m Map) []byte {
	type keyed struct {
		key   []byte
		value Value
	}
	entries := make([]keyed, len(m))
	for i, entry := range m {
		entries[i] = keyed{key: e.appendValue(nil, entry.Key), value: entry.Value}
	}
	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].key, entries[j].key) < 0
	})

	p = appendArg(p, MajorTypeMap, uint64(len(m)))
	for _, entry := range entries {
		p = append(p, entry.key...)
		p = e.appendValue(p, entry.value)
	}
	return p
}

// appendFloatCanonical emits the narrowest IEEE 754 width that preserves the
// binary64 bit pattern exactly. Width selection compares bit patterns rather
// than numeric values, which keeps signed zeros narrow and NaN handling
// well-defined: every NaN collapses to the half-precision quiet NaN.
func appendFloatCanonical(p []byte, bits uint64) []byte {
	if math.IsNaN(math.Float64frombits(bits)) {
		p = append(p, compose(MajorType7, major7Float16))
		return binary.BigEndian.AppendUint16(p, half16QuietNaN)
	}
	if h, ok := float64AsHalf16(bits); ok {
		p = append(p, compose(MajorType7, major7Float16))
		return binary.BigEndian.AppendUint16(p, h)
	}
	if f, ok := float64AsFloat32(bits); ok {
		p = append(p, compose(MajorType7, major7Float32))
		return binary.BigEndian.AppendUint32(p, f)
	}
	p = append(p, compose(MajorType7, major7Float64))
	return binary.BigEndian.AppendUint64(p, bits)
}

// appendArg emits the initial byte and shortest-width argument for a
// (major type, argument) pair.
func appendArg(p []byte, t MajorType, arg uint64) []byte {
	switch {
	case arg < 24:
		return append(p, byte(t)<<5|byte(arg))
	case arg < 0x100:
		return append(p, compose(t, minorArg1), byte(arg))
	case arg < 0x10000:
		p = append(p, compose(t, minorArg2))
		return binary.BigEndian.AppendUint16(p, uint16(arg))
	case arg < 0x100000000:
		p = append(p, compose(t, minorArg4))
		return binary.BigEndian.AppendUint32(p, uint32(arg))
	default:
		p = append(p, compose(t, minorArg8))
		return binary.BigEndian.AppendUint64(p, arg)
	}
}

func compose(major MajorType, minor byte) byte {
	return byte(major)<<5 | minor
}
