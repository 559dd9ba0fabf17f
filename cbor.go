// Package cbor implements encoding and decoding of concise binary object
// representation (CBOR) as described in RFC 8949.
//
// The API operates off of an explicit syntax tree: every CBOR data item is
// projected into a Value, the encoder consumes a Value and produces bytes,
// and the decoder consumes bytes and produces a Value. Since the length of
// each data item in a Value is always known, the encoder generates
// definite-length encodings of container types (byte/text string, list, map)
// with shortest-width argument prefixes in all cases.
//
// Conversely, the decoder handles both definite and indefinite variations of
// encoded containers, including chunked byte and text strings.
//
// An Encoder configured with Canonical set additionally emits the
// deterministic form of RFC 8949 section 4.2: map entries sorted by the
// bytewise lexicographic order of their encoded keys, and floating-point
// values in the narrowest IEEE 754 width that preserves the bit pattern.
package cbor

import (
	"math"
)

// MajorType enumerates CBOR major types.
type MajorType byte

// Enumeration of CBOR major types
const (
	MajorTypeUint MajorType = iota
	MajorTypeNegInt
	MajorTypeSlice
	MajorTypeString
	MajorTypeList
	MajorTypeMap
	MajorTypeTag
	MajorType7
)

// Value describes a CBOR data item.
//
// The following types implement Value:
//   - Uint
//   - NegInt
//   - Slice
//   - String
//   - List
//   - Map
//   - Tag
//   - Simple
//   - Bool
//   - Nil
//   - Undefined
//   - Float16
//   - Float32
//   - Float64
type Value interface {
	value()
}

var (
	_ Value = Uint(0)
	_ Value = NegInt(0)
	_ Value = Slice(nil)
	_ Value = String("")
	_ Value = List(nil)
	_ Value = Map(nil)
	_ Value = (*Tag)(nil)
	_ Value = Simple(0)
	_ Value = Bool(false)
	_ Value = Nil{}
	_ Value = Undefined{}
	_ Value = Float16(0)
	_ Value = Float32(0)
	_ Value = Float64(0)
)

// Uint describes a CBOR unsigned integer (major type 0).
type Uint uint64

// NegInt describes a CBOR negative integer (major type 1).
//
// The stored value is the raw argument n; it denotes the integer -1-n, so
// NegInt(0) is -1 and NegInt(99) is -100. Zero is never a NegInt. Storing
// the argument instead of a signed value preserves the full range of major
// type 1 down to -2^64.
type NegInt uint64

// Slice describes a CBOR byte string (major type 2).
type Slice []byte

// String describes a CBOR text string (major type 3). The decoder guarantees
// the payload is valid UTF-8.
type String string

// List describes a CBOR array (major type 4).
type List []Value

// Entry is a single key-value pair of a Map.
type Entry struct {
	Key, Value Value
}

// Map describes a CBOR map (major type 5) as an ordered sequence of entries.
//
// Entry order is preserved by both codec directions and is distinct from the
// canonical wire order; the model never sorts or deduplicates entries, and
// duplicate keys are not rejected.
type Map []Entry

// Tag describes a CBOR tagged value (major type 6).
type Tag struct {
	Num   uint64
	Value Value
}

// Simple describes a CBOR simple value (major type 7) other than the
// bool/null/undefined literals, identified by its numeric code.
//
// Codes below 24 encode to the one-byte form, all others to the two-byte
// form. RFC 8949 section 3.3 reserves codes 24 through 31 in the two-byte
// form; neither codec direction enforces that, so callers constructing
// Simple values directly are trusted to stay within the valid space.
type Simple uint8

// Bool is the `true` / `false` literal (major type 7, argument 20/21).
type Bool bool

// Nil is the `null` literal (major type 7, argument 22).
type Nil struct{}

// Undefined is the `undefined` literal (major type 7, argument 23).
type Undefined struct{}

// Float16 describes an IEEE 754 half-precision floating-point number (major
// type 7, argument 25).
//
// The raw bit pattern is stored since Go has no native float16 type; this
// keeps NaN payloads intact across a decode/encode round trip.
type Float16 uint16

// Float32 describes an IEEE 754 single-precision floating-point number
// (major type 7, argument 26).
type Float32 float32

// Float64 describes an IEEE 754 double-precision floating-point number
// (major type 7, argument 27).
type Float64 float64

func (Uint) value()      {}
func (NegInt) value()    {}
func (Slice) value()     {}
func (String) value()    {}
func (List) value()      {}
func (Map) value()       {}
func (*Tag) value()      {}
func (Simple) value()    {}
func (Bool) value()      {}
func (Nil) value()       {}
func (Undefined) value() {}
func (Float16) value()   {}
func (Float32) value()   {}
func (Float64) value()   {}

// Int returns the Value for a signed integer: Uint for v >= 0, otherwise
// NegInt carrying the argument -1-v. It is total over the int64 range.
func Int(v int64) Value {
	if v >= 0 {
		return Uint(v)
	}
	return NegInt(^v)
}

// IsNumber returns whether v is a numeric variant: Uint, NegInt, Float16,
// Float32, or Float64.
func IsNumber(v Value) bool {
	switch v.(type) {
	case Uint, NegInt, Float16, Float32, Float64:
		return true
	}
	return false
}

// IntParts decomposes an integer Value into a sign and a magnitude.
//
// For Uint the sign is +1 and the magnitude is the value itself. For NegInt
// the sign is -1 and the magnitude is the raw argument n of the denoted
// integer -1-n. All other variants return ok false.
func IntParts(v Value) (sign int, mag uint64, ok bool) {
	switch vv := v.(type) {
	case Uint:
		return 1, uint64(vv), true
	case NegInt:
		return -1, uint64(vv), true
	}
	return 0, 0, false
}

// Equal reports structural equality of two Values.
//
// Floating-point variants compare by bit pattern, so NaN equals itself and
// NaNs with distinct payloads differ. Lists and maps compare element-wise in
// order; map entry order is significant.
func Equal(l, r Value) bool {
	switch lv := l.(type) {
	case Uint:
		rv, ok := r.(Uint)
		return ok && lv == rv
	case NegInt:
		rv, ok := r.(NegInt)
		return ok && lv == rv
	case Slice:
		rv, ok := r.(Slice)
		if !ok || len(lv) != len(rv) {
			return false
		}
		for i := range lv {
			if lv[i] != rv[i] {
				return false
			}
		}
		return true
	case String:
		rv, ok := r.(String)
		return ok && lv == rv
	case List:
		rv, ok := r.(List)
		if !ok || len(lv) != len(rv) {
			return false
		}
		for i := range lv {
			if !Equal(lv[i], rv[i]) {
				return false
			}
		}
		return true
	case Map:
		rv, ok := r.(Map)
		if !ok || len(lv) != len(rv) {
			return false
		}
		for i := range lv {
			if !Equal(lv[i].Key, rv[i].Key) || !Equal(lv[i].Value, rv[i].Value) {
				return false
			}
		}
		return true
	case *Tag:
		rv, ok := r.(*Tag)
		return ok && lv.Num == rv.Num && Equal(lv.Value, rv.Value)
	case Simple:
		rv, ok := r.(Simple)
		return ok && lv == rv
	case Bool:
		rv, ok := r.(Bool)
		return ok && lv == rv
	case Nil:
		_, ok := r.(Nil)
		return ok
	case Undefined:
		_, ok := r.(Undefined)
		return ok
	case Float16:
		rv, ok := r.(Float16)
		return ok && lv == rv
	case Float32:
		rv, ok := r.(Float32)
		return ok && math.Float32bits(float32(lv)) == math.Float32bits(float32(rv))
	case Float64:
		rv, ok := r.(Float64)
		return ok && math.Float64bits(float64(lv)) == math.Float64bits(float64(rv))
	}
	return false
}
