package cbor

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"
)

// Diagnostic returns the RFC 8949 section 8 diagnostic notation for the
// given Value. The output is meant for logs and test failures, not for
// machine consumption; it is lossy for NaN payloads and float widths.
func Diagnostic(v Value) string {
	var sb strings.Builder
	writeDiag(&sb, v)
	return sb.String()
}

func writeDiag(sb *strings.Builder, v Value) {
	switch vv := v.(type) {
	case Uint:
		sb.WriteString(strconv.FormatUint(uint64(vv), 10))
	case NegInt:
		// the denoted integer is -1-n, whose magnitude n+1 can overflow
		// uint64 only for the single extreme argument
		if uint64(vv) == math.MaxUint64 {
			sb.WriteString("-18446744073709551616")
			return
		}
		sb.WriteByte('-')
		sb.WriteString(strconv.FormatUint(uint64(vv)+1, 10))
	case Slice:
		sb.WriteString("h'")
		sb.WriteString(hex.EncodeToString(vv))
		sb.WriteByte('\'')
	case String:
		sb.WriteString(strconv.Quote(string(vv)))
	case List:
		sb.WriteByte('[')
		for i, item := range vv {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeDiag(sb, item)
		}
		sb.WriteByte(']')
	case Map:
		sb.WriteByte('{')
		for i, entry := range vv {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeDiag(sb, entry.Key)
			sb.WriteString(": ")
			writeDiag(sb, entry.Value)
		}
		sb.WriteByte('}')
	case *Tag:
		sb.WriteString(strconv.FormatUint(vv.Num, 10))
		sb.WriteByte('(')
		writeDiag(sb, vv.Value)
		sb.WriteByte(')')
	case Simple:
		sb.WriteString("simple(")
		sb.WriteString(strconv.FormatUint(uint64(vv), 10))
		sb.WriteByte(')')
	case Bool:
		if vv {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case Nil:
		sb.WriteString("null")
	case Undefined:
		sb.WriteString("undefined")
	case Float16:
		writeDiagFloat(sb, math.Float64frombits(half16ToFloat64Bits(uint16(vv))))
	case Float32:
		writeDiagFloat(sb, float64(vv))
	case Float64:
		writeDiagFloat(sb, float64(vv))
	}
}

func writeDiagFloat(sb *strings.Builder, f float64) {
	switch {
	case math.IsNaN(f):
		sb.WriteString("NaN")
	case math.IsInf(f, 1):
		sb.WriteString("Infinity")
	case math.IsInf(f, -1):
		sb.WriteString("-Infinity")
	default:
		s := strconv.FormatFloat(f, 'g', -1, 64)
		sb.WriteString(s)
		// diagnostic notation distinguishes floats from integers visually
		if !strings.ContainsAny(s, ".eE") {
			sb.WriteString(".0")
		}
	}
}
