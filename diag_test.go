package cbor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiagnostic(t *testing.T) {
	for name, c := range map[string]struct {
		In     Value
		Expect string
	}{
		"uint":        {Uint(10), "10"},
		"negint":      {NegInt(99), "-100"},
		"negint min":  {NegInt(math.MaxUint64), "-18446744073709551616"},
		"slice":       {Slice{1, 2, 3}, "h'010203'"},
		"slice empty": {Slice{}, "h''"},
		"string":      {String("a"), `"a"`},
		"list":        {List{Uint(1), Uint(2)}, "[1, 2]"},
		"list empty":  {List{}, "[]"},
		"map":         {Map{{Uint(1), String("a")}}, `{1: "a"}`},
		"map nested": {
			Map{{String("k"), List{Bool(true), Nil{}}}},
			`{"k": [true, null]}`,
		},
		"tag":       {&Tag{Num: 1, Value: Uint(1363896240)}, "1(1363896240)"},
		"simple":    {Simple(32), "simple(32)"},
		"true":      {Bool(true), "true"},
		"false":     {Bool(false), "false"},
		"null":      {Nil{}, "null"},
		"undefined": {Undefined{}, "undefined"},
		"float":     {Float64(1.5), "1.5"},
		"float int": {Float64(100000), "100000.0"},
		"float16":   {Float16(0x3e00), "1.5"},
		"float32":   {Float32(100000), "100000.0"},
		"exp":       {Float64(1.0e300), "1e+300"},
		"nan":       {Float64(math.NaN()), "NaN"},
		"+inf":      {Float64(math.Inf(1)), "Infinity"},
		"-inf":      {Float16(0xfc00), "-Infinity"},
	} {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, c.Expect, Diagnostic(c.In))
		})
	}
}
