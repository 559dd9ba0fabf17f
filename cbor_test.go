package cbor

import (
	"encoding/hex"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/smithy-lang/go-cbor/internal/assert"
)

// cmp options for comparing Value trees: floats compare by bit pattern, in
// line with Equal
var valueCmpOpts = []cmp.Option{
	cmp.Comparer(func(x, y Float32) bool {
		return math.Float32bits(float32(x)) == math.Float32bits(float32(y))
	}),
	cmp.Comparer(func(x, y Float64) bool {
		return math.Float64bits(float64(x)) == math.Float64bits(float64(y))
	}),
}

func assertValue(t assert.T, expect, actual Value) bool {
	t.Helper()
	return assert.DeepEqual(t, expect, actual, valueCmpOpts...)
}

func mkex(ex string) []byte {
	p, _ := hex.DecodeString(ex)
	return p
}

func TestInt(t *testing.T) {
	for name, c := range map[string]struct {
		In     int64
		Expect Value
	}{
		"zero":    {0, Uint(0)},
		"pos":     {100, Uint(100)},
		"pos max": {math.MaxInt64, Uint(0x7fffffff_ffffffff)},
		"-1":      {-1, NegInt(0)},
		"-100":    {-100, NegInt(99)},
		"neg min": {math.MinInt64, NegInt(0x7fffffff_ffffffff)},
	} {
		t.Run(name, func(t *testing.T) {
			assertValue(t, c.Expect, Int(c.In))
		})
	}
}

func TestIntParts(t *testing.T) {
	for name, c := range map[string]struct {
		In   Value
		Sign int
		Mag  uint64
		OK   bool
	}{
		"uint":     {Uint(12), 1, 12, true},
		"uint max": {Uint(math.MaxUint64), 1, math.MaxUint64, true},
		"negint":   {NegInt(99), -1, 99, true},
		"float":    {Float64(1.5), 0, 0, false},
		"string":   {String("12"), 0, 0, false},
		"bool":     {Bool(true), 0, 0, false},
	} {
		t.Run(name, func(t *testing.T) {
			sign, mag, ok := IntParts(c.In)
			if sign != c.Sign || mag != c.Mag || ok != c.OK {
				t.Errorf("expect (%d, %d, %v), got (%d, %d, %v)", c.Sign, c.Mag, c.OK, sign, mag, ok)
			}
		})
	}
}

func TestIsNumber(t *testing.T) {
	for name, c := range map[string]struct {
		In     Value
		Expect bool
	}{
		"uint":      {Uint(0), true},
		"negint":    {NegInt(0), true},
		"float16":   {Float16(0x3c00), true},
		"float32":   {Float32(1), true},
		"float64":   {Float64(1), true},
		"slice":     {Slice{1}, false},
		"string":    {String("1"), false},
		"list":      {List{Uint(1)}, false},
		"map":       {Map{}, false},
		"tag":       {&Tag{Num: 2, Value: Uint(1)}, false},
		"simple":    {Simple(1), false},
		"bool":      {Bool(true), false},
		"nil":       {Nil{}, false},
		"undefined": {Undefined{}, false},
	} {
		t.Run(name, func(t *testing.T) {
			if actual := IsNumber(c.In); actual != c.Expect {
				t.Errorf("expect %v, got %v", c.Expect, actual)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	nan1 := Float64(math.Float64frombits(0x7ff8000000000000))
	nan2 := Float64(math.Float64frombits(0x7ff8000000000001))

	for name, c := range map[string]struct {
		L, R   Value
		Expect bool
	}{
		"uint eq":            {Uint(1), Uint(1), true},
		"uint ne":            {Uint(1), Uint(2), false},
		"uint vs negint":     {Uint(1), NegInt(1), false},
		"negint eq":          {NegInt(99), NegInt(99), true},
		"slice eq":           {Slice{1, 2}, Slice{1, 2}, true},
		"slice ne":           {Slice{1, 2}, Slice{1, 3}, false},
		"slice len ne":       {Slice{1}, Slice{1, 2}, false},
		"string eq":          {String("ab"), String("ab"), true},
		"string vs slice":    {String("ab"), Slice("ab"), false},
		"list eq":            {List{Uint(1), String("a")}, List{Uint(1), String("a")}, true},
		"list order":         {List{Uint(1), Uint(2)}, List{Uint(2), Uint(1)}, false},
		"map eq":             {Map{{Uint(1), Bool(true)}}, Map{{Uint(1), Bool(true)}}, true},
		"map order matters":  {Map{{Uint(1), Uint(2)}, {Uint(3), Uint(4)}}, Map{{Uint(3), Uint(4)}, {Uint(1), Uint(2)}}, false},
		"tag eq":             {&Tag{Num: 1, Value: Uint(2)}, &Tag{Num: 1, Value: Uint(2)}, true},
		"tag num ne":         {&Tag{Num: 1, Value: Uint(2)}, &Tag{Num: 2, Value: Uint(2)}, false},
		"simple eq":          {Simple(32), Simple(32), true},
		"bool ne":            {Bool(true), Bool(false), false},
		"nil eq":             {Nil{}, Nil{}, true},
		"nil vs undefined":   {Nil{}, Undefined{}, false},
		"float16 bits":       {Float16(0x7e00), Float16(0x7e00), true},
		"float16 nan ne":     {Float16(0x7e00), Float16(0x7e01), false},
		"float64 nan self":   {nan1, nan1, true},
		"float64 nan varies": {nan1, nan2, false},
		"float32 vs float64": {Float32(1), Float64(1), false},
		"neg zero ne":        {Float64(0), Float64(math.Copysign(0, -1)), false},
	} {
		t.Run(name, func(t *testing.T) {
			if actual := Equal(c.L, c.R); actual != c.Expect {
				t.Errorf("expect %v, got %v", c.Expect, actual)
			}
		})
	}
}

func TestRoundTrip_scratch(t *testing.T) {
	v := Map{
		{String("foo"), String("bar")},
		{String("baz"), List{
			Map{
				{String("qux"), List{String("foo"), String("bar")}},
				{String("foo"), Uint(1)},
				{String("bar"), &Tag{Num: 23, Value: NegInt(499)}},
			},
		}},
		{String("qux"), Slice{0xff, 0x0, 0xb0, 0xac}},
		{Uint(12), Float16(0x7e01)},
		{NegInt(99), Float64(math.Inf(-1))},
		{Bool(false), Undefined{}},
	}

	a, err := Decode(Encode(v))
	if err != nil {
		t.Fatal(err)
	}

	if !Equal(v, a) {
		t.Fatalf("%s != %s", Diagnostic(v), Diagnostic(a))
	}
	assertValue(t, v, a)
}

func FuzzRoundTrip(f *testing.F) {
	f.Add(mkex("A363666F6F636261726362617A81BF637175789F63666F6F7F63626172FFFF63666F6F0163626172D73901F3FF637175785F41FF4300B0ACFF"))
	f.Add(mkex("5F4201024103FF"))
	f.Add(mkex("F97E01"))
	f.Add(mkex("C074323031332D30332D32315432303A30343A30305A"))
	f.Add(mkex("1BFFFFFFFFFFFFFFFF"))
	f.Fuzz(func(t *testing.T, p []byte) {
		v, err := Decode(p)
		if err != nil {
			return
		}

		a, err := Decode(Encode(v))
		if err != nil {
			t.Fatalf("re-decode: %v", err)
		}
		if !Equal(v, a) {
			t.Fatalf("%s != %s", Diagnostic(v), Diagnostic(a))
		}
	})
}
