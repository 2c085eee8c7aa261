package partialeq

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"math"
	"math/big"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"
	"weak"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type label string

type categorized struct {
	category, msg string
	stack         []string
}

func (e *categorized) Error() string         { return e.msg }
func (e *categorized) ErrorCategory() string { return e.category }

type account struct {
	ID    int
	Name  string
	Tags  []string
	token string
}

type redacted struct {
	ID     int
	Secret string `partialeq:"-"`
}

type node struct {
	Value int
	Next  *node
}

func helperFunc() {}
func otherFunc()  {}

func assertPass(t *testing.T, actual, expected any) {
	t.Helper()
	if err := PartialDeepEqual(actual, expected); err != nil {
		t.Errorf("PartialDeepEqual() = %v, want match", err)
	}
}

func assertFail(t *testing.T, actual, expected any, reason Reason) *Mismatch {
	t.Helper()
	err := PartialDeepEqual(actual, expected)
	if err == nil {
		t.Fatalf("PartialDeepEqual() = nil, want %s", reason)
	}
	m, ok := AsMismatch(err)
	if !ok {
		t.Fatalf("PartialDeepEqual() error %T is not a *Mismatch", err)
	}
	if m.Reason != reason {
		t.Errorf("Reason = %s, want %s (%v)", m.Reason, reason, err)
	}
	return m
}

func TestPartialDeepEqual_Primitives(t *testing.T) {
	t.Parallel()
	sym := NewSymbol("s")

	tests := []struct {
		name     string
		actual   any
		expected any
		pass     bool
	}{
		{"equal strings", "hello", "hello", true},
		{"different strings", "hello", "world", false},
		{"named string", label("x"), "x", true},
		{"equal bools", true, true, true},
		{"different bools", true, false, false},
		{"int widths", int8(5), int64(5), true},
		{"signed and unsigned", uint(5), 5, true},
		{"negative and unsigned", -1, uint64(math.MaxUint64), false},
		{"int and float", 1, 1.0, false},
		{"equal floats", 1.5, 1.5, true},
		{"NaN", math.NaN(), math.NaN(), true},
		{"signed zeros", math.Copysign(0, -1), 0.0, true},
		{"complex", complex(1, 2), complex(1, 2), true},
		{"nil both", nil, nil, true},
		{"nil pointer and nil", (*int)(nil), nil, true},
		{"nil vs value", nil, "value", false},
		{"value vs nil", 0, nil, false},
		{"big ints", new(big.Int).Lsh(big.NewInt(1), 100), new(big.Int).Lsh(big.NewInt(1), 100), true},
		{"different big ints", big.NewInt(1), big.NewInt(2), false},
		{"big int and int", big.NewInt(1), 1, false},
		{"big rats", big.NewRat(1, 3), big.NewRat(2, 6), true},
		{"same symbol", sym, sym, true},
		{"symbols with same description", NewSymbol("s"), NewSymbol("s"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := PartialDeepEqual(tt.actual, tt.expected)
			if (err == nil) != tt.pass {
				t.Errorf("PartialDeepEqual(%v, %v) = %v, want pass=%v", tt.actual, tt.expected, err, tt.pass)
			}
		})
	}
}

func TestPartialDeepEqual_Asymmetry(t *testing.T) {
	t.Parallel()
	full := NewObject().Set("a", 1).Set("b", 2).Set("c", 3)
	part := NewObject().Set("b", 2)

	assertPass(t, full, part)
	m := assertFail(t, part, full, MissingKey)
	if got := m.Path.String(); got != "$.a" {
		t.Errorf("Path = %q, want %q", got, "$.a")
	}
}

func TestPartialDeepEqual_Structs(t *testing.T) {
	t.Parallel()
	actual := account{ID: 1, Name: "ada", Tags: []string{"admin", "ops"}, token: "t1"}

	assertPass(t, actual, struct{ Name string }{Name: "ada"})
	assertPass(t, &actual, account{ID: 1, Name: "ada", Tags: []string{"ops"}, token: "other"})

	m := assertFail(t, actual, struct{ Email string }{}, MissingKey)
	if got := m.Path.String(); got != "$.Email" {
		t.Errorf("Path = %q, want %q", got, "$.Email")
	}

	m = assertFail(t, actual, struct{ Name string }{Name: "bob"}, ValueMismatch)
	if got := m.Path.String(); got != "$.Name" {
		t.Errorf("Path = %q, want %q", got, "$.Name")
	}
}

func TestCompare_IncludeHidden(t *testing.T) {
	t.Parallel()
	actual := account{ID: 1, token: "t1"}
	expected := account{ID: 1, token: "t2"}

	if err := Compare(actual, expected, DefaultOptions()); err != nil {
		t.Errorf("unexported fields compared by default: %v", err)
	}

	opts := DefaultOptions()
	opts.IncludeHidden = true
	err := Compare(actual, expected, opts)
	m, ok := AsMismatch(err)
	if !ok {
		t.Fatalf("Compare() with IncludeHidden = %v, want mismatch", err)
	}
	if got := m.Path.String(); got != "$.token" {
		t.Errorf("Path = %q, want %q", got, "$.token")
	}
}

func TestPartialDeepEqual_SkipTag(t *testing.T) {
	t.Parallel()
	assertPass(t, redacted{ID: 1, Secret: "a"}, redacted{ID: 1, Secret: "b"})
}

func TestPartialDeepEqual_ObjectProperties(t *testing.T) {
	t.Parallel()
	sym := NewSymbol("id")

	t.Run("symbol keys", func(t *testing.T) {
		t.Parallel()
		actual := NewObject().SetSymbol(sym, 1)
		expected := NewObject().SetSymbol(sym, 2)
		m := assertFail(t, actual, expected, ValueMismatch)
		if got := m.Path.String(); got != "$[Symbol(id)]" {
			t.Errorf("Path = %q, want %q", got, "$[Symbol(id)]")
		}

		opts := DefaultOptions()
		opts.IncludeSymbolKeys = false
		if err := Compare(actual, expected, opts); err != nil {
			t.Errorf("symbol keys compared with IncludeSymbolKeys=false: %v", err)
		}
	})

	t.Run("hidden properties", func(t *testing.T) {
		t.Parallel()
		actual := NewObject().Set("a", 1)
		expected := NewObject(Property{Key: NameKey("a"), Value: 1}, Property{Key: NameKey("b"), Value: 2, Hidden: true})
		if err := PartialDeepEqual(actual, expected); err != nil {
			t.Errorf("hidden expected property compared by default: %v", err)
		}
		opts := DefaultOptions()
		opts.IncludeHidden = true
		if err := Compare(actual, expected, opts); !errors.Is(err, ErrMissingKey) {
			t.Errorf("Compare() with IncludeHidden = %v, want missing key", err)
		}
	})

	t.Run("hidden actual property is still visible", func(t *testing.T) {
		t.Parallel()
		actual := NewObject(Property{Key: NameKey("a"), Value: 1, Hidden: true})
		assertPass(t, actual, NewObject().Set("a", 1))
	})

	t.Run("accessors are read once per side", func(t *testing.T) {
		t.Parallel()
		var actualReads, expectedReads int
		actual := NewObject(Property{Key: NameKey("n"), Get: func() any { actualReads++; return 3 }})
		expected := NewObject(Property{Key: NameKey("n"), Get: func() any { expectedReads++; return 3 }})
		assertPass(t, actual, expected)
		if actualReads != 1 || expectedReads != 1 {
			t.Errorf("accessor reads = (%d, %d), want (1, 1)", actualReads, expectedReads)
		}
	})

	t.Run("accessors are read once across candidates", func(t *testing.T) {
		t.Parallel()
		reads := 0
		shared := NewObject(Property{Key: NameKey("n"), Get: func() any { reads++; return 3 }})
		actual := []any{shared, shared, NewObject().Set("n", 4)}
		expected := []any{NewObject().Set("n", 4), NewObject().Set("n", 3)}
		assertPass(t, actual, expected)
		if reads != 1 {
			t.Errorf("accessor reads = %d, want 1", reads)
		}
	})

	t.Run("struct against object", func(t *testing.T) {
		t.Parallel()
		assertPass(t, point{X: 1, Y: 2}, NewObject().Set("Y", 2))
		assertPass(t, NewObject().Set("X", 1).Set("Y", 2).Set("Z", 3), point{X: 1, Y: 2})
	})
}

func TestPartialDeepEqual_Sequences(t *testing.T) {
	t.Parallel()

	t.Run("positionless subset", func(t *testing.T) {
		t.Parallel()
		assertPass(t, []int{1, 2, 3}, []int{3, 1})
		assertPass(t, []any{"a", 1, true}, []any{true, "a"})
	})

	t.Run("duplicate counts", func(t *testing.T) {
		t.Parallel()
		m := assertFail(t, []int{1, 2, 2, 2, 2, 2, 2, 3}, []int{1, 2, 2, 2, 2, 2, 2, 2}, CountMismatch)
		if got := m.Path.String(); got != "$[7]" {
			t.Errorf("Path = %q, want %q", got, "$[7]")
		}
		if !strings.Contains(m.Detail, "all 6 matching elements") {
			t.Errorf("Detail = %q, want the six consumed candidates", m.Detail)
		}
		assertPass(t, []int{2, 1, 2}, []int{2, 2})
	})

	t.Run("expected longer than actual", func(t *testing.T) {
		t.Parallel()
		assertFail(t, []int{1}, []int{1, 1}, CountMismatch)
	})

	t.Run("overlapping partial elements", func(t *testing.T) {
		t.Parallel()
		actual := []any{NewObject().Set("a", 1).Set("b", 2), NewObject().Set("a", 1)}
		expected := []any{NewObject().Set("a", 1), NewObject().Set("a", 1).Set("b", 2)}
		assertPass(t, actual, expected)
	})

	t.Run("nested element mismatch", func(t *testing.T) {
		t.Parallel()
		m := assertFail(t, []point{{1, 2}}, []point{{1, 3}}, CountMismatch)
		if !strings.Contains(m.Detail, "$[0].Y: value mismatch") {
			t.Errorf("Detail = %q, want positional hint", m.Detail)
		}
	})

	t.Run("arrays and slices", func(t *testing.T) {
		t.Parallel()
		assertPass(t, [3]string{"a", "b", "c"}, []string{"c"})
	})
}

func TestPartialDeepEqual_KeyValue(t *testing.T) {
	t.Parallel()

	t.Run("distinct instances", func(t *testing.T) {
		t.Parallel()
		assertPass(t, map[string]string{"k1": "v1"}, map[string]string{"k1": "v1"})
	})

	t.Run("differing key sets", func(t *testing.T) {
		t.Parallel()
		m := assertFail(t, map[string]string{"k1": "v1", "k2": "v2"}, map[string]string{"k1": "v1", "k3": "v3"}, MissingKey)
		if got := m.Path.String(); got != `$["k3"]` {
			t.Errorf("Path = %q, want %q", got, `$["k3"]`)
		}
	})

	t.Run("value mismatch", func(t *testing.T) {
		t.Parallel()
		m := assertFail(t, map[string]any{"a": 1, "b": 2}, map[string]any{"a": 2}, ValueMismatch)
		if got := m.Path.String(); got != `$["a"]` {
			t.Errorf("Path = %q, want %q", got, `$["a"]`)
		}
	})

	t.Run("keys compared by value", func(t *testing.T) {
		t.Parallel()
		actual := map[*point]string{{1, 2}: "a", {3, 4}: "b"}
		expected := map[*point]string{{1, 2}: "a"}
		assertPass(t, actual, expected)
		assertFail(t, actual, map[*point]string{{1, 2}: "b"}, ValueMismatch)
		assertFail(t, actual, map[*point]string{{5, 6}: "a"}, MissingKey)
	})

	t.Run("keys must be fully equal", func(t *testing.T) {
		t.Parallel()
		actual := map[any]int{NewObject().Set("a", 1).Set("b", 2): 1}
		expected := map[any]int{NewObject().Set("a", 1): 1}
		assertFail(t, actual, expected, MissingKey)
	})

	t.Run("sync map", func(t *testing.T) {
		t.Parallel()
		var m sync.Map
		m.Store("k", "v")
		m.Store("extra", 1)
		assertPass(t, &m, map[string]string{"k": "v"})
	})

	t.Run("nested maps", func(t *testing.T) {
		t.Parallel()
		actual := map[string]any{"data": map[string]any{"values": []any{1, 2, 3}, "n": 3}}
		expected := map[string]any{"data": map[string]any{"values": []any{3}}}
		assertPass(t, actual, expected)
	})
}

func TestPartialDeepEqual_Membership(t *testing.T) {
	t.Parallel()

	t.Run("cross realm", func(t *testing.T) {
		t.Parallel()
		remote := tagSet{"value1": {}, "value2": {}}
		local := map[string]struct{}{"value1": {}, "value2": {}}
		assertPass(t, remote, local)
		assertPass(t, local, remote)
	})

	t.Run("missing member", func(t *testing.T) {
		t.Parallel()
		m := assertFail(t, map[string]struct{}{"a": {}, "b": {}}, map[string]struct{}{"c": {}}, CountMismatch)
		if got := m.Path.String(); got != `${"c"}` {
			t.Errorf("Path = %q, want %q", got, `${"c"}`)
		}
	})

	t.Run("more expected members", func(t *testing.T) {
		t.Parallel()
		assertFail(t, map[int]struct{}{1: {}}, map[int]struct{}{1: {}, 2: {}}, CountMismatch)
	})

	t.Run("structural members", func(t *testing.T) {
		t.Parallel()
		actual := map[*point]struct{}{{1, 2}: {}, {3, 4}: {}}
		assertPass(t, actual, map[*point]struct{}{{3, 4}: {}})
		assertFail(t, actual, map[*point]struct{}{{5, 6}: {}}, CountMismatch)
	})

	t.Run("set against map", func(t *testing.T) {
		t.Parallel()
		assertFail(t, map[string]bool{"a": true}, map[string]struct{}{"a": {}}, KindMismatch)
	})
}

func TestPartialDeepEqual_Scalars(t *testing.T) {
	t.Parallel()

	t.Run("temporal", func(t *testing.T) {
		t.Parallel()
		utc := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		assertPass(t, utc, utc.In(time.FixedZone("X", 3600)))
		assertFail(t, utc, utc.Add(time.Second), ValueMismatch)
		assertFail(t, utc, utc.Format(time.RFC3339), KindMismatch)
	})

	t.Run("pattern", func(t *testing.T) {
		t.Parallel()
		assertPass(t, regexp.MustCompile(`a+b`), regexp.MustCompile(`a+b`))
		assertFail(t, regexp.MustCompile(`a+b`), regexp.MustCompile(`(?i)a+b`), ValueMismatch)
	})

	t.Run("binary", func(t *testing.T) {
		t.Parallel()
		assertPass(t, []byte{1, 2, 3}, []byte{1, 2, 3})
		assertPass(t, [3]byte{1, 2, 3}, []byte{1, 2, 3})
		m := assertFail(t, []byte{1, 2, 3}, []byte{1, 2}, ValueMismatch)
		if m.Detail != "length 3, want 2" {
			t.Errorf("Detail = %q", m.Detail)
		}
		assertFail(t, []byte{1, 2, 3}, []byte{1, 2, 4}, ValueMismatch)
	})

	t.Run("forged buffer tag", func(t *testing.T) {
		t.Parallel()
		assertFail(t, []byte{1, 2}, wideView{1, 2}, KindMismatch)
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()
		assertPass(t, errors.New("boom"), errors.New("boom"))
		assertFail(t, errors.New("boom"), errors.New("bang"), ValueMismatch)
		assertPass(t,
			&categorized{category: "TypeError", msg: "bad", stack: []string{"a.go:1"}},
			&categorized{category: "TypeError", msg: "bad", stack: []string{"b.go:9"}})
		m := assertFail(t,
			&categorized{category: "TypeError", msg: "bad"},
			&categorized{category: "RangeError", msg: "bad"}, ValueMismatch)
		if m.Detail != "error category TypeError, want RangeError" {
			t.Errorf("Detail = %q", m.Detail)
		}
	})

	t.Run("functions", func(t *testing.T) {
		t.Parallel()
		assertPass(t, helperFunc, helperFunc)
		assertFail(t, helperFunc, otherFunc, ValueMismatch)
	})

	t.Run("closures of one literal", func(t *testing.T) {
		t.Parallel()
		var fs []func() int
		for i := 0; i < 2; i++ {
			fs = append(fs, func() int { return i })
		}
		assertFail(t, fs[0], fs[1], ValueMismatch)
		assertPass(t, fs[0], fs[0])
		assertPass(t, []any{fs[1], fs[0]}, []any{fs[0]})
	})
}

func TestPartialDeepEqual_KeyHandles(t *testing.T) {
	t.Parallel()
	seedA := make([]byte, ed25519.SeedSize)
	seedB := make([]byte, ed25519.SeedSize)
	seedB[0] = 1

	keyA := ed25519.NewKeyFromSeed(seedA)
	assertPass(t, keyA, ed25519.NewKeyFromSeed(seedA))
	assertFail(t, keyA, ed25519.NewKeyFromSeed(seedB), ValueMismatch)
	assertFail(t, keyA, keyA.Public(), ValueMismatch)

	ec1, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	ec2, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	assertPass(t, ec1, ec1)
	assertFail(t, ec1, ec2, ValueMismatch)
}

func TestPartialDeepEqual_WeakCollections(t *testing.T) {
	t.Parallel()
	n := 1
	w := weak.Make(&n)
	assertFail(t, w, w, ValueMismatch)
	assertFail(t, &sync.Pool{}, &sync.Pool{}, ValueMismatch)
}

func TestPartialDeepEqual_KindMismatch(t *testing.T) {
	t.Parallel()
	m := assertFail(t, map[string]int{}, []int{}, KindMismatch)
	if m.Detail != "expected sequence, got key-value collection" {
		t.Errorf("Detail = %q", m.Detail)
	}
}

// selfPointer can point at itself.
type selfPointer *selfPointer

func TestPartialDeepEqual_Cycles(t *testing.T) {
	t.Parallel()

	t.Run("self-referential objects", func(t *testing.T) {
		t.Parallel()
		a := NewObject()
		a.Set("self", a)
		b := NewObject()
		b.Set("self", b)
		assertPass(t, a, b)
	})

	t.Run("self-referential structs", func(t *testing.T) {
		t.Parallel()
		a := &node{Value: 1}
		a.Next = a
		b := &node{Value: 1}
		b.Next = b
		assertPass(t, a, b)

		c := &node{Value: 2}
		c.Next = c
		assertFail(t, a, c, ValueMismatch)
	})

	t.Run("mutual cycles", func(t *testing.T) {
		t.Parallel()
		a1, a2 := &node{Value: 1}, &node{Value: 2}
		a1.Next, a2.Next = a2, a1
		b1, b2 := &node{Value: 1}, &node{Value: 2}
		b1.Next, b2.Next = b2, b1
		assertPass(t, a1, b1)
	})

	t.Run("cycle against a longer cycle", func(t *testing.T) {
		t.Parallel()
		a := &node{Value: 1}
		a.Next = a
		b1, b2 := &node{Value: 1}, &node{Value: 1}
		b1.Next, b2.Next = b2, b1
		assertPass(t, a, b1)
	})

	t.Run("self-referential maps", func(t *testing.T) {
		t.Parallel()
		a := map[string]any{"n": 1}
		a["self"] = a
		b := map[string]any{"n": 1}
		b["self"] = b
		assertPass(t, a, b)
	})

	t.Run("self-referential slices", func(t *testing.T) {
		t.Parallel()
		a := []any{1, nil}
		a[1] = a
		b := []any{1, nil}
		b[1] = b
		assertPass(t, a, b)
	})

	t.Run("interface pointing at itself", func(t *testing.T) {
		t.Parallel()
		var x, y any
		x = &x
		y = &y
		assertPass(t, x, y)
		assertPass(t, x, x)
		assertFail(t, x, 1, ValueMismatch)
		assertPass(t, []any{x, 1}, []any{1, y})
	})

	t.Run("pointer type pointing at itself", func(t *testing.T) {
		t.Parallel()
		var p, q selfPointer
		p = &p
		q = &q
		assertPass(t, p, q)
		assertPass(t, NewObject().Set("p", p), NewObject().Set("p", q))
	})

	t.Run("cycle inside sequence trials", func(t *testing.T) {
		t.Parallel()
		a := NewObject().Set("id", 1)
		a.Set("peers", []any{a, NewObject().Set("id", 2)})
		b := NewObject().Set("id", 1)
		b.Set("peers", []any{NewObject().Set("id", 2), b})
		assertPass(t, a, b)
	})
}

func TestPartialDeepEqual_SharedFailureIsReplayed(t *testing.T) {
	t.Parallel()
	shared := &point{X: 1}
	other := &point{X: 2}
	// The list trial records (shared, other) as failed under $.list[0]; the
	// later lookup under $.ref must report its own path.
	actual := NewObject().Set("list", []any{shared, other}).Set("ref", shared)
	expected := NewObject().Set("list", []any{other}).Set("ref", other)
	m := assertFail(t, actual, expected, ValueMismatch)
	if got := m.Path.String(); got != "$.ref.X" {
		t.Errorf("Path = %q, want %q", got, "$.ref.X")
	}
}

func chain(n int) *node {
	var head *node
	for i := 0; i < n; i++ {
		head = &node{Value: i, Next: head}
	}
	return head
}

func TestCompare_DepthExceeded(t *testing.T) {
	t.Parallel()
	err := PartialDeepEqual(chain(DefaultMaxDepth+10), chain(DefaultMaxDepth+10))
	if !errors.Is(err, ErrDepthExceeded) {
		t.Fatalf("PartialDeepEqual() = %v, want depth exceeded", err)
	}

	opts := DefaultOptions()
	opts.MaxDepth = 5000
	if err := Compare(chain(2000), chain(2000), opts); err != nil {
		t.Errorf("Compare() with MaxDepth=5000 = %v", err)
	}
}

func TestCompare_NodeBudget(t *testing.T) {
	t.Parallel()
	opts := DefaultOptions()
	opts.MaxNodes = 10
	actual := make([]any, 50)
	expected := make([]any, 50)
	err := Compare(actual, expected, opts)
	m, ok := AsMismatch(err)
	if !ok || m.Reason != DepthExceeded {
		t.Fatalf("Compare() = %v, want depth exceeded", err)
	}
	if m.Detail != "compared more than 10 values" {
		t.Errorf("Detail = %q", m.Detail)
	}
}

func TestCompare_LargeScalarSequences(t *testing.T) {
	t.Parallel()
	const n = 40000
	actual := make([]int, n)
	expected := make([]int, n)
	for i := range actual {
		actual[i] = i
		expected[n-1-i] = i
	}
	assertPass(t, actual, expected)

	expected[n-1] = -1
	m := assertFail(t, actual, expected, CountMismatch)
	if got := m.Path.String(); got != "$[39999]" {
		t.Errorf("Path = %q, want %q", got, "$[39999]")
	}
	if !strings.HasPrefix(m.Detail, "no element of actual matches") {
		t.Errorf("Detail = %q", m.Detail)
	}

	words := []string{"b", "a", "b"}
	m = assertFail(t, words, []string{"b", "b", "b"}, CountMismatch)
	if got := m.Path.String(); got != "$[2]" {
		t.Errorf("Path = %q, want %q", got, "$[2]")
	}
	if m.Detail != "all 2 matching elements of actual are paired with other expected elements" {
		t.Errorf("Detail = %q", m.Detail)
	}
}

func TestCompare_LargeSequencesStayWithinBudget(t *testing.T) {
	t.Parallel()
	const n = 1000
	actual := make([]any, n)
	expected := make([]any, n)
	for i := range actual {
		actual[i] = i
		expected[i] = i
	}
	expected[0], expected[1] = 1, 0
	assertPass(t, actual, expected)
}

func TestCompare_InvalidOptions(t *testing.T) {
	t.Parallel()
	err := Compare(1, 1, Options{MaxDepth: -1})
	if !errors.Is(err, ErrArity) {
		t.Fatalf("Compare() = %v, want arity error", err)
	}
}

func TestCompare_Reflexive(t *testing.T) {
	t.Parallel()
	build := func() any {
		root := NewObject().Set("name", "root").Set("when", time.Unix(0, 0)).Set("raw", []byte("x"))
		root.Set("children", []any{NewObject().Set("parent", root), map[string]any{"k": []int{1, 2, 2}}})
		root.Set("tags", map[string]struct{}{"a": {}})
		return root
	}
	assertPass(t, build(), build())
}

func TestCompare_Logger(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zapcore.DebugLevel)
	opts := DefaultOptions()
	opts.Logger = zap.New(core)

	if err := Compare(map[string]int{"a": 1}, map[string]int{"a": 2}, opts); err == nil {
		t.Fatal("Compare() = nil, want mismatch")
	}
	if n := logs.FilterMessage("compare").Len(); n != 2 {
		t.Errorf("compare records = %d, want 2", n)
	}
	failed := logs.FilterMessage("partial match failed").All()
	if len(failed) != 1 {
		t.Fatalf("failure records = %d, want 1", len(failed))
	}
	if got := failed[0].ContextMap()["reason"]; got != "value_mismatch" {
		t.Errorf("reason field = %v, want value_mismatch", got)
	}
}

func TestMatches(t *testing.T) {
	t.Parallel()
	if !Matches([]string{"a", "b"}, []string{"b"}, DefaultOptions()) {
		t.Error("Matches() = false, want true")
	}
	if Matches([]string{"a"}, []string{"b"}, DefaultOptions()) {
		t.Error("Matches() = true, want false")
	}
}
