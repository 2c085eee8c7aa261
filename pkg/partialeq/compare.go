package partialeq

import (
	"bytes"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"regexp"
	"time"
	"unsafe"

	"go.uber.org/zap"
)

// PartialDeepEqual returns nil if expected is structurally contained in
// actual under DefaultOptions, and a *Mismatch describing the first
// divergence otherwise.
func PartialDeepEqual(actual, expected any) error {
	return Compare(actual, expected, DefaultOptions())
}

// Compare is PartialDeepEqual with explicit options. Invalid options yield
// a *Mismatch with reason ArityError.
func Compare(actual, expected any, opts Options) error {
	if err := ValidateOptions(opts); err != nil {
		return &Mismatch{Reason: ArityError, Detail: err.Error()}
	}
	c := newComparator(opts.withDefaults())
	m := c.compare(reflect.ValueOf(actual), reflect.ValueOf(expected), nil, 0)
	if c.abort != nil {
		m = c.abort
	}
	if m == nil {
		return nil
	}
	c.log.Debug("partial match failed",
		zap.Stringer("path", m.Path),
		zap.String("reason", m.Reason.Code()),
		zap.Int("nodes", c.nodes),
		zap.Int("ledger", c.ledger.len()))
	return m
}

// Matches reports whether Compare succeeds.
func Matches(actual, expected any, opts Options) bool {
	return Compare(actual, expected, opts) == nil
}

// comparator carries the state of one top-level call.
type comparator struct {
	opts   Options
	log    *zap.Logger
	ledger *ledger
	nodes  int

	// reads caches accessor results so each accessor runs once per call.
	reads map[accessor]reflect.Value

	// abort is set once a safety bound is hit; every later comparison
	// fails with it.
	abort *Mismatch
}

func newComparator(opts Options) *comparator {
	return &comparator{
		opts:   opts,
		log:    opts.Logger,
		ledger: newLedger(),
		reads:  make(map[accessor]reflect.Value),
	}
}

// budget returns how many more comparisons the node bound allows.
func (c *comparator) budget() int {
	return max(c.opts.MaxNodes-c.nodes, 0)
}

func (c *comparator) compare(actual, expected reflect.Value, path Path, depth int) *Mismatch {
	if c.abort != nil {
		return c.abort
	}
	c.nodes++
	if c.nodes > c.opts.MaxNodes {
		c.abort = &Mismatch{Path: path, Reason: DepthExceeded,
			Detail: fmt.Sprintf("compared more than %d values", c.opts.MaxNodes)}
		return c.abort
	}
	if depth > c.opts.MaxDepth {
		c.abort = &Mismatch{Path: path, Reason: DepthExceeded,
			Detail: fmt.Sprintf("nesting deeper than %d levels", c.opts.MaxDepth)}
		return c.abort
	}

	a, aID := resolve(actual)
	e, eID := resolve(expected)
	ak, ek := classify(a), classify(e)
	if ce := c.log.Check(zap.DebugLevel, "compare"); ce != nil {
		ce.Write(zap.Stringer("path", path), zap.Stringer("expected", ek), zap.Stringer("actual", ak))
	}
	if ak != ek {
		return c.mismatch(path, KindMismatch, a, e, fmt.Sprintf("expected %s, got %s", ek, ak))
	}
	if !ek.composite() || !aID.valid() || !eID.valid() {
		return c.compareKind(ek, a, e, path, depth)
	}

	p := pair{actual: aID, expected: eID}
	mark := c.ledger.mark()
	fresh, known := c.ledger.enter(p, path)
	if !fresh {
		if ce := c.log.Check(zap.DebugLevel, "ledger hit"); ce != nil {
			ce.Write(zap.Stringer("path", path), zap.Bool("matched", known == nil))
		}
		return known
	}
	m := c.compareKind(ek, a, e, path, depth)
	c.ledger.leave(p, mark, m, len(path))
	return m
}

func (c *comparator) compareKind(k Kind, a, e reflect.Value, path Path, depth int) *Mismatch {
	switch k {
	case KindPrimitive:
		if equalPrimitive(a, e) {
			return nil
		}
		return c.mismatch(path, ValueMismatch, a, e, "")
	case KindRecord:
		return c.compareRecord(a, e, path, depth)
	case KindSequence:
		return c.compareSequence(a, e, path, depth)
	case KindKeyValue:
		return c.compareKeyValue(a, e, path, depth)
	case KindMembership:
		return c.compareMembership(a, e, path, depth)
	case KindTemporal:
		if a.Interface().(time.Time).Equal(e.Interface().(time.Time)) {
			return nil
		}
		return c.mismatch(path, ValueMismatch, a, e, "different points in time")
	case KindPattern:
		if a.Interface().(*regexp.Regexp).String() == e.Interface().(*regexp.Regexp).String() {
			return nil
		}
		return c.mismatch(path, ValueMismatch, a, e, "pattern source differs")
	case KindBinary:
		return c.compareBinary(a, e, path)
	case KindError:
		return c.compareError(a, e, path)
	case KindFunction:
		if closure(a) == closure(e) {
			return nil
		}
		return c.mismatch(path, ValueMismatch, a, e, "functions match only themselves")
	case KindKeyHandle:
		eq := a.MethodByName("Equal")
		if e.Type().AssignableTo(eq.Type().In(0)) && eq.Call([]reflect.Value{e})[0].Bool() {
			return nil
		}
		return c.mismatch(path, ValueMismatch, a, e, "key material differs")
	case KindWeak:
		return c.mismatch(path, ValueMismatch, a, e, "weak collections cannot be inspected")
	}
	return c.mismatch(path, ArityError, a, e, "unsupported kind "+k.String())
}

func (c *comparator) mismatch(path Path, r Reason, a, e reflect.Value, detail string) *Mismatch {
	return &Mismatch{
		Path:     path,
		Reason:   r,
		Expected: describe(e),
		Actual:   describe(a),
		Detail:   detail,
	}
}

// recordField is a readable property of a struct or Object.
type recordField struct {
	key    Key
	hidden bool
	read   func() reflect.Value
}

// accessor identifies an accessor property of one Object.
type accessor struct {
	obj   *Object
	index int
}

func (c *comparator) recordFields(v reflect.Value) []recordField {
	if v.Type() == objectType {
		o := v.Interface().(*Object)
		fields := make([]recordField, len(o.props))
		for i, p := range o.props {
			fields[i] = recordField{key: p.Key, hidden: p.Hidden}
			if p.Get == nil {
				fields[i].read = func() reflect.Value { return reflect.ValueOf(p.Value) }
				continue
			}
			fields[i].read = func() reflect.Value {
				k := accessor{o, i}
				rv, ok := c.reads[k]
				if !ok {
					rv = reflect.ValueOf(p.Get())
					c.reads[k] = rv
				}
				return rv
			}
		}
		return fields
	}

	v = addressable(v)
	t := v.Type()
	fields := make([]recordField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Tag.Get("partialeq") == "-" {
			continue
		}
		fields = append(fields, recordField{
			key:    NameKey(f.Name),
			hidden: !f.IsExported(),
			read:   func() reflect.Value { return fieldValue(v, f) },
		})
	}
	return fields
}

// closure returns the word a func variable holds. Closures created from one
// literal share their code pointer but not this word.
func closure(v reflect.Value) unsafe.Pointer {
	return *(*unsafe.Pointer)(addressable(v).Addr().UnsafePointer())
}

// addressable returns v or an addressable copy of it.
func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v
	}
	cp := reflect.New(v.Type()).Elem()
	cp.Set(v)
	return cp
}

// fieldValue reads a field of an addressable struct, unexported fields
// included, without the read-only flag reflect attaches to them.
func fieldValue(v reflect.Value, f reflect.StructField) reflect.Value {
	return reflect.NewAt(f.Type, unsafe.Add(v.Addr().UnsafePointer(), f.Offset)).Elem()
}

func (c *comparator) compareRecord(a, e reflect.Value, path Path, depth int) *Mismatch {
	actual := c.recordFields(a)
	index := make(map[Key]int, len(actual))
	for i, f := range actual {
		if _, dup := index[f.key]; !dup {
			index[f.key] = i
		}
	}
	for _, ef := range c.recordFields(e) {
		if ef.hidden && !c.opts.IncludeHidden {
			continue
		}
		if ef.key.IsSymbol() && !c.opts.IncludeSymbolKeys {
			continue
		}
		ev := ef.read()
		fp := path.field(ef.key)
		i, ok := index[ef.key]
		if !ok {
			return &Mismatch{Path: fp, Reason: MissingKey, Expected: describe(ev),
				Detail: "key absent from actual"}
		}
		if m := c.compare(actual[i].read(), ev, fp, depth+1); m != nil {
			return m
		}
	}
	return nil
}

func (c *comparator) compareBinary(a, e reflect.Value, path Path) *Mismatch {
	ab, eb := bytesOf(a), bytesOf(e)
	if bytes.Equal(ab, eb) {
		return nil
	}
	if len(ab) != len(eb) {
		return c.mismatch(path, ValueMismatch, a, e, fmt.Sprintf("length %d, want %d", len(ab), len(eb)))
	}
	for i := range eb {
		if ab[i] != eb[i] {
			return c.mismatch(path, ValueMismatch, a, e, fmt.Sprintf("first difference at offset %d", i))
		}
	}
	return nil
}

func (c *comparator) compareError(a, e reflect.Value, path Path) *Mismatch {
	if ac, ec := errorCategory(a), errorCategory(e); ac != ec {
		return c.mismatch(path, ValueMismatch, a, e, fmt.Sprintf("error category %s, want %s", ac, ec))
	}
	if a.Interface().(error).Error() != e.Interface().(error).Error() {
		return c.mismatch(path, ValueMismatch, a, e, "error message differs")
	}
	return nil
}

// errorCategory is the value of an ErrorCategory method if the error has
// one, and the unqualified name of its concrete type otherwise.
func errorCategory(v reflect.Value) string {
	if c, ok := v.Interface().(interface{ ErrorCategory() string }); ok {
		return c.ErrorCategory()
	}
	t := v.Type()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return typeName(t)
}

func bytesOf(v reflect.Value) []byte {
	if v.Kind() == reflect.Slice {
		return v.Bytes()
	}
	b := make([]byte, v.Len())
	for i := range b {
		b[i] = byte(v.Index(i).Uint())
	}
	return b
}

type numberClass int

const (
	notNumber numberClass = iota
	signedNumber
	unsignedNumber
	floatNumber
	complexNumber
)

func classOf(k reflect.Kind) numberClass {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return signedNumber
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return unsignedNumber
	case reflect.Float32, reflect.Float64:
		return floatNumber
	case reflect.Complex64, reflect.Complex128:
		return complexNumber
	}
	return notNumber
}

func isBig(t reflect.Type) bool {
	return t == bigIntType || t == bigFloatType || t == bigRatType
}

// equalPrimitive compares two primitives. Integers of any width compare by
// value; integers never equal floats; NaN equals NaN.
func equalPrimitive(a, e reflect.Value) bool {
	an, en := isNil(a), isNil(e)
	if an || en {
		return an && en
	}
	at, et := a.Type(), e.Type()
	if et == symbolType || at == symbolType {
		return at == et && a.Pointer() == e.Pointer()
	}
	if isBig(et) || isBig(at) {
		return at == et && equalBig(a, e)
	}

	ac, ec := classOf(a.Kind()), classOf(e.Kind())
	if ac != notNumber || ec != notNumber {
		return equalNumber(a, e, ac, ec)
	}
	if a.Kind() != e.Kind() {
		return false
	}
	switch e.Kind() {
	case reflect.Bool:
		return a.Bool() == e.Bool()
	case reflect.String:
		return a.String() == e.String()
	case reflect.Chan, reflect.UnsafePointer:
		return a.Pointer() == e.Pointer()
	case reflect.Pointer:
		// Only reference cycles reach here unresolved; they carry no data.
		return true
	}
	return false
}

func equalNumber(a, e reflect.Value, ac, ec numberClass) bool {
	switch {
	case ac == signedNumber && ec == signedNumber:
		return a.Int() == e.Int()
	case ac == unsignedNumber && ec == unsignedNumber:
		return a.Uint() == e.Uint()
	case ac == signedNumber && ec == unsignedNumber:
		return a.Int() >= 0 && uint64(a.Int()) == e.Uint()
	case ac == unsignedNumber && ec == signedNumber:
		return e.Int() >= 0 && a.Uint() == uint64(e.Int())
	case ac == floatNumber && ec == floatNumber:
		x, y := a.Float(), e.Float()
		return x == y || (math.IsNaN(x) && math.IsNaN(y))
	case ac == complexNumber && ec == complexNumber:
		return a.Complex() == e.Complex()
	}
	return false
}

func equalBig(a, e reflect.Value) bool {
	switch x := a.Interface().(type) {
	case *big.Int:
		return x.Cmp(e.Interface().(*big.Int)) == 0
	case *big.Float:
		return x.Cmp(e.Interface().(*big.Float)) == 0
	case *big.Rat:
		return x.Cmp(e.Interface().(*big.Rat)) == 0
	}
	return false
}
