package partialeq

import (
	"crypto"
	"math/big"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"
)

// Kind is the comparison shape of a value.
type Kind int

const (
	KindPrimitive  Kind = iota // scalars, strings, nil, big numbers, symbols
	KindRecord                 // structs and *Object
	KindSequence               // slices and arrays
	KindKeyValue               // maps and *sync.Map
	KindMembership             // map[K]struct{}
	KindTemporal               // time.Time
	KindPattern                // *regexp.Regexp
	KindBinary                 // byte slices and byte arrays
	KindError                  // values implementing error
	KindFunction               // funcs
	KindKeyHandle              // crypto keys
	KindWeak                   // weak pointers and pools
)

var kindNames = [...]string{
	KindPrimitive:  "primitive",
	KindRecord:     "record",
	KindSequence:   "sequence",
	KindKeyValue:   "key-value collection",
	KindMembership: "membership collection",
	KindTemporal:   "temporal value",
	KindPattern:    "pattern",
	KindBinary:     "binary buffer",
	KindError:      "error",
	KindFunction:   "function",
	KindKeyHandle:  "key handle",
	KindWeak:       "weak collection",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// composite reports whether values of this kind have children and therefore
// take part in cycle detection.
func (k Kind) composite() bool {
	switch k {
	case KindRecord, KindSequence, KindKeyValue, KindMembership:
		return true
	}
	return false
}

var (
	symbolType      = reflect.TypeOf((*Symbol)(nil))
	objectType      = reflect.TypeOf((*Object)(nil))
	bigIntType      = reflect.TypeOf((*big.Int)(nil))
	bigFloatType    = reflect.TypeOf((*big.Float)(nil))
	bigRatType      = reflect.TypeOf((*big.Rat)(nil))
	timeType        = reflect.TypeOf(time.Time{})
	regexpType      = reflect.TypeOf((*regexp.Regexp)(nil))
	syncMapType     = reflect.TypeOf((*sync.Map)(nil))
	syncPoolType    = reflect.TypeOf((*sync.Pool)(nil))
	errorType       = reflect.TypeOf((*error)(nil)).Elem()
	publicKeyType   = reflect.TypeOf((*crypto.PublicKey)(nil)).Elem()
	privateKeyType  = reflect.TypeOf((*crypto.PrivateKey)(nil)).Elem()
	emptyStructType = reflect.TypeOf(struct{}{})
)

// KindOf returns the comparison kind of v.
func KindOf(v any) Kind {
	rv, _ := resolve(reflect.ValueOf(v))
	return classify(rv)
}

// classify returns the kind of a resolved value. Only the value's shape is
// consulted; methods a value defines to describe itself are ignored.
func classify(v reflect.Value) Kind {
	if isNil(v) {
		return KindPrimitive
	}
	t := v.Type()
	switch t {
	case symbolType, bigIntType, bigFloatType, bigRatType:
		return KindPrimitive
	case timeType:
		return KindTemporal
	case regexpType:
		return KindPattern
	case objectType:
		return KindRecord
	case syncMapType:
		return KindKeyValue
	case syncPoolType, syncPoolType.Elem():
		return KindWeak
	}
	// ed25519 keys are byte slices, so key handles come before buffers.
	if isKeyHandle(t) {
		return KindKeyHandle
	}
	if isWeakPointer(t) {
		return KindWeak
	}
	if t.Implements(errorType) {
		return KindError
	}
	switch t.Kind() {
	case reflect.Struct:
		return KindRecord
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return KindBinary
		}
		return KindSequence
	case reflect.Map:
		if t.Elem() == emptyStructType {
			return KindMembership
		}
		return KindKeyValue
	case reflect.Func:
		return KindFunction
	}
	return KindPrimitive
}

// opaquePointer reports whether a pointer type is classified as itself
// rather than through the value it points to.
func opaquePointer(t reflect.Type) bool {
	switch t {
	case symbolType, objectType, bigIntType, bigFloatType, bigRatType, regexpType, syncMapType, syncPoolType:
		return true
	}
	return isKeyHandle(t) || t.Implements(errorType)
}

// isKeyHandle matches the Equal method every crypto key type in the standard
// library defines.
func isKeyHandle(t reflect.Type) bool {
	m, ok := t.MethodByName("Equal")
	if !ok {
		return false
	}
	// In(0) is the receiver.
	mt := m.Type
	return mt.NumIn() == 2 && keyParam(mt.In(1)) && mt.NumOut() == 1 && mt.Out(0).Kind() == reflect.Bool
}

func keyParam(t reflect.Type) bool {
	return t == publicKeyType || t == privateKeyType
}

func isWeakPointer(t reflect.Type) bool {
	return t.PkgPath() == "weak" && strings.HasPrefix(t.Name(), "Pointer[")
}

// isNil reports whether v is an untyped nil or a nil reference of any kind.
func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return v.IsNil()
	}
	return false
}

// identity locates a composite value in memory.
type identity struct {
	typ reflect.Type
	ptr uintptr
	len int
}

func (id identity) valid() bool { return id.ptr != 0 }

// resolve strips interfaces and plain pointers. It returns the value to
// classify and the identity of the innermost reference crossed on the way.
// A chain of references that leads back to itself (x = &x) stops at the
// first repeated pointer, which is returned unresolved.
func resolve(v reflect.Value) (reflect.Value, identity) {
	var id identity
	var buf [4]identity
	crossed := buf[:0]
	for v.IsValid() {
		switch v.Kind() {
		case reflect.Interface:
			if v.IsNil() {
				return v, id
			}
			v = v.Elem()
			continue
		case reflect.Pointer:
			if v.IsNil() || opaquePointer(v.Type()) {
				return v, identity{typ: v.Type(), ptr: v.Pointer()}
			}
			id = identity{typ: v.Type(), ptr: v.Pointer()}
			for _, c := range crossed {
				if c == id {
					return v, id
				}
			}
			crossed = append(crossed, id)
			v = v.Elem()
			continue
		case reflect.Map:
			if !v.IsNil() {
				id = identity{typ: v.Type(), ptr: v.Pointer()}
			}
		case reflect.Slice:
			if !v.IsNil() {
				id = identity{typ: v.Type(), ptr: v.Pointer(), len: v.Len()}
			}
		}
		return v, id
	}
	return v, id
}
