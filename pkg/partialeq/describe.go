package partialeq

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"reflect"
	"regexp"
	"strconv"
	"time"

	"github.com/mattn/go-runewidth"
)

const maxDescribeLen = 64

// describe renders v for diagnostics. Composite values are summarized rather
// than walked, so the result is bounded even for cyclic graphs.
func describe(v reflect.Value) string {
	v, _ = resolve(v)
	if isNil(v) {
		return "nil"
	}
	switch classify(v) {
	case KindPrimitive:
		return truncate(describePrimitive(v))
	case KindRecord:
		if v.Type() == objectType {
			return fmt.Sprintf("object (%d properties)", v.Interface().(*Object).Len())
		}
		return fmt.Sprintf("%s (%d fields)", typeName(v.Type()), v.NumField())
	case KindSequence:
		return fmt.Sprintf("%s (len %d)", typeName(v.Type()), v.Len())
	case KindKeyValue:
		if v.Kind() == reflect.Map {
			return fmt.Sprintf("%s (%d entries)", typeName(v.Type()), v.Len())
		}
		return typeName(v.Type())
	case KindMembership:
		return fmt.Sprintf("%s (%d members)", typeName(v.Type()), v.Len())
	case KindTemporal:
		return v.Interface().(time.Time).Format(time.RFC3339Nano)
	case KindPattern:
		return truncate("/" + v.Interface().(*regexp.Regexp).String() + "/")
	case KindBinary:
		b := bytesOf(v)
		s := hex.EncodeToString(b)
		if len(s) > maxDescribeLen {
			s = s[:maxDescribeLen] + "..."
		}
		return fmt.Sprintf("bytes(%d) %s", len(b), s)
	case KindError:
		err := v.Interface().(error)
		return truncate(errorCategory(v) + ": " + err.Error())
	case KindFunction:
		return typeName(v.Type())
	case KindKeyHandle:
		return "key " + typeName(v.Type())
	case KindWeak:
		return "weak " + typeName(v.Type())
	}
	return typeName(v.Type())
}

func describePrimitive(v reflect.Value) string {
	switch v.Type() {
	case symbolType:
		return v.Interface().(*Symbol).String()
	case bigIntType:
		return v.Interface().(*big.Int).String() + "n"
	case bigFloatType:
		return v.Interface().(*big.Float).String()
	case bigRatType:
		return v.Interface().(*big.Rat).String()
	}
	switch v.Kind() {
	case reflect.String:
		return strconv.Quote(v.String())
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	case reflect.Complex64, reflect.Complex128:
		return strconv.FormatComplex(v.Complex(), 'g', -1, 128)
	case reflect.Chan, reflect.UnsafePointer:
		return fmt.Sprintf("%s(%#x)", typeName(v.Type()), v.Pointer())
	}
	return typeName(v.Type())
}

// formatKey renders a map key or set member for a path segment.
func formatKey(v reflect.Value) string {
	v, _ = resolve(v)
	if !isNil(v) && classify(v) == KindPrimitive {
		return truncate(describePrimitive(v))
	}
	return describe(v)
}

func typeName(t reflect.Type) string {
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

// truncate bounds the display width of s, cutting between runes.
func truncate(s string) string {
	return runewidth.Truncate(s, maxDescribeLen, "...")
}
