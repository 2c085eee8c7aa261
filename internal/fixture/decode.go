package fixture

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"weak"

	"github.com/itchyny/timefmt-go"

	"github.com/AndreyAkinshin/partialeq/pkg/partialeq"
)

// Error is the value of an {"$error": ...} fixture. Its category is the
// error's "type" companion, "Error" by default.
type Error struct {
	Category string
	Message  string
}

func (e *Error) Error() string { return e.Message }

// ErrorCategory implements the category hook of the comparator.
func (e *Error) ErrorCategory() string { return e.Category }

// companions lists the keys allowed next to each tag.
var companions = map[string][]string{
	"$time":   {"format"},
	"$error":  {"type"},
	"$key":    {"public"},
	"$regexp": nil,
	"$bytes":  nil,
	"$set":    nil,
	"$map":    nil,
	"$bigint": nil,
	"$float":  nil,
	"$symbol": nil,
	"$weak":   nil,
	"$get":    nil,
	"$ref":    nil,
}

// decoder turns plain fixture values into the Go values they denote.
// Symbols are shared by every decode of one file; $id names are scoped to
// one side of one case.
type decoder struct {
	symbols map[string]*partialeq.Symbol
	ids     map[string]*partialeq.Object
}

func newDecoder() *decoder {
	return &decoder{symbols: make(map[string]*partialeq.Symbol)}
}

// side decodes one side of a case.
func (d *decoder) side(v any) (any, error) {
	d.ids = make(map[string]*partialeq.Object)
	return d.decode(v, "$")
}

func (d *decoder) symbol(name string) *partialeq.Symbol {
	s, ok := d.symbols[name]
	if !ok {
		s = partialeq.NewSymbol(name)
		d.symbols[name] = s
	}
	return s
}

func (d *decoder) decode(v any, at string) (any, error) {
	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			dv, err := d.decode(e, fmt.Sprintf("%s[%d]", at, i))
			if err != nil {
				return nil, err
			}
			out[i] = dv
		}
		return out, nil
	case map[string]any:
		tag, err := tagOf(x)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", at, err)
		}
		if tag == "" {
			return d.object(x, at)
		}
		dv, err := d.tagged(tag, x, at)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", at, tag, err)
		}
		return dv, nil
	}
	return v, nil
}

// tagOf returns the tag of a tagged value, or "" for a plain object.
// Objects carrying $id or $hidden are plain objects.
func tagOf(m map[string]any) (string, error) {
	var tag string
	for k := range m {
		if _, ok := companions[k]; ok {
			if tag != "" {
				return "", fmt.Errorf("conflicting tags %s and %s", min(tag, k), max(tag, k))
			}
			tag = k
		}
	}
	if tag == "" {
		for k := range m {
			if k == "$file" {
				return "", errors.New("unresolved $file reference")
			}
			if strings.HasPrefix(k, "$") && !strings.HasPrefix(k, "$$") && k != "$id" && k != "$hidden" {
				return "", fmt.Errorf("unknown tag %s (write $%s for a literal key)", k, k)
			}
		}
		return "", nil
	}
	allowed := companions[tag]
	for k := range m {
		if k != tag && !contains(allowed, k) {
			return "", fmt.Errorf("unexpected key %q next to %s", k, tag)
		}
	}
	return tag, nil
}

func contains(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}

func (d *decoder) object(m map[string]any, at string) (any, error) {
	o := partialeq.NewObject()
	if raw, ok := m["$id"]; ok {
		id, ok := raw.(string)
		if !ok || id == "" {
			return nil, fmt.Errorf("%s: $id must be a non-empty string", at)
		}
		if _, dup := d.ids[id]; dup {
			return nil, fmt.Errorf("%s: duplicate $id %q", at, id)
		}
		d.ids[id] = o
	}

	for _, k := range sortedKeys(m) {
		switch k {
		case "$id":
			continue
		case "$hidden":
			hidden, ok := m[k].(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%s: $hidden must be an object", at)
			}
			for _, hk := range sortedKeys(hidden) {
				p, err := d.property(hk, hidden[hk], at)
				if err != nil {
					return nil, err
				}
				p.Hidden = true
				o.Define(p)
			}
			continue
		}
		p, err := d.property(k, m[k], at)
		if err != nil {
			return nil, err
		}
		o.Define(p)
	}
	return o, nil
}

// property decodes one object entry. "@@name" keys are symbol keys and
// "$$name" keys are literal "$name" keys. A {"$get": v} value makes the
// property an accessor returning v.
func (d *decoder) property(k string, v any, at string) (partialeq.Property, error) {
	var p partialeq.Property
	switch {
	case strings.HasPrefix(k, "@@"):
		p.Key = partialeq.SymbolKey(d.symbol(k[2:]))
	case strings.HasPrefix(k, "$$"):
		p.Key = partialeq.NameKey(k[1:])
	default:
		p.Key = partialeq.NameKey(k)
	}

	childAt := at + "." + k
	if m, ok := v.(map[string]any); ok {
		if inner, ok := m["$get"]; ok && len(m) == 1 {
			dv, err := d.decode(inner, childAt)
			if err != nil {
				return p, err
			}
			p.Get = func() any { return dv }
			return p, nil
		}
	}
	dv, err := d.decode(v, childAt)
	if err != nil {
		return p, err
	}
	p.Value = dv
	return p, nil
}

func (d *decoder) tagged(tag string, m map[string]any, at string) (any, error) {
	arg := m[tag]
	switch tag {
	case "$time":
		s, err := stringArg(arg)
		if err != nil {
			return nil, err
		}
		if format, ok := m["format"]; ok {
			f, ok := format.(string)
			if !ok {
				return nil, errors.New("format must be a string")
			}
			return timefmt.Parse(s, f)
		}
		return time.Parse(time.RFC3339Nano, s)
	case "$regexp":
		s, err := stringArg(arg)
		if err != nil {
			return nil, err
		}
		return regexp.Compile(s)
	case "$bytes":
		switch b := arg.(type) {
		case []byte:
			return b, nil
		case string:
			return base64.StdEncoding.DecodeString(b)
		}
		return nil, errors.New("want a base64 string")
	case "$set":
		list, ok := arg.([]any)
		if !ok {
			return nil, errors.New("want an array of members")
		}
		set := make(map[any]struct{}, len(list))
		for i, e := range list {
			dv, err := d.decode(e, fmt.Sprintf("%s{%d}", at, i))
			if err != nil {
				return nil, err
			}
			key, err := keyable(dv)
			if err != nil {
				return nil, fmt.Errorf("member %d: %w", i, err)
			}
			set[key] = struct{}{}
		}
		return set, nil
	case "$map":
		list, ok := arg.([]any)
		if !ok {
			return nil, errors.New("want an array of [key, value] pairs")
		}
		out := make(map[any]any, len(list))
		for i, e := range list {
			kv, ok := e.([]any)
			if !ok || len(kv) != 2 {
				return nil, fmt.Errorf("entry %d: want a [key, value] pair", i)
			}
			key, err := d.decode(kv[0], fmt.Sprintf("%s[%d]", at, i))
			if err != nil {
				return nil, err
			}
			if key, err = keyable(key); err != nil {
				return nil, fmt.Errorf("entry %d: %w", i, err)
			}
			val, err := d.decode(kv[1], fmt.Sprintf("%s[%d]", at, i))
			if err != nil {
				return nil, err
			}
			out[key] = val
		}
		return out, nil
	case "$error":
		msg, err := stringArg(arg)
		if err != nil {
			return nil, err
		}
		category := "Error"
		if t, ok := m["type"]; ok {
			if category, ok = t.(string); !ok {
				return nil, errors.New("type must be a string")
			}
		}
		return &Error{Category: category, Message: msg}, nil
	case "$bigint":
		s := fmt.Sprint(arg)
		n, ok := new(big.Int).SetString(s, 0)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", s)
		}
		return n, nil
	case "$float":
		switch f := arg.(type) {
		case float64:
			return f, nil
		case int64:
			return float64(f), nil
		case string:
			return strconv.ParseFloat(f, 64)
		}
		return nil, errors.New("want a number or a string such as \"NaN\"")
	case "$symbol":
		s, err := stringArg(arg)
		if err != nil {
			return nil, err
		}
		return d.symbol(s), nil
	case "$weak":
		return weak.Make(new(int)), nil
	case "$key":
		s, err := stringArg(arg)
		if err != nil {
			return nil, err
		}
		seed, err := hex.DecodeString(s)
		if err != nil {
			return nil, err
		}
		if len(seed) != ed25519.SeedSize {
			return nil, fmt.Errorf("seed has %d bytes, want %d", len(seed), ed25519.SeedSize)
		}
		priv := ed25519.NewKeyFromSeed(seed)
		if public, _ := m["public"].(bool); public {
			return priv.Public().(ed25519.PublicKey), nil
		}
		return priv, nil
	case "$get":
		return d.decode(arg, at)
	case "$ref":
		s, err := stringArg(arg)
		if err != nil {
			return nil, err
		}
		o, ok := d.ids[s]
		if !ok {
			return nil, fmt.Errorf("unknown $id %q (a reference must follow the object it names)", s)
		}
		return o, nil
	}
	return nil, fmt.Errorf("unsupported tag")
}

func stringArg(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("want a string, got %T", v)
	}
	return s, nil
}

// keyable returns v in a form usable as a map key. Arrays and byte strings
// are keyed by a pointer to them, so like objects they are distinct members
// even when their contents are equal.
func keyable(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return &x, nil
	case []byte:
		return &x, nil
	}
	if !reflect.TypeOf(v).Comparable() {
		return nil, fmt.Errorf("%s is not usable as a key", partialeq.KindOf(v))
	}
	return v, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
