package schema

import (
	"encoding/json"
	"io/fs"
	"reflect"
	"sort"
	"testing"

	"github.com/AndreyAkinshin/partialeq/pkg/partialeq"
)

func readSchema(t *testing.T, name string) map[string]any {
	t.Helper()
	data, err := FS.ReadFile(name)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("%s is not a JSON object: %v", name, err)
	}
	return v
}

// lookup follows a chain of object keys.
func lookup(t *testing.T, v map[string]any, keys ...string) any {
	t.Helper()
	var cur any = v
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			t.Fatalf("lookup %v: %q is not under an object", keys, k)
		}
		if cur, ok = m[k]; !ok {
			t.Fatalf("lookup %v: no %q", keys, k)
		}
	}
	return cur
}

func propertyNames(t *testing.T, v any) []string {
	t.Helper()
	props, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("properties are %T, want an object", v)
	}
	names := make([]string, 0, len(props))
	for k := range props {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func TestEmbeddedSchemas(t *testing.T) {
	t.Parallel()

	names, err := fs.Glob(FS, "*.schema.json")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"config.schema.json", "fixture.schema.json"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("embedded schemas = %v, want %v", names, want)
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			s := readSchema(t, name)
			if got := s["$schema"]; got != "https://json-schema.org/draft/2020-12/schema" {
				t.Errorf("$schema = %v", got)
			}
			if got := s["$id"]; got != name {
				t.Errorf("$id = %v, want %s", got, name)
			}
		})
	}
}

func TestFixtureSchema_ReasonCodes(t *testing.T) {
	t.Parallel()
	s := readSchema(t, "fixture.schema.json")

	var got []string
	for _, r := range lookup(t, s, "$defs", "case", "properties", "reason", "enum").([]any) {
		got = append(got, r.(string))
	}
	var want []string
	for r := partialeq.ArityError; r <= partialeq.DepthExceeded; r++ {
		want = append(want, r.Code())
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("reason enum = %v, want %v", got, want)
	}
}

// Case options and the config comparison section accept the same knobs.
func TestSchemas_ComparisonOptionsAgree(t *testing.T) {
	t.Parallel()
	fixture := readSchema(t, "fixture.schema.json")
	config := readSchema(t, "config.schema.json")

	caseOpts := propertyNames(t, lookup(t, fixture, "$defs", "case", "properties", "options", "properties"))
	shared := propertyNames(t, lookup(t, config, "$defs", "comparison", "properties"))
	if !reflect.DeepEqual(caseOpts, shared) {
		t.Errorf("case options %v differ from config comparison %v", caseOpts, shared)
	}
}
