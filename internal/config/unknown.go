package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// LoadWithWarnings parses config data and returns any unknown field warnings.
func LoadWithWarnings(path string, data []byte) (*Config, []string, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	warnings := detectUnknownFields(data)

	return &cfg, warnings, nil
}

// detectUnknownFields compares raw JSON with known struct fields.
func detectUnknownFields(data []byte) []string {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// Config parsed already, so this indicates an internal inconsistency.
		return []string{"internal: failed to re-parse config for unknown field detection"}
	}

	warnings := unknownKeys(raw, reflect.TypeOf(Config{}), "at root level")

	sections := []struct {
		name string
		typ  reflect.Type
	}{
		{"fixtures", reflect.TypeOf(FixturesConfig{})},
		{"comparison", reflect.TypeOf(ComparisonConfig{})},
	}
	for _, s := range sections {
		sectionRaw, ok := raw[s.name]
		if !ok {
			continue
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(sectionRaw, &fields); err != nil {
			continue
		}
		warnings = append(warnings, unknownKeys(fields, s.typ, fmt.Sprintf("in %q", s.name))...)
	}

	return warnings
}

func unknownKeys(raw map[string]json.RawMessage, t reflect.Type, where string) []string {
	known := getJSONFields(t)
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var warnings []string
	for _, key := range keys {
		if key == "$schema" {
			continue // $schema is explicitly allowed and ignored
		}
		if !known[key] {
			warnings = append(warnings, fmt.Sprintf("unknown field %q %s (ignored)", key, where))
		}
	}
	return warnings
}

// getJSONFields returns a map of known JSON field names for a struct type.
func getJSONFields(t reflect.Type) map[string]bool {
	fields := make(map[string]bool)
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		if name := strings.Split(tag, ",")[0]; name != "" {
			fields[name] = true
		}
	}
	return fields
}
