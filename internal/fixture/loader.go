package fixture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/theory/jsonpath"

	"github.com/AndreyAkinshin/partialeq/internal/schema"
	"github.com/AndreyAkinshin/partialeq/pkg/partialeq"
)

// maxFileDepth bounds nested $file references.
const maxFileDepth = 16

// caseHeader holds the non-value fields of a case.
type caseHeader struct {
	Name    string      `json:"name"`
	Select  string      `json:"select"`
	Want    Want        `json:"want"`
	Reason  string      `json:"reason"`
	Path    string      `json:"path"`
	Options CaseOptions `json:"options"`
	Skip    bool        `json:"skip"`
}

// LoadFile loads every case of a fixture file.
func LoadFile(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := parseDocument(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if err := schema.ValidateFixture(doc); err != nil {
		return nil, err
	}

	rawCases := []any{doc}
	if m, ok := doc.(map[string]any); ok {
		if list, ok := m["cases"].([]any); ok {
			rawCases = list
		}
	}

	baseDir := filepath.Dir(path)
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	d := newDecoder()
	cases := make([]Case, 0, len(rawCases))
	for i, rc := range rawCases {
		c, err := buildCase(d, rc.(map[string]any), baseDir)
		if err != nil {
			return nil, fmt.Errorf("case %d: %w", i, err)
		}
		c.File = path
		c.Index = i
		if c.Name == "" {
			c.Name = fmt.Sprintf("%s#%d", base, i)
		}
		cases = append(cases, *c)
	}
	return cases, nil
}

func buildCase(d *decoder, raw map[string]any, baseDir string) (*Case, error) {
	var hdr caseHeader
	if err := decodeHeader(raw, &hdr); err != nil {
		return nil, err
	}

	c := &Case{
		Name:    hdr.Name,
		Want:    hdr.Want,
		Path:    hdr.Path,
		Options: hdr.Options,
		Skip:    hdr.Skip,
	}
	if c.Want == "" {
		c.Want = WantMatch
	}
	if hdr.Reason != "" {
		r, ok := partialeq.ParseReason(hdr.Reason)
		if !ok {
			return nil, fmt.Errorf("unknown reason %q", hdr.Reason)
		}
		c.Reason = r
	}

	for _, side := range []string{"actual", "expected"} {
		if _, ok := raw[side]; !ok {
			return nil, fmt.Errorf("%q: %w", c.Name, &partialeq.Mismatch{
				Reason: partialeq.ArityError,
				Detail: fmt.Sprintf("case has no %q value", side),
			})
		}
	}

	actual, err := resolveFileRefs(raw["actual"], baseDir, 0)
	if err != nil {
		return nil, fmt.Errorf("actual: %w", err)
	}
	expected, err := resolveFileRefs(raw["expected"], baseDir, 0)
	if err != nil {
		return nil, fmt.Errorf("expected: %w", err)
	}

	if hdr.Select != "" {
		if actual, err = selectNode(hdr.Select, actual); err != nil {
			return nil, err
		}
	}

	if c.Actual, err = d.side(actual); err != nil {
		return nil, fmt.Errorf("actual: %w", err)
	}
	if c.Expected, err = d.side(expected); err != nil {
		return nil, fmt.Errorf("expected: %w", err)
	}
	return c, nil
}

// decodeHeader fills hdr from the plain case object.
func decodeHeader(raw map[string]any, hdr *caseHeader) error {
	fields := make(map[string]any, len(raw))
	for k, v := range raw {
		if k != "actual" && k != "expected" {
			fields[k] = v
		}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("case header: %w", err)
	}
	if err := json.Unmarshal(data, hdr); err != nil {
		return fmt.Errorf("case header: %w", err)
	}
	return nil
}

// selectNode returns the first node of actual matched by a JSONPath query.
func selectNode(query string, actual any) (any, error) {
	path, err := jsonpath.Parse(query)
	if err != nil {
		return nil, fmt.Errorf("invalid select JSONPath %s: %w", query, err)
	}
	nodes := path.Select(actual)
	if len(nodes) == 0 {
		return nil, fmt.Errorf("select %s matched nothing in actual", query)
	}
	return nodes[0], nil
}

// resolveFileRefs recursively resolves $file references in fixture data.
func resolveFileRefs(value any, baseDir string, depth int) (any, error) {
	switch v := value.(type) {
	case map[string]any:
		if fileRef, ok := v["$file"].(string); ok {
			as, _ := v["as"].(string)
			for k := range v {
				if k != "$file" && k != "as" {
					return nil, fmt.Errorf("unexpected key %q next to $file", k)
				}
			}
			return loadFileRef(fileRef, as, baseDir, depth)
		}

		result := make(map[string]any, len(v))
		for key, val := range v {
			resolved, err := resolveFileRefs(val, baseDir, depth)
			if err != nil {
				return nil, err
			}
			result[key] = resolved
		}
		return result, nil

	case []any:
		result := make([]any, len(v))
		for i, val := range v {
			resolved, err := resolveFileRefs(val, baseDir, depth)
			if err != nil {
				return nil, err
			}
			result[i] = resolved
		}
		return result, nil

	default:
		return value, nil
	}
}

// loadFileRef loads a file referenced by $file. Documents are parsed and
// their own references resolved relative to them; as "bytes" or "text"
// forces the raw content.
func loadFileRef(ref, as, baseDir string, depth int) (any, error) {
	if depth >= maxFileDepth {
		return nil, fmt.Errorf("$file %q: references nested deeper than %d", ref, maxFileDepth)
	}
	// A local path is relative and lexically stays within baseDir.
	if !filepath.IsLocal(ref) {
		return nil, fmt.Errorf("$file path must stay inside the fixture directory: %s", ref)
	}
	path := filepath.Join(baseDir, ref)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("$file %q: %w", ref, err)
	}

	switch as {
	case "bytes":
		return data, nil
	case "text":
		return string(data), nil
	case "":
	default:
		return nil, fmt.Errorf("$file %q: unknown \"as\" %q (want bytes or text)", ref, as)
	}

	if !isDocument(filepath.Ext(path)) {
		return string(data), nil
	}
	doc, err := parseDocument(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("$file %q: %w", ref, err)
	}
	return resolveFileRefs(doc, filepath.Dir(path), depth+1)
}

// LoadPair loads two standalone documents for a one-off comparison. Both
// sides share one symbol namespace. A non-empty query selects the node of
// actual to compare.
func LoadPair(actualPath, expectedPath, query string) (actual, expected any, err error) {
	rawActual, err := loadDocument(actualPath)
	if err != nil {
		return nil, nil, err
	}
	rawExpected, err := loadDocument(expectedPath)
	if err != nil {
		return nil, nil, err
	}
	if query != "" {
		if rawActual, err = selectNode(query, rawActual); err != nil {
			return nil, nil, err
		}
	}

	d := newDecoder()
	if actual, err = d.side(rawActual); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", actualPath, err)
	}
	if expected, err = d.side(rawExpected); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", expectedPath, err)
	}
	return actual, expected, nil
}

// loadDocument parses a value document and resolves its $file references
// relative to it.
func loadDocument(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := parseDocument(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return resolveFileRefs(doc, filepath.Dir(path), 0)
}
