package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/scorebook/internal/game"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Path     string // Stat or state path that was checked
	Expected string // Human-readable expected value
	Actual   string // Human-readable actual value
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s %s\n", e.Type, e.Path)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// assertStat checks a box-score counter.
func assertStat(result *Result, a Assertion) error {
	got, err := result.Stats.Lookup(a.Path)
	if err != nil {
		return &AssertionError{Type: AssertStat, Path: a.Path, Expected: fmt.Sprint(a.Equals), Actual: err.Error()}
	}
	if want, _ := a.Equals.(int); got != want {
		return &AssertionError{Type: AssertStat, Path: a.Path, Expected: strconv.Itoa(want), Actual: strconv.Itoa(got)}
	}
	return nil
}

// assertState checks one field of the final game state, addressed by its
// JSON field names.
func assertState(result *Result, a Assertion) error {
	got, err := lookupState(result.State, a.Path)
	if err != nil {
		return &AssertionError{Type: AssertState, Path: a.Path, Expected: jsonText(a.Equals), Actual: err.Error()}
	}
	want, have := jsonText(a.Equals), jsonText(got)
	if want != have {
		return &AssertionError{Type: AssertState, Path: a.Path, Expected: want, Actual: have}
	}
	return nil
}

// lookupState resolves a dotted path in the JSON form of s. Numeric
// segments index arrays. A missing last segment resolves to nil, since
// empty fields such as bases are omitted.
func lookupState(s *game.State, path string) (any, error) {
	if s == nil {
		return nil, fmt.Errorf("no state")
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var cur any
	if err := dec.Decode(&cur); err != nil {
		return nil, err
	}

	parts := strings.Split(path, ".")
	for i, part := range parts {
		last := i == len(parts)-1
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[part]
			if !ok {
				if last {
					return nil, nil
				}
				return nil, fmt.Errorf("state path %q: no field %q", path, part)
			}
			cur = v
		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, fmt.Errorf("state path %q: bad index %q", path, part)
			}
			cur = node[idx]
		default:
			return nil, fmt.Errorf("state path %q: %q is not an object or array", path, strings.Join(parts[:i], "."))
		}
	}
	return cur, nil
}

// jsonText renders v as compact JSON so YAML and decoded JSON values
// compare by content.
func jsonText(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// EvaluateAssertions runs all assertions and returns failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertStat:
			err = assertStat(result, a)
		case AssertState:
			err = assertState(result, a)
		default:
			err = fmt.Errorf("unknown assertion type: %s", a.Type)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d: %v", i, err))
		}
	}
	return errs
}
