package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"empty string", "", `""`},
		{"int", 42, "42"},
		{"negative int", -100, "-100"},
		{"max int64", int64(9223372036854775807), "9223372036854775807"},
		{"bool", true, "true"},
		{"nil", nil, "null"},
		{"empty array", []int{}, "[]"},
		{"empty object", map[string]int{}, "{}"},
		{"array of ints", []int{1, 2, 3}, "[1,2,3]"},
		{"simple object", map[string]int{"a": 1}, `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalSortedKeys(t *testing.T) {
	obj := map[string]any{
		"zebra": 1,
		"alpha": map[string]int{"b": 1, "a": 2},
		"beta":  3,
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":{"a":2,"b":1},"beta":3,"zebra":1}`, string(result))
}

func TestMarshalCanonicalStructFieldsSorted(t *testing.T) {
	v := struct {
		Zeta  int    `json:"zeta"`
		Alpha string `json:"alpha"`
	}{Zeta: 1, Alpha: "x"}

	result, err := MarshalCanonical(v)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":"x","zeta":1}`, string(result))
}

func TestMarshalCanonicalUTF16Ordering(t *testing.T) {
	// U+10000 encodes as a surrogate pair starting 0xD800, which sorts
	// before U+E000 in UTF-16 but after it in UTF-8.
	obj := map[string]int{
		"\uE000":     1,
		"\U00010000": 2,
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, "{\"\U00010000\":2,\"\uE000\":1}", string(result))
}

func TestMarshalCanonicalNFC(t *testing.T) {
	decomposed := "cafe\u0301"
	composed := "caf\u00e9"

	a, err := MarshalCanonical(decomposed)
	require.NoError(t, err)
	b, err := MarshalCanonical(composed)
	require.NoError(t, err)
	assert.Equal(t, string(b), string(a))
	assert.Equal(t, "\"caf\u00e9\"", string(a))
}

func TestMarshalCanonicalEscaping(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"quote", `a"b`, `"a\"b"`},
		{"backslash", `a\b`, `"a\\b"`},
		{"newline", "a\nb", `"a\nb"`},
		{"tab", "a\tb", `"a\tb"`},
		{"control", "a\x01b", `"a\u0001b"`},
		{"html is not escaped", "<a&b>", `"<a&b>"`},
		{"slash is not escaped", "a/b", `"a/b"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalRejectsFloats(t *testing.T) {
	_, err := MarshalCanonical(map[string]any{"era": 3.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floats are forbidden")
	assert.Contains(t, err.Error(), `"era"`)

	_, err = MarshalCanonical([]any{1, 1e30})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[1]")
}

func TestMarshalCanonicalState(t *testing.T) {
	s, err := NewState(NewGameParams{GameID: "g1", HomeRoster: []string{"h1"}, AwayRoster: []string{"a1"}}, DefaultRules())
	require.NoError(t, err)

	first, err := MarshalCanonical(s)
	require.NoError(t, err)
	second, err := MarshalCanonical(s.Clone())
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.NotContains(t, string(first), " ")
	assert.Contains(t, string(first), `"gameStatus":"PRE_GAME"`)
}
