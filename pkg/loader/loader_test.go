package loader

import (
	"testing"

	"github.com/bastiangx/entryserve/pkg/entry"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(entries []entry.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Title())
	}
	return out
}

func TestParseBytes(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		found  bool
		titles []string
		fatal  error
	}{
		{
			name:   "empty array is found",
			input:  `{"CompletionEntries": []}`,
			found:  true,
			titles: []string{},
		},
		{
			name:  "missing key",
			input: `{"Other": []}`,
			found: false,
		},
		{
			name:  "entries not an array",
			input: `{"CompletionEntries": {"title": "PI"}}`,
			found: false,
		},
		{
			name:  "array holding a non-object",
			input: `{"CompletionEntries": [{"completionType":1,"title":"PI","description":"d"}, 3]}`,
			found: false,
		},
		{
			name:  "root is an array",
			input: `[{"completionType":1,"title":"PI","description":"d"}]`,
			found: false,
		},
		{
			name: "valid entries keep order",
			input: `{"CompletionEntries": [
				{"completionType":0,"title":"sin","description":"sine","arguments":"x"},
				{"completionType":1,"title":"PI","description":"circle constant"},
				{"completionType":0,"title":"rand","description":"random"}
			]}`,
			found:  true,
			titles: []string{"sin", "PI", "rand"},
		},
		{
			name: "malformed element truncates",
			input: `{"CompletionEntries": [
				{"completionType":1,"title":"PI","description":"circle constant"},
				{"title":"broken"},
				{"completionType":1,"title":"E","description":"euler"}
			]}`,
			found:  true,
			titles: []string{"PI"},
		},
		{
			name: "wrong typed title truncates",
			input: `{"CompletionEntries": [
				{"completionType":1,"title":42,"description":"x"}
			]}`,
			found:  true,
			titles: []string{},
		},
		{
			name: "fractional completion type truncates",
			input: `{"CompletionEntries": [
				{"completionType":0,"title":"cos","description":"cosine"},
				{"completionType":0.5,"title":"bad","description":"x"}
			]}`,
			found:  true,
			titles: []string{"cos"},
		},
		{
			name: "string completion type truncates",
			input: `{"CompletionEntries": [
				{"completionType":"0","title":"bad","description":"x"}
			]}`,
			found:  true,
			titles: []string{},
		},
		{
			name: "integral float completion type accepted",
			input: `{"CompletionEntries": [
				{"completionType":1.0,"title":"TAU","description":"two pi"}
			]}`,
			found:  true,
			titles: []string{"TAU"},
		},
		{
			name: "unknown completion type aborts",
			input: `{"CompletionEntries": [
				{"completionType":1,"title":"PI","description":"circle constant"},
				{"completionType":7,"title":"bad","description":"x"}
			]}`,
			fatal: ErrInvalidCompletionType,
		},
		{
			name: "non-string arguments aborts",
			input: `{"CompletionEntries": [
				{"completionType":0,"title":"sin","description":"sine","arguments":["x"]}
			]}`,
			fatal: ErrMalformedArguments,
		},
		{
			name: "null arguments aborts",
			input: `{"CompletionEntries": [
				{"completionType":0,"title":"sin","description":"sine","arguments":null}
			]}`,
			fatal: ErrMalformedArguments,
		},
		{
			name:  "invalid json",
			input: `{"CompletionEntries": [`,
			fatal: ErrInvalidJSON,
		},
		{
			name:  "trailing data",
			input: `{"CompletionEntries": []} {}`,
			fatal: ErrInvalidJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, found, err := ParseBytes([]byte(tt.input))
			if tt.fatal != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.fatal), "got %v", err)
				assert.Nil(t, entries)
				assert.False(t, found)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.found, found)
			if !tt.found {
				assert.Nil(t, entries)
				return
			}
			require.NotNil(t, entries)
			assert.Equal(t, tt.titles, titles(entries))
		})
	}
}

func TestParseEntryFields(t *testing.T) {
	input := `{"CompletionEntries": [
		{"completionType":0,"title":"sin","description":"sine","arguments":"x"},
		{"completionType":1,"title":"PI","description":"circle constant","arguments":"ignored"},
		{"completionType":0,"title":"rand","description":"random"}
	]}`

	entries, found, err := ParseBytes([]byte(input))
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, entries, 3)

	assert.Equal(t, entry.Function, entries[0].Kind())
	assert.Equal(t, "sine", entries[0].Description())
	assert.Equal(t, "sin(argument: x)", entries[0].DisplayText())

	assert.Equal(t, entry.Constant, entries[1].Kind())
	args, ok := entries[1].Arguments()
	assert.True(t, ok)
	assert.Equal(t, "ignored", args)
	assert.Equal(t, "PI", entries[1].DisplayText())

	_, ok = entries[2].Arguments()
	assert.False(t, ok)
	assert.Equal(t, "rand", entries[2].DisplayText())
}

func TestParseGenericValue(t *testing.T) {
	// values as produced by json.Unmarshal without UseNumber
	root := map[string]any{
		EntriesKey: []any{
			map[string]any{TypeKey: float64(1), TitleKey: "PI", DescriptionKey: "circle constant"},
			map[string]any{TypeKey: int64(0), TitleKey: "ln", DescriptionKey: "log", ArgumentsKey: "x"},
		},
	}

	entries, found, err := Parse(root)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"PI", "ln"}, titles(entries))

	_, found, err = Parse(nil)
	assert.NoError(t, err)
	assert.False(t, found)

	_, found, err = Parse("CompletionEntries")
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestParseFatalDiscardsPartialEntries(t *testing.T) {
	root := map[string]any{
		EntriesKey: []any{
			map[string]any{TypeKey: 1, TitleKey: "PI", DescriptionKey: "circle constant"},
			map[string]any{TypeKey: 0, TitleKey: "exp", DescriptionKey: "e^x"},
			map[string]any{TypeKey: 7, TitleKey: "bad", DescriptionKey: "unknown"},
		},
	}

	entries, found, err := Parse(root)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCompletionType))
	assert.Contains(t, err.Error(), "entry 2")
	assert.Nil(t, entries)
	assert.False(t, found)
}

func TestExtractInteger(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int64
		ok    bool
	}{
		{name: "int", value: 3, want: 3, ok: true},
		{name: "float integral", value: float64(2), want: 2, ok: true},
		{name: "float fractional", value: 2.5, ok: false},
		{name: "bool", value: true, ok: false},
		{name: "nil", value: nil, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractInteger(map[string]any{"k": tt.value}, "k")
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
