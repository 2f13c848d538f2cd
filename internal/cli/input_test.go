package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bastiangx/entryserve/pkg/entry"
	"github.com/bastiangx/entryserve/pkg/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(input string, out *bytes.Buffer) *InputHandler {
	completer := suggest.NewCompleter([]entry.Entry{
		entry.WithArguments(entry.Function, "sqrt", "square root", "x"),
		entry.New(entry.Constant, "SQRT2", "square root of two", nil),
		entry.New(entry.Constant, "PI", "circle constant", nil),
	})
	return NewInputHandler(completer, 1, 8, 10, false, strings.NewReader(input), out)
}

func TestInputHandlerPrintsSuggestions(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, newHandler("sq\n", &out).Start())

	got := out.String()
	assert.Contains(t, got, "3 entries loaded")
	assert.Contains(t, got, "Found 2 suggestions for prefix 'sq'")
	assert.Contains(t, got, "sqrt(argument: x)")
	assert.Contains(t, got, "[constant] square root of two")
}

func TestInputHandlerSkipsInvalidPrefixes(t *testing.T) {
	var out bytes.Buffer
	// the last line has no newline and is still handled
	require.NoError(t, newHandler("\n1+1\nzz\nthisistoolong\nPI", &out).Start())

	got := out.String()
	assert.Contains(t, got, "'1+1' (filtered out)")
	assert.Contains(t, got, "No suggestions found for prefix: 'zz'")
	assert.NotContains(t, got, "thisistoolong'")
	assert.Contains(t, got, "Found 1 suggestions for prefix 'PI'")
}

func TestInputHandlerCountsRunes(t *testing.T) {
	completer := suggest.NewCompleter([]entry.Entry{
		entry.New(entry.Constant, "ñu", "wildebeest", nil),
	})
	var out bytes.Buffer
	h := NewInputHandler(completer, 1, 2, 10, true, strings.NewReader("ñu\n"), &out)
	require.NoError(t, h.Start())

	assert.Contains(t, out.String(), "Found 1 suggestions for prefix 'ñu'")
}
