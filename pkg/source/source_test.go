package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bastiangx/entryserve/pkg/entry"
	"github.com/bastiangx/entryserve/pkg/loader"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBundledParses(t *testing.T) {
	entries, found, err := loader.ParseBytes(Bundled())
	require.NoError(t, err)
	require.True(t, found)
	assert.NotEmpty(t, entries)

	loaded, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, len(entries), len(loaded))
}

func TestBundledReturnsCopy(t *testing.T) {
	b := Bundled()
	b[0] = 'x'
	assert.Equal(t, byte('{'), Bundled()[0])
}

func TestName(t *testing.T) {
	assert.Equal(t, BundledName, Name(""))
	assert.Equal(t, "/tmp/a.json", Name("/tmp/a.json"))
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "valid", path: writeFile(t, dir, "ok.json", `{"CompletionEntries": []}`)},
		{name: "wrong extension", path: writeFile(t, dir, "ok.txt", `{}`), wantErr: true},
		{name: "too small", path: writeFile(t, dir, "tiny.json", `{`), wantErr: true},
		{name: "missing", path: filepath.Join(dir, "nope.json"), wantErr: true},
		{name: "directory", path: dir, wantErr: true},
		{name: "too large", path: writeFile(t, dir, "big.json", strings.Repeat(" ", MaxFileSize+1)), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFile(tt.path)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnreadable), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	path := writeFile(t, dir, "math.json", `{"CompletionEntries": [
		{"completionType": 0, "title": "sin", "description": "sine", "arguments": "x"}
	]}`)
	entries, err := Load(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "sin(argument: x)", entries[0].DisplayText())

	empty := writeFile(t, dir, "empty.json", `{"CompletionEntries": []}`)
	entries, err = Load(empty)
	require.NoError(t, err)
	assert.Empty(t, entries)

	missingKey := writeFile(t, dir, "other.json", `{"Entries": []}`)
	_, err = Load(missingKey)
	assert.True(t, errors.Is(err, ErrNoEntries))

	bad := writeFile(t, dir, "bad.json", `{"CompletionEntries": [{"completionType": 9, "title": "x", "description": "y"}]}`)
	_, err = Load(bad)
	assert.True(t, errors.Is(err, loader.ErrInvalidCompletionType))

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.Is(err, ErrUnreadable))

	want, _, err := loader.ParseBytes(Bundled())
	require.NoError(t, err)
	entries, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, want, entries)
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "completions.json", `{"CompletionEntries": []}`)

	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Stop()
	w.SetDebounce(20 * time.Millisecond)

	reloaded := make(chan []entry.Entry, 4)
	w.OnReload(func(entries []entry.Entry) error {
		reloaded <- entries
		return nil
	})
	w.Start()

	// an invalid write must not reach the callbacks
	writeFile(t, dir, "completions.json", `{"CompletionEntries": [{"completionType": 5, "title": "x", "description": "y"}]}`)
	select {
	case <-reloaded:
		t.Fatal("callback called for an invalid file")
	case <-time.After(200 * time.Millisecond):
	}

	writeFile(t, dir, "completions.json", `{"CompletionEntries": [{"completionType": 1, "title": "PI", "description": "pi"}]}`)
	select {
	case entries := <-reloaded:
		require.Len(t, entries, 1)
		assert.Equal(t, "PI", entries[0].Title())
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after valid write")
	}
}

func TestNewWatcherRejectsBundled(t *testing.T) {
	_, err := NewWatcher("")
	assert.Error(t, err)
}
