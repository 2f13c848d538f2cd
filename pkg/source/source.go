// Package source obtains completion file bytes and hands them to the loader.
package source

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/bastiangx/entryserve/pkg/entry"
	"github.com/bastiangx/entryserve/pkg/loader"
	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
)

//go:embed data/completions.json
var bundled []byte

// BundledName labels the embedded completion file in logs and responses.
const BundledName = "bundled:completions.json"

// Size limits for a completion file on disk.
const (
	MinFileSize = 2       // "{}"
	MaxFileSize = 4 << 20 // completion files are small, anything bigger is a mistake
)

var (
	// ErrUnreadable means the completion file could not be obtained.
	ErrUnreadable = errors.New("completion file unreadable")
	// ErrNoEntries means the file holds no CompletionEntries array.
	ErrNoEntries = errors.New("no completion entries")
)

// Bundled returns a copy of the completion file compiled into the binary.
func Bundled() []byte {
	out := make([]byte, len(bundled))
	copy(out, bundled)
	return out
}

// Name returns the label used for path, which is the bundled file when empty.
func Name(path string) string {
	if path == "" {
		return BundledName
	}
	return path
}

// ReadFile validates and reads a completion file from disk.
func ReadFile(path string) ([]byte, error) {
	if err := ValidateFile(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "reading %s", path), ErrUnreadable)
	}
	return data, nil
}

// ValidateFile checks the extension and size of a completion file.
func ValidateFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "failed to stat file %s", path), ErrUnreadable)
	}
	if info.IsDir() {
		return errors.Wrapf(ErrUnreadable, "%s is a directory", path)
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".json" {
		return errors.WithHint(
			errors.Wrapf(ErrUnreadable, "file %s has invalid extension %q", path, ext),
			"completion files use the .json extension")
	}
	if info.Size() < MinFileSize {
		return errors.Wrapf(ErrUnreadable, "file %s is too small (%d bytes)", path, info.Size())
	}
	if info.Size() > MaxFileSize {
		return errors.Wrapf(ErrUnreadable, "file %s is too large (%d bytes, max %d)", path, info.Size(), MaxFileSize)
	}
	return nil
}

// Load reads the completion file at path, or the bundled one when path is
// empty, and parses it. A file without a CompletionEntries array yields
// ErrNoEntries.
func Load(path string) ([]entry.Entry, error) {
	var data []byte
	if path == "" {
		data = Bundled()
	} else {
		var err error
		if data, err = ReadFile(path); err != nil {
			return nil, err
		}
	}

	entries, found, err := loader.ParseBytes(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", Name(path))
	}
	if !found {
		return nil, errors.Wrapf(ErrNoEntries, "%s", Name(path))
	}
	log.Debugf("Loaded %d completion entries from %s", len(entries), Name(path))
	return entries, nil
}
