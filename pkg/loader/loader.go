/*
Package loader converts completion files into entries.

A completion file is a JSON object holding a "CompletionEntries" array:

	{
	  "CompletionEntries": [
	    {"completionType": 0, "title": "sin", "description": "sine", "arguments": "x"},
	    {"completionType": 1, "title": "PI", "description": "circle constant"}
	  ]
	}

completionType 0 is a function and 1 is a constant. The optional arguments
string is only shown for functions.

# Outcomes

Parse distinguishes three kinds of bad input:

  - the document has no usable "CompletionEntries" array: nothing to show,
    reported as found == false without an error.
  - an element lacks completionType, title or description, or has them with
    the wrong type: parsing stops there and the entries read so far are
    returned.
  - an element has an unknown completionType code or a non-string arguments
    value: the whole parse fails and no entries are returned.

The loader never touches the filesystem. Obtaining the bytes is the job of
the source package.
*/
package loader

import (
	"bytes"
	"encoding/json"

	"github.com/bastiangx/entryserve/pkg/entry"
	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
)

// Field names of the completion file.
const (
	EntriesKey     = "CompletionEntries"
	TypeKey        = "completionType"
	TitleKey       = "title"
	DescriptionKey = "description"
	ArgumentsKey   = "arguments"
)

var (
	// ErrInvalidJSON is returned by ParseBytes when the data is not JSON.
	ErrInvalidJSON = errors.New("invalid completion JSON")
	// ErrInvalidCompletionType marks an element whose completionType is not a known kind.
	ErrInvalidCompletionType = errors.New("invalid completion type")
	// ErrMalformedArguments marks an element whose arguments field is not a string.
	ErrMalformedArguments = errors.New("malformed arguments")
)

// ParseBytes decodes data and parses the result with Parse.
func ParseBytes(data []byte) ([]entry.Entry, bool, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, false, errors.Mark(errors.Wrap(err, "decoding completion file"), ErrInvalidJSON)
	}
	if dec.More() {
		return nil, false, errors.WithHint(
			errors.Wrap(ErrInvalidJSON, "trailing data after completion document"),
			"a completion file holds exactly one JSON object")
	}
	return Parse(root)
}

// Parse converts a decoded JSON value into entries, in file order.
//
// found is false when root has no "CompletionEntries" array of objects.
// A malformed element truncates the result without an error. An unknown
// completionType or non-string arguments aborts the parse: the entries
// read so far are discarded and err is set.
func Parse(root any) (entries []entry.Entry, found bool, err error) {
	obj, ok := asObject(root)
	if !ok {
		log.Debug("Completion root is not an object")
		return nil, false, nil
	}
	elements, ok := asObjectArray(obj[EntriesKey])
	if !ok {
		log.Debugf("No %s array of objects found", EntriesKey)
		return nil, false, nil
	}

	entries = make([]entry.Entry, 0, len(elements))
	for i, element := range elements {
		code, okType := extractInteger(element, TypeKey)
		title, okTitle := extractString(element, TitleKey)
		description, okDesc := extractString(element, DescriptionKey)
		if !okType || !okTitle || !okDesc {
			log.Warnf("Malformed completion entry at index %d, keeping %d of %d entries", i, len(entries), len(elements))
			break
		}

		kind, ok := entry.KindFromCode(code)
		if !ok {
			return nil, false, errors.WithHint(
				errors.Wrapf(ErrInvalidCompletionType, "entry %d (%q) has completionType %d", i, title, code),
				"use 0 for functions and 1 for constants")
		}

		args, argErr := extractArguments(element)
		if argErr != nil {
			return nil, false, errors.Wrapf(argErr, "entry %d (%q)", i, title)
		}

		entries = append(entries, entry.New(kind, title, description, args))
	}

	return entries, true, nil
}

// extractArguments returns nil when the field is absent. Any present value
// that is not a string, null included, is an error.
func extractArguments(element map[string]any) (*string, error) {
	raw, present := element[ArgumentsKey]
	if !present {
		return nil, nil
	}
	args, ok := raw.(string)
	if !ok {
		return nil, errors.WithDetailf(ErrMalformedArguments, "arguments has type %T", raw)
	}
	return &args, nil
}
