// Package entry defines the completion entries offered to an editor text field.
package entry

// Kind classifies an entry as a function or a constant.
type Kind int

const (
	Function Kind = iota // code 0
	Constant             // code 1
)

// KindFromCode maps the numeric completionType code used in completion files.
// Codes other than 0 and 1 are not valid kinds.
func KindFromCode(code int64) (Kind, bool) {
	switch code {
	case 0:
		return Function, true
	case 1:
		return Constant, true
	}
	return 0, false
}

func (k Kind) String() string {
	switch k {
	case Function:
		return "function"
	case Constant:
		return "constant"
	}
	return "unknown"
}

// argumentOpen and argumentClose wrap a function's argument hint in its display text.
const (
	argumentOpen  = "(argument: "
	argumentClose = ")"
)

// Entry is a single completion suggestion. It is immutable once built.
type Entry struct {
	kind        Kind
	title       string
	description string
	arguments   string
	hasArgs     bool
}

// New builds an entry. A nil args means the entry carries no argument hint.
// Construction never fails; field validation belongs to the loader.
func New(kind Kind, title, description string, args *string) Entry {
	e := Entry{
		kind:        kind,
		title:       title,
		description: description,
	}
	if args != nil {
		e.arguments = *args
		e.hasArgs = true
	}
	return e
}

// WithArguments builds an entry whose argument hint is present.
func WithArguments(kind Kind, title, description, args string) Entry {
	return New(kind, title, description, &args)
}

func (e Entry) Kind() Kind          { return e.kind }
func (e Entry) Title() string       { return e.title }
func (e Entry) Description() string { return e.description }

// Arguments returns the argument hint and whether one was supplied.
func (e Entry) Arguments() (string, bool) {
	return e.arguments, e.hasArgs
}

// IsFunction reports whether the entry is a function.
func (e Entry) IsFunction() bool {
	return e.kind == Function
}

// DisplayText is the string inserted into the input field.
// Only functions with an argument hint get the "(argument: ...)" suffix.
func (e Entry) DisplayText() string {
	if e.IsFunction() && e.hasArgs {
		return e.title + argumentOpen + e.arguments + argumentClose
	}
	return e.title
}
