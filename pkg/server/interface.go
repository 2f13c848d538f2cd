/*
Package server implements msgpack IPC for completion entry services.

The server reads msgpack messages from stdin and writes one response per
message to stdout. Each message carries an ID that is echoed back.

# IPC

Completion requests send a title prefix and an optional limit:

	{"id": "req_001", "p": "sq", "l": 10}

The server responds with matching entries in file order:

	{"id": "req_001", "s": [{"t": "sqrt", "d": "Square root of a number", "x": "sqrt(argument: x)", "k": "function", "a": "x", "r": 1}], "c": 1, "t": 12}

x is the display text to insert into the editor field. t at the top level is
the lookup time in microseconds.

Management requests use the action field:

	{"id": "m_001", "action": "get_info"}
	{"id": "m_002", "action": "reload"}
	{"id": "m_003", "action": "update_config", "max_limit": 10, "enable_filter": false}

reload re-reads the completion file and swaps the active entries only when
the new file loads cleanly. update_config changes the server limits given in
the message, saves them to the config file and replies with the values now
in effect.

Errors are reported as {"id": ..., "e": message, "c": code}.
*/
package server

// Actions accepted in Request.Action. An empty action is a completion request.
const (
	ActionGetInfo      = "get_info"
	ActionReload       = "reload"
	ActionUpdateConfig = "update_config"
)

// Request is any message sent to the server
type Request struct {
	ID     string `msgpack:"id"`
	Prefix string `msgpack:"p"`
	Limit  int    `msgpack:"l,omitempty"`
	Action string `msgpack:"action,omitempty"`

	// update_config fields, nil when unchanged
	MaxLimit     *int  `msgpack:"max_limit,omitempty"`
	MinPrefix    *int  `msgpack:"min_prefix,omitempty"`
	MaxPrefix    *int  `msgpack:"max_prefix,omitempty"`
	EnableFilter *bool `msgpack:"enable_filter,omitempty"`
}

// EntrySuggestion - one matching completion entry
type EntrySuggestion struct {
	Title       string `msgpack:"t"`
	Description string `msgpack:"d"`
	Display     string `msgpack:"x"`
	Kind        string `msgpack:"k"`
	Arguments   string `msgpack:"a,omitempty"`
	Rank        uint16 `msgpack:"r"`
}

// CompletionResponse - completion response
type CompletionResponse struct {
	ID          string            `msgpack:"id"`
	Suggestions []EntrySuggestion `msgpack:"s"`
	Count       int               `msgpack:"c"`
	TimeTaken   int64             `msgpack:"t"`
}

// InfoResponse - counts about the active entries
type InfoResponse struct {
	ID        string `msgpack:"id"`
	Status    string `msgpack:"status"`
	Entries   int    `msgpack:"entries"`
	Functions int    `msgpack:"functions"`
	Constants int    `msgpack:"constants"`
	Source    string `msgpack:"source"`
}

// ReloadResponse - result of a reload request
type ReloadResponse struct {
	ID      string `msgpack:"id"`
	Status  string `msgpack:"status"`
	Error   string `msgpack:"error,omitempty"`
	Entries int    `msgpack:"entries"`
}

// ConfigResponse - server limits after an update_config request
type ConfigResponse struct {
	ID           string `msgpack:"id"`
	Status       string `msgpack:"status"`
	Error        string `msgpack:"error,omitempty"`
	MaxLimit     int    `msgpack:"max_limit"`
	MinPrefix    int    `msgpack:"min_prefix"`
	MaxPrefix    int    `msgpack:"max_prefix"`
	EnableFilter bool   `msgpack:"enable_filter"`
}

// CompletionError holds basic error information for failed requests
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
