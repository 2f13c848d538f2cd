package server

import (
	"io"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/entryserve/internal/logger"
	"github.com/bastiangx/entryserve/internal/utils"
	"github.com/bastiangx/entryserve/pkg/config"
	"github.com/bastiangx/entryserve/pkg/entry"
	"github.com/bastiangx/entryserve/pkg/source"
	"github.com/bastiangx/entryserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for entry completions
type Server struct {
	completer   atomic.Pointer[suggest.Completer]
	config      *config.Config
	configPath  string
	entriesPath string
	decoder     *msgpack.Decoder
	encoder     *msgpack.Encoder
	writeMu     sync.Mutex
	logger      *log.Logger
}

// NewServer creates a server reading requests from r and writing responses to w.
// configPath is where update_config saves, "" to keep changes in memory.
// entriesPath is the completion file used by reload, "" for the bundled one.
func NewServer(completer *suggest.Completer, cfg *config.Config, configPath, entriesPath string, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Server{
		config:      cfg,
		configPath:  configPath,
		entriesPath: entriesPath,
		decoder:     msgpack.NewDecoder(r),
		encoder:     msgpack.NewEncoder(w),
		logger:      logger.New("server"),
	}
	if completer == nil {
		completer = suggest.NewCompleter(nil)
	}
	s.completer.Store(completer)
	return s
}

// Swap replaces the active entries. Safe to call while Start is running.
func (s *Server) Swap(entries []entry.Entry) error {
	s.completer.Store(suggest.NewCompleter(entries))
	s.logger.Debug("Swapped active entries", "entries", len(entries))
	return nil
}

// Completer returns the active completer
func (s *Server) Completer() *suggest.Completer {
	return s.completer.Load()
}

// Start processes messages until the input ends
func (s *Server) Start() error {
	s.logger.Debug("Starting server", "source", source.Name(s.entriesPath))
	for {
		raw, err := s.decoder.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debug("Input closed")
				return nil
			}
			s.sendError("", "Unreadable message stream", 400)
			return errors.Wrap(err, "reading request")
		}
		s.handleMessage(raw)
	}
}

// handleMessage decodes one message and routes it by action
func (s *Server) handleMessage(raw msgpack.RawMessage) {
	var req Request
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		s.logger.Error("Decoding request", "error", err)
		s.sendError("", "Invalid request", 400)
		return
	}

	switch req.Action {
	case "":
		s.handleComplete(req)
	case ActionGetInfo:
		s.handleInfo(req)
	case ActionReload:
		s.handleReload(req)
	case ActionUpdateConfig:
		s.handleUpdateConfig(req)
	default:
		s.sendError(req.ID, "Unknown action: "+req.Action, 400)
	}
}

func (s *Server) handleComplete(req Request) {
	cfg := s.config.Server
	prefix := req.Prefix
	length := utf8.RuneCountInString(prefix)

	if length < cfg.MinPrefix {
		s.sendError(req.ID, "Prefix too short", 400)
		return
	}
	if length > cfg.MaxPrefix {
		s.sendError(req.ID, "Prefix too long", 400)
		return
	}

	limit := req.Limit
	if limit < 1 || limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}

	start := time.Now()
	var matches []entry.Entry
	if !cfg.EnableFilter || prefix == "" || utils.IsValidInput(prefix) {
		matches = s.completer.Load().Complete(prefix, limit)
	} else {
		s.logger.Debug("Prefix filtered out", "prefix", prefix)
	}
	elapsed := time.Since(start)

	ranks := utils.CreateRankList(len(matches))
	suggestions := make([]EntrySuggestion, len(matches))
	for i, e := range matches {
		args, _ := e.Arguments()
		if !e.IsFunction() {
			args = ""
		}
		suggestions[i] = EntrySuggestion{
			Title:       e.Title(),
			Description: e.Description(),
			Display:     e.DisplayText(),
			Kind:        e.Kind().String(),
			Arguments:   args,
			Rank:        ranks[i],
		}
	}

	s.send(CompletionResponse{
		ID:          req.ID,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) handleInfo(req Request) {
	stats := s.completer.Load().Stats()
	s.send(InfoResponse{
		ID:        req.ID,
		Status:    "ok",
		Entries:   stats["totalEntries"],
		Functions: stats["functions"],
		Constants: stats["constants"],
		Source:    source.Name(s.entriesPath),
	})
}

func (s *Server) handleReload(req Request) {
	entries, err := source.Load(s.entriesPath)
	if err != nil {
		s.logger.Error("Reload failed, keeping previous entries", "error", err)
		s.send(ReloadResponse{
			ID:      req.ID,
			Status:  "error",
			Error:   err.Error(),
			Entries: s.completer.Load().Len(),
		})
		return
	}
	_ = s.Swap(entries)
	s.send(ReloadResponse{ID: req.ID, Status: "ok", Entries: len(entries)})
}

func (s *Server) handleUpdateConfig(req Request) {
	resp := ConfigResponse{ID: req.ID, Status: "ok"}
	if err := s.config.Update(s.configPath, req.MaxLimit, req.MinPrefix, req.MaxPrefix, req.EnableFilter); err != nil {
		s.logger.Error("Saving config", "path", s.configPath, "error", err)
		resp.Status = "error"
		resp.Error = err.Error()
	} else {
		s.logger.Debug("Config updated", "path", s.configPath)
	}

	cfg := s.config.Server
	resp.MaxLimit = cfg.MaxLimit
	resp.MinPrefix = cfg.MinPrefix
	resp.MaxPrefix = cfg.MaxPrefix
	resp.EnableFilter = cfg.EnableFilter
	s.send(resp)
}

// send encodes one response
func (s *Server) send(response any) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.encoder.Encode(response); err != nil {
		s.logger.Error("Encoding response", "error", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.send(CompletionError{ID: id, Error: message, Code: code})
}
