// Package cli handles cmd line input and entry suggestions for DBG and testing
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/entryserve/internal/logger"
	"github.com/bastiangx/entryserve/internal/utils"
	"github.com/bastiangx/entryserve/pkg/entry"
	"github.com/bastiangx/entryserve/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	functionStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"})
	constantStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#d7827e", Dark: "#ebbcba"})
	detailStyle   = lipgloss.NewStyle().Faint(true)
)

// InputHandler reads prefixes line by line and prints the matching entries.
// It accepts many flags to control behavior such as minimum and maximum
// prefix length, suggestion limits, and filtering options.
type InputHandler struct {
	completer       suggest.ICompleter
	minPrefixLength int
	maxPrefixLength int
	suggestLimit    int
	noFilter        bool
	in              io.Reader
	out             io.Writer
	logger          *log.Logger
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(completer suggest.ICompleter, minLength, maxLength, limit int, noFilter bool, in io.Reader, out io.Writer) *InputHandler {
	return &InputHandler{
		completer:       completer,
		minPrefixLength: minLength,
		maxPrefixLength: maxLength,
		suggestLimit:    limit,
		noFilter:        noFilter,
		in:              in,
		out:             out,
		logger:          logger.New("cli"),
	}
}

// Start begins the interface loop and returns nil once input ends.
func (h *InputHandler) Start() error {
	fmt.Fprintln(h.out, "entryserve CLI [BETA]")
	fmt.Fprintf(h.out, "%d entries loaded, type a prefix and press Enter (Ctrl+C to exit):\n", len(h.completer.Entries()))

	reader := bufio.NewReader(h.in)
	for {
		fmt.Fprint(h.out, "> ")
		line, err := reader.ReadString('\n')
		prefix := strings.TrimSpace(line)
		if prefix != "" {
			h.handleInput(prefix)
		}
		if err != nil {
			if err == io.EOF {
				fmt.Fprintln(h.out)
				return nil
			}
			return err
		}
	}
}

// handleInput validates a prefix and prints its suggestions
func (h *InputHandler) handleInput(prefix string) {
	length := utf8.RuneCountInString(prefix)
	if length < h.minPrefixLength {
		h.logger.Errorf("Prefix too short: %s", prefix)
		return
	}
	if length > h.maxPrefixLength {
		h.logger.Errorf("Prefix too long: %s", prefix)
		return
	}
	if !h.noFilter && !utils.IsValidInput(prefix) {
		fmt.Fprintf(h.out, "No suggestions found for prefix: '%s' (filtered out)\n", prefix)
		return
	}

	start := time.Now()
	suggestions := h.completer.Complete(prefix, h.suggestLimit)
	h.logger.Debugf("Took [ %v ] for prefix '%s'", time.Since(start), prefix)

	if len(suggestions) == 0 {
		fmt.Fprintf(h.out, "No suggestions found for prefix: '%s'\n", prefix)
		return
	}

	fmt.Fprintf(h.out, "Found %d suggestions for prefix '%s':\n", len(suggestions), prefix)
	for i, e := range suggestions {
		fmt.Fprintf(h.out, "%2d. %s\n", i+1, formatEntry(e))
	}
}

func formatEntry(e entry.Entry) string {
	style := constantStyle
	if e.IsFunction() {
		style = functionStyle
	}
	return fmt.Sprintf("%-32s %s", style.Render(e.DisplayText()),
		detailStyle.Render(fmt.Sprintf("[%s] %s", e.Kind(), e.Description())))
}
