// Copyright 2025 The entryserve Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the entryserve completion server and CLI [DBG] application.

entryserve loads a completion file describing functions and constants and
serves them as autocomplete entries for an editor text field. Each entry has
a title, a description and, for functions, an optional argument hint. The
text inserted into the field is the title, followed by "(argument: hint)"
for functions that have one.

# Usage

Start the server with the bundled completion file:

	entryserve

Use a custom completion file and enable debug mode:

	entryserve -entries /path/to/completions.json -d

Run in CLI mode for interactive testing:

	entryserve -c -limit 10

# Completion file

	{
	  "CompletionEntries": [
	    {"completionType": 0, "title": "sqrt", "description": "Square root", "arguments": "x"},
	    {"completionType": 1, "title": "PI", "description": "Circle constant"}
	  ]
	}

completionType 0 is a function and 1 is a constant. Loading stops at the
first entry missing a required field and keeps the entries before it. An
unknown completionType or a non-string arguments value rejects the file.

# Configuration

Runtime configuration lives in a TOML file that is created with defaults
when missing:

	[server]
	max_limit = 64
	min_prefix = 1
	max_prefix = 60
	enable_filter = true

	[entries]
	path = ""
	watch = true

	[cli]
	default_limit = 24

An empty entries path uses the completion file compiled into the binary, or
completions.json in the config directory when one exists. With watch enabled
the server reloads the completion file when it changes on disk.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout, see package
server for the message layout. Logs go to stderr.

# Command Line Flags

	-entries string
	    Completion file (default: config, then bundled)
	-config string
	    Config file path
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of suggestions to return in CLI mode
	-prmin int
	    Minimum prefix length for suggestions
	-prmax int
	    Maximum prefix length for suggestions
	-no-filter
	    Disable input filtering for debugging
	-no-watch
	    Do not reload the completion file on change
*/
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/entryserve/internal/cli"
	"github.com/bastiangx/entryserve/internal/utils"
	"github.com/bastiangx/entryserve/pkg/config"
	"github.com/bastiangx/entryserve/pkg/entry"
	"github.com/bastiangx/entryserve/pkg/server"
	"github.com/bastiangx/entryserve/pkg/source"
	"github.com/bastiangx/entryserve/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
)

const (
	Version = "0.1.0-beta"
	AppName = "entryserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires the packages together and only manages the flow.
func main() {
	sigHandler()
	log.SetOutput(os.Stderr)
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	entriesFile := flag.String("entries", "", "Completion JSON file (empty: config value, then bundled file)")
	configFile := flag.String("config", "", "Path to the TOML config file")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	opts := cliOptions{}
	flag.IntVar(&opts.limit, "limit", defaultConfig.CLI.DefaultLimit, "Number of suggestions to return")
	flag.IntVar(&opts.minPrefix, "prmin", defaultConfig.CLI.DefaultMinLen, "Minimum prefix length for suggestions")
	flag.IntVar(&opts.maxPrefix, "prmax", defaultConfig.CLI.DefaultMaxLen, "Maximum prefix length for suggestions")
	flag.BoolVar(&opts.noFilter, "no-filter", defaultConfig.CLI.DefaultNoFilter, "Disable input filtering (DBG only)")
	noWatch := flag.Bool("no-watch", false, "Do not reload the completion file when it changes")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Warnf("Failed to initialize path resolver: %v", err)
		pathResolver = nil
	}

	appConfig, configPath := config.LoadConfigWithPriority(*configFile, pathResolver)
	log.Debugf("Active config: %s", utils.GetAbsolutePath(configPath))

	requested := *entriesFile
	if requested == "" {
		requested = appConfig.Entries.Path
	}
	entriesPath, err := resolveEntriesPath(pathResolver, requested)
	if err != nil {
		log.Fatalf("Failed to locate completion file: %v", err)
	}

	entries, err := loadEntries(entriesPath)
	if err != nil {
		log.Fatalf("Failed to load completion entries: %v", err)
	}
	completer := suggest.NewCompleter(entries)
	log.Debug("Completer ready", "entries", completer.Len(), "source", source.Name(entriesPath))

	// CLI would be mainly used for testing and dbg purposes.
	if *cliMode {
		log.SetReportTimestamp(false)
		opts = opts.withConfigDefaults(flag.CommandLine, appConfig.CLI)
		log.Debug("Input info:",
			"minPrefix", opts.minPrefix,
			"maxPrefix", opts.maxPrefix,
			"limit", opts.limit,
			"noFilter", opts.noFilter)

		inputHandler := opts.inputHandler(completer, os.Stdin, os.Stdout)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	srv := server.NewServer(completer, appConfig, configPath, entriesPath, os.Stdin, os.Stdout)

	if appConfig.Entries.Watch && !*noWatch && entriesPath != "" {
		watcher, err := source.NewWatcher(entriesPath)
		if err != nil {
			log.Warnf("Completion file will not be reloaded on change: %v", err)
		} else {
			watcher.OnReload(srv.Swap)
			watcher.Start()
			defer watcher.Stop()
		}
	}

	showStartupInfo(entriesPath, completer.Len())

	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// cliOptions holds the CLI mode flags.
type cliOptions struct {
	limit     int
	minPrefix int
	maxPrefix int
	noFilter  bool
}

// withConfigDefaults takes the [cli] config value for every flag not set on
// the command line.
func (o cliOptions) withConfigDefaults(fs *flag.FlagSet, cfg config.CliConfig) cliOptions {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	if !set["limit"] {
		o.limit = cfg.DefaultLimit
	}
	if !set["prmin"] {
		o.minPrefix = cfg.DefaultMinLen
	}
	if !set["prmax"] {
		o.maxPrefix = cfg.DefaultMaxLen
	}
	if !set["no-filter"] {
		o.noFilter = cfg.DefaultNoFilter
	}
	return o
}

func (o cliOptions) inputHandler(completer suggest.ICompleter, in io.Reader, out io.Writer) *cli.InputHandler {
	return cli.NewInputHandler(completer, o.minPrefix, o.maxPrefix, o.limit, o.noFilter, in, out)
}

// resolveEntriesPath falls back to the requested path as given when no resolver is available.
func resolveEntriesPath(resolver *utils.PathResolver, requested string) (string, error) {
	if resolver == nil {
		return requested, nil
	}
	return resolver.GetEntriesPath(requested)
}

// loadEntries treats a file without a CompletionEntries array as nothing to
// show. Every other failure aborts startup.
func loadEntries(path string) ([]entry.Entry, error) {
	entries, err := source.Load(path)
	if errors.Is(err, source.ErrNoEntries) {
		log.Warnf("%v, starting with no entries", err)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ entryserve ] Function and constant completions for editor fields")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(entriesPath string, count int) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	log.Infof("%s %s", AppName, Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("entries: %d from ( %s )", count, source.Name(entriesPath))
	log.Info("status: ready")

	log.SetLevel(currentLevel)
}
