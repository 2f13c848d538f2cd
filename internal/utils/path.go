package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
)

// AppName names the config directory.
const AppName = "entryserve"

// DefaultEntriesFile is looked up in the config dir when no completion file is given.
const DefaultEntriesFile = "completions.json"

// PathResolver resolves config and completion file locations relative to
// the executable, the working directory and the user config dir
type PathResolver struct {
	executableDir string
	homeDir       string
	configDir     string
}

// NewPathResolver creates a new path resolver that determines the executable location
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := NewPathResolverAt(filepath.Dir(execPath), homeDir, configDirFor(homeDir))
	log.Debugf("PathResolver initialized: execDir=%s, configDir=%s", pr.executableDir, pr.configDir)
	return pr, nil
}

// NewPathResolverAt builds a resolver over fixed directories
func NewPathResolverAt(executableDir, homeDir, configDir string) *PathResolver {
	return &PathResolver{
		executableDir: executableDir,
		homeDir:       homeDir,
		configDir:     configDir,
	}
}

// configDirFor returns the appropriate config directory for the platform
func configDirFor(homeDir string) string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, ".config", AppName)
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, AppName)
		}
		return filepath.Join(homeDir, ".config", AppName)
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, AppName)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", AppName)
	default:
		return filepath.Join(homeDir, "."+AppName)
	}
}

// GetEntriesPath resolves the completion file. An empty request resolves to
// DefaultEntriesFile in the config dir when present, otherwise to "" which
// selects the bundled file.
// Relative paths are tried against the working directory, then the executable dir.
func (pr *PathResolver) GetEntriesPath(requested string) (string, error) {
	if requested == "" {
		candidate := filepath.Join(pr.configDir, DefaultEntriesFile)
		if FileExists(candidate) {
			log.Debugf("Found completion file in config dir: %s", candidate)
			return candidate, nil
		}
		return "", nil
	}

	for _, candidate := range pr.entriesCandidates(requested) {
		if FileExists(candidate) {
			log.Debugf("Found completion file: %s", candidate)
			return candidate, nil
		}
		log.Debugf("Completion file candidate not found: %s", candidate)
	}
	return "", errors.Wrapf(os.ErrNotExist, "completion file %s", requested)
}

func (pr *PathResolver) entriesCandidates(requested string) []string {
	if filepath.IsAbs(requested) {
		return []string{requested}
	}
	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, requested))
	}
	return append(candidates,
		filepath.Join(pr.executableDir, requested),
		filepath.Join(pr.configDir, requested),
	)
}

// GetConfigPath returns the full path for a config file.
// It falls back to other writable locations when the config dir is read-only.
func (pr *PathResolver) GetConfigPath(filename string) (string, error) {
	if CheckDirStatus(pr.configDir).Writable {
		return filepath.Join(pr.configDir, filename), nil
	}

	fallbackDirs := []string{
		filepath.Join(pr.homeDir, "."+AppName),
		filepath.Join(os.TempDir(), AppName),
		pr.executableDir,
	}
	for _, dir := range fallbackDirs {
		if CheckDirStatus(dir).Writable {
			path := filepath.Join(dir, filename)
			log.Warnf("Using fallback config location: %s", path)
			return path, nil
		}
	}
	return "", errors.Newf("no writable location for %s", filename)
}

// GetConfigDir returns the config directory
func (pr *PathResolver) GetConfigDir() string {
	return pr.configDir
}
