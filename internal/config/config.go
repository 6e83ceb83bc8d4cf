// Package config manages the wg-bot environment file and the installer's
// completion markers. The environment file is a flat KEY=VALUE file consumed
// by systemd via EnvironmentFile=, so it must stay free of comments with
// shell-significant content and must never be world readable.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// DefaultEnvFilePath is where the installer persists the bot configuration.
const DefaultEnvFilePath = "/etc/wg-bot/wg-bot.env"

// EnvFile manages the bot environment file with thread-safe operations.
type EnvFile struct {
	filePath string
	data     map[string]string
	loaded   bool
	mu       sync.RWMutex
}

// New creates a new EnvFile instance. An empty path selects the default
// location used by the systemd unit.
func New(filePath string) *EnvFile {
	if filePath == "" {
		filePath = DefaultEnvFilePath
	}
	return &EnvFile{
		filePath: filePath,
		data:     make(map[string]string),
	}
}

// ensureLoaded loads data from disk once before read operations. The
// first load mutates e.data, so it must run under the write lock even on
// read paths. Callers must not hold e.mu.
func (e *EnvFile) ensureLoaded() error {
	e.mu.RLock()
	loaded := e.loaded
	e.mu.RUnlock()
	if loaded {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loaded {
		return nil
	}
	return e.load()
}

// Load reads the environment file from disk. A missing file is not an
// error; it will be created on Save.
func (e *EnvFile) Load() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.load()
}

func (e *EnvFile) load() error {
	if _, err := os.Stat(e.filePath); os.IsNotExist(err) {
		e.loaded = true
		return nil
	}

	file, err := os.Open(e.filePath)
	if err != nil {
		return fmt.Errorf("failed to open env file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			e.data[key] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	e.loaded = true
	return nil
}

// Save writes the environment file atomically (temp file + rename) with
// mode 0600. Known keys are written first in their canonical order so the
// file stays diffable across re-runs; unknown keys follow sorted.
func (e *EnvFile) Save() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.save()
}

func (e *EnvFile) save() error {
	dir := filepath.Dir(e.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create env file directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".wg-bot.env.tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if err := tmpFile.Chmod(0600); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to set permissions on temp file: %w", err)
	}

	for _, key := range e.orderedKeys() {
		fmt.Fprintf(tmpFile, "%s=%s\n", key, e.data[key])
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, e.filePath); err != nil {
		return fmt.Errorf("failed to rename temp file to env file: %w", err)
	}

	return nil
}

// orderedKeys returns the canonical bot keys first, then any extra keys
// sorted. Must be called while holding e.mu.
func (e *EnvFile) orderedKeys() []string {
	keys := make([]string, 0, len(e.data))
	seen := make(map[string]bool, len(e.data))
	for _, key := range BotKeys {
		if _, ok := e.data[key]; ok {
			keys = append(keys, key)
			seen[key] = true
		}
	}
	var extra []string
	for key := range e.data {
		if !seen[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

// Get retrieves a value. Missing keys are an error.
func (e *EnvFile) Get(key string) (string, error) {
	if err := e.ensureLoaded(); err != nil {
		return "", fmt.Errorf("failed to load env file: %w", err)
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	value, exists := e.data[key]
	if !exists {
		return "", fmt.Errorf("env key not found: %s", key)
	}
	return value, nil
}

// GetOrDefault retrieves a value, falling back to the Defaults table and
// then to the provided fallback.
func (e *EnvFile) GetOrDefault(key, fallback string) string {
	if err := e.ensureLoaded(); err != nil {
		return fallback
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if value, exists := e.data[key]; exists {
		return value
	}
	if tableDefault, exists := Defaults[key]; exists {
		return tableDefault
	}
	return fallback
}

// Set stores a value and persists the file. Existing content is loaded
// first so a partial configure re-run never drops keys.
func (e *EnvFile) Set(key, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		if err := e.load(); err != nil {
			return fmt.Errorf("failed to load existing env file before set: %w", err)
		}
	}

	e.data[key] = value
	return e.save()
}

// SetAll replaces the values for the given keys and persists once.
func (e *EnvFile) SetAll(values map[string]string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		if err := e.load(); err != nil {
			return fmt.Errorf("failed to load existing env file before set: %w", err)
		}
	}

	for key, value := range values {
		e.data[key] = value
	}
	return e.save()
}

// Exists checks whether a key is present.
func (e *EnvFile) Exists(key string) bool {
	if err := e.ensureLoaded(); err != nil {
		return false
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	_, exists := e.data[key]
	return exists
}

// GetAll returns a copy of all key-value pairs.
func (e *EnvFile) GetAll() map[string]string {
	if err := e.ensureLoaded(); err != nil {
		return map[string]string{}
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	result := make(map[string]string, len(e.data))
	for k, v := range e.data {
		result[k] = v
	}
	return result
}

// MissingBotKeys returns the canonical bot keys that are not yet set.
// Optional keys count as present when set to the empty string.
func (e *EnvFile) MissingBotKeys() []string {
	all := e.GetAll()
	var missing []string
	for _, key := range BotKeys {
		if _, ok := all[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// FilePath returns the environment file path.
func (e *EnvFile) FilePath() string {
	return e.filePath
}
