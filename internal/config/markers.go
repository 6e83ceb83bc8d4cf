package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMarkerDir is where step completion markers live. The installer
// only runs as root, so a system path is used rather than $HOME.
const DefaultMarkerDir = "/var/lib/wg-bot-setup"

// Markers manages step completion marker files.
type Markers struct {
	dir string
}

// NewMarkers creates a new Markers instance. An empty dir selects the
// default system location.
func NewMarkers(dir string) *Markers {
	if dir == "" {
		dir = DefaultMarkerDir
	}
	return &Markers{dir: dir}
}

// validateName rejects marker names that could escape the marker directory.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("marker name cannot be empty")
	}
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("marker name cannot contain path separators: %s", name)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("marker name cannot be '.' or '..': %s", name)
	}
	return nil
}

// Create creates a marker file (idempotent).
func (m *Markers) Create(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return fmt.Errorf("failed to create marker directory: %w", err)
	}

	file, err := os.Create(filepath.Join(m.dir, name))
	if err != nil {
		return fmt.Errorf("failed to create marker file: %w", err)
	}
	defer file.Close()

	return nil
}

// Exists checks if a marker file exists. A non-nil error means the check
// itself failed and the boolean should not be trusted.
func (m *Markers) Exists(name string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, err
	}
	_, err := os.Stat(filepath.Join(m.dir, name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check marker existence: %w", err)
}

// Remove deletes a marker file. Missing markers are not an error.
func (m *Markers) Remove(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(m.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// RemoveAll removes the marker directory and everything in it.
func (m *Markers) RemoveAll() error {
	if _, err := os.Stat(m.dir); os.IsNotExist(err) {
		return nil
	}
	return os.RemoveAll(m.dir)
}

// List returns all marker names.
func (m *Markers) List() ([]string, error) {
	if _, err := os.Stat(m.dir); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read marker directory: %w", err)
	}

	var markers []string
	for _, entry := range entries {
		if !entry.IsDir() {
			markers = append(markers, entry.Name())
		}
	}
	return markers, nil
}

// Dir returns the marker directory path.
func (m *Markers) Dir() string {
	return m.dir
}
