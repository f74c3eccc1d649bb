package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Policy decides what happens to an existing output directory
type Policy string

const (
	// PolicyOverwrite deletes the directory and everything in it, then recreates it
	PolicyOverwrite Policy = "overwrite"
	// PolicyFailIfExists refuses to touch a directory that already has entries
	PolicyFailIfExists Policy = "fail-if-exists"
	// PolicyMerge creates the directory if needed and keeps existing files
	PolicyMerge Policy = "merge"
)

// ErrOutputExists is returned by PolicyFailIfExists for a non-empty directory
var ErrOutputExists = errors.New("output directory already exists and is not empty")

// ParsePolicy validates a policy name
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyOverwrite, PolicyFailIfExists, PolicyMerge:
		return p, nil
	default:
		return "", fmt.Errorf("unknown output policy %q", s)
	}
}

// Manager handles file storage inside a single output directory
type Manager struct {
	outputDir string
	written   map[string]int
	mu        sync.Mutex
}

// NewManager prepares outputDir according to policy and returns a manager for it
func NewManager(outputDir string, policy Policy) (*Manager, error) {
	if err := prepare(outputDir, policy); err != nil {
		return nil, err
	}

	return &Manager{
		outputDir: outputDir,
		written:   make(map[string]int),
	}, nil
}

func prepare(dir string, policy Policy) error {
	switch policy {
	case PolicyOverwrite:
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to clear output directory: %w", err)
		}
	case PolicyFailIfExists:
		entries, err := os.ReadDir(dir)
		if err == nil && len(entries) > 0 {
			return fmt.Errorf("%s: %w", dir, ErrOutputExists)
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to inspect output directory: %w", err)
		}
	case PolicyMerge:
	default:
		return fmt.Errorf("unknown output policy %q", policy)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// WriteFile replaces name with data through a temporary file and a rename
func (m *Manager) WriteFile(name string, data []byte) error {
	filename := m.Path(name)

	out, err := os.CreateTemp(m.outputDir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tempFile := out.Name()

	_, err = out.Write(data)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	if closeErr != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Chmod(tempFile, 0644); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to set file mode: %w", err)
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	m.record(name)
	return nil
}

// AppendFile appends data to name, creating it when missing
func (m *Manager) AppendFile(name string, data []byte) error {
	f, err := os.OpenFile(m.Path(name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}

	_, err = f.Write(data)
	closeErr := f.Close()
	if err != nil {
		return fmt.Errorf("failed to append to %s: %w", name, err)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close %s: %w", name, closeErr)
	}

	m.record(name)
	return nil
}

func (m *Manager) record(name string) {
	m.mu.Lock()
	m.written[name]++
	m.mu.Unlock()
}

// Remove deletes name from the output directory. A missing file is not an error.
func (m *Manager) Remove(name string) error {
	if err := os.Remove(m.Path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}

	m.mu.Lock()
	delete(m.written, name)
	m.mu.Unlock()
	return nil
}

// Path returns the full path of name inside the output directory
func (m *Manager) Path(name string) string {
	return filepath.Join(m.outputDir, name)
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}

// WrittenCount returns the number of distinct files written through this manager
func (m *Manager) WrittenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.written)
}

// Files returns the sorted names of files written through this manager
func (m *Manager) Files() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.written))
	for name := range m.written {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
