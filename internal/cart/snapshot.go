package cart

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// fileSnapshotter persists the cart as a single JSON file, the server-side
// analog of the browser's one localStorage key.
type fileSnapshotter struct {
	path   string
	logger zerolog.Logger
}

// NewFileSnapshotter creates a snapshotter writing to the given path. Parent
// directories are created on demand.
func NewFileSnapshotter(path string, logger zerolog.Logger) Snapshotter {
	return &fileSnapshotter{
		path:   path,
		logger: logger.With().Str("component", "cart-snapshot").Logger(),
	}
}

// Save overwrites the snapshot file with the full line set.
func (s *fileSnapshotter) Save(lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}

	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to marshal cart snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	// Write to a temp file then rename so a crash mid-write never leaves a
	// truncated snapshot.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cart snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace cart snapshot: %w", err)
	}

	s.logger.Debug().Int("lines", len(lines)).Msg("cart snapshot saved")
	return nil
}

// Load reads the last snapshot. A missing file yields an empty cart.
func (s *fileSnapshotter) Load() ([]Line, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cart snapshot: %w", err)
	}

	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart snapshot: %w", err)
	}

	return lines, nil
}

// memorySnapshotter keeps the snapshot in memory. Used by tests and as a
// fallback when no snapshot path is configured.
type memorySnapshotter struct {
	lines []Line
}

// NewMemorySnapshotter creates an in-memory snapshotter.
func NewMemorySnapshotter() Snapshotter {
	return &memorySnapshotter{}
}

func (s *memorySnapshotter) Save(lines []Line) error {
	s.lines = make([]Line, len(lines))
	copy(s.lines, lines)
	return nil
}

func (s *memorySnapshotter) Load() ([]Line, error) {
	lines := make([]Line, len(s.lines))
	copy(lines, s.lines)
	return lines, nil
}
