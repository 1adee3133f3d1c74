package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// Loader reads a product CSV feed from some storage and parses it.
type Loader interface {
	// Load reads the feed at the given path or key and returns the parsed
	// import result.
	Load(ctx context.Context, path string) (*ImportResult, error)
}

// fileLoader implements Loader for feeds on the local file system.
type fileLoader struct {
	importer *Importer
	logger   zerolog.Logger
}

// NewFileLoader creates a file-based feed loader.
func NewFileLoader(importer *Importer, logger zerolog.Logger) Loader {
	return &fileLoader{
		importer: importer,
		logger:   logger.With().Str("component", "feed-loader").Logger(),
	}
}

// Load reads and parses a CSV feed file.
func (l *fileLoader) Load(ctx context.Context, filePath string) (*ImportResult, error) {
	l.logger.Info().Str("file", filePath).Msg("loading catalogue feed")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open feed file")
		return nil, fmt.Errorf("failed to open feed file %s: %w", filePath, err)
	}
	defer file.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := l.importer.Parse(file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to parse feed file")
		return nil, fmt.Errorf("failed to parse feed file %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("products", len(result.Products)).
		Int("skipped", result.Skipped).
		Msg("catalogue feed loaded")

	return result, nil
}
