package catalog

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// s3Loader implements Loader for product CSV feeds stored in AWS S3.
type s3Loader struct {
	client   *s3.Client
	bucket   string
	importer *Importer
	logger   zerolog.Logger
}

// NewS3Loader creates an S3-based feed loader.
func NewS3Loader(ctx context.Context, bucket, region string, importer *Importer, logger zerolog.Logger) (Loader, error) {
	logger = logger.With().Str("component", "s3-feed-loader").Logger()

	// Load AWS configuration
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 feed loader initialised")

	return &s3Loader{
		client:   client,
		bucket:   bucket,
		importer: importer,
		logger:   logger,
	}, nil
}

// Load reads a CSV feed object from S3 and parses it. The key parameter
// should be the full S3 key (including any prefix).
func (l *s3Loader) Load(ctx context.Context, key string) (*ImportResult, error) {
	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", key).
		Msg("loading catalogue feed from S3")

	result, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("bucket", l.bucket).
			Str("key", key).
			Msg("failed to get object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", l.bucket, key, err)
	}
	defer result.Body.Close()

	parsed, err := l.importer.Parse(result.Body)
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("bucket", l.bucket).
			Str("key", key).
			Msg("failed to parse S3 feed object")
		return nil, fmt.Errorf("failed to parse S3 feed object %s: %w", key, err)
	}

	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", key).
		Int("products", len(parsed.Products)).
		Int("skipped", parsed.Skipped).
		Msg("catalogue feed loaded from S3")

	return parsed, nil
}

// fallbackLoader tries S3 first, then falls back to the local file system.
type fallbackLoader struct {
	s3Loader   Loader
	fileLoader Loader
	s3Prefix   string
	logger     zerolog.Logger
	s3Enabled  bool
}

// NewFallbackLoader creates a loader that tries S3 first, then falls back to
// the local file system. If s3Loader is nil, only the file loader is used.
func NewFallbackLoader(s3Loader, fileLoader Loader, s3Prefix string, s3Enabled bool, logger zerolog.Logger) Loader {
	return &fallbackLoader{
		s3Loader:   s3Loader,
		fileLoader: fileLoader,
		s3Prefix:   s3Prefix,
		s3Enabled:  s3Enabled,
		logger:     logger.With().Str("component", "fallback-feed-loader").Logger(),
	}
}

// Load attempts S3 first (prepending the configured prefix), then the local
// file system with the path as-is.
func (l *fallbackLoader) Load(ctx context.Context, filePath string) (*ImportResult, error) {
	if l.s3Enabled && l.s3Loader != nil {
		s3Key := l.s3Prefix + filePath

		result, err := l.s3Loader.Load(ctx, s3Key)
		if err == nil {
			return result, nil
		}

		l.logger.Warn().
			Err(err).
			Str("s3_key", s3Key).
			Msg("failed to load feed from S3, falling back to local file system")
	}

	return l.fileLoader.Load(ctx, filePath)
}
