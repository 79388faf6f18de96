package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/feral-file/ff-events/internal/adapter"
	"github.com/feral-file/ff-events/internal/domain"
	"github.com/feral-file/ff-events/internal/logger"
	"github.com/feral-file/ff-events/internal/providers"
)

const uriScheme = "s3://"

// Config holds the S3 provider configuration
type Config struct {
	Bucket string
	Prefix string
}

type provider struct {
	cfg    Config
	client adapter.S3Client
	clock  adapter.Clock
}

// NewProvider creates a content provider storing objects under their SHA-256 digest
func NewProvider(cfg Config, client adapter.S3Client, clock adapter.Clock) providers.ContentProvider {
	if cfg.Prefix != "" && !strings.HasSuffix(cfg.Prefix, "/") {
		cfg.Prefix += "/"
	}
	return &provider{
		cfg:    cfg,
		client: client,
		clock:  clock,
	}
}

func (p *provider) Name() domain.ProviderName {
	return domain.ProviderContent
}

// HealthCheck checks the bucket is reachable
func (p *provider) HealthCheck(ctx context.Context) domain.HealthCheckResult {
	start := p.clock.Now()
	_, err := p.client.HeadBucket(ctx, &awss3.HeadBucketInput{Bucket: aws.String(p.cfg.Bucket)})
	return domain.HealthCheckResult{
		OK:      err == nil,
		Latency: p.clock.Since(start),
		Error:   domain.NewStorageError(domain.ProviderContent, "healthCheck", err),
	}
}

// Put stores data unless an object with the same digest already exists
func (p *provider) Put(ctx context.Context, data []byte, contentHash string) (*domain.ContentRef, error) {
	if len(data) == 0 {
		return nil, domain.NewValidationError("content", "is empty")
	}

	digest, err := providers.VerifyContentHash(data, contentHash)
	if err != nil {
		return nil, err
	}

	key := p.cfg.Prefix + digest
	mime := mimetype.Detect(data).String()
	ref := &domain.ContentRef{
		URI:      uriScheme + p.cfg.Bucket + "/" + key,
		Hash:     digest,
		Size:     len(data),
		MimeType: mime,
	}

	_, err = p.client.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(p.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		logger.DebugCtx(ctx, "Content already stored", zap.String("key", key))
		return ref, nil
	}
	if !isNotFound(err) {
		return nil, domain.NewStorageError(domain.ProviderContent, "put", fmt.Errorf("failed to head object: %w", err))
	}

	_, err = p.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:        aws.String(p.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(mime),
		Metadata:      map[string]string{"sha256": digest},
	})
	if err != nil {
		return nil, domain.NewStorageError(domain.ProviderContent, "put", fmt.Errorf("failed to put object: %w", err))
	}

	logger.DebugCtx(ctx, "Stored content",
		zap.String("key", key),
		zap.Int("size", len(data)))

	return ref, nil
}

// Get reads the object behind an s3:// reference of this bucket
func (p *provider) Get(ctx context.Context, uri string) ([]byte, error) {
	key, err := p.parseURI(uri)
	if err != nil {
		return nil, err
	}

	out, err := p.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(p.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, domain.NewStorageError(domain.ProviderContent, "get", err)
	}
	defer func() {
		if err := out.Body.Close(); err != nil {
			logger.WarnCtx(ctx, "failed to close object body", zap.Error(err), zap.String("key", key))
		}
	}()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, domain.NewStorageError(domain.ProviderContent, "get", fmt.Errorf("failed to read object: %w", err))
	}
	return data, nil
}

// parseURI returns the object key of a reference to the configured bucket
func (p *provider) parseURI(uri string) (string, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(uri), uriScheme)
	if !ok {
		return "", domain.NewValidationError("uri", "must be an s3:// reference")
	}

	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || key == "" {
		return "", domain.NewValidationError("uri", "missing object key")
	}
	if bucket != p.cfg.Bucket {
		return "", domain.NewValidationError("uri", fmt.Sprintf("unknown bucket %s", bucket))
	}
	return key, nil
}

// isNotFound reports whether a HeadObject error means the object does not exist
func isNotFound(err error) bool {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NotFound" || code == "NoSuchKey"
	}
	return false
}
