package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/feral-file/ff-events/internal/domain"
	"github.com/feral-file/ff-events/internal/logger"
	"github.com/feral-file/ff-events/internal/providers"
)

// pinContent stores the banner and the metadata document, setting the draft content refs.
// The metadata carries no event id, so identical input always pins to the same reference.
func (o *orchestrator) pinContent(ctx context.Context, input PrepareInput, draft *domain.Event) ([]domain.ContentRef, error) {
	var refs []domain.ContentRef

	metadata := domain.EventMetadata{
		Name:        draft.Title,
		Description: draft.Description,
		Location:    draft.Location,
		Category:    draft.Category,
		Tags:        draft.Tags,
		StartTime:   draft.StartTime.Format(time.RFC3339),
		EndTime:     draft.EndTime.Format(time.RFC3339),
		Creator:     draft.CreatorID,
	}

	if len(input.Banner) > 0 {
		imageRef, err := o.putWithRetry(ctx, "banner", input.Banner)
		if err != nil {
			return nil, err
		}
		draft.ContentImageRef = &imageRef.URI
		metadata.Image = imageRef.URI
		refs = append(refs, *imageRef)
	}

	doc, err := o.codec.Canonicalize(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize metadata: %w", err)
	}

	metadataRef, err := o.putWithRetry(ctx, "metadata", doc)
	if err != nil {
		return nil, err
	}
	metadataRef.MimeType = domain.CONTENT_METADATA_MIME_TYPE
	draft.ContentMetadataRef = &metadataRef.URI
	refs = append(refs, *metadataRef)

	return refs, nil
}

// putWithRetry writes to the content store with bounded exponential backoff.
// Puts are content-addressed, so repeating one is safe.
func (o *orchestrator) putWithRetry(ctx context.Context, kind string, data []byte) (*domain.ContentRef, error) {
	hash := providers.ContentHash(data)

	var ref *domain.ContentRef
	operation := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, o.cfg.ContentAttemptTimeout)
		defer cancel()

		r, err := o.content.Put(attemptCtx, data, hash)
		if err != nil {
			if domain.IsValidationError(err) || errors.Is(err, domain.ErrContentHashMismatch) {
				return backoff.Permanent(err)
			}
			return err
		}
		ref = r
		return nil
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = o.cfg.ContentInitialInterval
	eb.MaxInterval = o.cfg.ContentMaxInterval
	eb.MaxElapsedTime = 0
	b := backoff.WithContext(backoff.WithMaxRetries(eb, o.cfg.ContentMaxAttempts-1), ctx)

	notify := func(err error, wait time.Duration) {
		logger.WarnCtx(ctx, "Content write failed, retrying",
			zap.String("kind", kind),
			zap.String("sha256", hash),
			zap.Duration("wait", wait),
			zap.Error(err))
	}

	if err := backoff.RetryNotify(operation, b, notify); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("content write failed: %w", err),
			zap.String("kind", kind),
			zap.Uint64("attempts", o.cfg.ContentMaxAttempts))
		if errors.Is(err, domain.ErrContentHashMismatch) {
			return nil, err
		}
		return nil, domain.NewStorageError(domain.ProviderContent, "put", err)
	}

	logger.DebugCtx(ctx, "Pinned content", zap.String("kind", kind), zap.String("uri", ref.URI))
	return ref, nil
}
