package orchestrator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"

	"github.com/feral-file/ff-events/internal/domain"
)

const (
	maxIdempotencyKeyLength = 128
	maxTags                 = 20
	maxTagLength            = 50
	maxDescriptionLength    = 5000
)

func validateIdempotencyKey(key string) error {
	if strings.TrimSpace(key) != key || len(key) > maxIdempotencyKeyLength {
		return domain.NewValidationError("idempotencyKey", fmt.Sprintf("must be at most %d characters without surrounding spaces", maxIdempotencyKeyLength))
	}
	return nil
}

// validate checks the input and returns the draft to insert. Nothing is written here.
func (o *orchestrator) validate(input PrepareInput) (*domain.Event, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.NewValidationError("title", "is required")
	}
	if utf8.RuneCountInString(title) > domain.MAX_TITLE_LENGTH {
		return nil, domain.NewValidationError("title", fmt.Sprintf("must be at most %d characters", domain.MAX_TITLE_LENGTH))
	}
	if utf8.RuneCountInString(input.Description) > maxDescriptionLength {
		return nil, domain.NewValidationError("description", fmt.Sprintf("must be at most %d characters", maxDescriptionLength))
	}

	if input.StartTime.IsZero() {
		return nil, domain.NewValidationError("startTime", "is required")
	}
	if input.EndTime.IsZero() {
		return nil, domain.NewValidationError("endTime", "is required")
	}
	if !input.StartTime.Before(input.EndTime) {
		return nil, domain.NewValidationError("endTime", "must be after startTime")
	}
	if !input.StartTime.After(o.clock.Now()) {
		return nil, domain.NewValidationError("startTime", "must be in the future")
	}

	if input.MaxCapacity < o.cfg.MinCapacity || input.MaxCapacity > o.cfg.MaxCapacity {
		return nil, domain.NewValidationError("maxCapacity",
			fmt.Sprintf("must be between %d and %d", o.cfg.MinCapacity, o.cfg.MaxCapacity))
	}

	price, err := domain.NormalizePrice(input.TicketPrice)
	if err != nil {
		return nil, domain.NewValidationError("ticketPrice", err.Error())
	}

	if !domain.IsValidAddress(input.CreatorID) {
		return nil, domain.NewValidationError("creatorId", "must be a valid address")
	}

	visibility := input.Visibility
	if visibility == "" {
		visibility = domain.VisibilityPublic
	}
	if !domain.IsValidVisibility(visibility) {
		return nil, domain.NewValidationError("visibility", "must be public, private or unlisted")
	}

	tags, err := normalizeTags(input.Tags)
	if err != nil {
		return nil, err
	}

	if len(input.Banner) > 0 {
		if len(input.Banner) > o.cfg.MaxBannerSize {
			return nil, domain.NewValidationError("banner", fmt.Sprintf("must be at most %d bytes", o.cfg.MaxBannerSize))
		}
		if mime := mimetype.Detect(input.Banner); !strings.HasPrefix(mime.String(), "image/") {
			return nil, domain.NewValidationError("banner", fmt.Sprintf("unsupported mime type %s", mime.String()))
		}
	}

	var key *string
	if input.IdempotencyKey != "" {
		k := input.IdempotencyKey
		key = &k
	}

	return &domain.Event{
		IdempotencyKey: key,
		Title:          title,
		Description:    strings.TrimSpace(input.Description),
		Location:       strings.TrimSpace(input.Location),
		Category:       strings.ToLower(strings.TrimSpace(input.Category)),
		Tags:           tags,
		StartTime:      input.StartTime.UTC(),
		EndTime:        input.EndTime.UTC(),
		MaxCapacity:    input.MaxCapacity,
		TicketPrice:    price,
		Visibility:     visibility,
		CreatorID:      domain.NormalizeAddress(input.CreatorID),
		Status:         domain.EventStatusDraft,
	}, nil
}

// normalizeTags trims, lower-cases and de-duplicates tags keeping their order
func normalizeTags(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if utf8.RuneCountInString(tag) > maxTagLength {
			return nil, domain.NewValidationError("tags", fmt.Sprintf("tags must be at most %d characters", maxTagLength))
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	if len(out) > maxTags {
		return nil, domain.NewValidationError("tags", fmt.Sprintf("at most %d tags are allowed", maxTags))
	}
	return out, nil
}
