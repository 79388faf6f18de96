package domain

import (
	"math/big"
	"strings"
	"time"
)

// SortField is a sortable event column
type SortField string

const (
	SortByStartTime   SortField = "start_time"
	SortByCreatedAt   SortField = "created_at"
	SortByTicketPrice SortField = "ticket_price"
	SortByTitle       SortField = "title"
)

// SortOrder is the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// DataSource tells which layer served a read
type DataSource string

const (
	DataSourceDatabase DataSource = "database"
	DataSourceLedger   DataSource = "ledger"
	DataSourceNone     DataSource = "none"
)

// EventFilter holds the listing filters accepted by GetEvents
type EventFilter struct {
	Page        int
	Limit       int
	Category    *string
	Location    *string
	Status      *EventStatus
	Visibility  *Visibility
	CreatorID   *string
	Search      *string
	MinPrice    *string
	MaxPrice    *string
	StartAfter  *time.Time
	StartBefore *time.Time
	SortBy      SortField
	SortOrder   SortOrder
}

// Normalize applies defaults to zero values
func (f *EventFilter) Normalize() {
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit == 0 {
		f.Limit = DEFAULT_PAGE_LIMIT
	}
	if f.SortBy == "" {
		f.SortBy = SortByStartTime
	}
	if f.SortOrder == "" {
		f.SortOrder = SortOrderAsc
	}
	if f.CreatorID != nil && IsValidAddress(*f.CreatorID) {
		creator := NormalizeAddress(*f.CreatorID)
		f.CreatorID = &creator
	}
}

// Validate checks the filter arguments. It is the only error GetEvents surfaces.
func (f *EventFilter) Validate() error {
	if f.Page < 1 || f.Page > MAX_PAGE {
		return NewValidationError("page", "must be between 1 and 1000000")
	}
	if f.Limit < 1 || f.Limit > MAX_PAGE_LIMIT {
		return NewValidationError("limit", "must be between 1 and 100")
	}
	if f.Status != nil && !IsValidEventStatus(*f.Status) {
		return NewValidationError("status", "unknown status")
	}
	if f.Visibility != nil && !IsValidVisibility(*f.Visibility) {
		return NewValidationError("visibility", "unknown visibility")
	}
	if f.CreatorID != nil && !IsValidAddress(*f.CreatorID) {
		return NewValidationError("creator", "must be a valid address")
	}

	var minWei, maxWei *big.Int
	if f.MinPrice != nil {
		v, err := ParseEther(*f.MinPrice)
		if err != nil {
			return NewValidationError("priceRange", err.Error())
		}
		minWei = v
	}
	if f.MaxPrice != nil {
		v, err := ParseEther(*f.MaxPrice)
		if err != nil {
			return NewValidationError("priceRange", err.Error())
		}
		maxWei = v
	}
	if minWei != nil && maxWei != nil && minWei.Cmp(maxWei) > 0 {
		return NewValidationError("priceRange", "min must not exceed max")
	}

	if f.StartAfter != nil && f.StartBefore != nil && f.StartAfter.After(*f.StartBefore) {
		return NewValidationError("dateRange", "from must not be after to")
	}

	switch f.SortBy {
	case SortByStartTime, SortByCreatedAt, SortByTicketPrice, SortByTitle:
	default:
		return NewValidationError("sort", "unsupported sort field")
	}
	switch f.SortOrder {
	case SortOrderAsc, SortOrderDesc:
	default:
		return NewValidationError("order", "must be asc or desc")
	}

	return nil
}

// Offset returns the row offset of the requested page
func (f *EventFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// HasOptionalFilters reports whether filters the ledger cannot evaluate natively are set
func (f *EventFilter) HasOptionalFilters() bool {
	return f.Category != nil || f.Location != nil || f.Search != nil
}

// MatchesText does a case-insensitive containment check used by client-side filtering
func MatchesText(value, query string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(strings.TrimSpace(query)))
}

// EventPage is a page of events with the layer that served it
type EventPage struct {
	Events        []Event
	Total         int64
	Page          int
	Limit         int
	PrimarySource DataSource
	Degraded      bool
}
