package rest

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-events/internal/domain"
)

// ListEventsQueryParams holds query parameters for GET /events
type ListEventsQueryParams struct {
	// Filters
	Category   string     `form:"category"`
	Location   string     `form:"location"`
	Status     string     `form:"status"`
	Visibility string     `form:"visibility"`
	Creator    string     `form:"creator"`
	Search     string     `form:"search"`
	MinPrice   string     `form:"min_price"`
	MaxPrice   string     `form:"max_price"`
	From       *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To         *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`

	// Pagination
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=20"`

	// Sorting
	Sort  string `form:"sort,default=start_time"`
	Order string `form:"order,default=asc"`
}

// ParseListEventsQuery parses query parameters for GET /events
func ParseListEventsQuery(c *gin.Context) (*ListEventsQueryParams, error) {
	var params ListEventsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	return &params, nil
}

// ToFilter converts the query to an event filter. Range checks are left to the filter's own validation.
func (p *ListEventsQueryParams) ToFilter() domain.EventFilter {
	filter := domain.EventFilter{
		Page:        p.Page,
		Limit:       p.Limit,
		Category:    optional(p.Category),
		Location:    optional(p.Location),
		CreatorID:   optional(p.Creator),
		Search:      optional(p.Search),
		MinPrice:    optional(p.MinPrice),
		MaxPrice:    optional(p.MaxPrice),
		StartAfter:  p.From,
		StartBefore: p.To,
		SortBy:      domain.SortField(strings.ToLower(p.Sort)),
		SortOrder:   domain.SortOrder(strings.ToLower(p.Order)),
	}

	if s := optional(p.Status); s != nil {
		status := domain.EventStatus(*s)
		filter.Status = &status
	}
	if v := optional(p.Visibility); v != nil {
		visibility := domain.Visibility(*v)
		filter.Visibility = &visibility
	}

	return filter
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

// ListRunsQueryParams holds query parameters for GET /admin/runs
type ListRunsQueryParams struct {
	Limit int `form:"limit"`
}
