package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/wellywell/orderhub/internal/types"
)

const (
	defaultPageSize = 50
	maxPageSize     = 1000
)

var queryDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseOrderFilter validates every query parameter before storage is
// touched. Any invalid parameter rejects the whole request.
func parseOrderFilter(req *http.Request) (*types.OrderFilter, error) {

	query := req.URL.Query()

	filter := types.OrderFilter{
		CustomerEmail: query.Get("customer_email"),
		Page:          1,
		PageSize:      defaultPageSize,
	}

	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return nil, errors.New("page must be a positive integer")
		}
		filter.Page = page
	}

	if raw := query.Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 || size > maxPageSize {
			return nil, fmt.Errorf("page_size must be between 1 and %d", maxPageSize)
		}
		filter.PageSize = size
	}

	if raw := query.Get("status"); raw != "" {
		status := types.Status(raw)
		if !status.IsValid() {
			return nil, fmt.Errorf("unknown status %q", raw)
		}
		filter.Status = status
	}

	if raw := query.Get("start_date"); raw != "" {
		date, err := parseQueryDate(raw)
		if err != nil {
			return nil, fmt.Errorf("could not parse start_date %q", raw)
		}
		filter.StartDate = &date
	}

	if raw := query.Get("end_date"); raw != "" {
		date, err := parseQueryDate(raw)
		if err != nil {
			return nil, fmt.Errorf("could not parse end_date %q", raw)
		}
		filter.EndDate = &date
	}

	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.After(*filter.EndDate) {
		return nil, errors.New("start_date must not be after end_date")
	}

	return &filter, nil
}

func parseQueryDate(value string) (time.Time, error) {
	for _, layout := range queryDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("could not parse date %q", value)
}
