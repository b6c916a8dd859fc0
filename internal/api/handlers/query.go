package handlers

import (
	"net/url"
	"strconv"

	"hooklog/internal/pkg/errors"
	"hooklog/internal/platform/config"
)

type page struct {
	Limit  int
	Offset int
}

func parsePage(q url.Values, cfg config.QueryConfig) (page, error) {
	p := page{Limit: cfg.DefaultLimit}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return p, errors.Validation("limit must be a positive integer")
		}
		p.Limit = min(limit, cfg.MaxLimit)
	}

	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return p, errors.Validation("offset must be a non-negative integer")
		}
		p.Offset = offset
	}

	return p, nil
}

func parseDays(q url.Values, cfg config.QueryConfig) (int, error) {
	raw := q.Get("days")
	if raw == "" {
		return cfg.DefaultDays, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 {
		return 0, errors.Validation("days must be a positive integer")
	}
	return min(days, cfg.MaxDays), nil
}

func parseSize(q url.Values) (int, error) {
	raw := q.Get("size")
	if raw == "" {
		return 0, nil
	}
	size, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Validation("size must be an integer")
	}
	return size, nil
}
