package library

import (
	"strconv"
	"strings"

	"earlywrapped/pkg/apperror"
	"earlywrapped/pkg/spotify"
)

const (
	DefaultTimeRange = "medium_term"
	DefaultLimit     = 20
	MinLimit         = 1
	MaxLimit         = 50
)

var timeRanges = []string{"short_term", "medium_term", "long_term"}

// RankQuery selects a window of the user's top tracks or artists.
type RankQuery struct {
	TimeRange string
	Limit     int
	Offset    int
}

type PageQuery struct {
	Limit  int
	Offset int
}

// HistoryQuery pages through play history. After and Before are Unix
// milliseconds.
type HistoryQuery struct {
	Limit  int
	After  *int64
	Before *int64
}

func ParseRankQuery(timeRange, limit, offset string) (RankQuery, error) {
	if timeRange == "" {
		timeRange = DefaultTimeRange
	}
	if !validTimeRange(timeRange) {
		return RankQuery{}, apperror.Client("Invalid time_range. Must be one of: " + strings.Join(timeRanges, ", "))
	}

	page, err := ParsePageQuery(limit, offset)
	if err != nil {
		return RankQuery{}, err
	}

	return RankQuery{TimeRange: timeRange, Limit: page.Limit, Offset: page.Offset}, nil
}

func ParsePageQuery(limit, offset string) (PageQuery, error) {
	l, err := parseLimit(limit)
	if err != nil {
		return PageQuery{}, err
	}
	o, err := parseOffset(offset)
	if err != nil {
		return PageQuery{}, err
	}
	return PageQuery{Limit: l, Offset: o}, nil
}

func ParseHistoryQuery(limit, after, before string) (HistoryQuery, error) {
	l, err := parseLimit(limit)
	if err != nil {
		return HistoryQuery{}, err
	}
	a, err := parseTimestamp("after", after)
	if err != nil {
		return HistoryQuery{}, err
	}
	b, err := parseTimestamp("before", before)
	if err != nil {
		return HistoryQuery{}, err
	}
	return HistoryQuery{Limit: l, After: a, Before: b}, nil
}

// ParseTrackIDs splits a comma separated list, trimming entries and dropping
// empty ones.
func ParseTrackIDs(raw string) ([]string, error) {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	if len(ids) == 0 {
		return nil, apperror.Client("No track IDs provided")
	}
	if len(ids) > spotify.MaxAudioFeatureIDs {
		return nil, apperror.Client("Maximum 100 track IDs allowed per request")
	}
	return ids, nil
}

func validTimeRange(v string) bool {
	for _, r := range timeRanges {
		if r == v {
			return true
		}
	}
	return false
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return DefaultLimit, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < MinLimit || v > MaxLimit {
		return 0, apperror.Client("limit must be between 1 and 50")
	}
	return v, nil
}

func parseOffset(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, apperror.Client("offset must be >= 0")
	}
	return v, nil
}

func parseTimestamp(name, raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return nil, apperror.Client(name + " must be a non-negative Unix timestamp in milliseconds")
	}
	return &v, nil
}
