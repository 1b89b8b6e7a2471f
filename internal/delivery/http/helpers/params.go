package helpers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tagtime/internal/domain"
)

// DateLayout is the calendar-day form accepted for date query parameters.
const DateLayout = "2006-01-02"

// PathID parses the named path value as a positive integer ID.
func PathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	if raw == "" {
		return 0, fmt.Errorf("missing %s", name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

// QueryIDs parses every occurrence of the named query parameter as an ID.
// Comma-separated values are accepted as well: ?tag_id=1&tag_id=2 and ?tag_id=1,2 are equal.
func QueryIDs(r *http.Request, name string) ([]int64, error) {
	var ids []int64
	for _, raw := range r.URL.Query()[name] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id < 1 {
				return nil, fmt.Errorf("invalid %s %q", name, part)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// QueryTime parses the named query parameter with ParseTime. Absent parameters yield nil.
func QueryTime(r *http.Request, name string, endOfDay bool) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := ParseTime(raw, endOfDay)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return &t, nil
}

// ParseTime accepts RFC 3339 or a plain local date. A plain date used as an upper bound
// (endOfDay) covers the whole day.
func ParseTime(raw string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(DateLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not YYYY-MM-DD or RFC 3339", raw)
	}
	if endOfDay {
		t = domain.EndOfDay(t)
	}
	return t, nil
}
