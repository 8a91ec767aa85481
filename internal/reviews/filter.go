package reviews

import (
	"fmt"
	"strings"
	"time"

	"github.com/DeafMist/review-radar/backend/internal/apperr"
	"github.com/DeafMist/review-radar/backend/internal/models"
)

// Criteria narrows a listing. Zero fields impose no constraint.
type Criteria struct {
	Location string
	Start    *time.Time
	End      *time.Time
}

// ParseCriteria builds Criteria from raw query values. Empty strings are
// treated as absent. Dates must be YYYY-MM-DD.
func ParseCriteria(location, startDate, endDate string) (Criteria, error) {
	c := Criteria{Location: location}

	start, err := parseDate("start_date", startDate)
	if err != nil {
		return Criteria{}, err
	}
	c.Start = start

	end, err := parseDate("end_date", endDate)
	if err != nil {
		return Criteria{}, err
	}
	c.End = end

	return c, nil
}

func parseDate(param, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return nil, apperr.Malformed(fmt.Sprintf("invalid %s %q, expected YYYY-MM-DD", param, raw), err)
	}
	return &d, nil
}

// Filter returns the reviews matching c, preserving their relative order.
//
// The location must match exactly, ignoring case. Start keeps reviews at or
// after midnight of that day; End keeps reviews at or before midnight of that
// day, so later times on the end date itself are excluded. Reviews whose
// timestamp cannot be parsed never satisfy a date bound.
func Filter(in []models.Review, c Criteria) []models.Review {
	out := make([]models.Review, 0, len(in))
	for _, r := range in {
		if c.Location != "" && !strings.EqualFold(r.Location, c.Location) {
			continue
		}
		if c.Start != nil || c.End != nil {
			ts, err := time.Parse(models.TimestampLayout, r.Timestamp)
			if err != nil {
				continue
			}
			if c.Start != nil && ts.Before(*c.Start) {
				continue
			}
			if c.End != nil && ts.After(*c.End) {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}
