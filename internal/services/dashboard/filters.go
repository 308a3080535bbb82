package dashboard

import (
	"net/url"
	"strings"
	"time"

	"github.com/tcld/ptagdash/internal/services/dashboard/templates"
	"github.com/tcld/ptagdash/internal/services/dashboard/warehouse"
)

// DefaultWindowDays is how far back the date range reaches by default.
const DefaultWindowDays = 30

// dateLayout is the date input format.
const dateLayout = "2006-01-02"

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Filters are the operator's selections, read fresh from every request.
type Filters struct {
	BuildingID string
	AreaID     string
	Range      warehouse.DateRange
}

// ParseFilters reads filter selections from query values. Missing or
// unparseable dates fall back to the last DefaultWindowDays days through the
// end of today. A date without a time covers that whole day.
func ParseFilters(values url.Values, now time.Time) Filters {
	today := startOfDay(now)
	start, ok := parseDate(values.Get(templates.FieldStart), false)
	if !ok {
		start = today.AddDate(0, 0, -DefaultWindowDays)
	}
	end, ok := parseDate(values.Get(templates.FieldEnd), true)
	if !ok {
		end = endOfDay(today)
	}
	return Filters{
		BuildingID: strings.TrimSpace(values.Get(templates.FieldBuilding)),
		AreaID:     strings.TrimSpace(values.Get(templates.FieldArea)),
		Range:      warehouse.DateRange{Start: start, End: end},
	}
}

// Readings returns the reading filter for this selection capped at limit.
func (f Filters) Readings(limit int) warehouse.ReadingFilter {
	return warehouse.ReadingFilter{
		BuildingID: f.BuildingID,
		AreaID:     f.AreaID,
		Range:      f.Range,
		Limit:      limit,
	}
}

// Metrics returns the metrics filter. Metrics are scoped by building only.
func (f Filters) Metrics() warehouse.MetricsFilter {
	return warehouse.MetricsFilter{BuildingID: f.BuildingID, Range: f.Range}
}

// Query encodes the selection back into query values.
func (f Filters) Query() url.Values {
	values := url.Values{}
	if f.BuildingID != "" {
		values.Set(templates.FieldBuilding, f.BuildingID)
	}
	if f.AreaID != "" {
		values.Set(templates.FieldArea, f.AreaID)
	}
	values.Set(templates.FieldStart, f.Range.Start.Format(dateLayout))
	values.Set(templates.FieldEnd, f.Range.End.Format(dateLayout))
	return values
}

func parseDate(raw string, endOfRange bool) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if day, err := time.Parse(dateLayout, raw); err == nil {
		if endOfRange {
			return endOfDay(day), true
		}
		return day, true
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).Add(24*time.Hour - time.Nanosecond)
}
