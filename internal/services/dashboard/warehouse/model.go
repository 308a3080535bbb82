package warehouse

import "time"

const (
	// DefaultReadingLimit caps ListReadings when the filter carries no limit.
	DefaultReadingLimit = 100
	// MaxReadingLimit is the largest row cap a caller may request.
	MaxReadingLimit = 5000
)

// Building is one row of the building dimension.
type Building struct {
	ID        string
	Name      string
	Region    string
	Portfolio string
}

// Area is one row of the area dimension. BuildingID references its parent.
type Area struct {
	ID         string
	Name       string
	BuildingID string
}

// Reading is one timestamped Ptag observation. BuildingName and AreaName are
// empty when the reference does not resolve to a dimension row.
type Reading struct {
	ID           string
	BuildingID   string
	BuildingName string
	AreaID       string
	AreaName     string
	PtagID       string
	Value        float64
	Unit         string
	Timestamp    time.Time
}

// MetricsSummary aggregates value over a filtered reading set. All figures are
// zero when the set is empty.
type MetricsSummary struct {
	Total       float64
	Average     float64
	Peak        float64
	Lowest      float64
	RecordCount int64
	FirstAt     time.Time
	LastAt      time.Time
}

// DateRange bounds readings by timestamp, inclusive on both ends. A zero Start
// or End leaves that side open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether the range is usable: both sides set implies Start is
// not after End.
func (r DateRange) Valid() bool {
	if r.Start.IsZero() || r.End.IsZero() {
		return true
	}
	return !r.Start.After(r.End)
}

// Contains reports whether ts falls inside the range.
func (r DateRange) Contains(ts time.Time) bool {
	if !r.Start.IsZero() && ts.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && ts.After(r.End) {
		return false
	}
	return true
}

// ReadingFilter narrows ListReadings. Empty fields are omitted from the query.
type ReadingFilter struct {
	BuildingID string
	AreaID     string
	Range      DateRange
	Limit      int
}

// EffectiveLimit returns the row cap applied to the query.
func (f ReadingFilter) EffectiveLimit() int {
	switch {
	case f.Limit <= 0:
		return DefaultReadingLimit
	case f.Limit > MaxReadingLimit:
		return MaxReadingLimit
	default:
		return f.Limit
	}
}

// MetricsFilter narrows ComputeMetrics. Empty fields are omitted from the query.
type MetricsFilter struct {
	BuildingID string
	Range      DateRange
}
