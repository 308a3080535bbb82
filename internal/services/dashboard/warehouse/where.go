package warehouse

import (
	"strings"
	"time"
)

type predicateKind int

const (
	predicateEqual predicateKind = iota
	predicateAtLeast
	predicateAtMost
	predicateNotNull
)

type predicate struct {
	column string
	kind   predicateKind
	text   string
	time   time.Time
}

// Where accumulates optional predicates. Each method skips absent values, so a
// query only carries the filters the caller actually set.
type Where struct {
	predicates []predicate
}

// Equal adds column = value when value is not blank.
func (w *Where) Equal(column string, value string) *Where {
	if strings.TrimSpace(value) == "" {
		return w
	}
	w.predicates = append(w.predicates, predicate{column: column, kind: predicateEqual, text: strings.TrimSpace(value)})
	return w
}

// NotNull adds column IS NOT NULL.
func (w *Where) NotNull(column string) *Where {
	w.predicates = append(w.predicates, predicate{column: column, kind: predicateNotNull})
	return w
}

// AtLeast adds column >= value when value is set.
func (w *Where) AtLeast(column string, value time.Time) *Where {
	if value.IsZero() {
		return w
	}
	w.predicates = append(w.predicates, predicate{column: column, kind: predicateAtLeast, time: value})
	return w
}

// AtMost adds column <= value when value is set.
func (w *Where) AtMost(column string, value time.Time) *Where {
	if value.IsZero() {
		return w
	}
	w.predicates = append(w.predicates, predicate{column: column, kind: predicateAtMost, time: value})
	return w
}

// Within adds both inclusive bounds of r that are set.
func (w *Where) Within(column string, r DateRange) *Where {
	return w.AtLeast(column, r.Start).AtMost(column, r.End)
}

// Columns lists the filtered columns in order, for tracing and tests.
func (w *Where) Columns() []string {
	columns := make([]string, 0, len(w.predicates))
	for _, p := range w.predicates {
		columns = append(columns, p.column)
	}
	return columns
}

// Len returns the number of accumulated predicates.
func (w *Where) Len() int {
	return len(w.predicates)
}

// render writes " WHERE ..." binding values through b, or "" when empty.
func (w *Where) render(b *binder) string {
	if w == nil || len(w.predicates) == 0 {
		return ""
	}
	parts := make([]string, 0, len(w.predicates))
	for _, p := range w.predicates {
		switch p.kind {
		case predicateEqual:
			parts = append(parts, p.column+" = "+b.bind(p.text))
		case predicateAtLeast:
			parts = append(parts, p.column+" >= "+b.bindTime(p.time))
		case predicateAtMost:
			parts = append(parts, p.column+" <= "+b.bindTime(p.time))
		case predicateNotNull:
			parts = append(parts, p.column+" IS NOT NULL")
		}
	}
	return " WHERE " + strings.Join(parts, " AND ")
}
