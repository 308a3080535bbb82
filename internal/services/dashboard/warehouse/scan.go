package warehouse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Drivers disagree on column types: SQL Server returns decimals as []byte,
// SQLite returns timestamps from aggregates as text, ids may be integers. The
// scanners below accept any of those shapes and treat NULL as the zero value.

type textValue struct {
	value string
}

func (t *textValue) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.value = ""
	case string:
		t.value = v
	case []byte:
		t.value = string(v)
	case int64:
		t.value = strconv.FormatInt(v, 10)
	case float64:
		t.value = strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		t.value = strconv.FormatBool(v)
	case time.Time:
		t.value = v.UTC().Format(time.RFC3339)
	default:
		t.value = fmt.Sprint(v)
	}
	return nil
}

type floatValue struct {
	value float64
	valid bool
}

func (f *floatValue) Scan(src any) error {
	f.value, f.valid = 0, false
	switch v := src.(type) {
	case nil:
		return nil
	case float64:
		f.value = v
	case float32:
		f.value = float64(v)
	case int64:
		f.value = float64(v)
	case []byte:
		return f.parse(string(v))
	case string:
		return f.parse(v)
	default:
		return fmt.Errorf("unsupported numeric value %T", src)
	}
	f.valid = true
	return nil
}

func (f *floatValue) parse(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("parse numeric value %q: %w", raw, err)
	}
	f.value, f.valid = parsed, true
	return nil
}

type intValue struct {
	value int64
}

func (i *intValue) Scan(src any) error {
	var f floatValue
	if err := f.Scan(src); err != nil {
		return err
	}
	i.value = int64(f.value)
	return nil
}

var timeLayouts = []string{
	SQLiteTimeLayout,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05-07:00",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

type timeValue struct {
	value time.Time
}

func (t *timeValue) Scan(src any) error {
	t.value = time.Time{}
	switch v := src.(type) {
	case nil:
		return nil
	case time.Time:
		t.value = v.UTC()
		return nil
	case int64:
		t.value = time.Unix(v, 0).UTC()
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("unsupported timestamp value %T", src)
	}
}

func (t *timeValue) parse(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.value = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("parse timestamp %q", raw)
}
