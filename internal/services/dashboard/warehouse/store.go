package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/tcld/ptagdash/internal/services/dashboard/warehouse"

// ErrInvalidRange is returned when a date range ends before it starts.
var ErrInvalidRange = errors.New("date range ends before it starts")

// UnavailableError reports that no connection to the warehouse could be
// established, as opposed to a query failing on a live connection.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return "warehouse unavailable: " + e.Err.Error()
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// IsUnavailable reports whether err came from failing to reach the warehouse.
func IsUnavailable(err error) bool {
	var target *UnavailableError
	return errors.As(err, &target)
}

// Store runs the dashboard's read queries against one warehouse.
type Store struct {
	db      *sql.DB
	dialect dialect
	schema  Schema
	timeout time.Duration
	tracer  trace.Tracer
}

// Open builds a store from settings. The pool connects lazily, so Open
// succeeds while the warehouse is down.
func Open(settings Settings) (*Store, error) {
	driver, err := settings.NormalizedDriver()
	if err != nil {
		return nil, err
	}
	schema, err := ResolveSchema(settings)
	if err != nil {
		return nil, err
	}
	driverName, dsn, err := settings.DriverName()
	if err != nil {
		return nil, err
	}
	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s warehouse: %w", driver, err)
	}
	if settings.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(settings.MaxOpenConns)
		sqlDB.SetMaxIdleConns(settings.MaxOpenConns)
	}
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	return New(sqlDB, driver, schema, settings.Timeout())
}

// New wraps an already opened database.
func New(sqlDB *sql.DB, driver string, schema Schema, timeout time.Duration) (*Store, error) {
	if sqlDB == nil {
		return nil, errors.New("sql db is required")
	}
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = Settings{}.Timeout()
	}
	return &Store{
		db:      sqlDB,
		dialect: dialectFor(driver),
		schema:  schema,
		timeout: timeout,
		tracer:  otel.Tracer(tracerName),
	}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping connects and runs a trivial probe query.
func (s *Store) Ping(ctx context.Context) error {
	return s.withConn(ctx, "ping", nil, func(ctx context.Context, conn *sql.Conn) error {
		var one int
		if err := conn.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
			return fmt.Errorf("probe query: %w", err)
		}
		if one != 1 {
			return fmt.Errorf("probe query returned %d", one)
		}
		return nil
	})
}

// ListBuildings returns every distinct building ordered by name.
func (s *Store) ListBuildings(ctx context.Context) ([]Building, error) {
	t := s.schema.Buildings
	where := (&Where{}).NotNull("b." + t.ID)
	b := newBinder(s.dialect)
	query := "SELECT DISTINCT b." + t.ID + ", b." + t.Name + ", b." + t.Region + ", b." + t.Portfolio +
		" FROM " + s.schema.table(t.Table) + " b" +
		where.render(b) +
		" ORDER BY b." + t.Name

	var buildings []Building
	err := s.withConn(ctx, "list_buildings", where, func(ctx context.Context, conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, b.args...)
		if err != nil {
			return fmt.Errorf("query buildings: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var id, name, region, portfolio textValue
			if err := rows.Scan(&id, &name, &region, &portfolio); err != nil {
				return fmt.Errorf("scan building: %w", err)
			}
			buildings = append(buildings, Building{
				ID:        id.value,
				Name:      name.value,
				Region:    region.value,
				Portfolio: portfolio.value,
			})
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return buildings, nil
}

// ListAreas returns the areas of one building ordered by name. A blank
// buildingID yields no areas without touching the warehouse.
func (s *Store) ListAreas(ctx context.Context, buildingID string) ([]Area, error) {
	if strings.TrimSpace(buildingID) == "" {
		return nil, nil
	}
	t := s.schema.Areas
	where := (&Where{}).Equal("a."+t.BuildingID, buildingID)
	b := newBinder(s.dialect)
	query := "SELECT DISTINCT a." + t.ID + ", a." + t.Name + ", a." + t.BuildingID +
		" FROM " + s.schema.table(t.Table) + " a" +
		where.render(b) +
		" ORDER BY a." + t.Name

	var areas []Area
	err := s.withConn(ctx, "list_areas", where, func(ctx context.Context, conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, b.args...)
		if err != nil {
			return fmt.Errorf("query areas: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var id, name, parent textValue
			if err := rows.Scan(&id, &name, &parent); err != nil {
				return fmt.Errorf("scan area: %w", err)
			}
			areas = append(areas, Area{ID: id.value, Name: name.value, BuildingID: parent.value})
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return areas, nil
}

// ListReadings returns the most recent readings matching filter, newest first,
// capped at filter.EffectiveLimit rows.
func (s *Store) ListReadings(ctx context.Context, filter ReadingFilter) ([]Reading, error) {
	if !filter.Range.Valid() {
		return nil, ErrInvalidRange
	}
	query, args, where := s.readingsQuery(filter)

	var readings []Reading
	err := s.withConn(ctx, "list_readings", where, func(ctx context.Context, conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("query readings: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var (
				id, buildingID, buildingName textValue
				areaID, areaName, ptagID     textValue
				unit                         textValue
				value                        floatValue
				ts                           timeValue
			)
			if err := rows.Scan(&id, &buildingID, &buildingName, &areaID, &areaName, &ptagID, &value, &unit, &ts); err != nil {
				return fmt.Errorf("scan reading: %w", err)
			}
			readings = append(readings, Reading{
				ID:           id.value,
				BuildingID:   buildingID.value,
				BuildingName: buildingName.value,
				AreaID:       areaID.value,
				AreaName:     areaName.value,
				PtagID:       ptagID.value,
				Value:        value.value,
				Unit:         unit.value,
				Timestamp:    ts.value,
			})
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return readings, nil
}

func (s *Store) readingsQuery(filter ReadingFilter) (string, []any, *Where) {
	r, bt, at := s.schema.Readings, s.schema.Buildings, s.schema.Areas
	where := (&Where{}).
		Equal("r."+r.BuildingID, filter.BuildingID).
		Equal("r."+r.AreaID, filter.AreaID).
		Within("r."+r.Timestamp, filter.Range)
	limit := filter.EffectiveLimit()

	b := newBinder(s.dialect)
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if s.dialect.rowCap == capTop {
		sb.WriteString("TOP (" + b.bind(limit) + ") ")
	}
	sb.WriteString("r." + r.ID + ", r." + r.BuildingID + ", b." + bt.Name +
		", r." + r.AreaID + ", a." + at.Name + ", r." + r.PtagID +
		", CAST(r." + r.Value + " AS FLOAT), r." + r.Unit + ", r." + r.Timestamp)
	sb.WriteString(" FROM " + s.schema.table(r.Table) + " r")
	sb.WriteString(" LEFT JOIN " + s.schema.table(bt.Table) + " b ON r." + r.BuildingID + " = b." + bt.ID)
	sb.WriteString(" LEFT JOIN " + s.schema.table(at.Table) + " a ON r." + r.AreaID + " = a." + at.ID)
	sb.WriteString(where.render(b))
	sb.WriteString(" ORDER BY r." + r.Timestamp + " DESC")
	if s.dialect.rowCap == capLimit {
		sb.WriteString(" LIMIT " + b.bind(limit))
	}
	return sb.String(), b.args, where
}

// ComputeMetrics aggregates readings matching filter. Aggregates over an empty
// set come back as zero, never as missing values.
func (s *Store) ComputeMetrics(ctx context.Context, filter MetricsFilter) (MetricsSummary, error) {
	if !filter.Range.Valid() {
		return MetricsSummary{}, ErrInvalidRange
	}
	query, args, where := s.metricsQuery(filter)

	var summary MetricsSummary
	err := s.withConn(ctx, "compute_metrics", where, func(ctx context.Context, conn *sql.Conn) error {
		var (
			total, average, peak, lowest floatValue
			count                        intValue
			first, last                  timeValue
		)
		err := conn.QueryRowContext(ctx, query, args...).Scan(&total, &average, &peak, &lowest, &count, &first, &last)
		if err != nil {
			return fmt.Errorf("query metrics: %w", err)
		}
		summary = MetricsSummary{
			Total:       total.value,
			Average:     average.value,
			Peak:        peak.value,
			Lowest:      lowest.value,
			RecordCount: count.value,
			FirstAt:     first.value,
			LastAt:      last.value,
		}
		return nil
	})
	if err != nil {
		return MetricsSummary{}, err
	}
	return summary, nil
}

func (s *Store) metricsQuery(filter MetricsFilter) (string, []any, *Where) {
	r := s.schema.Readings
	where := (&Where{}).
		Equal("r."+r.BuildingID, filter.BuildingID).
		Within("r."+r.Timestamp, filter.Range)
	value := "CAST(r." + r.Value + " AS FLOAT)"

	b := newBinder(s.dialect)
	query := "SELECT SUM(" + value + "), AVG(" + value + "), MAX(" + value + "), MIN(" + value + ")" +
		", COUNT(*), MIN(r." + r.Timestamp + "), MAX(r." + r.Timestamp + ")" +
		" FROM " + s.schema.table(r.Table) + " r" +
		where.render(b)
	return query, b.args, where
}

// withConn runs fn on a dedicated connection that is released before
// returning. The whole round trip is bounded by the store timeout.
func (s *Store) withConn(ctx context.Context, op string, where *Where, fn func(context.Context, *sql.Conn) error) error {
	if s == nil || s.db == nil {
		return &UnavailableError{Err: errors.New("store is not configured")}
	}
	ctx, span := s.tracer.Start(ctx, "warehouse."+op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("db.system", s.dialect.name))
	if where != nil {
		span.SetAttributes(attribute.StringSlice("warehouse.filters", where.Columns()))
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	conn, err := s.db.Conn(ctx)
	if err != nil {
		err = &UnavailableError{Err: err}
		span.RecordError(err)
		span.SetStatus(codes.Error, "connect")
		return err
	}
	defer conn.Close()

	if err := fn(ctx, conn); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, op)
		return err
	}
	return nil
}
