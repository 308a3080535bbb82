package warehouse

import (
	"strconv"
	"time"
)

// SQLiteTimeLayout is how the SQLite warehouse stores timestamps. Bound values
// use the same layout so text comparison orders correctly. Fractional seconds
// are kept and trailing zeros dropped, so "06:00:00" sorts before "06:00:00.7".
const SQLiteTimeLayout = "2006-01-02 15:04:05.999999999"

// rowCap says where a dialect puts the row limit.
type rowCap int

const (
	capLimit rowCap = iota // trailing LIMIT n
	capTop                 // SELECT TOP (n)
)

// dialect captures the syntax differences between the supported drivers.
type dialect struct {
	name        string
	placeholder func(n int) string
	rowCap      rowCap
	bindTime    func(time.Time) any
}

func dialectFor(driver string) dialect {
	switch driver {
	case DriverSQLServer:
		return dialect{
			name:        DriverSQLServer,
			placeholder: func(n int) string { return "@p" + strconv.Itoa(n) },
			rowCap:      capTop,
			bindTime:    func(t time.Time) any { return t.UTC() },
		}
	case DriverPostgres:
		return dialect{
			name:        DriverPostgres,
			placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
			rowCap:      capLimit,
			bindTime:    func(t time.Time) any { return t.UTC() },
		}
	default:
		return dialect{
			name:        DriverSQLite,
			placeholder: func(int) string { return "?" },
			rowCap:      capLimit,
			bindTime:    func(t time.Time) any { return t.UTC().Format(SQLiteTimeLayout) },
		}
	}
}

// binder hands out placeholders in the order they appear in the query text and
// keeps the matching arguments in the same order.
type binder struct {
	dialect dialect
	args    []any
}

func newBinder(d dialect) *binder {
	return &binder{dialect: d}
}

func (b *binder) bind(value any) string {
	b.args = append(b.args, value)
	return b.dialect.placeholder(len(b.args))
}

func (b *binder) bindTime(value time.Time) string {
	return b.bind(b.dialect.bindTime(value))
}
