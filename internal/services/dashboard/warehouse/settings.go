package warehouse

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tcld/ptagdash/internal/platform/timeouts"
)

// Supported warehouse drivers.
const (
	DriverSQLServer = "sqlserver"
	DriverPostgres  = "postgres"
	DriverSQLite    = "sqlite"
)

// SQL Server authentication methods accepted in Settings.AuthMethod. Any
// Active Directory method is served by the azuresql driver.
const (
	AuthSQLPassword                     = "SqlPassword"
	AuthActiveDirectoryManagedIdentity  = "ActiveDirectoryManagedIdentity"
	AuthActiveDirectoryInteractive      = "ActiveDirectoryInteractive"
	AuthActiveDirectoryDefault          = "ActiveDirectoryDefault"
	AuthActiveDirectoryPassword         = "ActiveDirectoryPassword"
	AuthActiveDirectoryServicePrincipal = "ActiveDirectoryServicePrincipal"
)

// Settings is the immutable warehouse connection configuration, built once at
// process start.
type Settings struct {
	Driver         string        `env:"PTAG_DB_DRIVER" envDefault:"sqlserver"`
	Server         string        `env:"DB_SERVER" envDefault:"dev-saw-tcld-01.sql.azuresynapse.net"`
	Database       string        `env:"DB_NAME" envDefault:"tcld_syn_db_dev"`
	AuthMethod     string        `env:"DB_AUTH_METHOD" envDefault:"Active Directory Managed Identity"`
	User           string        `env:"DB_USER"`
	Password       string        `env:"DB_PASSWORD"`
	DSN            string        `env:"PTAG_DB_DSN"`
	ConnectTimeout time.Duration `env:"PTAG_DB_CONNECT_TIMEOUT" envDefault:"30s"`
	MaxOpenConns   int           `env:"PTAG_DB_MAX_OPEN_CONNS" envDefault:"8"`
	SchemaFile     string        `env:"PTAG_SCHEMA_FILE"`
}

// Timeout returns the bound applied to one warehouse round trip.
func (s Settings) Timeout() time.Duration {
	if s.ConnectTimeout <= 0 {
		return timeouts.DBConnect
	}
	return s.ConnectTimeout
}

// NormalizedDriver maps driver aliases onto the supported driver names.
func (s Settings) NormalizedDriver() (string, error) {
	switch strings.ToLower(strings.TrimSpace(s.Driver)) {
	case "", "sqlserver", "mssql", "synapse", "azuresql":
		return DriverSQLServer, nil
	case "postgres", "postgresql", "pgx":
		return DriverPostgres, nil
	case "sqlite", "sqlite3":
		return DriverSQLite, nil
	default:
		return "", fmt.Errorf("unsupported warehouse driver %q", s.Driver)
	}
}

// NormalizedAuthMethod folds the spellings used by ODBC connection strings
// ("Active Directory Managed Identity") into the go-mssqldb fedauth names.
func (s Settings) NormalizedAuthMethod() string {
	compact := strings.ReplaceAll(strings.TrimSpace(s.AuthMethod), " ", "")
	switch strings.ToLower(compact) {
	case "", "sqlpassword", "sql":
		return AuthSQLPassword
	case "activedirectorymanagedidentity", "activedirectorymsi":
		return AuthActiveDirectoryManagedIdentity
	case "activedirectoryinteractive":
		return AuthActiveDirectoryInteractive
	case "activedirectorydefault":
		return AuthActiveDirectoryDefault
	case "activedirectorypassword":
		return AuthActiveDirectoryPassword
	case "activedirectoryserviceprincipal":
		return AuthActiveDirectoryServicePrincipal
	default:
		return compact
	}
}

// DriverName returns the database/sql driver name and the DSN to open.
func (s Settings) DriverName() (driverName string, dsn string, err error) {
	driver, err := s.NormalizedDriver()
	if err != nil {
		return "", "", err
	}
	switch driver {
	case DriverSQLServer:
		auth := s.NormalizedAuthMethod()
		name := "sqlserver"
		if auth != AuthSQLPassword {
			name = azureDriverName
		}
		if dsn := strings.TrimSpace(s.DSN); dsn != "" {
			return name, dsn, nil
		}
		return name, s.sqlServerDSN(auth), nil
	case DriverPostgres:
		if dsn := strings.TrimSpace(s.DSN); dsn != "" {
			return "pgx", dsn, nil
		}
		return "pgx", s.postgresDSN(), nil
	default:
		dsn := strings.TrimSpace(s.DSN)
		if dsn == "" {
			dsn = strings.TrimSpace(s.Database)
		}
		if dsn == "" {
			return "", "", fmt.Errorf("sqlite warehouse requires a database path")
		}
		return "sqlite", sqliteDSN(dsn), nil
	}
}

func (s Settings) sqlServerDSN(auth string) string {
	query := url.Values{}
	query.Set("database", s.Database)
	query.Set("encrypt", "true")
	query.Set("TrustServerCertificate", "false")
	query.Set("connection timeout", strconv.Itoa(int(s.Timeout().Seconds())))
	query.Set("app name", "ptagdash")
	if auth != AuthSQLPassword {
		query.Set("fedauth", auth)
	}
	u := &url.URL{
		Scheme:   "sqlserver",
		Host:     s.Server,
		RawQuery: query.Encode(),
	}
	if s.User != "" {
		u.User = url.UserPassword(s.User, s.Password)
	}
	return u.String()
}

func (s Settings) postgresDSN() string {
	query := url.Values{}
	query.Set("connect_timeout", strconv.Itoa(int(s.Timeout().Seconds())))
	host := s.Server
	if _, _, err := net.SplitHostPort(host); err != nil && host != "" {
		host = net.JoinHostPort(host, "5432")
	}
	u := &url.URL{
		Scheme:   "postgres",
		Host:     host,
		Path:     "/" + s.Database,
		RawQuery: query.Encode(),
	}
	if s.User != "" {
		u.User = url.UserPassword(s.User, s.Password)
	}
	return u.String()
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=busy_timeout(5000)"
}
