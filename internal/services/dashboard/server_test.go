package dashboard

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/tcld/ptagdash/internal/services/dashboard/warehouse"
)

func sqliteConfig(t *testing.T, addr string) Config {
	t.Helper()
	return Config{
		HTTPAddr: addr,
		Warehouse: warehouse.Settings{
			Driver: warehouse.DriverSQLite,
			DSN:    filepath.Join(t.TempDir(), "warehouse.db"),
		},
	}
}

func TestNewServerRequiresHTTPAddr(t *testing.T) {
	t.Parallel()

	if _, err := NewServer(context.Background(), sqliteConfig(t, "  "), nil); err == nil {
		t.Fatal("expected error for blank http address")
	}
}

func TestNewServerRejectsUnknownDriver(t *testing.T) {
	t.Parallel()

	cfg := sqliteConfig(t, "127.0.0.1:0")
	cfg.Warehouse.Driver = "oracle"
	if _, err := NewServer(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error for unknown warehouse driver")
	}
}

func TestServerStopsWhenContextIsCanceled(t *testing.T) {
	t.Parallel()

	server, err := NewServer(context.Background(), sqliteConfig(t, "127.0.0.1:0"), nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := server.ListenAndServe(ctx); err != nil {
		t.Fatalf("ListenAndServe = %v, want nil", err)
	}
}

func TestServerNilSafe(t *testing.T) {
	t.Parallel()

	var server *Server
	if err := server.ListenAndServe(context.Background()); err == nil {
		t.Fatal("expected error for nil server")
	}
	server.Close()
}
