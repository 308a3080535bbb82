package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/tcld/ptagdash/internal/platform/timeouts"
	"github.com/tcld/ptagdash/internal/services/dashboard/query"
	"github.com/tcld/ptagdash/internal/services/dashboard/transport/httpmux"
	"github.com/tcld/ptagdash/internal/services/dashboard/warehouse"
)

// Config defines the inputs for the dashboard process.
type Config struct {
	HTTPAddr string
	// Debug prints panic stacks in recovered responses.
	Debug     bool
	Limits    Limits
	Warehouse warehouse.Settings
}

// Server hosts the dashboard over HTTP and owns the warehouse pool.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	store      *warehouse.Store
	logger     *zap.Logger
}

// NewServer opens the warehouse and builds the HTTP server. The warehouse is
// not contacted here; a store that is down shows up in the status banner.
func NewServer(ctx context.Context, config Config, logger *zap.Logger) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	baseCtx := context.WithoutCancel(ctx)

	store, err := warehouse.Open(config.Warehouse)
	if err != nil {
		return nil, fmt.Errorf("open warehouse: %w", err)
	}

	handler := NewHandler(query.NewLayer(store, logger), HandlerOptions{
		Logger: logger,
		Limits: config.Limits,
	})
	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           httpmux.Wrap(handler, logger, config.Debug),
		ReadHeaderTimeout: timeouts.ReadHeader,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}

	return &Server{
		httpAddr:   httpAddr,
		httpServer: httpServer,
		store:      store,
		logger:     logger,
	}, nil
}

// ListenAndServe serves HTTP until ctx is canceled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("dashboard server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	serveErr := make(chan error, 1)
	s.logger.Info("dashboard listening", zap.String("addr", s.httpAddr))
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases the warehouse pool.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("close warehouse", zap.Error(err))
		}
	}
}
