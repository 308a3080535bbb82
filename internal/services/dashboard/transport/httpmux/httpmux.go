// Package httpmux assembles the dashboard's root mux and middleware chain.
package httpmux

import (
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"go.uber.org/zap"

	"github.com/tcld/ptagdash/internal/platform/id"
	"github.com/tcld/ptagdash/internal/platform/requestctx"
	"github.com/tcld/ptagdash/internal/services/dashboard/routepath"
)

// RequestIDHeader carries the request correlation id.
const RequestIDHeader = "X-Request-ID"

// MountStatic wires static asset serving into the root mux.
func MountStatic(rootMux *http.ServeMux, staticFS fs.FS) {
	if rootMux == nil || staticFS == nil {
		return
	}
	rootMux.Handle(routepath.StaticPrefix, http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(staticFS))))
}

// MountRoutes mounts the dashboard routes under the root path.
func MountRoutes(rootMux *http.ServeMux, appMux *http.ServeMux) {
	if rootMux == nil || appMux == nil {
		return
	}
	rootMux.Handle(routepath.Root, appMux)
}

// Wrap applies the shared middleware: request ids, gzip, combined access
// logs through logger and panic recovery.
func Wrap(next http.Handler, logger *zap.Logger, debug bool) http.Handler {
	if next == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	accessLog := zap.NewStdLog(logger.Named("http")).Writer()

	h := WithRequestID(next)
	h = handlers.CompressHandler(h)
	h = handlers.CombinedLoggingHandler(accessLog, h)
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{logger: logger}),
		handlers.PrintRecoveryStack(debug),
	)(h)
}

// WithRequestID propagates the caller's X-Request-ID or assigns a new one,
// echoing it on the response and storing it in the request context.
func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if requestID == "" || len(requestID) > 128 {
			generated, err := id.NewID()
			if err == nil {
				requestID = generated
			}
		}
		if requestID != "" {
			w.Header().Set(RequestIDHeader, requestID)
			r = r.WithContext(requestctx.WithRequestID(r.Context(), requestID))
		}
		next.ServeHTTP(w, r)
	})
}

type recoveryLogger struct {
	logger *zap.Logger
}

func (l recoveryLogger) Println(values ...interface{}) {
	l.logger.Error("http handler panic", zap.String("panic", fmt.Sprint(values...)))
}
