package query

import (
	"context"

	"go.uber.org/zap"

	"github.com/tcld/ptagdash/internal/services/dashboard/warehouse"
)

// StatusMessageLimit caps the probe error shown in the status banner.
const StatusMessageLimit = 50

// ConnectionState is the outcome of a connection probe.
type ConnectionState int

const (
	// Connected means the probe query succeeded.
	Connected ConnectionState = iota
	// Rejected means the warehouse could not be reached or refused the login.
	Rejected
	// Errored means a connection was made but the probe query failed.
	Errored
)

func (s ConnectionState) String() string {
	switch s {
	case Connected:
		return "connected"
	case Rejected:
		return "rejected"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// ConnectionStatus is what the status banner shows.
type ConnectionStatus struct {
	State ConnectionState
	// Message is the truncated probe error, set only when State is Errored.
	Message string
}

// Truncate cuts msg to its first limit runes. Error text shown on the page
// never runs past the limit of the region showing it.
func Truncate(msg string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(msg)
	if len(runes) <= limit {
		return msg
	}
	return string(runes[:limit])
}

// CheckConnection probes the warehouse.
func (l *Layer) CheckConnection(ctx context.Context) ConnectionStatus {
	if l.source == nil {
		return ConnectionStatus{State: Rejected}
	}
	err := l.source.Ping(ctx)
	switch {
	case err == nil:
		return ConnectionStatus{State: Connected}
	case warehouse.IsUnavailable(err):
		l.logger.Warn("warehouse unreachable", zap.Error(err))
		return ConnectionStatus{State: Rejected}
	default:
		l.logger.Warn("warehouse probe failed", zap.Error(err))
		return ConnectionStatus{State: Errored, Message: Truncate(err.Error(), StatusMessageLimit)}
	}
}
