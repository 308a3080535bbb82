// Package timeouts defines shared timeout constants used across the dashboard.
// Keeping them together makes the bounds on each round trip discoverable.
package timeouts

import "time"

// DBConnect bounds a single warehouse round trip: acquiring a connection and
// running one query.
const DBConnect = 30 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// OTelShutdown limits how long pending spans may take to flush on exit.
const OTelShutdown = 5 * time.Second
