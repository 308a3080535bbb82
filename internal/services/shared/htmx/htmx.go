// Package htmx holds the server side of the HTMX request protocol.
package htmx

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"
)

const (
	// RequestHeader marks requests issued by HTMX.
	RequestHeader = "HX-Request"
	// TargetHeader carries the id of the element HTMX will swap.
	TargetHeader = "HX-Target"
)

// IsHTMXRequest reports whether the request was initiated by HTMX.
func IsHTMXRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.EqualFold(r.Header.Get(RequestHeader), "true")
}

// Target returns the id of the element being swapped, if any.
func Target(r *http.Request) string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(r.Header.Get(TargetHeader))
}

// Render serves fragment to HTMX and full to everyone else. Responses vary on
// the request header so caches keep the two apart. A nil full serves fragment
// on both paths.
func Render(w http.ResponseWriter, r *http.Request, fragment templ.Component, full templ.Component) {
	w.Header().Add("Vary", RequestHeader)
	w.Header().Set("Cache-Control", "no-store")

	target := full
	if IsHTMXRequest(r) || full == nil {
		target = fragment
	}
	if target == nil {
		return
	}
	templ.Handler(target).ServeHTTP(w, r)
}
