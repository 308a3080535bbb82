// Package route holds path helpers shared by the HTTP surfaces.
package route

import (
	"net/http"
	"strings"
)

// Canonical strips trailing slashes from path. The root path stays "/".
func Canonical(path string) string {
	canonical := strings.TrimRight(path, "/")
	if canonical == "" {
		return "/"
	}
	return canonical
}

// RedirectTrailingSlash redirects a path with trailing slashes to its
// canonical form, keeping the query so filter selections survive. It reports
// whether a redirect was written.
func RedirectTrailingSlash(w http.ResponseWriter, r *http.Request) bool {
	if w == nil || r == nil || r.URL == nil {
		return false
	}
	canonical := Canonical(r.URL.Path)
	if canonical == r.URL.Path {
		return false
	}
	target := canonical
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusMovedPermanently)
	return true
}
