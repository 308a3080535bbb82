// Package static embeds the dashboard stylesheet and client script.
package static

import "embed"

// FS holds the files served under /static/.
//
//go:embed dashboard.css dashboard.js
var FS embed.FS
