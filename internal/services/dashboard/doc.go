// Package dashboard serves the EA Ptag monitoring page.
//
// The page is one document of independent regions (status, metrics, two
// charts and the recent readings table). A full page load renders every
// region on the server; after that each region reloads itself over HTMX
// when the operator presses Refresh, so a slow or failing region never holds
// up or breaks the others.
package dashboard
