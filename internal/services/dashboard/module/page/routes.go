package page

import (
	"net/http"

	"github.com/tcld/ptagdash/internal/services/dashboard/routepath"
)

// Service defines the page and filter option handlers consumed by this route
// module.
type Service interface {
	HandleDashboard(w http.ResponseWriter, r *http.Request)
	HandleBuildingOptions(w http.ResponseWriter, r *http.Request)
	HandleAreaOptions(w http.ResponseWriter, r *http.Request)
}

// RegisterRoutes wires the dashboard page and filter option routes into mux.
func RegisterRoutes(mux *http.ServeMux, service Service) {
	if mux == nil || service == nil {
		return
	}
	mux.HandleFunc(routepath.Root, service.HandleDashboard)
	mux.HandleFunc(routepath.OptionsBuildings, service.HandleBuildingOptions)
	mux.HandleFunc(routepath.OptionsAreas, service.HandleAreaOptions)
}
