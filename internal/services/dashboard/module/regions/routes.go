package regions

import (
	"net/http"

	"github.com/tcld/ptagdash/internal/services/dashboard/routepath"
)

// Service defines the region fragment handlers consumed by this route module.
type Service interface {
	HandleStatusRegion(w http.ResponseWriter, r *http.Request)
	HandleMetricsRegion(w http.ResponseWriter, r *http.Request)
	HandleConsumptionRegion(w http.ResponseWriter, r *http.Request)
	HandleDistributionRegion(w http.ResponseWriter, r *http.Request)
	HandleTableRegion(w http.ResponseWriter, r *http.Request)
}

// RegisterRoutes wires region fragment routes into mux.
func RegisterRoutes(mux *http.ServeMux, service Service) {
	if mux == nil || service == nil {
		return
	}
	mux.HandleFunc(routepath.RegionStatus, service.HandleStatusRegion)
	mux.HandleFunc(routepath.RegionMetrics, service.HandleMetricsRegion)
	mux.HandleFunc(routepath.RegionConsumption, service.HandleConsumptionRegion)
	mux.HandleFunc(routepath.RegionDistribution, service.HandleDistributionRegion)
	mux.HandleFunc(routepath.RegionTable, service.HandleTableRegion)
}
