package regions

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tcld/ptagdash/internal/services/dashboard/routepath"
)

type fakeService struct {
	lastCall string
}

func (f *fakeService) HandleStatusRegion(http.ResponseWriter, *http.Request) {
	f.lastCall = "status"
}

func (f *fakeService) HandleMetricsRegion(http.ResponseWriter, *http.Request) {
	f.lastCall = "metrics"
}

func (f *fakeService) HandleConsumptionRegion(http.ResponseWriter, *http.Request) {
	f.lastCall = "consumption"
}

func (f *fakeService) HandleDistributionRegion(http.ResponseWriter, *http.Request) {
	f.lastCall = "distribution"
}

func (f *fakeService) HandleTableRegion(http.ResponseWriter, *http.Request) {
	f.lastCall = "table"
}

func TestRegisterRoutes(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	mux := http.NewServeMux()
	RegisterRoutes(mux, svc)

	tests := []struct {
		path     string
		wantCall string
	}{
		{path: routepath.RegionStatus, wantCall: "status"},
		{path: routepath.RegionMetrics, wantCall: "metrics"},
		{path: routepath.RegionConsumption, wantCall: "consumption"},
		{path: routepath.RegionDistribution, wantCall: "distribution"},
		{path: routepath.RegionTable, wantCall: "table"},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path+"?building=B1", nil)
			rec := httptest.NewRecorder()
			svc.lastCall = ""

			mux.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
			}
			if svc.lastCall != tc.wantCall {
				t.Fatalf("lastCall = %q, want %q", svc.lastCall, tc.wantCall)
			}
		})
	}
}

func TestRegisterRoutesCoversEveryRegion(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	mux := http.NewServeMux()
	RegisterRoutes(mux, svc)

	for _, path := range routepath.Regions() {
		svc.lastCall = ""
		mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
		if svc.lastCall == "" {
			t.Fatalf("region %q is not routed", path)
		}
	}
}
