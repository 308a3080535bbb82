package routepath

const (
	Root = "/"
)

const (
	StaticPrefix = "/static/"
)

const (
	OptionsBuildings = "/options/buildings"
	OptionsAreas     = "/options/areas"
)

const (
	RegionStatus       = "/regions/status"
	RegionMetrics      = "/regions/metrics"
	RegionConsumption  = "/regions/consumption"
	RegionDistribution = "/regions/distribution"
	RegionTable        = "/regions/table"
)

// Regions lists every region fragment route in page order.
func Regions() []string {
	return []string{RegionStatus, RegionMetrics, RegionConsumption, RegionDistribution, RegionTable}
}
