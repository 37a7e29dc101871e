package port

// DashboardMetrics счетчики работы дашборда (Prometheus)
type DashboardMetrics interface {
	ObserveSectionChange(from, to, source string)
	ObserveInteraction(kind string, routed bool)
	ObserveRangeWarnings(page string, count int)
	ObservePageBuild(section string, failed bool)
	SetScore(name string, value float64)
}
