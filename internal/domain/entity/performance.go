package entity

// PerformanceMetrics показатели производительности модели
type PerformanceMetrics struct {
	AvgLatencyMs      float64
	P99LatencyMs      float64
	Uptime            float64
	RequestsPerMinute int
	ErrorRate         float64
	SuccessRate       float64
}

// Incident инцидент надежности
type Incident struct {
	ID       string
	Status   string
	Title    string
	Time     string
	Duration string
}
