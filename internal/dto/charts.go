package dto

// RateSeriesResponse carries a chronological rate series for one directed
// currency pair, ready for chart rendering. Labels and Rates are parallel
// arrays with exactly one entry per point.
type RateSeriesResponse struct {
	SourceCode string    `json:"sourceCode"`
	TargetCode string    `json:"targetCode"`
	Labels     []string  `json:"labels"`
	Rates      []float64 `json:"rates"`
}

// DistributionResponse carries grouped conversion counts for a distribution
// chart. Labels and Counts are parallel arrays.
type DistributionResponse struct {
	Labels []string `json:"labels"`
	Counts []int64  `json:"counts"`
}
