package domain

// ProjectionResult is the outcome of growing one or more contribution streams
// over a horizon.
type ProjectionResult struct {
	TotalInvested float64 `json:"totalInvested"`
	FinalValue    float64 `json:"finalValue"`
	Gains         float64 `json:"gains"`
	// FinalMonthlyContribution is the contribution in force during the last month.
	FinalMonthlyContribution float64 `json:"finalMonthlyContribution"`
}

// Plus returns the component-wise sum of r and o.
func (r ProjectionResult) Plus(o ProjectionResult) ProjectionResult {
	return ProjectionResult{
		TotalInvested:            r.TotalInvested + o.TotalInvested,
		FinalValue:               r.FinalValue + o.FinalValue,
		Gains:                    r.Gains + o.Gains,
		FinalMonthlyContribution: r.FinalMonthlyContribution + o.FinalMonthlyContribution,
	}
}

// YearPoint is one entry of the year-by-year growth series.
type YearPoint struct {
	Year     int     `json:"year"`
	Invested float64 `json:"invested"`
	Value    float64 `json:"value"`
	Gains    float64 `json:"gains"`
}

// CategoryTotal is the summed projection of all streams in one category.
type CategoryTotal struct {
	CategoryID  CategoryID `json:"categoryId"`
	DisplayName string     `json:"displayName"`
	StreamCount int        `json:"streamCount"`
	ProjectionResult
}

// Portfolio is the aggregated projection of a set of contribution streams.
type Portfolio struct {
	HorizonYears int                             `json:"horizonYears"`
	Yearly       []YearPoint                     `json:"yearly"`
	ByCategory   map[CategoryID]ProjectionResult `json:"byCategory"`
	Categories   []CategoryTotal                 `json:"categories"`
	Total        ProjectionResult                `json:"total"`
}
