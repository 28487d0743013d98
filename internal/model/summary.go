package model

// DailySummary is computed on read from completions joined with tasks.
// TotalValue counts paid and bonus tasks only; completed discounts show up in
// TotalDiscountWeek, summed over the ISO week containing the day.
type DailySummary struct {
	TotalValue        float64 `json:"totalValue"`
	CompletedTasks    int     `json:"completedTasks"`
	TotalTasks        int     `json:"totalTasks"`
	TotalDiscountWeek float64 `json:"totalDiscountWeek"`
}

// MonthlySummary aggregates a child's month. Unlike the daily figure,
// TotalValue here nets discounts out (paid + bonus - discount).
type MonthlySummary struct {
	TotalValue        float64 `json:"totalValue"`
	TotalDiscounts    float64 `json:"totalDiscounts"`
	CompletedTasks    int     `json:"completedTasks"`
	DailyAverageValue float64 `json:"dailyAverageValue"`
}
