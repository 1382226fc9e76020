package statistic

import "github.com/shopspring/decimal"

// MonthlyCount compares a figure for the current month with the previous
// one. Rate is the percent change, zero when last month was zero.
type MonthlyCount struct {
	CurrentMonth int64           `json:"current_month"`
	LastMonth    int64           `json:"last_month"`
	Rate         decimal.Decimal `json:"rate"`
}

type DashboardResponse struct {
	PendingLeaves MonthlyCount `json:"pending_leaves"`
	Hires         MonthlyCount `json:"hires"`
}
