package models

import "github.com/shopspring/decimal"

// ReportPeriod is the bucket size of a sales report
type ReportPeriod string

const (
	PeriodDay   ReportPeriod = "day"
	PeriodWeek  ReportPeriod = "week"
	PeriodMonth ReportPeriod = "month"
)

// ReportEntry aggregates the orders of one bucket
type ReportEntry struct {
	Period  string          `json:"period"`
	Orders  int             `json:"orders"`
	Items   int             `json:"items"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Report is the body of GET /api/reports
type Report struct {
	Period ReportPeriod  `json:"period"`
	Data   []ReportEntry `json:"data"`
}
