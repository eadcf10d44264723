package dto

// EquityReportQuery configures the rolling window.
type EquityReportQuery struct {
	WindowDays int `form:"windowDays"`
}

// MonthlyReportRequest identifies one calendar month.
type MonthlyReportRequest struct {
	Year  int `json:"year" binding:"required,min=2000"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}
