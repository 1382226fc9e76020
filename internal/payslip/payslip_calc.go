package payslip

import (
	"time"

	"github.com/shopspring/decimal"
)

const MonthLayout = "2006-01"

var NetRate = decimal.RequireFromString("0.80")

// Net applies the flat deduction rate to a gross amount.
func Net(gross decimal.Decimal) decimal.Decimal {
	return gross.Mul(NetRate).Round(2)
}

func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func daysIn(month time.Time) int {
	return FirstOfMonth(month).AddDate(0, 1, -1).Day()
}

// ProratedGross returns the gross due for month. An employee hired during
// month is paid for the days from the hire date to asOf inclusive; anyone
// hired earlier gets the full amount.
func ProratedGross(gross decimal.Decimal, hireDate *time.Time, month, asOf time.Time) decimal.Decimal {
	first := FirstOfMonth(month)
	if hireDate == nil || !FirstOfMonth(*hireDate).Equal(first) {
		return gross.Round(2)
	}

	total := daysIn(first)
	start := time.Date(hireDate.Year(), hireDate.Month(), hireDate.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	if !FirstOfMonth(end).Equal(first) {
		end = first.AddDate(0, 0, total-1)
	}

	worked := int(end.Sub(start).Hours()/24) + 1
	if worked < 0 {
		worked = 0
	}
	if worked > total {
		worked = total
	}

	return gross.Div(decimal.NewFromInt(int64(total))).Mul(decimal.NewFromInt(int64(worked))).Round(2)
}
