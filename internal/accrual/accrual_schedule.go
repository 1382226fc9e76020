package accrual

import "time"

const MonthLayout = "2006-01"

// ShouldAccrue reports whether today is the monthly anniversary of
// hireDate. It never fires in the hiring month. When the anniversary day
// does not exist in today's month, the last day of the month stands in.
func ShouldAccrue(hireDate, today time.Time) bool {
	hy, hm, hd := hireDate.Date()
	ty, tm, td := today.Date()

	if hy == ty && hm == tm {
		return false
	}
	if ty < hy || (ty == hy && tm < hm) {
		return false
	}
	if td == hd {
		return true
	}

	last := daysIn(ty, tm)
	return td == last && hd > last
}

// MonthKey formats t as the YYYY-MM marker stored per employee.
func MonthKey(t time.Time) string {
	return t.Format(MonthLayout)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
