package balance

import (
	"time"

	balanceerrors "rh-management/internal/balance/errors"
)

// Kind selects which of the two counters an operation touches.
type Kind string

const (
	KindHoliday    Kind = "HOLIDAY"
	KindPermission Kind = "PERMISSION"
)

// Monthly accrual granted on each hire-date anniversary.
const (
	MonthlyHolidayDays    = 2
	MonthlyPermissionDays = 1
)

func ParseKind(v string) (Kind, error) {
	switch k := Kind(v); k {
	case KindHoliday, KindPermission:
		return k, nil
	}
	return "", balanceerrors.ErrInvalidKind
}

// Ledger holds the two balances of one employee. It is embedded in the
// employee row, so callers persist it together with the owning record.
type Ledger struct {
	Holiday    int `gorm:"column:holiday_balance;not null;default:0"`
	Permission int `gorm:"column:permission_balance;not null;default:0"`
}

func (l Ledger) Of(kind Kind) int {
	if kind == KindPermission {
		return l.Permission
	}
	return l.Holiday
}

// Debit subtracts days from the selected balance. The check runs before
// any mutation; on error the ledger is unchanged.
func (l *Ledger) Debit(kind Kind, days int) error {
	if days < 0 {
		return balanceerrors.ErrNegativeDays
	}
	counter, err := l.counter(kind)
	if err != nil {
		return err
	}
	if *counter-days < 0 {
		return balanceerrors.ErrInsufficientBalance
	}
	*counter -= days
	return nil
}

// Credit adds days back to the selected balance. There is no upper bound.
func (l *Ledger) Credit(kind Kind, days int) error {
	if days < 0 {
		return balanceerrors.ErrNegativeDays
	}
	counter, err := l.counter(kind)
	if err != nil {
		return err
	}
	*counter += days
	return nil
}

// Accrue adds to both balances unconditionally.
func (l *Ledger) Accrue(holidayDays, permissionDays int) {
	l.Holiday += holidayDays
	l.Permission += permissionDays
}

func (l *Ledger) counter(kind Kind) (*int, error) {
	switch kind {
	case KindHoliday:
		return &l.Holiday, nil
	case KindPermission:
		return &l.Permission, nil
	}
	return nil, balanceerrors.ErrInvalidKind
}

// Days is the calendar-day difference between two dates, end exclusive:
// a request from the 1st to the 2nd costs one day. Times of day are ignored.
func Days(start, end time.Time) (int, error) {
	s := dateOnly(start)
	e := dateOnly(end)
	if e.Before(s) {
		return 0, balanceerrors.ErrInvalidDateRange
	}
	return int(e.Sub(s).Hours() / 24), nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
