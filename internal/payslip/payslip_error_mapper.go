package payslip

import (
	"errors"

	paysliperrors "rh-management/internal/payslip/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return paysliperrors.ErrPayslipNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_payslips_employee_month" {
		return paysliperrors.ErrPayslipAlreadyExists
	}

	return err
}
