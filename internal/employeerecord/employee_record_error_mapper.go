package employeerecord

import (
	"errors"

	employeerecorderrors "rh-management/internal/employeerecord/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeerecorderrors.ErrRecordNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_employee_records_employee" {
		return employeerecorderrors.ErrRecordAlreadyExists
	}

	return err
}
