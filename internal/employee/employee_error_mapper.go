package employee

import (
	"errors"

	employeeerrors "rh-management/internal/employee/errors"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}

	return err
}

// MapRepositoryError is shared with services that load employees through
// this package's repository inside their own transaction.
func MapRepositoryError(err error) error {
	return mapRepositoryError(err)
}
