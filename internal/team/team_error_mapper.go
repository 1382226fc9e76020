package team

import (
	"errors"

	teamerrors "rh-management/internal/team/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return teamerrors.ErrTeamNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "uq_teams_name":
			return teamerrors.ErrTeamAlreadyExists
		case "uq_teams_manager":
			return teamerrors.ErrManagerAlreadyAssigned
		}
	}

	return err
}
