package teamerrors

import (
	"net/http"

	"rh-management/internal/shared/apperror"
)

var (
	ErrTeamNotFound = apperror.New(
		apperror.CodeNotFound,
		"Team not found",
		http.StatusNotFound,
	)
	ErrInvalidTeamID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid team ID",
		http.StatusBadRequest,
	)
	ErrInvalidManager = apperror.New(
		apperror.CodeInvalidInput,
		"manager_id must reference a user with role MANAGER",
		http.StatusBadRequest,
	)
	ErrTeamAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"A team with the same name already exists",
		http.StatusConflict,
	)
	ErrManagerAlreadyAssigned = apperror.New(
		apperror.CodeConflict,
		"This manager already leads a team",
		http.StatusConflict,
	)
	ErrTeamNotEmpty = apperror.New(
		apperror.CodeInvalidState,
		"Team still has members",
		http.StatusConflict,
	)
	ErrNotTeamManager = apperror.New(
		apperror.CodeForbidden,
		"Only the manager of this team can change its members",
		http.StatusForbidden,
	)
	ErrNoManagedTeam = apperror.New(
		apperror.CodeNotFound,
		"You do not manage any team",
		http.StatusNotFound,
	)
	ErrEmployeesNotEligible = apperror.New(
		apperror.CodeInvalidInput,
		"Only existing EMPLOYEE users can be added to a team",
		http.StatusBadRequest,
	)
)
