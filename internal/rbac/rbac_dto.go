package rbac

import "rh-management/internal/domain"

type EnforceRequest = domain.EnforceRequest

type EnforceResponse = domain.EnforceResponse

type PermissionResponse = domain.PermissionResponse
