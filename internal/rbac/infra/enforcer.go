package infra

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// RoleModel grants an action on a resource to a role. Roles are a closed
// set, so there is no grouping section.
const RoleModel = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// NewEnforcer builds an enforcer from RoleModel with an empty policy.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(RoleModel)
	if err != nil {
		return nil, err
	}
	return casbin.NewEnforcer(m)
}
