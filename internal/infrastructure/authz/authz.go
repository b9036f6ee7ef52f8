// Package authz evaluates which roles may open which console pages.
package authz

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"

	"github.com/garyjia/payroll-console/internal/application/workflow"
)

// pageModel grants a role access to a page key
const pageModel = `
[request_definition]
r = sub, obj

[policy_definition]
p = sub, obj

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj
`

// Authorizer implements port.PageAuthorizer on a casbin enforcer
type Authorizer struct {
	enforcer *casbin.Enforcer
}

// NewAuthorizer loads the built-in page grants, plus the "p, <role>, <page>"
// lines of policyPath when it is not empty.
func NewAuthorizer(policyPath string) (*Authorizer, error) {
	m, err := model.NewModelFromString(pageModel)
	if err != nil {
		return nil, fmt.Errorf("authz: invalid model: %w", err)
	}

	var enforcer *casbin.Enforcer
	if strings.TrimSpace(policyPath) != "" {
		enforcer, err = casbin.NewEnforcer(m, fileadapter.NewAdapter(policyPath))
	} else {
		enforcer, err = casbin.NewEnforcer(m)
	}
	if err != nil {
		return nil, fmt.Errorf("authz: failed to create enforcer: %w", err)
	}
	enforcer.EnableAutoSave(false)

	rules := make([][]string, 0, len(workflow.Pages()))
	for _, page := range workflow.Pages() {
		if page.RequiredRole == "" {
			continue
		}
		if ok, _ := enforcer.HasPolicy(page.RequiredRole, page.Key); ok {
			continue
		}
		rules = append(rules, []string{page.RequiredRole, page.Key})
	}
	if len(rules) > 0 {
		if _, err := enforcer.AddPolicies(rules); err != nil {
			return nil, fmt.Errorf("authz: failed to load built-in policy: %w", err)
		}
	}

	return &Authorizer{enforcer: enforcer}, nil
}

// Allowed reports whether any of roles is granted pageKey
func (a *Authorizer) Allowed(roles []string, pageKey string) (bool, error) {
	for _, role := range roles {
		ok, err := a.enforcer.Enforce(role, pageKey)
		if err != nil {
			return false, fmt.Errorf("authz: enforce %q on %q: %w", role, pageKey, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Roles lists the roles granted pageKey
func (a *Authorizer) Roles(pageKey string) []string {
	policies, err := a.enforcer.GetFilteredPolicy(1, pageKey)
	if err != nil {
		return nil
	}
	roles := make([]string, 0, len(policies))
	for _, p := range policies {
		roles = append(roles, p[0])
	}
	return roles
}
