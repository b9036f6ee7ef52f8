package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/garyjia/payroll-console/internal/application/port"
	"github.com/garyjia/payroll-console/internal/application/workflow"
	"github.com/garyjia/payroll-console/internal/domain/entity"
)

// ErrUnauthorized is returned when the identity call fails
var ErrUnauthorized = errors.New("Unauthorized")

// ForbiddenError is returned when the identity lacks the page's role
type ForbiddenError struct {
	Role string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("Forbidden: requires %s role", e.Role)
}

// Gate performs the role check every page runs before fetching its data
type Gate interface {
	// Check resolves the caller's identity and verifies it may open page
	Check(ctx context.Context, page workflow.Page) (*entity.Identity, error)
}

type gateImpl struct {
	api        port.PayrollAPI
	authorizer port.PageAuthorizer
	logger     Logger
}

// NewGate creates a Gate. With a nil authorizer the page's required role is
// matched verbatim against the identity's roles.
func NewGate(api port.PayrollAPI, authorizer port.PageAuthorizer, logger Logger) Gate {
	return &gateImpl{
		api:        api,
		authorizer: authorizer,
		logger:     logger,
	}
}

func (g *gateImpl) Check(ctx context.Context, page workflow.Page) (*entity.Identity, error) {
	identity, err := g.api.Me(ctx)
	if err != nil {
		g.logger.Info("Identity check failed", "page", page.Key, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if identity == nil {
		return nil, ErrUnauthorized
	}

	if page.RequiredRole == "" {
		return identity, nil
	}

	if !g.allowed(identity, page) {
		g.logger.Info("Page forbidden",
			"page", page.Key,
			"required_role", page.RequiredRole,
			"roles", identity.Roles,
		)
		return identity, &ForbiddenError{Role: page.RequiredRole}
	}
	return identity, nil
}

func (g *gateImpl) allowed(identity *entity.Identity, page workflow.Page) bool {
	if g.authorizer == nil {
		return identity.HasRole(page.RequiredRole)
	}
	ok, err := g.authorizer.Allowed(identity.Roles, page.Key)
	if err != nil {
		g.logger.Error("Policy evaluation failed, falling back to role match", "page", page.Key, "error", err)
		return identity.HasRole(page.RequiredRole)
	}
	return ok
}
