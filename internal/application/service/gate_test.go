package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/payroll-console/internal/application/port"
	"github.com/garyjia/payroll-console/internal/application/workflow"
	"github.com/garyjia/payroll-console/internal/domain/entity"
	"github.com/garyjia/payroll-console/internal/infrastructure/authz"
)

func TestGate_Check(t *testing.T) {
	page := workflow.MustPage(workflow.PageRefunds)

	tests := []struct {
		name          string
		identity      *entity.Identity
		meErr         error
		page          workflow.Page
		wantForbidden bool
		wantUnauth    bool
	}{
		{"has role", &entity.Identity{Roles: []string{entity.RoleFinanceStaff}}, nil, page, false, false},
		{"missing role", &entity.Identity{Roles: []string{"Employee"}}, nil, page, true, false},
		{"role case differs", &entity.Identity{Roles: []string{"finance staff"}}, nil, page, true, false},
		{"not logged in", nil, &port.APIError{StatusCode: 401}, page, false, true},
		{"no role required", &entity.Identity{}, nil, workflow.MustPage(workflow.PageClaims), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newMockAPI()
			api.meFunc = func(ctx context.Context) (*entity.Identity, error) {
				return tt.identity, tt.meErr
			}

			_, err := NewGate(api, nil, &mockLogger{}).Check(context.Background(), tt.page)

			switch {
			case tt.wantUnauth:
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnauthorized))
			case tt.wantForbidden:
				var forbidden *ForbiddenError
				require.True(t, errors.As(err, &forbidden))
				assert.Equal(t, "Forbidden: requires Finance Staff role", err.Error())
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestGate_ReportPagesAcceptAnyIdentity(t *testing.T) {
	authorizer, err := authz.NewAuthorizer("")
	require.NoError(t, err)

	api := newMockAPI()
	api.meFunc = func(ctx context.Context) (*entity.Identity, error) {
		return &entity.Identity{Roles: []string{"department employee"}}, nil
	}
	gate := NewGate(api, authorizer, &mockLogger{})

	for _, key := range []string{workflow.PageDepartmentPayrolls, workflow.PagePayrollRuns} {
		identity, err := gate.Check(context.Background(), workflow.MustPage(key))
		require.NoError(t, err, key)
		assert.NotNil(t, identity, key)
	}

	_, err = gate.Check(context.Background(), workflow.MustPage(workflow.PageClaimsSpecialist))
	var forbidden *ForbiddenError
	assert.True(t, errors.As(err, &forbidden), "review pages stay gated")
}

func TestGate_ForbiddenNeverFetchesContent(t *testing.T) {
	api := newMockAPI()
	api.identity = &entity.Identity{Roles: []string{entity.RolePayrollSpecialist}}
	gate := NewGate(api, nil, &mockLogger{})
	refunds := NewRefundService(api, nil, nil, nil, &mockLogger{})

	// Handlers only fetch after a successful check
	if _, err := gate.Check(context.Background(), workflow.MustPage(workflow.PageRefunds)); err == nil {
		_, _ = refunds.Overview(context.Background(), RefundFilter{})
	}

	assert.Len(t, api.callsTo("GET", "/auth/me"), 1)
	assert.Empty(t, api.callsTo("GET", pathRefunds))
}

func TestGate_UsesAuthorizer(t *testing.T) {
	api := newMockAPI()
	api.identity = &entity.Identity{Roles: []string{"Auditor"}}
	authorizer := &mockAuthorizer{allowedFunc: func(roles []string, pageKey string) (bool, error) {
		return pageKey == workflow.PageFinanceReports && roles[0] == "Auditor", nil
	}}
	gate := NewGate(api, authorizer, &mockLogger{})

	_, err := gate.Check(context.Background(), workflow.MustPage(workflow.PageFinanceReports))
	assert.NoError(t, err)

	_, err = gate.Check(context.Background(), workflow.MustPage(workflow.PageRefunds))
	assert.Error(t, err)
}

func TestGate_AuthorizerErrorFallsBackToRoleMatch(t *testing.T) {
	api := newMockAPI()
	api.identity = &entity.Identity{Roles: []string{entity.RoleFinanceStaff}}
	authorizer := &mockAuthorizer{allowedFunc: func([]string, string) (bool, error) {
		return false, errors.New("policy unavailable")
	}}

	_, err := NewGate(api, authorizer, &mockLogger{}).Check(context.Background(), workflow.MustPage(workflow.PageRefunds))
	assert.NoError(t, err)
}
