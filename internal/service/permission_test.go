package service_test

import (
	"context"
	"errors"
	"testing"

	"locadora-erp-backend/internal/domain"
	"locadora-erp-backend/internal/identity"
	"locadora-erp-backend/internal/repository"
	"locadora-erp-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPermissionService_UpdateRolePermissions(t *testing.T) {
	admin := identity.WithPrincipal(context.Background(), &identity.Principal{UserID: "u-admin"})

	newSvc := func() (service.PermissionService, *MockRBACRepo, *MockTransactor) {
		repo := new(MockRBACRepo)
		tx := &MockTransactor{Repos: repository.Repositories{RBAC: repo}}
		return service.NewPermissionService(repo, tx), repo, tx
	}

	t.Run("Replaces deduplicated set", func(t *testing.T) {
		svc, repo, tx := newSvc()
		repo.On("UserHasPermission", admin, "u-admin", domain.PermManageRoles).Return(true, nil).Once()
		repo.On("GetRole", admin, int64(2)).Return(&domain.Role{ID: 2, Name: "atendente"}, nil).Once()
		repo.On("ReplaceRolePermissions", admin, int64(2), []int64{1, 3}).Return(nil).Once()

		require.NoError(t, svc.UpdateRolePermissions(admin, 2, []int64{3, 1, 3}))
		assert.Equal(t, 1, tx.Calls)
		repo.AssertExpectations(t)
	})

	t.Run("Anonymous caller", func(t *testing.T) {
		svc, repo, _ := newSvc()
		err := svc.UpdateRolePermissions(context.Background(), 2, []int64{1})
		assert.True(t, errors.Is(err, domain.ErrPermissionDenied))
		repo.AssertNotCalled(t, "ReplaceRolePermissions", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Caller without manage:roles", func(t *testing.T) {
		svc, repo, tx := newSvc()
		repo.On("UserHasPermission", admin, "u-admin", domain.PermManageRoles).Return(false, nil).Once()

		err := svc.UpdateRolePermissions(admin, 2, []int64{1})
		assert.True(t, errors.Is(err, domain.ErrPermissionDenied))
		assert.Equal(t, 0, tx.Calls)
	})

	t.Run("Unknown role", func(t *testing.T) {
		svc, repo, _ := newSvc()
		repo.On("UserHasPermission", admin, "u-admin", domain.PermManageRoles).Return(true, nil).Once()
		repo.On("GetRole", admin, int64(9)).Return(nil, domain.NotFound("role", "9")).Once()

		err := svc.UpdateRolePermissions(admin, 9, nil)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
		repo.AssertNotCalled(t, "ReplaceRolePermissions", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPermissionService_GetRBACData(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRBACRepo)
	svc := service.NewPermissionService(repo, &MockTransactor{})

	repo.On("ListRoles", ctx).Return([]domain.Role{{ID: 1, Name: "admin"}}, nil).Once()
	repo.On("ListPermissions", ctx).Return([]domain.Permission{{ID: 1, Slug: domain.PermManageRoles}}, nil).Once()
	repo.On("ListRolePermissions", ctx).Return([]domain.RolePermission{{RoleID: 1, PermissionID: 1}}, nil).Once()

	data, err := svc.GetRBACData(ctx)
	require.NoError(t, err)
	assert.Len(t, data.Roles, 1)
	assert.Len(t, data.RolePermissions, 1)
}

func TestPermissionService_CheckPermission(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRBACRepo)
	svc := service.NewPermissionService(repo, &MockTransactor{})

	ok, err := svc.CheckPermission(ctx, "", domain.PermViewDashboard)
	require.NoError(t, err)
	assert.False(t, ok)

	repo.On("UserHasPermission", ctx, "u-1", domain.PermViewDashboard).Return(true, nil).Once()
	ok, err = svc.CheckPermission(ctx, "u-1", domain.PermViewDashboard)
	require.NoError(t, err)
	assert.True(t, ok)
}
