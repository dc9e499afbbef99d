package service

import (
	"context"
	"errors"
	"sort"

	"locadora-erp-backend/internal/domain"
	"locadora-erp-backend/internal/identity"
	"locadora-erp-backend/internal/logger"
	"locadora-erp-backend/internal/repository"
)

type permissionService struct {
	rbacRepo repository.RBACRepository
	tx       repository.Transactor
}

func NewPermissionService(rbacRepo repository.RBACRepository, tx repository.Transactor) PermissionService {
	return &permissionService{
		rbacRepo: rbacRepo,
		tx:       tx,
	}
}

func (s *permissionService) GetRBACData(ctx context.Context) (*domain.RBACData, error) {
	roles, err := s.rbacRepo.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	perms, err := s.rbacRepo.ListPermissions(ctx)
	if err != nil {
		return nil, err
	}
	links, err := s.rbacRepo.ListRolePermissions(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.RBACData{Roles: roles, Permissions: perms, RolePermissions: links}, nil
}

// UpdateRolePermissions replaces the role's permission set in one
// transaction. The caller must hold manage:roles.
func (s *permissionService) UpdateRolePermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	logger.EnterMethod("PermissionService.UpdateRolePermissions", "role_id", roleID, "count", len(permissionIDs))

	principal, ok := identity.FromContext(ctx)
	if !ok {
		return domain.NewError(domain.KindPermissionDenied, "authentication required")
	}
	allowed, err := s.CheckPermission(ctx, principal.UserID, domain.PermManageRoles)
	if err != nil {
		logger.ExitMethodWithError("PermissionService.UpdateRolePermissions", err)
		return err
	}
	if !allowed {
		return domain.NewError(domain.KindPermissionDenied, "user %s may not manage roles", principal.UserID)
	}

	ids := dedupeIDs(permissionIDs)
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if _, err := repos.RBAC.GetRole(ctx, roleID); err != nil {
			return err
		}
		return repos.RBAC.ReplaceRolePermissions(ctx, roleID, ids)
	})
	if err != nil {
		logger.ExitMethodWithError("PermissionService.UpdateRolePermissions", err, "role_id", roleID)
		return err
	}

	logger.ExitMethod("PermissionService.UpdateRolePermissions", "role_id", roleID)
	return nil
}

func (s *permissionService) CheckPermission(ctx context.Context, userID, slug string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	ok, err := s.rbacRepo.UserHasPermission(ctx, userID, slug)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return ok, err
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
