package postgres

import (
	"context"

	"locadora-erp-backend/internal/domain"
	"locadora-erp-backend/internal/logger"
	"locadora-erp-backend/internal/repository"

	"github.com/lib/pq"
)

type rbacRepository struct {
	db DBTX
}

func NewRBACRepository(db DBTX) repository.RBACRepository {
	return &rbacRepository{db: db}
}

func (r *rbacRepository) ListRoles(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM roles ORDER BY name`)
	if err != nil {
		return nil, mapError("list roles", err)
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, mapError("scan role", err)
		}
		roles = append(roles, role)
	}
	return roles, mapError("list roles", rows.Err())
}

func (r *rbacRepository) ListPermissions(ctx context.Context) ([]domain.Permission, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, slug, COALESCE(description, '') FROM permissions ORDER BY slug`)
	if err != nil {
		return nil, mapError("list permissions", err)
	}
	defer rows.Close()

	var perms []domain.Permission
	for rows.Next() {
		var p domain.Permission
		if err := rows.Scan(&p.ID, &p.Slug, &p.Description); err != nil {
			return nil, mapError("scan permission", err)
		}
		perms = append(perms, p)
	}
	return perms, mapError("list permissions", rows.Err())
}

func (r *rbacRepository) ListRolePermissions(ctx context.Context) ([]domain.RolePermission, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT role_id, permission_id FROM role_permissions ORDER BY role_id, permission_id`)
	if err != nil {
		return nil, mapError("list role permissions", err)
	}
	defer rows.Close()

	var links []domain.RolePermission
	for rows.Next() {
		var rp domain.RolePermission
		if err := rows.Scan(&rp.RoleID, &rp.PermissionID); err != nil {
			return nil, mapError("scan role permission", err)
		}
		links = append(links, rp)
	}
	return links, mapError("list role permissions", rows.Err())
}

func (r *rbacRepository) GetRole(ctx context.Context, id int64) (*domain.Role, error) {
	role := &domain.Role{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM roles WHERE id = $1`, id).Scan(&role.ID, &role.Name)
	if err != nil {
		return nil, notFoundOr("get role", "role", fmtID(id), err)
	}
	return role, nil
}

// ReplaceRolePermissions deletes the role's links and inserts the new set.
// Callers run it inside WithinTx so the swap is atomic.
func (r *rbacRepository) ReplaceRolePermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	logger.DatabaseCall("rbac.ReplaceRolePermissions", "DELETE/INSERT role_permissions", "role_id", roleID, "count", len(permissionIDs))
	if _, err := r.db.ExecContext(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, roleID); err != nil {
		return mapError("clear role permissions", err)
	}
	if len(permissionIDs) == 0 {
		return nil
	}
	query := `INSERT INTO role_permissions (role_id, permission_id) SELECT $1, unnest($2::bigint[])`
	_, err := r.db.ExecContext(ctx, query, roleID, pq.Array(permissionIDs))
	return mapError("insert role permissions", err)
}

func (r *rbacRepository) UserHasPermission(ctx context.Context, userID, slug string) (bool, error) {
	query := `SELECT EXISTS (
	            SELECT 1 FROM user_roles ur
	            JOIN role_permissions rp ON rp.role_id = ur.role_id
	            JOIN permissions p ON p.id = rp.permission_id
	            WHERE ur.user_id = $1 AND p.slug = $2)`
	var ok bool
	if err := r.db.QueryRowContext(ctx, query, userID, slug).Scan(&ok); err != nil {
		return false, mapError("check permission", err)
	}
	return ok, nil
}
