package controllers

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/jackc/pgx/v5"
)

// AdminChecker answers "does this employee hold an administrative role for
// this company". The workflow engine treats it as an opaque predicate so the
// set of administrative roles stays configuration, not logic.
type AdminChecker interface {
	IsCompanyAdmin(ctx context.Context, employeeID, companyID uint64) (bool, error)
}

// RoleAdminChecker is the default AdminChecker: the employee must belong to
// the company, be active, and hold one of the configured admin roles.
type RoleAdminChecker struct {
	db     DB
	roles  []string
	logger *slog.Logger
}

func NewRoleAdminChecker(db DB, roles []string, logger *slog.Logger) *RoleAdminChecker {
	return &RoleAdminChecker{
		db:     db,
		roles:  roles,
		logger: logger,
	}
}

func (c *RoleAdminChecker) IsCompanyAdmin(ctx context.Context, employeeID, companyID uint64) (bool, error) {
	var empCompanyID uint64
	var role string
	var isActive bool

	query := `SELECT company_id, role, is_active FROM employees WHERE id = $1`
	if err := c.db.QueryRow(ctx, query, employeeID).Scan(&empCompanyID, &role, &isActive); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}

		c.logger.Error("Error querying employee role", slog.String("error", err.Error()))
		return false, err
	}

	if empCompanyID != companyID || !isActive {
		return false, nil
	}

	return slices.Contains(c.roles, role), nil
}
