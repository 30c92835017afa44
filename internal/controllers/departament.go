package controllers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hamzakamil/personelplus/internal/entity"
	"github.com/jackc/pgx/v5"
)

type DepartmentController struct {
	deps   *Dependens
	chains *ChainController
}

func NewDepartmentController(deps *Dependens, chains *ChainController) *DepartmentController {
	return &DepartmentController{
		deps:   deps,
		chains: chains,
	}
}

func (c *DepartmentController) GetDepartments(ctx context.Context, companyID *uint64) ([]entity.Department, error) {
	query := `SELECT id, company_id, name, description, parent_id, head_id, created_at, updated_at FROM departments`
	args := []any{}

	if companyID != nil {
		query += " WHERE company_id = $1"
		args = append(args, *companyID)
	}

	rows, err := c.deps.DB.Query(ctx, query, args...)
	if err != nil {
		c.deps.Logger.Error("Error querying departments", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	departments, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.Department])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	return departments, nil
}

func (c *DepartmentController) GetDepartmentByID(ctx context.Context, id uint64) (*entity.Department, error) {
	query := `SELECT id, company_id, name, description, parent_id, head_id, created_at, updated_at FROM departments WHERE id = $1`

	rows, err := c.deps.DB.Query(ctx, query, id)
	if err != nil {
		c.deps.Logger.Error("Error querying department", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	department, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entity.Department])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("Department not found", slog.Any("id", id))
			return nil, fmt.Errorf("%w: department %d", ErrNotFound, id)
		}

		c.deps.Logger.Error("Error collecting row", slog.String("error", err.Error()))
		return nil, err
	}

	return &department, nil
}

func (c *DepartmentController) CreateDepartment(ctx context.Context, dept entity.Department) (*entity.Department, error) {
	if dept.Name == "" {
		c.deps.Logger.Warn("Name is required", slog.String("name", dept.Name))
		return nil, errors.New("name is required")
	}

	if dept.CompanyID == 0 {
		c.deps.Logger.Warn("Company is required")
		return nil, errors.New("required field: company_id")
	}

	if dept.ParentID != nil {
		if err := c.checkParentCycle(ctx, 0, *dept.ParentID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	query := `INSERT INTO departments (company_id, name, description, parent_id, head_id, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7)
              RETURNING id`

	if err := c.deps.DB.QueryRow(ctx, query, dept.CompanyID, dept.Name, dept.Description, dept.ParentID, dept.HeadID, now, now).Scan(&dept.ID); err != nil {
		c.deps.Logger.Error("Error inserting department", slog.String("error", err.Error()))
		return nil, err
	}

	dept.CreatedAt = &now
	dept.UpdatedAt = &now

	if dept.HeadID != nil {
		if err := c.chains.ResolveCompany(ctx, dept.CompanyID); err != nil {
			c.deps.Logger.Warn("Error recomputing approval chains", slog.String("error", err.Error()))
		}
	}

	return &dept, nil
}

func (c *DepartmentController) UpdateDepartment(ctx context.Context, dept entity.Department, id uint64) (*entity.Department, error) {
	if dept.ParentID != nil {
		if *dept.ParentID == id {
			c.deps.Logger.Warn("Department cannot be its own parent", slog.Any("id", id))
			return nil, errors.New("department cannot be its own parent")
		}

		if err := c.checkParentCycle(ctx, id, *dept.ParentID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	dept.UpdatedAt = &now

	query := `UPDATE departments
              SET name = $1, description = $2, parent_id = $3, head_id = $4, updated_at = $5
              WHERE id = $6
              RETURNING id, company_id, name, description, parent_id, head_id, created_at, updated_at`

	if err := c.deps.DB.QueryRow(ctx, query, dept.Name, dept.Description, dept.ParentID, dept.HeadID, dept.UpdatedAt, id).Scan(
		&dept.ID, &dept.CompanyID, &dept.Name, &dept.Description, &dept.ParentID, &dept.HeadID, &dept.CreatedAt, &dept.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("Department not found", slog.Any("id", id))
			return nil, fmt.Errorf("%w: department %d", ErrNotFound, id)
		}

		c.deps.Logger.Error("Error updating department", slog.String("error", err.Error()))
		return nil, err
	}

	// Head and parent edges feed the resolver; cached chains are stale now.
	if err := c.chains.ResolveCompany(ctx, dept.CompanyID); err != nil {
		c.deps.Logger.Warn("Error recomputing approval chains", slog.String("error", err.Error()))
	}

	return &dept, nil
}

func (c *DepartmentController) DeleteDepartment(ctx context.Context, id uint64) error {
	dept, err := c.GetDepartmentByID(ctx, id)
	if err != nil {
		return err
	}

	result, err := c.deps.DB.Exec(ctx, "DELETE FROM departments WHERE id = $1", id)
	if err != nil {
		c.deps.Logger.Error("Error deleting department", slog.String("error", err.Error()))
		return err
	}

	if result.RowsAffected() == 0 {
		c.deps.Logger.Warn("Department not found", slog.Any("id", id))
		return fmt.Errorf("%w: department %d", ErrNotFound, id)
	}

	if resolveErr := c.chains.ResolveCompany(ctx, dept.CompanyID); resolveErr != nil {
		c.deps.Logger.Warn("Error recomputing approval chains", slog.String("error", resolveErr.Error()))
	}

	return nil
}

// checkParentCycle rejects a parent assignment that would make deptID an
// ancestor of itself. The resolver tolerates persisted cycles, but they are
// never allowed in through this endpoint.
func (c *DepartmentController) checkParentCycle(ctx context.Context, deptID, parentID uint64) error {
	visited := map[uint64]bool{}
	cur := parentID

	for {
		if cur == deptID {
			c.deps.Logger.Warn("Department parent cycle rejected", slog.Any("id", deptID), slog.Any("parent_id", parentID))
			return errors.New("department parent cycle")
		}

		if visited[cur] {
			return errors.New("department parent cycle")
		}
		visited[cur] = true

		var next *uint64
		if err := c.deps.DB.QueryRow(ctx, "SELECT parent_id FROM departments WHERE id = $1", cur).Scan(&next); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}

			c.deps.Logger.Error("Error walking department parents", slog.String("error", err.Error()))
			return err
		}

		if next == nil {
			return nil
		}

		cur = *next
	}
}
