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

// WorkplaceController manages workplaces and their section trees.
type WorkplaceController struct {
	deps   *Dependens
	chains *ChainController
}

func NewWorkplaceController(deps *Dependens, chains *ChainController) *WorkplaceController {
	return &WorkplaceController{
		deps:   deps,
		chains: chains,
	}
}

func (c *WorkplaceController) GetWorkplaces(ctx context.Context, companyID *uint64) ([]entity.Workplace, error) {
	query := `SELECT id, company_id, name, address, head_id, created_at, updated_at FROM workplaces`
	args := []any{}

	if companyID != nil {
		query += " WHERE company_id = $1"
		args = append(args, *companyID)
	}

	rows, err := c.deps.DB.Query(ctx, query, args...)
	if err != nil {
		c.deps.Logger.Error("Error querying workplaces", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	workplaces, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.Workplace])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	return workplaces, nil
}

func (c *WorkplaceController) GetWorkplaceByID(ctx context.Context, id uint64) (*entity.Workplace, error) {
	rows, err := c.deps.DB.Query(ctx, `SELECT id, company_id, name, address, head_id, created_at, updated_at FROM workplaces WHERE id = $1`, id)
	if err != nil {
		c.deps.Logger.Error("Error querying workplace", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	workplace, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entity.Workplace])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("Workplace not found", slog.Any("id", id))
			return nil, fmt.Errorf("%w: workplace %d", ErrNotFound, id)
		}

		c.deps.Logger.Error("Error collecting row", slog.String("error", err.Error()))
		return nil, err
	}

	return &workplace, nil
}

func (c *WorkplaceController) CreateWorkplace(ctx context.Context, wp entity.Workplace) (*entity.Workplace, error) {
	if wp.Name == "" || wp.CompanyID == 0 {
		c.deps.Logger.Warn("Required fields: name, company_id")
		return nil, errors.New("required fields: name, company_id")
	}

	now := time.Now()
	query := `INSERT INTO workplaces (company_id, name, address, head_id, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6)
              RETURNING id`

	if err := c.deps.DB.QueryRow(ctx, query, wp.CompanyID, wp.Name, wp.Address, wp.HeadID, now, now).Scan(&wp.ID); err != nil {
		c.deps.Logger.Error("Error inserting workplace", slog.String("error", err.Error()))
		return nil, err
	}

	wp.CreatedAt = &now
	wp.UpdatedAt = &now

	if wp.HeadID != nil {
		if err := c.chains.ResolveCompany(ctx, wp.CompanyID); err != nil {
			c.deps.Logger.Warn("Error recomputing approval chains", slog.String("error", err.Error()))
		}
	}

	return &wp, nil
}

func (c *WorkplaceController) UpdateWorkplace(ctx context.Context, wp entity.Workplace, id uint64) (*entity.Workplace, error) {
	now := time.Now()
	wp.UpdatedAt = &now

	query := `UPDATE workplaces
              SET name = $1, address = $2, head_id = $3, updated_at = $4
              WHERE id = $5
              RETURNING id, company_id, name, address, head_id, created_at, updated_at`

	if err := c.deps.DB.QueryRow(ctx, query, wp.Name, wp.Address, wp.HeadID, wp.UpdatedAt, id).Scan(
		&wp.ID, &wp.CompanyID, &wp.Name, &wp.Address, &wp.HeadID, &wp.CreatedAt, &wp.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("Workplace not found", slog.Any("id", id))
			return nil, fmt.Errorf("%w: workplace %d", ErrNotFound, id)
		}

		c.deps.Logger.Error("Error updating workplace", slog.String("error", err.Error()))
		return nil, err
	}

	if err := c.chains.ResolveCompany(ctx, wp.CompanyID); err != nil {
		c.deps.Logger.Warn("Error recomputing approval chains", slog.String("error", err.Error()))
	}

	return &wp, nil
}

func (c *WorkplaceController) DeleteWorkplace(ctx context.Context, id uint64) error {
	wp, err := c.GetWorkplaceByID(ctx, id)
	if err != nil {
		return err
	}

	result, err := c.deps.DB.Exec(ctx, "DELETE FROM workplaces WHERE id = $1", id)
	if err != nil {
		c.deps.Logger.Error("Error deleting workplace", slog.String("error", err.Error()))
		return err
	}

	if result.RowsAffected() == 0 {
		c.deps.Logger.Warn("Workplace not found", slog.Any("id", id))
		return fmt.Errorf("%w: workplace %d", ErrNotFound, id)
	}

	if resolveErr := c.chains.ResolveCompany(ctx, wp.CompanyID); resolveErr != nil {
		c.deps.Logger.Warn("Error recomputing approval chains", slog.String("error", resolveErr.Error()))
	}

	return nil
}

func (c *WorkplaceController) GetSections(ctx context.Context, workplaceID *uint64) ([]entity.WorkplaceSection, error) {
	query := `SELECT id, company_id, workplace_id, name, parent_id, head_id, created_at, updated_at FROM workplace_sections`
	args := []any{}

	if workplaceID != nil {
		query += " WHERE workplace_id = $1"
		args = append(args, *workplaceID)
	}

	rows, err := c.deps.DB.Query(ctx, query, args...)
	if err != nil {
		c.deps.Logger.Error("Error querying sections", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	sections, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.WorkplaceSection])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	return sections, nil
}

func (c *WorkplaceController) GetSectionByID(ctx context.Context, id uint64) (*entity.WorkplaceSection, error) {
	rows, err := c.deps.DB.Query(ctx, `SELECT id, company_id, workplace_id, name, parent_id, head_id, created_at, updated_at FROM workplace_sections WHERE id = $1`, id)
	if err != nil {
		c.deps.Logger.Error("Error querying section", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	section, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entity.WorkplaceSection])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("Section not found", slog.Any("id", id))
			return nil, fmt.Errorf("%w: workplace section %d", ErrNotFound, id)
		}

		c.deps.Logger.Error("Error collecting row", slog.String("error", err.Error()))
		return nil, err
	}

	return &section, nil
}

func (c *WorkplaceController) CreateSection(ctx context.Context, section entity.WorkplaceSection) (*entity.WorkplaceSection, error) {
	if section.Name == "" || section.CompanyID == 0 || section.WorkplaceID == 0 {
		c.deps.Logger.Warn("Required fields: name, company_id, workplace_id")
		return nil, errors.New("required fields: name, company_id, workplace_id")
	}

	if section.ParentID != nil {
		if err := c.checkSectionCycle(ctx, 0, *section.ParentID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	query := `INSERT INTO workplace_sections (company_id, workplace_id, name, parent_id, head_id, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7)
              RETURNING id`

	if err := c.deps.DB.QueryRow(ctx, query, section.CompanyID, section.WorkplaceID, section.Name, section.ParentID, section.HeadID, now, now).Scan(&section.ID); err != nil {
		c.deps.Logger.Error("Error inserting section", slog.String("error", err.Error()))
		return nil, err
	}

	section.CreatedAt = &now
	section.UpdatedAt = &now

	if section.HeadID != nil {
		if err := c.chains.ResolveCompany(ctx, section.CompanyID); err != nil {
			c.deps.Logger.Warn("Error recomputing approval chains", slog.String("error", err.Error()))
		}
	}

	return &section, nil
}

func (c *WorkplaceController) UpdateSection(ctx context.Context, section entity.WorkplaceSection, id uint64) (*entity.WorkplaceSection, error) {
	if section.ParentID != nil {
		if *section.ParentID == id {
			c.deps.Logger.Warn("Section cannot be its own parent", slog.Any("id", id))
			return nil, errors.New("section cannot be its own parent")
		}

		if err := c.checkSectionCycle(ctx, id, *section.ParentID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	section.UpdatedAt = &now

	query := `UPDATE workplace_sections
              SET name = $1, parent_id = $2, head_id = $3, updated_at = $4
              WHERE id = $5
              RETURNING id, company_id, workplace_id, name, parent_id, head_id, created_at, updated_at`

	if err := c.deps.DB.QueryRow(ctx, query, section.Name, section.ParentID, section.HeadID, section.UpdatedAt, id).Scan(
		&section.ID, &section.CompanyID, &section.WorkplaceID, &section.Name, &section.ParentID, &section.HeadID, &section.CreatedAt, &section.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("Section not found", slog.Any("id", id))
			return nil, fmt.Errorf("%w: workplace section %d", ErrNotFound, id)
		}

		c.deps.Logger.Error("Error updating section", slog.String("error", err.Error()))
		return nil, err
	}

	if err := c.chains.ResolveCompany(ctx, section.CompanyID); err != nil {
		c.deps.Logger.Warn("Error recomputing approval chains", slog.String("error", err.Error()))
	}

	return &section, nil
}

func (c *WorkplaceController) DeleteSection(ctx context.Context, id uint64) error {
	section, err := c.GetSectionByID(ctx, id)
	if err != nil {
		return err
	}

	result, err := c.deps.DB.Exec(ctx, "DELETE FROM workplace_sections WHERE id = $1", id)
	if err != nil {
		c.deps.Logger.Error("Error deleting section", slog.String("error", err.Error()))
		return err
	}

	if result.RowsAffected() == 0 {
		c.deps.Logger.Warn("Section not found", slog.Any("id", id))
		return fmt.Errorf("%w: workplace section %d", ErrNotFound, id)
	}

	if resolveErr := c.chains.ResolveCompany(ctx, section.CompanyID); resolveErr != nil {
		c.deps.Logger.Warn("Error recomputing approval chains", slog.String("error", resolveErr.Error()))
	}

	return nil
}

func (c *WorkplaceController) checkSectionCycle(ctx context.Context, sectionID, parentID uint64) error {
	visited := map[uint64]bool{}
	cur := parentID

	for {
		if cur == sectionID {
			c.deps.Logger.Warn("Section parent cycle rejected", slog.Any("id", sectionID), slog.Any("parent_id", parentID))
			return errors.New("section parent cycle")
		}

		if visited[cur] {
			return errors.New("section parent cycle")
		}
		visited[cur] = true

		var next *uint64
		if err := c.deps.DB.QueryRow(ctx, "SELECT parent_id FROM workplace_sections WHERE id = $1", cur).Scan(&next); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}

			c.deps.Logger.Error("Error walking section parents", slog.String("error", err.Error()))
			return err
		}

		if next == nil {
			return nil
		}

		cur = *next
	}
}
