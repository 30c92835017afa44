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

// CompanyController manages tenants and their approval policy flags.
type CompanyController struct {
	deps   *Dependens
	chains *ChainController
}

func NewCompanyController(deps *Dependens, chains *ChainController) *CompanyController {
	return &CompanyController{
		deps:   deps,
		chains: chains,
	}
}

func (c *CompanyController) GetCompanies(ctx context.Context) ([]entity.Company, error) {
	rows, err := c.deps.DB.Query(ctx, `SELECT id, name, admin_id, auto_approve_no_chain, created_at, updated_at FROM companies`)
	if err != nil {
		c.deps.Logger.Error("Error querying companies", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	companies, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.Company])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	return companies, nil
}

func (c *CompanyController) GetCompanyByID(ctx context.Context, id uint64) (*entity.Company, error) {
	rows, err := c.deps.DB.Query(ctx, `SELECT id, name, admin_id, auto_approve_no_chain, created_at, updated_at FROM companies WHERE id = $1`, id)
	if err != nil {
		c.deps.Logger.Error("Error querying company", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	company, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entity.Company])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("Company not found", slog.Any("id", id))
			return nil, fmt.Errorf("%w: company %d", ErrNotFound, id)
		}

		c.deps.Logger.Error("Error collecting row", slog.String("error", err.Error()))
		return nil, err
	}

	return &company, nil
}

func (c *CompanyController) CreateCompany(ctx context.Context, company entity.Company) (*entity.Company, error) {
	if company.Name == "" {
		c.deps.Logger.Warn("Required fields: name")
		return nil, errors.New("required fields: name")
	}

	now := time.Now()
	query := `INSERT INTO companies (name, admin_id, auto_approve_no_chain, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5)
              RETURNING id`

	if err := c.deps.DB.QueryRow(ctx, query, company.Name, company.AdminID, company.AutoApproveNoChain, now, now).Scan(&company.ID); err != nil {
		c.deps.Logger.Error("Error inserting company", slog.String("error", err.Error()))
		return nil, err
	}

	company.CreatedAt = &now
	company.UpdatedAt = &now

	return &company, nil
}

func (c *CompanyController) UpdateCompany(ctx context.Context, company entity.Company, id uint64) (*entity.Company, error) {
	prev, err := c.GetCompanyByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	company.UpdatedAt = &now

	query := `UPDATE companies
              SET name = $1, admin_id = $2, auto_approve_no_chain = $3, updated_at = $4
              WHERE id = $5
              RETURNING id, name, admin_id, auto_approve_no_chain, created_at, updated_at`

	if err := c.deps.DB.QueryRow(ctx, query, company.Name, company.AdminID, company.AutoApproveNoChain, company.UpdatedAt, id).Scan(
		&company.ID, &company.Name, &company.AdminID, &company.AutoApproveNoChain, &company.CreatedAt, &company.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("Company not found", slog.Any("id", id))
			return nil, fmt.Errorf("%w: company %d", ErrNotFound, id)
		}

		c.deps.Logger.Error("Error updating company", slog.String("error", err.Error()))
		return nil, err
	}

	// A changed admin changes the fallback approver in every headless
	// department chain.
	if !uint64PtrEqual(prev.AdminID, company.AdminID) {
		if resolveErr := c.chains.ResolveCompany(ctx, company.ID); resolveErr != nil {
			c.deps.Logger.Warn("Error recomputing approval chains", slog.String("error", resolveErr.Error()))
		}
	}

	return &company, nil
}

func (c *CompanyController) DeleteCompany(ctx context.Context, id uint64) error {
	result, err := c.deps.DB.Exec(ctx, "DELETE FROM companies WHERE id = $1", id)
	if err != nil {
		c.deps.Logger.Error("Error deleting company", slog.String("error", err.Error()))
		return err
	}

	if result.RowsAffected() == 0 {
		c.deps.Logger.Warn("Company not found", slog.Any("id", id))
		return fmt.Errorf("%w: company %d", ErrNotFound, id)
	}

	return nil
}
