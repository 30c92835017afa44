package controllers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hamzakamil/personelplus/internal/entity"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

type EmployeeController struct {
	deps   *Dependens
	chains *ChainController
}

func NewEmployeeController(deps *Dependens, chains *ChainController) *EmployeeController {
	return &EmployeeController{
		deps:   deps,
		chains: chains,
	}
}

func (c *EmployeeController) GetEmployees(ctx context.Context, params *entity.GetEmployeesParams) ([]entity.Employee, error) {
	query := "SELECT * FROM employees WHERE 1=1"
	args := []any{}
	argIdx := 1

	if params != nil {
		if params.CompanyID != nil {
			query += fmt.Sprintf(" AND company_id = $%d", argIdx)
			args = append(args, *params.CompanyID)
			argIdx++
		}

		if params.Role != nil {
			query += fmt.Sprintf(" AND role = $%d", argIdx)
			args = append(args, *params.Role)
			argIdx++
		}

		if params.DepartmentID != nil {
			query += fmt.Sprintf(" AND department_id = $%d", argIdx)
			args = append(args, *params.DepartmentID)
			argIdx++
		}

		if params.WorkplaceID != nil {
			query += fmt.Sprintf(" AND workplace_id = $%d", argIdx)
			args = append(args, *params.WorkplaceID)
			argIdx++
		}

		if params.Status != nil {
			query += fmt.Sprintf(" AND status = $%d", argIdx)
			args = append(args, *params.Status)
		}
	}

	rows, err := c.deps.DB.Query(ctx, query, args...)
	if err != nil {
		c.deps.Logger.Error("Error querying employees", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	employees, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.Employee])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	for i := range employees {
		employees[i].Password = nil
	}

	return employees, nil
}

func (c *EmployeeController) GetEmployeeByID(ctx context.Context, id uint64) (*entity.Employee, error) {
	rows, err := c.deps.DB.Query(ctx, "SELECT * FROM employees WHERE id = $1", id)
	if err != nil {
		c.deps.Logger.Error("Error querying employee", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	employee, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entity.Employee])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("Employee not found", slog.Any("id", id))
			return nil, fmt.Errorf("%w: employee %d", ErrNotFound, id)
		}

		c.deps.Logger.Error("Error collecting row", slog.String("error", err.Error()))
		return nil, err
	}

	employee.Password = nil

	return &employee, nil
}

func (c *EmployeeController) CreateEmployee(ctx context.Context, emp entity.Employee) (*entity.Employee, error) {
	if emp.FirstName == "" || emp.LastName == "" || emp.Email == nil || *emp.Email == "" {
		c.deps.Logger.Error("Required fields: first_name, last_name, email", slog.Any("emp", emp.ID))
		return nil, errors.New("required fields: first_name, last_name, email")
	}

	if emp.CompanyID == 0 {
		c.deps.Logger.Error("Required field: company_id")
		return nil, errors.New("required field: company_id")
	}

	if emp.Password == nil || *emp.Password == "" {
		defaultPassword := defaultEmployeePassword
		emp.Password = &defaultPassword
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(*emp.Password), bcrypt.DefaultCost)
	if err != nil {
		c.deps.Logger.Error("Error hashing password", slog.String("error", err.Error()))
		return nil, err
	}

	hashPassword := string(passwordHash)
	emp.Password = &hashPassword

	query := `SELECT COUNT(*) FROM employees WHERE email = $1`

	var exists int
	if err = c.deps.DB.QueryRow(ctx, query, emp.Email).Scan(&exists); err != nil {
		c.deps.Logger.Error("Error checking uniqueness", slog.String("error", err.Error()))
		return nil, err
	}

	if exists > 0 {
		c.deps.Logger.Error("Employee already exists", slog.String("email", *emp.Email))
		return nil, errors.New("employee already exists")
	}

	now := time.Now()
	if emp.Status == "" {
		emp.Status = "active"
	}

	query = `INSERT INTO employees (company_id, first_name, last_name, middle_name, phone, email, password, role, is_active, department_id, manager_id, workplace_id, workplace_section_id, position, hire_date, fire_date, status, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
              RETURNING id`

	if err = c.deps.DB.QueryRow(ctx, query,
		emp.CompanyID, emp.FirstName, emp.LastName, emp.MiddleName, emp.Phone,
		emp.Email, emp.Password, emp.Role, emp.IsActive, emp.DepartmentID,
		emp.ManagerID, emp.WorkplaceID, emp.WorkplaceSectionID, emp.Position,
		emp.HireDate, emp.FireDate, emp.Status, now, now,
	).Scan(&emp.ID); err != nil {
		c.deps.Logger.Error("Error inserting employee", slog.String("error", err.Error()))
		return nil, err
	}

	emp.CreatedAt = &now
	emp.UpdatedAt = &now
	emp.Password = nil

	if chain, resolveErr := c.chains.Resolve(ctx, emp.ID); resolveErr != nil {
		c.deps.Logger.Warn("Error resolving chain for new employee", slog.String("error", resolveErr.Error()))
	} else {
		emp.ApprovalChain = chain
	}

	return &emp, nil
}

// getPasswordHash is method to get password for update employee.
func (c *EmployeeController) getPasswordHash(ctx context.Context, newPassword *string, employeeID uint64) (*string, error) {
	if newPassword != nil && *newPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*newPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}

		hashStr := string(hash)
		return &hashStr, nil
	}

	query := `SELECT password FROM employees WHERE id = $1`
	var currentHash string
	err := c.deps.DB.QueryRow(ctx, query, employeeID).Scan(&currentHash)
	return &currentHash, err
}

func (c *EmployeeController) UpdateEmployee(ctx context.Context, id uint64, emp entity.Employee) (*entity.Employee, error) {
	if emp.FirstName == "" || emp.LastName == "" || emp.Email == nil || *emp.Email == "" {
		c.deps.Logger.Error("Invalid employee data", slog.String("error", "First name, last name, email are required"))
		return nil, errors.New("invalid employee data")
	}

	prev, err := c.GetEmployeeByID(ctx, id)
	if err != nil {
		return nil, err
	}

	passwordHash, err := c.getPasswordHash(ctx, emp.Password, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("Employee not found", slog.String("error", err.Error()))
			return nil, fmt.Errorf("%w: employee %d", ErrNotFound, id)
		}

		c.deps.Logger.Error("Error getting password", slog.String("error", err.Error()))
		return nil, err
	}

	emp.Password = passwordHash

	query := `SELECT COUNT(*) FROM employees WHERE email = $1 AND id != $2`

	var exists int
	if err = c.deps.DB.QueryRow(ctx, query, emp.Email, id).Scan(&exists); err != nil {
		c.deps.Logger.Error("Error checking uniqueness", slog.String("error", err.Error()))
		return nil, err
	}

	if exists > 0 {
		c.deps.Logger.Warn("Email already exists", slog.String("email", *emp.Email))
		return nil, errors.New("email already exists")
	}

	updatedEmp, err := c.updateEmployeeInDB(ctx, &emp, id)
	if err != nil {
		c.deps.Logger.Error("Error updating employee", slog.String("error", err.Error()))
		return nil, err
	}

	// A changed graph edge invalidates cached chains well beyond this one
	// employee (subordinates, expansion paths), so recompute the company.
	if graphEdgesChanged(prev, &updatedEmp) {
		if resolveErr := c.chains.ResolveCompany(ctx, updatedEmp.CompanyID); resolveErr != nil {
			c.deps.Logger.Warn("Error recomputing approval chains", slog.String("error", resolveErr.Error()))
		}
	}

	return &updatedEmp, nil
}

func (c *EmployeeController) updateEmployeeInDB(ctx context.Context, emp *entity.Employee, id uint64) (entity.Employee, error) {
	now := time.Now()
	emp.UpdatedAt = &now

	query := `UPDATE employees
              SET first_name = $1, last_name = $2, middle_name = $3, phone = $4,
                  email = $5, password = $6, role = $7, is_active = $8, department_id = $9,
                  manager_id = $10, workplace_id = $11, workplace_section_id = $12,
                  position = $13, hire_date = $14, fire_date = $15,
                  status = $16, updated_at = $17
              WHERE id = $18
              RETURNING *`

	rows, err := c.deps.DB.Query(ctx, query,
		emp.FirstName, emp.LastName, emp.MiddleName, emp.Phone,
		*emp.Email, emp.Password, emp.Role, emp.IsActive, emp.DepartmentID,
		emp.ManagerID, emp.WorkplaceID, emp.WorkplaceSectionID,
		emp.Position, emp.HireDate, emp.FireDate, emp.Status, emp.UpdatedAt, id)
	if err != nil {
		c.deps.Logger.Error("Error updating employee", slog.String("error", err.Error()))
		return entity.Employee{}, fmt.Errorf("failed to update employee: %w", err)
	}
	defer rows.Close()

	updatedEmp, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entity.Employee])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("Employee not found", slog.String("error", err.Error()))
			return entity.Employee{}, fmt.Errorf("%w: employee %d", ErrNotFound, id)
		}

		c.deps.Logger.Error("Error collecting row", slog.String("error", err.Error()))
		return entity.Employee{}, fmt.Errorf("failed to scan row: %w", err)
	}

	updatedEmp.Password = nil

	return updatedEmp, nil
}

func (c *EmployeeController) DeleteEmployee(ctx context.Context, id uint64) error {
	var companyID uint64
	if err := c.deps.DB.QueryRow(ctx, "SELECT company_id FROM employees WHERE id = $1", id).Scan(&companyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("Employee not found", slog.Any("id", id))
			return fmt.Errorf("%w: employee %d", ErrNotFound, id)
		}

		c.deps.Logger.Error("Error querying employee", slog.String("error", err.Error()))
		return err
	}

	result, err := c.deps.DB.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		c.deps.Logger.Error("Error deleting employee", slog.String("error", err.Error()))
		return err
	}

	if result.RowsAffected() == 0 {
		c.deps.Logger.Warn("Employee not found", slog.Any("id", id))
		return fmt.Errorf("%w: employee %d", ErrNotFound, id)
	}

	// The deleted employee may have headed departments or appeared in other
	// chains.
	if resolveErr := c.chains.ResolveCompany(ctx, companyID); resolveErr != nil {
		c.deps.Logger.Warn("Error recomputing approval chains", slog.String("error", resolveErr.Error()))
	}

	return nil
}

// graphEdgesChanged reports whether an employee update touched any edge the
// resolver walks.
func graphEdgesChanged(prev, next *entity.Employee) bool {
	return !uint64PtrEqual(prev.ManagerID, next.ManagerID) ||
		!uint64PtrEqual(prev.DepartmentID, next.DepartmentID) ||
		!uint64PtrEqual(prev.WorkplaceID, next.WorkplaceID) ||
		!uint64PtrEqual(prev.WorkplaceSectionID, next.WorkplaceSectionID) ||
		prev.IsActive != next.IsActive
}

func uint64PtrEqual(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == b
	}

	return *a == *b
}
