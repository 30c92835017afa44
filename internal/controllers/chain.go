package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hamzakamil/personelplus/internal/entity"
	"github.com/jackc/pgx/v5"
)

const (
	// maxChainAppends bounds the resolver walk. The seen-set already makes
	// every walk finite; the bound exists so a violated invariant fails closed
	// instead of looping.
	maxChainAppends = 10000

	chainCacheTTL = 24 * time.Hour
)

// ChainController resolves the ordered, deduplicated approval chain for an
// employee from the org graph. It only reads the graph; the mutation endpoints
// are responsible for triggering re-resolution after structural changes.
type ChainController struct {
	deps *Dependens
}

func NewChainController(deps *Dependens) *ChainController {
	return &ChainController{
		deps: deps,
	}
}

// graphEmployee carries only the org-graph edges of an employee.
type graphEmployee struct {
	ID                 uint64
	ManagerID          *uint64
	DepartmentID       *uint64
	WorkplaceID        *uint64
	WorkplaceSectionID *uint64
}

// graphNode is a department or workplace section: an optional head and an
// optional parent edge.
type graphNode struct {
	ID       uint64
	ParentID *uint64
	HeadID   *uint64
}

// orgSnapshot is a company-scoped, identifier-keyed view of the org graph.
// Edges are resolved through map lookups rather than object pointers, so a
// persisted cycle cannot produce a circular object graph.
type orgSnapshot struct {
	adminID    *uint64
	employees  map[uint64]*graphEmployee
	depts      map[uint64]*graphNode
	sections   map[uint64]*graphNode
	workplaces map[uint64]*graphNode
}

// Resolve computes and caches the approval chain for one employee. Caching is
// best-effort: a cache failure never fails the resolution.
func (c *ChainController) Resolve(ctx context.Context, employeeID uint64) ([]entity.ChainEntry, error) {
	var companyID uint64
	if err := c.deps.DB.QueryRow(ctx, `SELECT company_id FROM employees WHERE id = $1`, employeeID).Scan(&companyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("Employee not found for chain resolution", slog.Any("id", employeeID))
			return nil, fmt.Errorf("%w: employee %d", ErrNotFound, employeeID)
		}

		c.deps.Logger.Error("Error querying employee", slog.String("error", err.Error()))
		return nil, err
	}

	snap, err := c.loadSnapshot(ctx, companyID)
	if err != nil {
		return nil, err
	}

	chain, err := buildChain(snap, employeeID)
	if err != nil {
		return nil, err
	}

	c.cacheChain(ctx, employeeID, chain)

	return chain, nil
}

// ResolveCompany recomputes the cached chain of every active employee of a
// company. Org-graph mutation endpoints call this after a manager, head or
// parent edge changes. Per-employee cache failures are logged and skipped;
// last writer wins.
func (c *ChainController) ResolveCompany(ctx context.Context, companyID uint64) error {
	snap, err := c.loadSnapshot(ctx, companyID)
	if err != nil {
		return err
	}

	for id := range snap.employees {
		chain, buildErr := buildChain(snap, id)
		if buildErr != nil {
			c.deps.Logger.Error("Error building chain", slog.Any("employee_id", id), slog.String("error", buildErr.Error()))
			return buildErr
		}

		c.cacheChain(ctx, id, chain)
	}

	c.deps.Logger.Info("Approval chains recomputed", slog.Any("company_id", companyID), slog.Int("employees", len(snap.employees)))

	return nil
}

// GetChain returns the cached chain for an employee, resolving it first if it
// was never computed.
func (c *ChainController) GetChain(ctx context.Context, employeeID uint64) ([]entity.ChainEntry, error) {
	var chain []entity.ChainEntry
	var cached bool

	query := `SELECT approval_chain IS NOT NULL, COALESCE(approval_chain, '[]'::jsonb) FROM employees WHERE id = $1`
	if err := c.deps.DB.QueryRow(ctx, query, employeeID).Scan(&cached, &chain); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: employee %d", ErrNotFound, employeeID)
		}

		c.deps.Logger.Error("Error querying cached chain", slog.String("error", err.Error()))
		return nil, err
	}

	if !cached {
		return c.Resolve(ctx, employeeID)
	}

	return chain, nil
}

func (c *ChainController) loadSnapshot(ctx context.Context, companyID uint64) (*orgSnapshot, error) {
	snap := &orgSnapshot{
		employees:  make(map[uint64]*graphEmployee),
		depts:      make(map[uint64]*graphNode),
		sections:   make(map[uint64]*graphNode),
		workplaces: make(map[uint64]*graphNode),
	}

	if err := c.deps.DB.QueryRow(ctx, `SELECT admin_id FROM companies WHERE id = $1`, companyID).Scan(&snap.adminID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: company %d", ErrNotFound, companyID)
		}

		c.deps.Logger.Error("Error querying company", slog.String("error", err.Error()))
		return nil, err
	}

	rows, err := c.deps.DB.Query(ctx,
		`SELECT id, manager_id, department_id, workplace_id, workplace_section_id FROM employees WHERE company_id = $1 AND is_active = true`,
		companyID)
	if err != nil {
		c.deps.Logger.Error("Error querying employees", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		emp := &graphEmployee{}
		if err = rows.Scan(&emp.ID, &emp.ManagerID, &emp.DepartmentID, &emp.WorkplaceID, &emp.WorkplaceSectionID); err != nil {
			c.deps.Logger.Error("Error scanning employee row", slog.String("error", err.Error()))
			return nil, err
		}

		snap.employees[emp.ID] = emp
	}
	rows.Close()

	if snap.depts, err = c.loadNodes(ctx, `SELECT id, parent_id, head_id FROM departments WHERE company_id = $1`, companyID); err != nil {
		return nil, err
	}

	if snap.sections, err = c.loadNodes(ctx, `SELECT id, parent_id, head_id FROM workplace_sections WHERE company_id = $1`, companyID); err != nil {
		return nil, err
	}

	if snap.workplaces, err = c.loadNodes(ctx, `SELECT id, NULL::bigint, head_id FROM workplaces WHERE company_id = $1`, companyID); err != nil {
		return nil, err
	}

	return snap, nil
}

func (c *ChainController) loadNodes(ctx context.Context, query string, companyID uint64) (map[uint64]*graphNode, error) {
	rows, err := c.deps.DB.Query(ctx, query, companyID)
	if err != nil {
		c.deps.Logger.Error("Error querying org nodes", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	nodes := make(map[uint64]*graphNode)

	for rows.Next() {
		node := &graphNode{}
		if err = rows.Scan(&node.ID, &node.ParentID, &node.HeadID); err != nil {
			c.deps.Logger.Error("Error scanning org node row", slog.String("error", err.Error()))
			return nil, err
		}

		nodes[node.ID] = node
	}

	return nodes, nil
}

// cacheChain persists the resolved chain on the employee record and mirrors it
// in Redis. Both writes are advisory; failures are logged and swallowed.
func (c *ChainController) cacheChain(ctx context.Context, employeeID uint64, chain []entity.ChainEntry) {
	data, err := json.Marshal(chain)
	if err != nil {
		c.deps.Logger.Error("Error marshaling chain", slog.Any("employee_id", employeeID), slog.String("error", err.Error()))
		return
	}

	query := `UPDATE employees SET approval_chain = $1, updated_at = $2 WHERE id = $3`
	if _, err = c.deps.DB.Exec(ctx, query, data, time.Now(), employeeID); err != nil {
		c.deps.Logger.Warn("Error caching chain on employee record", slog.Any("employee_id", employeeID), slog.String("error", err.Error()))
	}

	if err = c.deps.Redis.Set(ctx, fmt.Sprintf("approval_chain:%d", employeeID), string(data), chainCacheTTL).Err(); err != nil {
		c.deps.Logger.Warn("Error caching chain in Redis", slog.Any("employee_id", employeeID), slog.String("error", err.Error()))
	}
}

// chainBuilder accumulates the ordered chain. The seen-set is consulted at
// every append, including inside the recursive expansion, so each identity is
// visited at most once no matter how many paths lead to it.
type chainBuilder struct {
	snap     *orgSnapshot
	out      []entity.ChainEntry
	seen     map[uint64]bool
	appends  int
	expanded int
}

// buildChain is the pure resolver walk over a loaded snapshot. An empty result
// is not an error: it means "no mandatory approvers" and the workflow engine
// decides what that implies.
func buildChain(snap *orgSnapshot, employeeID uint64) ([]entity.ChainEntry, error) {
	emp := snap.employees[employeeID]
	if emp == nil {
		return nil, fmt.Errorf("%w: employee %d", ErrNotFound, employeeID)
	}

	b := &chainBuilder{
		snap: snap,
		out:  []entity.ChainEntry{},
		seen: map[uint64]bool{employeeID: true},
	}

	// Department head first: the chain is consumed innermost authority first.
	if emp.DepartmentID != nil {
		b.appendDepartmentHead(emp, true)
		b.walkDepartmentAncestors(*emp.DepartmentID)
	}

	if emp.ManagerID != nil {
		b.append(*emp.ManagerID, entity.ChainRoleManager)
	}

	if err := b.expand(); err != nil {
		return nil, err
	}

	if emp.WorkplaceSectionID != nil {
		if err := b.walkSections(*emp.WorkplaceSectionID); err != nil {
			return nil, err
		}
	}

	if emp.WorkplaceID != nil {
		if wp := snap.workplaces[*emp.WorkplaceID]; wp != nil && wp.HeadID != nil {
			b.append(*wp.HeadID, entity.ChainRoleWorkplaceHead)
		}

		if err := b.expand(); err != nil {
			return nil, err
		}
	}

	if b.appends > maxChainAppends {
		return nil, fmt.Errorf("%w: walk exceeded %d steps for employee %d", ErrChainResolution, maxChainAppends, employeeID)
	}

	return b.out, nil
}

// append adds an identity unless it was already produced by an earlier step.
// First occurrence wins; later encounters are dropped, not reordered.
func (b *chainBuilder) append(id uint64, role string) bool {
	b.appends++
	if b.seen[id] {
		return false
	}

	b.seen[id] = true
	b.out = append(b.out, entity.ChainEntry{
		ApproverID: id,
		Role:       role,
		Status:     entity.EntryStatusPending,
	})

	return true
}

// appendDepartmentHead applies the step-1 rules for one employee: skip the
// head when it is the employee's own direct manager (the manager step adds it
// in the right position instead), and fall back to the company administrator
// when the department is headless. The fallback only applies to the employee
// whose chain is being resolved, not to identities met during expansion.
func (b *chainBuilder) appendDepartmentHead(emp *graphEmployee, fallback bool) {
	dept := b.snap.depts[*emp.DepartmentID]
	if dept == nil {
		return
	}

	if dept.HeadID == nil {
		if fallback && b.snap.adminID != nil {
			b.append(*b.snap.adminID, entity.ChainRoleCompanyAdmin)
		}

		return
	}

	if emp.ManagerID != nil && *dept.HeadID == *emp.ManagerID {
		return
	}

	b.append(*dept.HeadID, entity.ChainRoleDepartmentHead)
}

// walkDepartmentAncestors appends the head of every ancestor department. The
// visited set keeps a corrupted parent chain from looping.
func (b *chainBuilder) walkDepartmentAncestors(deptID uint64) {
	visited := map[uint64]bool{deptID: true}

	cur := b.snap.depts[deptID]
	for cur != nil && cur.ParentID != nil {
		b.appends++
		if visited[*cur.ParentID] {
			break
		}
		visited[*cur.ParentID] = true

		parent := b.snap.depts[*cur.ParentID]
		if parent == nil {
			break
		}

		if parent.HeadID != nil {
			b.append(*parent.HeadID, entity.ChainRoleDepartmentHead)
		}

		cur = parent
	}
}

// expand runs the worklist over every not-yet-expanded entry: each appended
// identity contributes its own department-head chain and manager chain, until
// no new identities are produced.
func (b *chainBuilder) expand() error {
	for b.expanded < len(b.out) {
		if b.appends > maxChainAppends {
			return fmt.Errorf("%w: expansion exceeded %d steps", ErrChainResolution, maxChainAppends)
		}

		person := b.snap.employees[b.out[b.expanded].ApproverID]
		b.expanded++

		// Heads that are not employees of this company contribute nothing.
		if person == nil {
			continue
		}

		if person.DepartmentID != nil {
			b.appendDepartmentHead(person, false)
			b.walkDepartmentAncestors(*person.DepartmentID)
		}

		if person.ManagerID != nil {
			b.append(*person.ManagerID, entity.ChainRoleManager)
		}
	}

	return nil
}

// walkSections appends the section head and then every ancestor-section head,
// expanding each head's own hierarchy as it goes.
func (b *chainBuilder) walkSections(sectionID uint64) error {
	visited := map[uint64]bool{}

	cur := b.snap.sections[sectionID]
	for cur != nil {
		b.appends++
		if visited[cur.ID] || b.appends > maxChainAppends {
			break
		}
		visited[cur.ID] = true

		if cur.HeadID != nil {
			b.append(*cur.HeadID, entity.ChainRoleSectionHead)
			if err := b.expand(); err != nil {
				return err
			}
		}

		if cur.ParentID == nil {
			break
		}

		cur = b.snap.sections[*cur.ParentID]
	}

	return nil
}
