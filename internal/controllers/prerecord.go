package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hamzakamil/personelplus/internal/entity"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const defaultEmployeePassword = "default123"

// PrerecordController drives gate-driven requests (hire and termination
// pre-records). There is no per-step chain: any administrator of the owning
// company may act once from PENDING. The revision and cancellation sub-flows
// are the only permitted backward transitions.
type PrerecordController struct {
	deps   *Dependens
	chains *ChainController
}

func NewPrerecordController(deps *Dependens, chains *ChainController) *PrerecordController {
	return &PrerecordController{
		deps:   deps,
		chains: chains,
	}
}

func (c *PrerecordController) CreatePrerecord(ctx context.Context, companyID, submittedBy uint64, req *entity.CreatePrerecordRequest) (*entity.Prerecord, error) {
	switch req.Kind {
	case entity.PrerecordKindHire:
		if req.Payload.FirstName == "" || req.Payload.LastName == "" {
			c.deps.Logger.Warn("Hire prerecord missing names")
			return nil, errors.New("required fields: first_name, last_name")
		}
	case entity.PrerecordKindTermination:
		if req.Payload.EmployeeID == nil {
			c.deps.Logger.Warn("Termination prerecord missing employee")
			return nil, errors.New("required field: employee_id")
		}
	default:
		c.deps.Logger.Warn("Unknown prerecord kind", slog.String("kind", req.Kind))
		return nil, fmt.Errorf("unknown prerecord kind %q", req.Kind)
	}

	payload, err := json.Marshal(req.Payload)
	if err != nil {
		c.deps.Logger.Error("Error marshaling payload", slog.String("error", err.Error()))
		return nil, err
	}

	now := time.Now()
	rec := &entity.Prerecord{
		Number:      uuid.NewString(),
		CompanyID:   companyID,
		Kind:        req.Kind,
		Payload:     req.Payload,
		SubmittedBy: submittedBy,
		Status:      entity.RequestStatusPending,
		CreatedAt:   &now,
		UpdatedAt:   &now,
	}

	query := `INSERT INTO prerecords (number, company_id, kind, payload, submitted_by, status, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
              RETURNING id`

	if err = c.deps.DB.QueryRow(ctx, query, rec.Number, rec.CompanyID, rec.Kind, payload, rec.SubmittedBy, rec.Status, now, now).Scan(&rec.ID); err != nil {
		c.deps.Logger.Error("Error inserting prerecord", slog.String("error", err.Error()))
		return nil, err
	}

	approvalTransitions.WithLabelValues("prerecord", "create").Inc()
	c.deps.Notifier.Publish(EventPrerecordSubmitted, map[string]any{"number": rec.Number, "kind": rec.Kind})

	return rec, nil
}

// ApprovePrerecord is the single authorization gate. The downstream record
// (employee row on hire, termination stamp) materializes in the same
// transaction as the status flip, so a side-effect failure rolls the status
// back and the call is retriable.
func (c *PrerecordController) ApprovePrerecord(ctx context.Context, id, actorID uint64, comment *string) (*entity.Prerecord, error) {
	tx, err := c.deps.DB.Begin(ctx)
	if err != nil {
		c.deps.Logger.Error("Error starting transaction", slog.String("error", err.Error()))
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	rec, err := c.lockPrerecord(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if rec.Status != entity.RequestStatusPending {
		return nil, fmt.Errorf("%w: prerecord %s is %s", ErrNotPending, rec.Number, rec.Status)
	}

	if err = c.requireAdmin(ctx, actorID, rec); err != nil {
		return nil, err
	}

	now := time.Now()

	switch rec.Kind {
	case entity.PrerecordKindHire:
		employeeID, hireErr := c.materializeHire(ctx, tx, rec, now)
		if hireErr != nil {
			return nil, hireErr
		}

		rec.CreatedEmployeeID = &employeeID
	case entity.PrerecordKindTermination:
		if err = c.materializeTermination(ctx, tx, rec, now); err != nil {
			return nil, err
		}
	}

	query := `UPDATE prerecords
              SET status = $1, decided_by = $2, decided_at = $3, decision_comment = $4, created_employee_id = $5, updated_at = $3
              WHERE id = $6 AND status = $7`

	tag, err := tx.Exec(ctx, query, entity.RequestStatusApproved, actorID, now, comment, rec.CreatedEmployeeID, id, entity.RequestStatusPending)
	if err != nil {
		c.deps.Logger.Error("Error approving prerecord", slog.String("error", err.Error()))
		return nil, err
	}

	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: prerecord %s", ErrNotPending, rec.Number)
	}

	if err = tx.Commit(ctx); err != nil {
		c.deps.Logger.Error("Error committing transaction", slog.String("error", err.Error()))
		return nil, err
	}

	rec.Status = entity.RequestStatusApproved
	rec.DecidedBy = &actorID
	rec.DecidedAt = &now
	rec.DecisionComment = comment
	rec.UpdatedAt = &now

	// The new employee needs an approval chain; best-effort, like any cache.
	if rec.Kind == entity.PrerecordKindHire && rec.CreatedEmployeeID != nil {
		if _, resolveErr := c.chains.Resolve(ctx, *rec.CreatedEmployeeID); resolveErr != nil {
			c.deps.Logger.Warn("Error resolving chain for hired employee", slog.String("error", resolveErr.Error()))
		}
	}

	approvalTransitions.WithLabelValues("prerecord", "approve").Inc()
	c.deps.Notifier.Publish(EventPrerecordApproved, map[string]any{"number": rec.Number, "kind": rec.Kind, "decided_by": actorID})

	return rec, nil
}

func (c *PrerecordController) RejectPrerecord(ctx context.Context, id, actorID uint64, reason string) (*entity.Prerecord, error) {
	rec, err := c.gateTransition(ctx, id, actorID, true,
		[]string{entity.RequestStatusPending}, entity.RequestStatusRejected,
		`decided_by = $2, decided_at = $3, decision_comment = $4`, &reason, "")
	if err != nil {
		return nil, err
	}

	approvalTransitions.WithLabelValues("prerecord", "reject").Inc()
	c.deps.Notifier.Publish(EventPrerecordRejected, map[string]any{"number": rec.Number, "reason": reason})

	return rec, nil
}

// RequestRevision sends a pending prerecord back to its submitter for edits.
func (c *PrerecordController) RequestRevision(ctx context.Context, id, actorID uint64, reason string) (*entity.Prerecord, error) {
	rec, err := c.gateTransition(ctx, id, actorID, true,
		[]string{entity.RequestStatusPending}, entity.RequestStatusRevisionRequested,
		`revision_requested_by = $2, revision_requested_at = $3, revision_reason = $4`, &reason,
		entity.PrerecordEventRevisionRequested)
	if err != nil {
		return nil, err
	}

	approvalTransitions.WithLabelValues("prerecord", "request_revision").Inc()
	c.deps.Notifier.Publish(EventPrerecordRevision, map[string]any{"number": rec.Number, "reason": reason})

	return rec, nil
}

// ResubmitPrerecord applies the submitter's edits and reopens the gate. The
// prior revision reason stays retrievable through the event history.
func (c *PrerecordController) ResubmitPrerecord(ctx context.Context, id, actorID uint64, req *entity.ResubmitPrerecordRequest) (*entity.Prerecord, error) {
	tx, err := c.deps.DB.Begin(ctx)
	if err != nil {
		c.deps.Logger.Error("Error starting transaction", slog.String("error", err.Error()))
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	rec, err := c.lockPrerecord(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if rec.Status != entity.RequestStatusRevisionRequested {
		return nil, fmt.Errorf("%w: prerecord %s is %s, resubmit needs %s", ErrNotPending, rec.Number, rec.Status, entity.RequestStatusRevisionRequested)
	}

	if rec.SubmittedBy != actorID {
		c.deps.Logger.Warn("Resubmit attempt by non-submitter", slog.Any("prerecord_id", id), slog.Any("actor_id", actorID))
		return nil, fmt.Errorf("%w: only the submitter may resubmit prerecord %s", ErrPermission, rec.Number)
	}

	payload, err := json.Marshal(req.Payload)
	if err != nil {
		c.deps.Logger.Error("Error marshaling payload", slog.String("error", err.Error()))
		return nil, err
	}

	now := time.Now()
	query := `UPDATE prerecords SET status = $1, payload = $2, updated_at = $3 WHERE id = $4 AND status = $5`

	tag, err := tx.Exec(ctx, query, entity.RequestStatusPending, payload, now, id, entity.RequestStatusRevisionRequested)
	if err != nil {
		c.deps.Logger.Error("Error resubmitting prerecord", slog.String("error", err.Error()))
		return nil, err
	}

	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: prerecord %s", ErrNotPending, rec.Number)
	}

	if err = c.insertEvent(ctx, tx, id, entity.PrerecordEventResubmitted, actorID, nil, now); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		c.deps.Logger.Error("Error committing transaction", slog.String("error", err.Error()))
		return nil, err
	}

	rec.Status = entity.RequestStatusPending
	rec.Payload = req.Payload
	rec.UpdatedAt = &now

	approvalTransitions.WithLabelValues("prerecord", "resubmit").Inc()
	c.deps.Notifier.Publish(EventPrerecordResubmitted, map[string]any{"number": rec.Number})

	return rec, nil
}

// RequestCancellation is submitter-only and parks the prerecord until an
// administrator decides.
func (c *PrerecordController) RequestCancellation(ctx context.Context, id, actorID uint64, reason string) (*entity.Prerecord, error) {
	rec, err := c.gateTransition(ctx, id, actorID, false,
		[]string{entity.RequestStatusPending, entity.RequestStatusRevisionRequested},
		entity.RequestStatusCancellationRequested,
		`cancellation_requested_by = $2, cancellation_requested_at = $3, cancellation_reason = $4`, &reason,
		entity.PrerecordEventCancellationRequested)
	if err != nil {
		return nil, err
	}

	approvalTransitions.WithLabelValues("prerecord", "request_cancellation").Inc()
	c.deps.Notifier.Publish(EventPrerecordCancellation, map[string]any{"number": rec.Number, "reason": reason})

	return rec, nil
}

// ResolveCancellation is the administrator decision on a pending cancellation
// request: approve cancels the prerecord, deny reopens it as PENDING.
func (c *PrerecordController) ResolveCancellation(ctx context.Context, id, actorID uint64, req *entity.ResolveCancellationRequest) (*entity.Prerecord, error) {
	target := entity.RequestStatusPending
	event := entity.PrerecordEventCancellationDenied
	if req.Approve {
		target = entity.RequestStatusCancelled
		event = entity.PrerecordEventCancellationApproved
	}

	// Comment stays NULL when absent, like the other optional columns.
	rec, err := c.gateTransition(ctx, id, actorID, true,
		[]string{entity.RequestStatusCancellationRequested}, target,
		`cancellation_resolved_by = $2, cancellation_resolved_at = $3, decision_comment = $4`, req.Comment, event)
	if err != nil {
		return nil, err
	}

	approvalTransitions.WithLabelValues("prerecord", "resolve_cancellation").Inc()
	if req.Approve {
		c.deps.Notifier.Publish(EventPrerecordCancelled, map[string]any{"number": rec.Number})
	}

	return rec, nil
}

// CancelPrerecord cancels outright. PENDING and REVISION_REQUESTED prerecords
// may always be cancelled by their submitter. An APPROVED hire may still be
// cancelled by its submitter on the approval day, rolling back the employee
// row it materialized.
func (c *PrerecordController) CancelPrerecord(ctx context.Context, id, actorID uint64, reason string) (*entity.Prerecord, error) {
	tx, err := c.deps.DB.Begin(ctx)
	if err != nil {
		c.deps.Logger.Error("Error starting transaction", slog.String("error", err.Error()))
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	rec, err := c.lockPrerecord(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if rec.SubmittedBy != actorID {
		c.deps.Logger.Warn("Cancel attempt by non-submitter", slog.Any("prerecord_id", id), slog.Any("actor_id", actorID))
		return nil, fmt.Errorf("%w: only the submitter may cancel prerecord %s", ErrPermission, rec.Number)
	}

	now := time.Now()

	switch rec.Status {
	case entity.RequestStatusPending, entity.RequestStatusRevisionRequested:
		// fall through to the cancel update
	case entity.RequestStatusApproved:
		if rec.Kind != entity.PrerecordKindHire || rec.DecidedAt == nil || !sameDay(*rec.DecidedAt, now) {
			return nil, fmt.Errorf("%w: prerecord %s is %s", ErrNotPending, rec.Number, rec.Status)
		}

		if rec.CreatedEmployeeID != nil {
			if _, err = tx.Exec(ctx, `DELETE FROM employees WHERE id = $1`, *rec.CreatedEmployeeID); err != nil {
				c.deps.Logger.Error("Error rolling back hired employee", slog.String("error", err.Error()))
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("%w: prerecord %s is %s", ErrNotPending, rec.Number, rec.Status)
	}

	query := `UPDATE prerecords
              SET status = $1, cancellation_resolved_by = $2, cancellation_resolved_at = $3, cancellation_reason = $4, updated_at = $3
              WHERE id = $5 AND status = $6`

	tag, err := tx.Exec(ctx, query, entity.RequestStatusCancelled, actorID, now, reason, id, rec.Status)
	if err != nil {
		c.deps.Logger.Error("Error cancelling prerecord", slog.String("error", err.Error()))
		return nil, err
	}

	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: prerecord %s", ErrNotPending, rec.Number)
	}

	if err = tx.Commit(ctx); err != nil {
		c.deps.Logger.Error("Error committing transaction", slog.String("error", err.Error()))
		return nil, err
	}

	rec.Status = entity.RequestStatusCancelled
	rec.UpdatedAt = &now

	approvalTransitions.WithLabelValues("prerecord", "cancel").Inc()
	c.deps.Notifier.Publish(EventPrerecordCancelled, map[string]any{"number": rec.Number, "reason": reason})

	return rec, nil
}

func (c *PrerecordController) GetPrerecords(ctx context.Context, params *entity.GetPrerecordsParams) ([]entity.Prerecord, error) {
	query := "SELECT * FROM prerecords WHERE 1=1"
	args := []any{}
	argIdx := 1

	if params != nil {
		if params.CompanyID != nil {
			query += fmt.Sprintf(" AND company_id = $%d", argIdx)
			args = append(args, *params.CompanyID)
			argIdx++
		}

		if params.Kind != nil {
			query += fmt.Sprintf(" AND kind = $%d", argIdx)
			args = append(args, *params.Kind)
			argIdx++
		}

		if params.Status != nil {
			query += fmt.Sprintf(" AND status = $%d", argIdx)
			args = append(args, *params.Status)
		}
	}

	query += " ORDER BY created_at DESC"

	rows, err := c.deps.DB.Query(ctx, query, args...)
	if err != nil {
		c.deps.Logger.Error("Error querying prerecords", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	prerecords, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.Prerecord])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	return prerecords, nil
}

func (c *PrerecordController) GetPrerecordByID(ctx context.Context, id uint64) (*entity.Prerecord, error) {
	rows, err := c.deps.DB.Query(ctx, "SELECT * FROM prerecords WHERE id = $1", id)
	if err != nil {
		c.deps.Logger.Error("Error querying prerecord", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	rec, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entity.Prerecord])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("Prerecord not found", slog.Any("id", id))
			return nil, fmt.Errorf("%w: prerecord %d", ErrNotFound, id)
		}

		c.deps.Logger.Error("Error collecting row", slog.String("error", err.Error()))
		return nil, err
	}

	return &rec, nil
}

// GetPrerecordEvents returns the sub-flow history, oldest first.
func (c *PrerecordController) GetPrerecordEvents(ctx context.Context, id uint64) ([]entity.PrerecordEvent, error) {
	rows, err := c.deps.DB.Query(ctx, "SELECT * FROM prerecord_events WHERE prerecord_id = $1 ORDER BY created_at", id)
	if err != nil {
		c.deps.Logger.Error("Error querying prerecord events", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	events, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.PrerecordEvent])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	return events, nil
}

// gateTransition is the shared move for single-update gate operations: lock,
// check status and actor, update, record the sub-flow event.
func (c *PrerecordController) gateTransition(ctx context.Context, id, actorID uint64, adminGate bool, from []string, to, setClause string, reason *string, event string) (*entity.Prerecord, error) {
	tx, err := c.deps.DB.Begin(ctx)
	if err != nil {
		c.deps.Logger.Error("Error starting transaction", slog.String("error", err.Error()))
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	rec, err := c.lockPrerecord(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, status := range from {
		if rec.Status == status {
			allowed = true
			break
		}
	}

	if !allowed {
		return nil, fmt.Errorf("%w: prerecord %s is %s", ErrNotPending, rec.Number, rec.Status)
	}

	if adminGate {
		if err = c.requireAdmin(ctx, actorID, rec); err != nil {
			return nil, err
		}
	} else if rec.SubmittedBy != actorID {
		c.deps.Logger.Warn("Sub-flow attempt by non-submitter", slog.Any("prerecord_id", id), slog.Any("actor_id", actorID))
		return nil, fmt.Errorf("%w: only the submitter may act on prerecord %s", ErrPermission, rec.Number)
	}

	now := time.Now()
	query := fmt.Sprintf(`UPDATE prerecords SET status = $1, %s, updated_at = $3 WHERE id = $5 AND status = $6`, setClause)

	tag, err := tx.Exec(ctx, query, to, actorID, now, reason, id, rec.Status)
	if err != nil {
		c.deps.Logger.Error("Error updating prerecord", slog.String("error", err.Error()))
		return nil, err
	}

	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: prerecord %s", ErrNotPending, rec.Number)
	}

	if event != "" {
		eventReason := reason
		if eventReason != nil && *eventReason == "" {
			eventReason = nil
		}

		if err = c.insertEvent(ctx, tx, id, event, actorID, eventReason, now); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		c.deps.Logger.Error("Error committing transaction", slog.String("error", err.Error()))
		return nil, err
	}

	rec.Status = to
	rec.UpdatedAt = &now

	return rec, nil
}

func (c *PrerecordController) requireAdmin(ctx context.Context, actorID uint64, rec *entity.Prerecord) error {
	admin, err := c.deps.Admins.IsCompanyAdmin(ctx, actorID, rec.CompanyID)
	if err != nil {
		return err
	}

	if !admin {
		c.deps.Logger.Warn("Gate action by non-admin", slog.Any("prerecord_id", rec.ID), slog.Any("actor_id", actorID))
		return fmt.Errorf("%w: employee %d may not act on prerecord %s", ErrPermission, actorID, rec.Number)
	}

	return nil
}

func (c *PrerecordController) lockPrerecord(ctx context.Context, tx pgx.Tx, id uint64) (*entity.Prerecord, error) {
	rec := &entity.Prerecord{}

	query := `SELECT id, number, company_id, kind, payload, submitted_by, status, decided_at, created_employee_id
              FROM prerecords WHERE id = $1 FOR UPDATE`

	if err := tx.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.Number, &rec.CompanyID, &rec.Kind, &rec.Payload,
		&rec.SubmittedBy, &rec.Status, &rec.DecidedAt, &rec.CreatedEmployeeID,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("Prerecord not found", slog.Any("id", id))
			return nil, fmt.Errorf("%w: prerecord %d", ErrNotFound, id)
		}

		c.deps.Logger.Error("Error locking prerecord", slog.String("error", err.Error()))
		return nil, err
	}

	return rec, nil
}

func (c *PrerecordController) insertEvent(ctx context.Context, tx pgx.Tx, prerecordID uint64, kind string, actorID uint64, reason *string, at time.Time) error {
	query := `INSERT INTO prerecord_events (prerecord_id, kind, actor_id, reason, created_at) VALUES ($1, $2, $3, $4, $5)`

	if _, err := tx.Exec(ctx, query, prerecordID, kind, actorID, reason, at); err != nil {
		c.deps.Logger.Error("Error inserting prerecord event", slog.String("error", err.Error()))
		return err
	}

	return nil
}

// materializeHire creates the employee row an approved hire prerecord
// describes.
func (c *PrerecordController) materializeHire(ctx context.Context, tx pgx.Tx, rec *entity.Prerecord, now time.Time) (uint64, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(defaultEmployeePassword), bcrypt.DefaultCost)
	if err != nil {
		c.deps.Logger.Error("Error hashing password", slog.String("error", err.Error()))
		return 0, err
	}

	role := "employee"
	if rec.Payload.Role != nil {
		role = *rec.Payload.Role
	}

	hireDate := rec.Payload.HireDate
	if hireDate == nil {
		hireDate = &now
	}

	query := `INSERT INTO employees (company_id, first_name, last_name, middle_name, phone, email, password, role, is_active, department_id, manager_id, workplace_id, workplace_section_id, position, hire_date, status, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true, $9, $10, $11, $12, $13, $14, $15, $16, $16)
              RETURNING id`

	var employeeID uint64
	if err = tx.QueryRow(ctx, query,
		rec.CompanyID, rec.Payload.FirstName, rec.Payload.LastName, rec.Payload.MiddleName, rec.Payload.Phone,
		rec.Payload.Email, string(passwordHash), role, rec.Payload.DepartmentID, rec.Payload.ManagerID,
		rec.Payload.WorkplaceID, rec.Payload.WorkplaceSectionID, rec.Payload.Position, hireDate, "active", now,
	).Scan(&employeeID); err != nil {
		c.deps.Logger.Error("Error inserting hired employee", slog.String("error", err.Error()))
		return 0, err
	}

	return employeeID, nil
}

// materializeTermination stamps the fire date and soft-destroys the employee.
func (c *PrerecordController) materializeTermination(ctx context.Context, tx pgx.Tx, rec *entity.Prerecord, now time.Time) error {
	fireDate := rec.Payload.FireDate
	if fireDate == nil {
		fireDate = &now
	}

	query := `UPDATE employees SET fire_date = $1, is_active = false, status = 'terminated', updated_at = $2 WHERE id = $3`

	tag, err := tx.Exec(ctx, query, fireDate, now, *rec.Payload.EmployeeID)
	if err != nil {
		c.deps.Logger.Error("Error terminating employee", slog.String("error", err.Error()))
		return err
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: employee %d", ErrNotFound, *rec.Payload.EmployeeID)
	}

	return nil
}

// sameDay compares calendar dates in UTC so that a timestamptz scanned in a
// different zone cannot shift the window around midnight.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
