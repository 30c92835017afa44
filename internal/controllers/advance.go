package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/hamzakamil/personelplus/internal/entity"
	"github.com/jackc/pgx/v5"
)

const maxInstallments = 24

// AdvanceController drives chain-driven requests (salary advances) through
// the approval state machine. Every transition runs in a transaction holding
// a row lock on the request, so two racing calls cannot both observe PENDING
// and double-fire the finalize side effects.
type AdvanceController struct {
	deps   *Dependens
	chains *ChainController
}

func NewAdvanceController(deps *Dependens, chains *ChainController) *AdvanceController {
	return &AdvanceController{
		deps:   deps,
		chains: chains,
	}
}

// CreateAdvance snapshots the employee's current cached chain onto a new
// request. Later org changes never touch a request already in flight. An
// empty chain is resolved by company policy: auto-approve immediately or stay
// pending until an administrator overrides.
func (c *AdvanceController) CreateAdvance(ctx context.Context, requestedBy uint64, req *entity.CreateAdvanceRequest) (*entity.AdvanceRequest, error) {
	if req.Amount <= 0 {
		c.deps.Logger.Warn("Invalid advance amount", slog.Any("amount", req.Amount))
		return nil, errors.New("amount must be positive")
	}

	if req.Installments <= 0 {
		req.Installments = 1
	}

	if req.Installments > maxInstallments {
		c.deps.Logger.Warn("Invalid installment count", slog.Int("installments", req.Installments))
		return nil, fmt.Errorf("installments must not exceed %d", maxInstallments)
	}

	companyID, chain, err := c.snapshotChain(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	autoApprove := false
	if len(chain) == 0 {
		if err = c.deps.DB.QueryRow(ctx, `SELECT auto_approve_no_chain FROM companies WHERE id = $1`, companyID).Scan(&autoApprove); err != nil {
			c.deps.Logger.Error("Error querying company policy", slog.String("error", err.Error()))
			return nil, err
		}
	}

	now := time.Now()
	adv := &entity.AdvanceRequest{
		Number:        uuid.NewString(),
		CompanyID:     companyID,
		EmployeeID:    req.EmployeeID,
		RequestedBy:   requestedBy,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Installments:  req.Installments,
		Reason:        req.Reason,
		ApprovalChain: chain,
		Status:        entity.RequestStatusPending,
		CreatedAt:     &now,
		UpdatedAt:     &now,
	}

	if adv.Currency == "" {
		adv.Currency = "TRY"
	}

	if len(chain) > 0 {
		adv.CurrentApproverID = &chain[0].ApproverID
	} else if autoApprove {
		adv.Status = entity.RequestStatusApproved
	}

	chainData, err := json.Marshal(chain)
	if err != nil {
		c.deps.Logger.Error("Error marshaling chain", slog.String("error", err.Error()))
		return nil, err
	}

	tx, err := c.deps.DB.Begin(ctx)
	if err != nil {
		c.deps.Logger.Error("Error starting transaction", slog.String("error", err.Error()))
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	query := `INSERT INTO advance_requests (number, company_id, employee_id, requested_by, amount, currency, installments, reason, approval_chain, current_approver_id, status, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
              RETURNING id`

	if err = tx.QueryRow(ctx, query,
		adv.Number, adv.CompanyID, adv.EmployeeID, adv.RequestedBy, adv.Amount, adv.Currency,
		adv.Installments, adv.Reason, chainData, adv.CurrentApproverID, adv.Status, now, now,
	).Scan(&adv.ID); err != nil {
		c.deps.Logger.Error("Error inserting advance request", slog.String("error", err.Error()))
		return nil, err
	}

	if adv.Status == entity.RequestStatusApproved {
		if err = c.materializeInstallments(ctx, tx, adv); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		c.deps.Logger.Error("Error committing transaction", slog.String("error", err.Error()))
		return nil, err
	}

	approvalTransitions.WithLabelValues("advance", "create").Inc()
	c.deps.Notifier.Publish(EventAdvanceSubmitted, map[string]any{
		"number":      adv.Number,
		"employee_id": adv.EmployeeID,
		"amount":      adv.Amount,
		"status":      adv.Status,
	})

	return adv, nil
}

// snapshotChain returns the employee's cached chain, resolving it first when
// it was never computed. The entries are reset to fresh PENDING state.
func (c *AdvanceController) snapshotChain(ctx context.Context, employeeID uint64) (uint64, []entity.ChainEntry, error) {
	var companyID uint64
	var cached bool
	var chain []entity.ChainEntry

	query := `SELECT company_id, approval_chain IS NOT NULL, COALESCE(approval_chain, '[]'::jsonb) FROM employees WHERE id = $1 AND is_active = true`
	if err := c.deps.DB.QueryRow(ctx, query, employeeID).Scan(&companyID, &cached, &chain); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("Employee not found", slog.Any("id", employeeID))
			return 0, nil, fmt.Errorf("%w: employee %d", ErrNotFound, employeeID)
		}

		c.deps.Logger.Error("Error querying employee", slog.String("error", err.Error()))
		return 0, nil, err
	}

	if !cached {
		resolved, err := c.chains.Resolve(ctx, employeeID)
		if err != nil {
			return 0, nil, err
		}

		chain = resolved
	}

	snapshot := make([]entity.ChainEntry, len(chain))
	for i, entry := range chain {
		snapshot[i] = entity.ChainEntry{
			ApproverID: entry.ApproverID,
			Role:       entry.Role,
			Status:     entity.EntryStatusPending,
		}
	}

	return companyID, snapshot, nil
}

// ApproveAdvance advances a pending request by one step. A chain member acts
// only on their own step, even when they also hold an administrative role; an
// administrator who is not in the chain approves every remaining PENDING entry
// in one call.
func (c *AdvanceController) ApproveAdvance(ctx context.Context, id, actorID uint64, comment *string) (*entity.AdvanceRequest, error) {
	tx, err := c.deps.DB.Begin(ctx)
	if err != nil {
		c.deps.Logger.Error("Error starting transaction", slog.String("error", err.Error()))
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	adv, err := c.lockAdvance(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if adv.Status != entity.RequestStatusPending {
		return nil, fmt.Errorf("%w: advance %s is %s", ErrNotPending, adv.Number, adv.Status)
	}

	now := time.Now()
	chain := adv.ApprovalChain
	idx := entryIndex(chain, actorID)

	switch {
	case idx >= 0 && chain[idx].Status == entity.EntryStatusPending:
		chain[idx].Status = entity.EntryStatusApproved
		chain[idx].ActionDate = &now
		chain[idx].Comment = comment
	case idx >= 0:
		// The actor's entry was already resolved: repeating the call is a
		// no-op for the caller and must never re-fire finalize.
		return adv, nil
	default:
		admin, adminErr := c.deps.Admins.IsCompanyAdmin(ctx, actorID, adv.CompanyID)
		if adminErr != nil {
			return nil, adminErr
		}

		if !admin {
			c.deps.Logger.Warn("Approve attempt by non-approver", slog.Any("advance_id", id), slog.Any("actor_id", actorID))
			return nil, fmt.Errorf("%w: employee %d may not approve advance %s", ErrPermission, actorID, adv.Number)
		}

		// Admin override: short-circuit every remaining step in one call.
		for i := range chain {
			if chain[i].Status == entity.EntryStatusPending {
				chain[i].Status = entity.EntryStatusApproved
				chain[i].ActionDate = &now
				chain[i].Comment = comment
			}
		}
	}

	next := nextPendingEntry(chain)

	switch {
	case next != nil:
		if err = c.updateChain(ctx, tx, adv, chain, &next.ApproverID); err != nil {
			return nil, err
		}
	case allApproved(chain):
		if err = c.finalizeAdvance(ctx, tx, adv, chain); err != nil {
			return nil, err
		}
	default:
		// Unapproved entries remain but none is PENDING: the chain was
		// corrupted out of band. Surface it, never guess.
		c.deps.Logger.Error("Inconsistent approval chain", slog.Any("advance_id", id))
		return nil, fmt.Errorf("%w: advance %s has no pending entry to advance to", ErrInconsistentChain, adv.Number)
	}

	if err = tx.Commit(ctx); err != nil {
		c.deps.Logger.Error("Error committing transaction", slog.String("error", err.Error()))
		return nil, err
	}

	approvalTransitions.WithLabelValues("advance", "approve").Inc()

	if adv.Status == entity.RequestStatusApproved {
		c.deps.Notifier.Publish(EventAdvanceApproved, map[string]any{"number": adv.Number, "employee_id": adv.EmployeeID})
	} else {
		c.deps.Notifier.Publish(EventAdvanceStepApproved, map[string]any{"number": adv.Number, "approver_id": actorID})
	}

	return adv, nil
}

// RejectAdvance terminates a pending request. Any chain member or a company
// administrator may reject; the rejecter does not have to be the current step.
func (c *AdvanceController) RejectAdvance(ctx context.Context, id, actorID uint64, reason string) (*entity.AdvanceRequest, error) {
	tx, err := c.deps.DB.Begin(ctx)
	if err != nil {
		c.deps.Logger.Error("Error starting transaction", slog.String("error", err.Error()))
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	adv, err := c.lockAdvance(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if adv.Status != entity.RequestStatusPending {
		return nil, fmt.Errorf("%w: advance %s is %s", ErrNotPending, adv.Number, adv.Status)
	}

	now := time.Now()
	chain := adv.ApprovalChain
	idx := entryIndex(chain, actorID)

	if idx < 0 {
		admin, adminErr := c.deps.Admins.IsCompanyAdmin(ctx, actorID, adv.CompanyID)
		if adminErr != nil {
			return nil, adminErr
		}

		if !admin {
			c.deps.Logger.Warn("Reject attempt by non-approver", slog.Any("advance_id", id), slog.Any("actor_id", actorID))
			return nil, fmt.Errorf("%w: employee %d may not reject advance %s", ErrPermission, actorID, adv.Number)
		}
	} else if chain[idx].Status == entity.EntryStatusPending {
		chain[idx].Status = entity.EntryStatusRejected
		chain[idx].ActionDate = &now
		chain[idx].Comment = &reason
	}

	chainData, err := json.Marshal(chain)
	if err != nil {
		c.deps.Logger.Error("Error marshaling chain", slog.String("error", err.Error()))
		return nil, err
	}

	query := `UPDATE advance_requests
              SET status = $1, approval_chain = $2, current_approver_id = NULL,
                  rejected_by = $3, rejected_at = $4, reject_reason = $5, updated_at = $4
              WHERE id = $6 AND status = $7`

	tag, err := tx.Exec(ctx, query, entity.RequestStatusRejected, chainData, actorID, now, reason, id, entity.RequestStatusPending)
	if err != nil {
		c.deps.Logger.Error("Error rejecting advance", slog.String("error", err.Error()))
		return nil, err
	}

	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: advance %s", ErrNotPending, adv.Number)
	}

	if err = tx.Commit(ctx); err != nil {
		c.deps.Logger.Error("Error committing transaction", slog.String("error", err.Error()))
		return nil, err
	}

	adv.Status = entity.RequestStatusRejected
	adv.ApprovalChain = chain
	adv.CurrentApproverID = nil
	adv.RejectedBy = &actorID
	adv.RejectedAt = &now
	adv.RejectReason = &reason

	approvalTransitions.WithLabelValues("advance", "reject").Inc()
	c.deps.Notifier.Publish(EventAdvanceRejected, map[string]any{"number": adv.Number, "rejected_by": actorID, "reason": reason})

	return adv, nil
}

// CancelAdvance is requester-only and terminal.
func (c *AdvanceController) CancelAdvance(ctx context.Context, id, actorID uint64, reason string) (*entity.AdvanceRequest, error) {
	tx, err := c.deps.DB.Begin(ctx)
	if err != nil {
		c.deps.Logger.Error("Error starting transaction", slog.String("error", err.Error()))
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	adv, err := c.lockAdvance(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if adv.Status != entity.RequestStatusPending {
		return nil, fmt.Errorf("%w: advance %s is %s", ErrNotPending, adv.Number, adv.Status)
	}

	if adv.RequestedBy != actorID {
		c.deps.Logger.Warn("Cancel attempt by non-requester", slog.Any("advance_id", id), slog.Any("actor_id", actorID))
		return nil, fmt.Errorf("%w: only the requester may cancel advance %s", ErrPermission, adv.Number)
	}

	now := time.Now()
	query := `UPDATE advance_requests
              SET status = $1, current_approver_id = NULL, cancelled_at = $2, cancel_reason = $3, updated_at = $2
              WHERE id = $4 AND status = $5`

	tag, err := tx.Exec(ctx, query, entity.RequestStatusCancelled, now, reason, id, entity.RequestStatusPending)
	if err != nil {
		c.deps.Logger.Error("Error cancelling advance", slog.String("error", err.Error()))
		return nil, err
	}

	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: advance %s", ErrNotPending, adv.Number)
	}

	if err = tx.Commit(ctx); err != nil {
		c.deps.Logger.Error("Error committing transaction", slog.String("error", err.Error()))
		return nil, err
	}

	adv.Status = entity.RequestStatusCancelled
	adv.CurrentApproverID = nil
	adv.CancelledAt = &now
	adv.CancelReason = &reason

	approvalTransitions.WithLabelValues("advance", "cancel").Inc()
	c.deps.Notifier.Publish(EventAdvanceCancelled, map[string]any{"number": adv.Number, "reason": reason})

	return adv, nil
}

func (c *AdvanceController) GetAdvances(ctx context.Context, params *entity.GetAdvancesParams) ([]entity.AdvanceRequest, error) {
	query := "SELECT * FROM advance_requests WHERE 1=1"
	args := []any{}
	argIdx := 1

	if params != nil {
		if params.CompanyID != nil {
			query += fmt.Sprintf(" AND company_id = $%d", argIdx)
			args = append(args, *params.CompanyID)
			argIdx++
		}

		if params.EmployeeID != nil {
			query += fmt.Sprintf(" AND employee_id = $%d", argIdx)
			args = append(args, *params.EmployeeID)
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
		c.deps.Logger.Error("Error querying advances", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	advances, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.AdvanceRequest])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	return advances, nil
}

func (c *AdvanceController) GetAdvanceByID(ctx context.Context, id uint64) (*entity.AdvanceRequest, error) {
	rows, err := c.deps.DB.Query(ctx, "SELECT * FROM advance_requests WHERE id = $1", id)
	if err != nil {
		c.deps.Logger.Error("Error querying advance", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	adv, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entity.AdvanceRequest])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("Advance not found", slog.Any("id", id))
			return nil, fmt.Errorf("%w: advance %d", ErrNotFound, id)
		}

		c.deps.Logger.Error("Error collecting row", slog.String("error", err.Error()))
		return nil, err
	}

	return &adv, nil
}

func (c *AdvanceController) GetInstallments(ctx context.Context, advanceID uint64) ([]entity.PaymentInstallment, error) {
	rows, err := c.deps.DB.Query(ctx, "SELECT * FROM payment_installments WHERE advance_id = $1 ORDER BY seq", advanceID)
	if err != nil {
		c.deps.Logger.Error("Error querying installments", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	installments, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.PaymentInstallment])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	return installments, nil
}

// lockAdvance reads the request under FOR UPDATE so the transition is
// serialized against concurrent calls on the same request.
func (c *AdvanceController) lockAdvance(ctx context.Context, tx pgx.Tx, id uint64) (*entity.AdvanceRequest, error) {
	adv := &entity.AdvanceRequest{}

	query := `SELECT id, number, company_id, employee_id, requested_by, amount, currency, installments, approval_chain, current_approver_id, status
              FROM advance_requests WHERE id = $1 FOR UPDATE`

	if err := tx.QueryRow(ctx, query, id).Scan(
		&adv.ID, &adv.Number, &adv.CompanyID, &adv.EmployeeID, &adv.RequestedBy, &adv.Amount,
		&adv.Currency, &adv.Installments, &adv.ApprovalChain, &adv.CurrentApproverID, &adv.Status,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("Advance not found", slog.Any("id", id))
			return nil, fmt.Errorf("%w: advance %d", ErrNotFound, id)
		}

		c.deps.Logger.Error("Error locking advance", slog.String("error", err.Error()))
		return nil, err
	}

	return adv, nil
}

// updateChain persists the mutated chain and moves the current-approver
// pointer to the next pending entry.
func (c *AdvanceController) updateChain(ctx context.Context, tx pgx.Tx, adv *entity.AdvanceRequest, chain []entity.ChainEntry, currentApprover *uint64) error {
	chainData, err := json.Marshal(chain)
	if err != nil {
		c.deps.Logger.Error("Error marshaling chain", slog.String("error", err.Error()))
		return err
	}

	now := time.Now()
	query := `UPDATE advance_requests SET approval_chain = $1, current_approver_id = $2, updated_at = $3 WHERE id = $4 AND status = $5`

	tag, err := tx.Exec(ctx, query, chainData, currentApprover, now, adv.ID, entity.RequestStatusPending)
	if err != nil {
		c.deps.Logger.Error("Error updating chain", slog.String("error", err.Error()))
		return err
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: advance %s", ErrNotPending, adv.Number)
	}

	adv.ApprovalChain = chain
	adv.CurrentApproverID = currentApprover
	adv.UpdatedAt = &now

	return nil
}

// finalizeAdvance flips the request to APPROVED and materializes the payment
// schedule in the same transaction: either both happen or neither does, so a
// failed side effect leaves the request safely retriable.
func (c *AdvanceController) finalizeAdvance(ctx context.Context, tx pgx.Tx, adv *entity.AdvanceRequest, chain []entity.ChainEntry) error {
	chainData, err := json.Marshal(chain)
	if err != nil {
		c.deps.Logger.Error("Error marshaling chain", slog.String("error", err.Error()))
		return err
	}

	now := time.Now()
	query := `UPDATE advance_requests SET status = $1, approval_chain = $2, current_approver_id = NULL, updated_at = $3 WHERE id = $4 AND status = $5`

	tag, err := tx.Exec(ctx, query, entity.RequestStatusApproved, chainData, now, adv.ID, entity.RequestStatusPending)
	if err != nil {
		c.deps.Logger.Error("Error finalizing advance", slog.String("error", err.Error()))
		return err
	}

	// The status guard makes finalize at-most-once even if the row lock is
	// ever bypassed.
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: advance %s", ErrNotPending, adv.Number)
	}

	adv.Status = entity.RequestStatusApproved
	adv.ApprovalChain = chain
	adv.CurrentApproverID = nil
	adv.UpdatedAt = &now

	return c.materializeInstallments(ctx, tx, adv)
}

// materializeInstallments creates the payment schedule: the amount split
// evenly, remainder on the last installment, due monthly starting next month.
func (c *AdvanceController) materializeInstallments(ctx context.Context, tx pgx.Tx, adv *entity.AdvanceRequest) error {
	per := math.Round(adv.Amount/float64(adv.Installments)*100) / 100
	now := time.Now()

	for seq := 1; seq <= adv.Installments; seq++ {
		amount := per
		if seq == adv.Installments {
			amount = math.Round((adv.Amount-per*float64(adv.Installments-1))*100) / 100
		}

		due := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, seq, 0)

		query := `INSERT INTO payment_installments (advance_id, seq, amount, due_date, status, created_at)
                  VALUES ($1, $2, $3, $4, $5, $6)`

		if _, err := tx.Exec(ctx, query, adv.ID, seq, amount, due, "SCHEDULED", now); err != nil {
			c.deps.Logger.Error("Error inserting installment", slog.String("error", err.Error()))
			return err
		}
	}

	return nil
}

// entryIndex finds the actor's entry in the snapshotted chain.
func entryIndex(chain []entity.ChainEntry, approverID uint64) int {
	for i := range chain {
		if chain[i].ApproverID == approverID {
			return i
		}
	}

	return -1
}

// nextPendingEntry returns the entry the current-approver pointer should move
// to, or nil when none is pending.
func nextPendingEntry(chain []entity.ChainEntry) *entity.ChainEntry {
	for i := range chain {
		if chain[i].Status == entity.EntryStatusPending {
			return &chain[i]
		}
	}

	return nil
}

func allApproved(chain []entity.ChainEntry) bool {
	for i := range chain {
		if chain[i].Status != entity.EntryStatusApproved {
			return false
		}
	}

	return true
}
