package controllers

import (
	"context"
	"testing"
	"time"

	"github.com/hamzakamil/personelplus/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newAdvanceController(deps *Dependens) *AdvanceController {
	return NewAdvanceController(deps, NewChainController(deps))
}

// lockRow builds the row lockAdvance scans, in column order.
func lockRow(adv entity.AdvanceRequest) *MockRow {
	return NewMockRow([]interface{}{
		adv.ID, adv.Number, adv.CompanyID, adv.EmployeeID, adv.RequestedBy,
		adv.Amount, adv.Currency, adv.Installments, adv.ApprovalChain,
		adv.CurrentApproverID, adv.Status,
	}, nil)
}

func pendingAdvance(chain []entity.ChainEntry) entity.AdvanceRequest {
	adv := entity.AdvanceRequest{
		ID:            5,
		Number:        "adv-5",
		CompanyID:     1,
		EmployeeID:    1,
		RequestedBy:   1,
		Amount:        3000,
		Currency:      "TRY",
		Installments:  3,
		ApprovalChain: chain,
		Status:        entity.RequestStatusPending,
	}

	if len(chain) > 0 {
		adv.CurrentApproverID = &chain[0].ApproverID
	}

	return adv
}

func TestCreateAdvanceValidation(t *testing.T) {
	tests := []struct {
		name          string
		req           *entity.CreateAdvanceRequest
		errorContains string
	}{
		{
			name:          "zero amount",
			req:           &entity.CreateAdvanceRequest{EmployeeID: 1, Amount: 0},
			errorContains: "amount must be positive",
		},
		{
			name:          "negative amount",
			req:           &entity.CreateAdvanceRequest{EmployeeID: 1, Amount: -500},
			errorContains: "amount must be positive",
		},
		{
			name:          "too many installments",
			req:           &entity.CreateAdvanceRequest{EmployeeID: 1, Amount: 1000, Installments: 25},
			errorContains: "installments must not exceed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := &MockDB{}
			deps := CreateTestDependencies(mockDB, &MockRedis{})
			controller := newAdvanceController(deps)

			result, err := controller.CreateAdvance(context.Background(), 1, tt.req)

			assert.Error(t, err)
			assert.Nil(t, result)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestCreateAdvanceWithChain(t *testing.T) {
	mockDB := &MockDB{}
	deps := CreateTestDependencies(mockDB, &MockRedis{})
	controller := newAdvanceController(deps)

	chain := CreateTestChain()
	snapshotRow := NewMockRow([]interface{}{uint64(1), true, chain}, nil)
	mockDB.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), uint64(2)).Return(snapshotRow)

	tx := &MockTx{QueuedRows: []*MockRow{NewMockRow([]interface{}{uint64(7)}, nil)}}
	mockDB.On("Begin", mock.Anything).Return(tx, nil)

	req := &entity.CreateAdvanceRequest{EmployeeID: 2, Amount: 3000, Installments: 3}
	result, err := controller.CreateAdvance(context.Background(), 2, req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, uint64(7), result.ID)
	assert.NotEmpty(t, result.Number)
	assert.Equal(t, entity.RequestStatusPending, result.Status)
	assert.Equal(t, "TRY", result.Currency)
	assert.NotNil(t, result.CurrentApproverID)
	assert.Equal(t, chain[0].ApproverID, *result.CurrentApproverID)
	assert.True(t, tx.Committed)
	assert.Empty(t, tx.ExecSQL, "no installments before final approval")
	mockDB.AssertExpectations(t)
}

func TestCreateAdvanceEmptyChainPolicy(t *testing.T) {
	tests := []struct {
		name             string
		autoApprove      bool
		wantStatus       string
		wantInstallments int
	}{
		{
			name:             "auto approve materializes installments immediately",
			autoApprove:      true,
			wantStatus:       entity.RequestStatusApproved,
			wantInstallments: 2,
		},
		{
			name:             "no auto approve stays pending for an admin",
			autoApprove:      false,
			wantStatus:       entity.RequestStatusPending,
			wantInstallments: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := &MockDB{}
			deps := CreateTestDependencies(mockDB, &MockRedis{})
			controller := newAdvanceController(deps)

			snapshotRow := NewMockRow([]interface{}{uint64(1), true, []entity.ChainEntry{}}, nil)
			mockDB.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), uint64(2)).Return(snapshotRow)

			policyRow := NewMockRow([]interface{}{tt.autoApprove}, nil)
			mockDB.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), uint64(1)).Return(policyRow)

			tx := &MockTx{QueuedRows: []*MockRow{NewMockRow([]interface{}{uint64(7)}, nil)}}
			mockDB.On("Begin", mock.Anything).Return(tx, nil)

			req := &entity.CreateAdvanceRequest{EmployeeID: 2, Amount: 1001, Installments: 2}
			result, err := controller.CreateAdvance(context.Background(), 2, req)

			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, result.Status)
			assert.Nil(t, result.CurrentApproverID)
			assert.Len(t, tx.ExecSQL, tt.wantInstallments)
			assert.True(t, tx.Committed)
		})
	}
}

func TestCreateAdvanceEmployeeNotFound(t *testing.T) {
	mockDB := &MockDB{}
	deps := CreateTestDependencies(mockDB, &MockRedis{})
	controller := newAdvanceController(deps)

	mockDB.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), uint64(404)).
		Return(NewMockRow(nil, pgx.ErrNoRows))

	req := &entity.CreateAdvanceRequest{EmployeeID: 404, Amount: 1000}
	result, err := controller.CreateAdvance(context.Background(), 1, req)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, result)
}

func TestApproveAdvanceStep(t *testing.T) {
	mockDB := &MockDB{}
	deps := CreateTestDependencies(mockDB, &MockRedis{})
	controller := newAdvanceController(deps)

	adv := pendingAdvance(CreateTestChain())
	tx := &MockTx{QueuedRows: []*MockRow{lockRow(adv)}}
	mockDB.On("Begin", mock.Anything).Return(tx, nil)

	result, err := controller.ApproveAdvance(context.Background(), 5, 10, StringPtr("ok"))

	assert.NoError(t, err)
	assert.Equal(t, entity.RequestStatusPending, result.Status)
	assert.Equal(t, entity.EntryStatusApproved, result.ApprovalChain[0].Status)
	assert.Equal(t, entity.EntryStatusPending, result.ApprovalChain[1].Status)
	assert.NotNil(t, result.CurrentApproverID)
	assert.Equal(t, uint64(20), *result.CurrentApproverID)
	assert.Len(t, tx.ExecSQL, 1)
	assert.True(t, tx.Committed)
}

func TestApproveAdvanceFinalStepMaterializesInstallments(t *testing.T) {
	mockDB := &MockDB{}
	deps := CreateTestDependencies(mockDB, &MockRedis{})
	controller := newAdvanceController(deps)

	chain := []entity.ChainEntry{
		{ApproverID: 10, Role: entity.ChainRoleManager, Status: entity.EntryStatusPending},
	}
	adv := pendingAdvance(chain)
	tx := &MockTx{QueuedRows: []*MockRow{lockRow(adv)}}
	mockDB.On("Begin", mock.Anything).Return(tx, nil)

	result, err := controller.ApproveAdvance(context.Background(), 5, 10, nil)

	assert.NoError(t, err)
	assert.Equal(t, entity.RequestStatusApproved, result.Status)
	assert.Nil(t, result.CurrentApproverID)
	// One UPDATE plus one INSERT per installment.
	assert.Len(t, tx.ExecSQL, 1+adv.Installments)
	assert.True(t, tx.Committed)

	notifier := deps.Notifier.(*RecordingNotifier)
	assert.Contains(t, notifier.Events, EventAdvanceApproved)
}

func TestApproveAdvanceFinalizeStatusGuard(t *testing.T) {
	mockDB := &MockDB{}
	deps := CreateTestDependencies(mockDB, &MockRedis{})
	controller := newAdvanceController(deps)

	// A concurrent approval won the race after our snapshot: the guarded
	// UPDATE matches no row, the loser must back off without installments.
	chain := []entity.ChainEntry{
		{ApproverID: 10, Role: entity.ChainRoleManager, Status: entity.EntryStatusPending},
	}
	adv := pendingAdvance(chain)
	tx := &MockTx{
		QueuedRows: []*MockRow{lockRow(adv)},
		QueuedTags: []pgconn.CommandTag{NewMockCommandTag(0)},
	}
	mockDB.On("Begin", mock.Anything).Return(tx, nil)

	result, err := controller.ApproveAdvance(context.Background(), 5, 10, nil)

	assert.ErrorIs(t, err, ErrNotPending)
	assert.Nil(t, result)
	// Only the failed UPDATE, no installment INSERTs.
	assert.Len(t, tx.ExecSQL, 1)
	assert.False(t, tx.Committed)
	assert.True(t, tx.RolledBack)

	notifier := deps.Notifier.(*RecordingNotifier)
	assert.NotContains(t, notifier.Events, EventAdvanceApproved)
}

func TestApproveAdvanceRepeatIsNoOp(t *testing.T) {
	mockDB := &MockDB{}
	deps := CreateTestDependencies(mockDB, &MockRedis{})
	controller := newAdvanceController(deps)

	now := time.Now()
	chain := []entity.ChainEntry{
		{ApproverID: 10, Role: entity.ChainRoleManager, Status: entity.EntryStatusApproved, ActionDate: &now},
		{ApproverID: 20, Role: entity.ChainRoleDepartmentHead, Status: entity.EntryStatusPending},
	}
	adv := pendingAdvance(chain)
	tx := &MockTx{QueuedRows: []*MockRow{lockRow(adv)}}
	mockDB.On("Begin", mock.Anything).Return(tx, nil)

	result, err := controller.ApproveAdvance(context.Background(), 5, 10, nil)

	assert.NoError(t, err)
	assert.Equal(t, entity.RequestStatusPending, result.Status)
	assert.Empty(t, tx.ExecSQL, "a resolved entry must not fire another transition")
	assert.False(t, tx.Committed)
}

func TestApproveAdvanceNonApprover(t *testing.T) {
	mockDB := &MockDB{}
	deps := CreateTestDependencies(mockDB, &MockRedis{})
	controller := newAdvanceController(deps)

	adv := pendingAdvance(CreateTestChain())
	tx := &MockTx{QueuedRows: []*MockRow{lockRow(adv)}}
	mockDB.On("Begin", mock.Anything).Return(tx, nil)

	result, err := controller.ApproveAdvance(context.Background(), 5, 77, nil)

	assert.ErrorIs(t, err, ErrPermission)
	assert.Nil(t, result)
	assert.Empty(t, tx.ExecSQL)
}

func TestApproveAdvanceAdminOverride(t *testing.T) {
	mockDB := &MockDB{}
	deps := CreateTestDependencies(mockDB, &MockRedis{})
	deps.Admins = &MockAdminChecker{Admins: map[uint64]bool{99: true}}
	controller := newAdvanceController(deps)

	adv := pendingAdvance(CreateTestChain())
	tx := &MockTx{QueuedRows: []*MockRow{lockRow(adv)}}
	mockDB.On("Begin", mock.Anything).Return(tx, nil)

	result, err := controller.ApproveAdvance(context.Background(), 5, 99, StringPtr("override"))

	assert.NoError(t, err)
	assert.Equal(t, entity.RequestStatusApproved, result.Status)

	for _, entry := range result.ApprovalChain {
		assert.Equal(t, entity.EntryStatusApproved, entry.Status)
	}

	assert.Len(t, tx.ExecSQL, 1+adv.Installments)
	assert.True(t, tx.Committed)
}

func TestApproveAdvanceNotPending(t *testing.T) {
	mockDB := &MockDB{}
	deps := CreateTestDependencies(mockDB, &MockRedis{})
	controller := newAdvanceController(deps)

	adv := pendingAdvance(CreateTestChain())
	adv.Status = entity.RequestStatusRejected
	tx := &MockTx{QueuedRows: []*MockRow{lockRow(adv)}}
	mockDB.On("Begin", mock.Anything).Return(tx, nil)

	result, err := controller.ApproveAdvance(context.Background(), 5, 10, nil)

	assert.ErrorIs(t, err, ErrNotPending)
	assert.Nil(t, result)
}

func TestApproveAdvanceInconsistentChain(t *testing.T) {
	mockDB := &MockDB{}
	deps := CreateTestDependencies(mockDB, &MockRedis{})
	deps.Admins = &MockAdminChecker{Admins: map[uint64]bool{99: true}}
	controller := newAdvanceController(deps)

	// A rejected entry under a still-pending request cannot happen through
	// the engine; the transition must refuse rather than guess.
	chain := []entity.ChainEntry{
		{ApproverID: 10, Role: entity.ChainRoleManager, Status: entity.EntryStatusRejected},
	}
	adv := pendingAdvance(chain)
	tx := &MockTx{QueuedRows: []*MockRow{lockRow(adv)}}
	mockDB.On("Begin", mock.Anything).Return(tx, nil)

	result, err := controller.ApproveAdvance(context.Background(), 5, 99, nil)

	assert.ErrorIs(t, err, ErrInconsistentChain)
	assert.Nil(t, result)
	assert.False(t, tx.Committed)
}

func TestRejectAdvance(t *testing.T) {
	tests := []struct {
		name    string
		actorID uint64
		admins  map[uint64]bool
		wantErr error
	}{
		{
			name:    "chain member rejects",
			actorID: 20,
		},
		{
			name:    "admin outside the chain rejects",
			actorID: 99,
			admins:  map[uint64]bool{99: true},
		},
		{
			name:    "outsider may not reject",
			actorID: 77,
			wantErr: ErrPermission,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := &MockDB{}
			deps := CreateTestDependencies(mockDB, &MockRedis{})
			if tt.admins != nil {
				deps.Admins = &MockAdminChecker{Admins: tt.admins}
			}
			controller := newAdvanceController(deps)

			adv := pendingAdvance(CreateTestChain())
			tx := &MockTx{QueuedRows: []*MockRow{lockRow(adv)}}
			mockDB.On("Begin", mock.Anything).Return(tx, nil)

			result, err := controller.RejectAdvance(context.Background(), 5, tt.actorID, "not this month")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
				assert.False(t, tx.Committed)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, entity.RequestStatusRejected, result.Status)
			assert.Nil(t, result.CurrentApproverID)
			assert.Equal(t, tt.actorID, *result.RejectedBy)
			assert.True(t, tx.Committed)
		})
	}
}

func TestRejectAdvanceStatusGuard(t *testing.T) {
	mockDB := &MockDB{}
	deps := CreateTestDependencies(mockDB, &MockRedis{})
	controller := newAdvanceController(deps)

	adv := pendingAdvance(CreateTestChain())
	tx := &MockTx{
		QueuedRows: []*MockRow{lockRow(adv)},
		QueuedTags: []pgconn.CommandTag{NewMockCommandTag(0)},
	}
	mockDB.On("Begin", mock.Anything).Return(tx, nil)

	result, err := controller.RejectAdvance(context.Background(), 5, 10, "late")

	assert.ErrorIs(t, err, ErrNotPending)
	assert.Nil(t, result)
	assert.False(t, tx.Committed)
}

func TestCancelAdvance(t *testing.T) {
	tests := []struct {
		name    string
		actorID uint64
		status  string
		wantErr error
	}{
		{
			name:    "requester cancels",
			actorID: 1,
			status:  entity.RequestStatusPending,
		},
		{
			name:    "non-requester may not cancel",
			actorID: 10,
			status:  entity.RequestStatusPending,
			wantErr: ErrPermission,
		},
		{
			name:    "already approved",
			actorID: 1,
			status:  entity.RequestStatusApproved,
			wantErr: ErrNotPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := &MockDB{}
			deps := CreateTestDependencies(mockDB, &MockRedis{})
			controller := newAdvanceController(deps)

			adv := pendingAdvance(CreateTestChain())
			adv.Status = tt.status
			tx := &MockTx{QueuedRows: []*MockRow{lockRow(adv)}}
			mockDB.On("Begin", mock.Anything).Return(tx, nil)

			result, err := controller.CancelAdvance(context.Background(), 5, tt.actorID, "changed my mind")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, entity.RequestStatusCancelled, result.Status)
			assert.NotNil(t, result.CancelledAt)
			assert.True(t, tx.Committed)
		})
	}
}
