package entity

import "time"

// AdvanceRequest is a chain-driven approvable request: it carries a snapshot
// of the employee's approval chain and is advanced one step at a time.
type AdvanceRequest struct {
	ID           uint64  `json:"id" db:"id"`
	Number       string  `json:"number" db:"number"`
	CompanyID    uint64  `json:"company_id" db:"company_id"`
	EmployeeID   uint64  `json:"employee_id" db:"employee_id"`
	RequestedBy  uint64  `json:"requested_by" db:"requested_by"`
	Amount       float64 `json:"amount" db:"amount"`
	Currency     string  `json:"currency" db:"currency"`
	Installments int     `json:"installments" db:"installments"`
	Reason       *string `json:"reason" db:"reason"`

	ApprovalChain     []ChainEntry `json:"approval_chain" db:"approval_chain"`
	CurrentApproverID *uint64      `json:"current_approver_id" db:"current_approver_id"`
	Status            string       `json:"status" db:"status"`

	RejectedBy   *uint64    `json:"rejected_by" db:"rejected_by"`
	RejectedAt   *time.Time `json:"rejected_at" db:"rejected_at"`
	RejectReason *string    `json:"reject_reason" db:"reject_reason"`
	CancelledAt  *time.Time `json:"cancelled_at" db:"cancelled_at"`
	CancelReason *string    `json:"cancel_reason" db:"cancel_reason"`

	CreatedAt *time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// PaymentInstallment rows are materialized exactly once when an advance
// request is finalized.
type PaymentInstallment struct {
	ID        uint64     `json:"id" db:"id"`
	AdvanceID uint64     `json:"advance_id" db:"advance_id"`
	Seq       int        `json:"seq" db:"seq"`
	Amount    float64    `json:"amount" db:"amount"`
	DueDate   time.Time  `json:"due_date" db:"due_date"`
	Status    string     `json:"status" db:"status"`
	CreatedAt *time.Time `json:"created_at,omitempty" db:"created_at"`
}

type CreateAdvanceRequest struct {
	EmployeeID   uint64  `json:"employee_id"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	Installments int     `json:"installments"`
	Reason       *string `json:"reason"`
}

type ApprovalActionRequest struct {
	Comment *string `json:"comment"`
	Reason  string  `json:"reason"`
}

type GetAdvancesParams struct {
	CompanyID  *uint64
	EmployeeID *uint64
	Status     *string
}
