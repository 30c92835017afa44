package entity

import "time"

// Prerecord kinds.
const (
	PrerecordKindHire        = "HIRE"
	PrerecordKindTermination = "TERMINATION"
)

// Prerecord event kinds (sub-flow history).
const (
	PrerecordEventRevisionRequested     = "REVISION_REQUESTED"
	PrerecordEventResubmitted           = "RESUBMITTED"
	PrerecordEventCancellationRequested = "CANCELLATION_REQUESTED"
	PrerecordEventCancellationApproved  = "CANCELLATION_APPROVED"
	PrerecordEventCancellationDenied    = "CANCELLATION_DENIED"
)

// PrerecordPayload carries the proposed record. Hire prerecords fill the
// employee fields, termination prerecords fill EmployeeID/FireDate/Reason.
type PrerecordPayload struct {
	FirstName          string     `json:"first_name,omitempty"`
	LastName           string     `json:"last_name,omitempty"`
	MiddleName         *string    `json:"middle_name,omitempty"`
	Email              *string    `json:"email,omitempty"`
	Phone              *string    `json:"phone,omitempty"`
	Role               *string    `json:"role,omitempty"`
	Position           *string    `json:"position,omitempty"`
	DepartmentID       *uint64    `json:"department_id,omitempty"`
	ManagerID          *uint64    `json:"manager_id,omitempty"`
	WorkplaceID        *uint64    `json:"workplace_id,omitempty"`
	WorkplaceSectionID *uint64    `json:"workplace_section_id,omitempty"`
	HireDate           *time.Time `json:"hire_date,omitempty"`

	EmployeeID *uint64    `json:"employee_id,omitempty"`
	FireDate   *time.Time `json:"fire_date,omitempty"`
	Reason     *string    `json:"reason,omitempty"`
}

// Prerecord is a gate-driven approvable request: any administrator of the
// owning company may act once, there is no per-step chain.
type Prerecord struct {
	ID          uint64           `json:"id" db:"id"`
	Number      string           `json:"number" db:"number"`
	CompanyID   uint64           `json:"company_id" db:"company_id"`
	Kind        string           `json:"kind" db:"kind"`
	Payload     PrerecordPayload `json:"payload" db:"payload"`
	SubmittedBy uint64           `json:"submitted_by" db:"submitted_by"`
	Status      string           `json:"status" db:"status"`

	DecidedBy       *uint64    `json:"decided_by" db:"decided_by"`
	DecidedAt       *time.Time `json:"decided_at" db:"decided_at"`
	DecisionComment *string    `json:"decision_comment" db:"decision_comment"`

	RevisionReason      *string    `json:"revision_reason" db:"revision_reason"`
	RevisionRequestedBy *uint64    `json:"revision_requested_by" db:"revision_requested_by"`
	RevisionRequestedAt *time.Time `json:"revision_requested_at" db:"revision_requested_at"`

	CancellationReason      *string    `json:"cancellation_reason" db:"cancellation_reason"`
	CancellationRequestedBy *uint64    `json:"cancellation_requested_by" db:"cancellation_requested_by"`
	CancellationRequestedAt *time.Time `json:"cancellation_requested_at" db:"cancellation_requested_at"`
	CancellationResolvedBy  *uint64    `json:"cancellation_resolved_by" db:"cancellation_resolved_by"`
	CancellationResolvedAt  *time.Time `json:"cancellation_resolved_at" db:"cancellation_resolved_at"`

	// CreatedEmployeeID records the employee materialized by an approved hire,
	// needed to roll it back on a same-day cancellation.
	CreatedEmployeeID *uint64 `json:"created_employee_id" db:"created_employee_id"`

	CreatedAt *time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// PrerecordEvent keeps sub-flow history so earlier revision and cancellation
// reasons stay retrievable after the prerecord moves on.
type PrerecordEvent struct {
	ID          uint64    `json:"id" db:"id"`
	PrerecordID uint64    `json:"prerecord_id" db:"prerecord_id"`
	Kind        string    `json:"kind" db:"kind"`
	ActorID     uint64    `json:"actor_id" db:"actor_id"`
	Reason      *string   `json:"reason" db:"reason"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type CreatePrerecordRequest struct {
	Kind    string           `json:"kind"`
	Payload PrerecordPayload `json:"payload"`
}

type ResubmitPrerecordRequest struct {
	Payload PrerecordPayload `json:"payload"`
}

type ResolveCancellationRequest struct {
	Approve bool    `json:"approve"`
	Comment *string `json:"comment"`
}

type GetPrerecordsParams struct {
	CompanyID *uint64
	Kind      *string
	Status    *string
}
