package entity

import "time"

// Chain entry statuses.
const (
	EntryStatusPending  = "PENDING"
	EntryStatusApproved = "APPROVED"
	EntryStatusRejected = "REJECTED"
)

// Request statuses shared by advance requests and prerecords.
const (
	RequestStatusPending               = "PENDING"
	RequestStatusApproved              = "APPROVED"
	RequestStatusRejected              = "REJECTED"
	RequestStatusCancelled             = "CANCELLED"
	RequestStatusRevisionRequested     = "REVISION_REQUESTED"
	RequestStatusCancellationRequested = "CANCELLATION_REQUESTED"
)

// Role labels recorded on chain entries. Informational only: they name the
// hierarchy that produced the entry, not a permission.
const (
	ChainRoleManager        = "manager"
	ChainRoleDepartmentHead = "department_head"
	ChainRoleSectionHead    = "section_head"
	ChainRoleWorkplaceHead  = "workplace_head"
	ChainRoleCompanyAdmin   = "company_admin"
)

// ChainEntry is one authorizer step in an approval chain. A request's chain is
// snapshotted at creation time and never recomputed while the request is in
// flight.
type ChainEntry struct {
	ApproverID uint64     `json:"approver_id"`
	Role       string     `json:"role"`
	Status     string     `json:"status"`
	ActionDate *time.Time `json:"action_date,omitempty"`
	Comment    *string    `json:"comment,omitempty"`
}
