package entity

import "time"

// Company is the tenant root. AdminID points at the primary administrator
// employee used as the resolver fallback for headless departments.
// AutoApproveNoChain is the policy applied when a request is created with an
// empty approval chain: approve immediately, or leave it pending until an
// administrator acts.
type Company struct {
	ID                 uint64     `json:"id" db:"id"`
	Name               string     `json:"name" db:"name"`
	AdminID            *uint64    `json:"admin_id" db:"admin_id"`
	AutoApproveNoChain bool       `json:"auto_approve_no_chain" db:"auto_approve_no_chain"`
	CreatedAt          *time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}
