package entity

import "time"

// Department forms a tree through ParentID. Cycles are rejected by the
// department controller; the hierarchy resolver additionally guards its own
// traversal so a persisted violation cannot make it loop.
type Department struct {
	ID          uint64     `json:"id,omitempty" db:"id"`
	CompanyID   uint64     `json:"company_id" db:"company_id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	ParentID    *uint64    `json:"parent_id" db:"parent_id"`
	HeadID      *uint64    `json:"head_id" db:"head_id"`
	CreatedAt   *time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}
