package entity

import "time"

// Workplace is flat: no parent tree, only an optional head.
type Workplace struct {
	ID        uint64     `json:"id,omitempty" db:"id"`
	CompanyID uint64     `json:"company_id" db:"company_id"`
	Name      string     `json:"name" db:"name"`
	Address   *string    `json:"address" db:"address"`
	HeadID    *uint64    `json:"head_id" db:"head_id"`
	CreatedAt *time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// WorkplaceSection forms a tree within a workplace, same parent rules as
// departments.
type WorkplaceSection struct {
	ID          uint64     `json:"id,omitempty" db:"id"`
	CompanyID   uint64     `json:"company_id" db:"company_id"`
	WorkplaceID uint64     `json:"workplace_id" db:"workplace_id"`
	Name        string     `json:"name" db:"name"`
	ParentID    *uint64    `json:"parent_id" db:"parent_id"`
	HeadID      *uint64    `json:"head_id" db:"head_id"`
	CreatedAt   *time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}
