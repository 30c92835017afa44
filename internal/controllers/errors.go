package controllers

import "errors"

// Workflow error taxonomy. Permission and not-pending errors are expected,
// user-facing outcomes; ErrInconsistentChain means the chain was corrupted by
// an out-of-band edit and must be surfaced, not swallowed.
var (
	ErrNotFound          = errors.New("not found")
	ErrNotPending        = errors.New("request is not pending")
	ErrPermission        = errors.New("permission denied")
	ErrInconsistentChain = errors.New("approval chain is inconsistent")
	ErrChainResolution   = errors.New("approval chain resolution aborted")
)
