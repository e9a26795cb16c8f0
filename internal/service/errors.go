package service

import "errors"

var (
	// Validation / state failures surfaced by the orchestrator itself;
	// registry and escrow export their own sentinels for the rest.
	ErrPaused       = errors.New("engine is paused")
	ErrNotCardOwner = errors.New("caller does not own the committed card")

	// ErrTransferFailed wraps a payment-rail failure. The triggering
	// operation commits nothing when this is returned.
	ErrTransferFailed = errors.New("payment rail transfer failed")

	// Admin surface.
	ErrNotAdmin        = errors.New("caller is not the admin")
	ErrNotPendingAdmin = errors.New("caller is not the pending admin")
	ErrTimeoutTooShort = errors.New("challenge timeout below minimum")
	ErrNoPendingFees   = errors.New("fee pool is empty")
)
