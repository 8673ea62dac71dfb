package common

import "errors"

// Errors returned by ledger operations. Any of them aborts the invocation
// before storage is modified; callers should match them with errors.Is.
var (
	// ErrUnauthorized is returned when the caller is neither the owner of the
	// state being changed nor permitted to act on its behalf.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidAccount is returned for a null account where a real one is
	// required and for self-approval.
	ErrInvalidAccount = errors.New("invalid account")

	// ErrInsufficientBalance is returned when a debit exceeds the balance.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInsufficientAllowance is returned when a delegated transfer exceeds
	// the remaining allowance.
	ErrInsufficientAllowance = errors.New("insufficient allowance")

	// ErrLengthMismatch is returned when batch arguments differ in length.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrOverflow is returned when a balance or supply would not fit into
	// 256 bits.
	ErrOverflow = errors.New("arithmetic overflow")

	// ErrTransferRejected is returned when a receiving contract declines an
	// incoming transfer.
	ErrTransferRejected = errors.New("transfer rejected by receiver")

	// ErrPaused is returned by value-moving operations of a paused token.
	ErrPaused = errors.New("token is paused")

	// ErrTokenExists is returned on explicit creation of a known token ID.
	ErrTokenExists = errors.New("token already exists")

	// ErrInvalidAmount is returned when an amount is missing.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrAlreadyDeployed is returned on repeated contract instantiation.
	ErrAlreadyDeployed = errors.New("contract is already deployed")
)
