package airdrop

import "errors"

var (
	// ErrUnauthorized is returned for entry paths the engine does not accept,
	// such as generic incoming token transfer notifications.
	ErrUnauthorized = errors.New("airdrop: unauthorized")
	// ErrNoAssetsOwned is returned when the caller holds no asset in the collection.
	ErrNoAssetsOwned = errors.New("airdrop: no assets owned")
	// ErrNoPendingReward is returned when none of the caller's assets has accrued.
	ErrNoPendingReward = errors.New("airdrop: no pending reward")
	// ErrNotInitialized means the global ledger was never written.
	ErrNotInitialized = errors.New("airdrop: not initialized")
	// ErrAlreadyInitialized guards against resetting the accrual clock.
	ErrAlreadyInitialized = errors.New("airdrop: already initialized")
	// ErrCapExceeded signals a write that would break the per-asset lifetime cap.
	ErrCapExceeded = errors.New("airdrop: per-asset cap exceeded")

	// ErrAmountOverflow is returned when an amount does not fit in 256 bits.
	ErrAmountOverflow = errors.New("airdrop: amount overflow")

	errNilState     = errors.New("airdrop engine: state not configured")
	errNilDirectory = errors.New("airdrop engine: ownership directory not configured")
)
