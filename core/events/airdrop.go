package events

import (
	"math/big"
	"strconv"

	"nftdrop/core/types"
	"nftdrop/crypto"
)

const (
	TypeAirdropInitialized = "airdrop.initialized"
	TypeAirdropDistributed = "airdrop.distributed"
	TypeTokenTransferred   = "bank.transferred"
)

// AirdropInitialized is emitted once when the accrual clock starts.
type AirdropInitialized struct {
	Module    [20]byte
	StartTime uint64
}

func (AirdropInitialized) EventType() string { return TypeAirdropInitialized }

func (e AirdropInitialized) Event() *types.Event {
	return &types.Event{
		Type: TypeAirdropInitialized,
		Attributes: map[string]string{
			"action":    "instantiate",
			"module":    crypto.HolderAddress(e.Module).String(),
			"startTime": formatTime(e.StartTime),
		},
	}
}

// AirdropDistributed describes one settlement paid out to a holder.
type AirdropDistributed struct {
	Receiver [20]byte
	Amount   *big.Int
	Assets   int
	Time     uint64
}

func (AirdropDistributed) EventType() string { return TypeAirdropDistributed }

func (e AirdropDistributed) Event() *types.Event {
	return &types.Event{
		Type: TypeAirdropDistributed,
		Attributes: map[string]string{
			"action":         "airdrop",
			"receiver":       crypto.HolderAddress(e.Receiver).String(),
			"airdrop_amount": formatAmount(e.Amount),
			"assets":         strconv.Itoa(e.Assets),
			"time":           formatTime(e.Time),
		},
	}
}

// TokenTransferred is emitted by the reward ledger for every executed transfer.
type TokenTransferred struct {
	Token  string
	From   [20]byte
	To     [20]byte
	Amount *big.Int
}

func (TokenTransferred) EventType() string { return TypeTokenTransferred }

func (e TokenTransferred) Event() *types.Event {
	return &types.Event{
		Type: TypeTokenTransferred,
		Attributes: map[string]string{
			"token":  e.Token,
			"from":   crypto.HolderAddress(e.From).String(),
			"to":     crypto.HolderAddress(e.To).String(),
			"amount": formatAmount(e.Amount),
		},
	}
}
