package host

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrInvalidMessage is returned when a message selects zero or several
// variants, or a variant is missing a required field.
var ErrInvalidMessage = errors.New("host: invalid message")

// ExecuteMsg is the state-changing entry point. Exactly one variant must be
// set.
type ExecuteMsg struct {
	// Airdrop settles every asset the caller holds.
	Airdrop *AirdropMsg `json:"airdrop,omitempty"`
	// Receive is the generic incoming token transfer notification. The engine
	// does not accept deposits and always rejects it.
	Receive *ReceiveMsg `json:"receive,omitempty"`
}

// AirdropMsg carries no fields; the caller is the beneficiary.
type AirdropMsg struct{}

// ReceiveMsg mirrors a token contract's transfer callback.
type ReceiveMsg struct {
	Sender string          `json:"sender"`
	Amount string          `json:"amount"`
	Msg    json.RawMessage `json:"msg,omitempty"`
}

func (m ExecuteMsg) validate() error {
	set := 0
	if m.Airdrop != nil {
		set++
	}
	if m.Receive != nil {
		set++
	}
	if set != 1 {
		return ErrInvalidMessage
	}
	return nil
}

// QueryMsg is the read-only entry point. Exactly one variant must be set.
type QueryMsg struct {
	Global *GlobalQuery `json:"global,omitempty"`
	Asset  *AssetQuery  `json:"asset,omitempty"`
	Holder *HolderQuery `json:"holder,omitempty"`
}

type GlobalQuery struct{}

type AssetQuery struct {
	TokenID string `json:"token_id"`
}

type HolderQuery struct {
	Account string `json:"account"`
}

func (m QueryMsg) validate() error {
	set := 0
	if m.Global != nil {
		set++
	}
	if m.Asset != nil {
		if strings.TrimSpace(m.Asset.TokenID) == "" {
			return ErrInvalidMessage
		}
		set++
	}
	if m.Holder != nil {
		if strings.TrimSpace(m.Holder.Account) == "" {
			return ErrInvalidMessage
		}
		set++
	}
	if set != 1 {
		return ErrInvalidMessage
	}
	return nil
}
