package host

import (
	"math/big"

	"nftdrop/core/types"
	"nftdrop/crypto"
	"nftdrop/native/airdrop"
)

// Views are the wire shape of engine records: amounts are decimal strings and
// accounts are bech32 encoded.

type PayoutView struct {
	Holder string `json:"holder,omitempty"`
	Time   uint64 `json:"time"`
	Amount string `json:"amount"`
}

type GlobalView struct {
	AccrualStartTime uint64     `json:"accrual_start_time"`
	TotalDistributed string     `json:"total_distributed"`
	LastDistribution PayoutView `json:"last_distribution"`
}

type AssetView struct {
	TokenID           string     `json:"token_id"`
	CumulativeSettled string     `json:"cumulative_settled"`
	LastSettlement    PayoutView `json:"last_settlement"`
	AccruedUntil      uint64     `json:"accrued_until"`
}

type HolderView struct {
	Account            string `json:"account"`
	Assets             int    `json:"assets"`
	CumulativeReceived string `json:"cumulative_received"`
	LastAmount         string `json:"last_airdrop_amount"`
	LastTime           uint64 `json:"last_airdrop_time"`
	NextDropTime       uint64 `json:"next_drop_time"`
	NextDropAmount     string `json:"next_drop_amount"`
	PendingAmount      string `json:"pending_amount"`
	LifetimeRemaining  string `json:"lifetime_remaining"`
}

type AssetPayoutView struct {
	TokenID string `json:"token_id"`
	Amount  string `json:"amount"`
}

type TransferView struct {
	Token  string `json:"token"`
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

// SettlementView is returned by a successful airdrop execution together with
// the events it committed.
type SettlementView struct {
	Holder   string            `json:"holder"`
	Time     uint64            `json:"time"`
	Total    string            `json:"total"`
	Assets   []AssetPayoutView `json:"assets"`
	Transfer TransferView      `json:"transfer"`
	Events   []*types.Event    `json:"events"`
}

func amountString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func account(raw [20]byte) string {
	return crypto.HolderAddress(raw).String()
}

func newGlobalView(ledger *airdrop.GlobalLedger) *GlobalView {
	return &GlobalView{
		AccrualStartTime: ledger.AccrualStartTime,
		TotalDistributed: amountString(ledger.TotalDistributed),
		LastDistribution: PayoutView{
			Holder: account(ledger.LastHolder),
			Time:   ledger.LastDistribution.Time,
			Amount: amountString(ledger.LastDistribution.Amount),
		},
	}
}

func newAssetView(id string, record *airdrop.AssetAccrual) *AssetView {
	return &AssetView{
		TokenID:           id,
		CumulativeSettled: amountString(record.CumulativeSettled),
		LastSettlement: PayoutView{
			Time:   record.LastSettlement.Time,
			Amount: amountString(record.LastSettlement.Amount),
		},
		AccruedUntil: record.AccruedUntil,
	}
}

func newHolderView(holder [20]byte, summary *airdrop.HolderSummary) *HolderView {
	return &HolderView{
		Account:            account(holder),
		Assets:             summary.Assets,
		CumulativeReceived: amountString(summary.CumulativeReceived),
		LastAmount:         amountString(summary.LastAmount),
		LastTime:           summary.LastTime,
		NextDropTime:       summary.NextDropTime,
		NextDropAmount:     amountString(summary.NextDropAmount),
		PendingAmount:      amountString(summary.PendingAmount),
		LifetimeRemaining:  amountString(summary.LifetimeRemaining),
	}
}

func newSettlementView(receipt *airdrop.Receipt, evts []*types.Event) *SettlementView {
	assets := make([]AssetPayoutView, 0, len(receipt.Assets))
	for _, payout := range receipt.Assets {
		assets = append(assets, AssetPayoutView{TokenID: payout.AssetID, Amount: amountString(payout.Amount)})
	}
	if evts == nil {
		evts = []*types.Event{}
	}
	return &SettlementView{
		Holder: account(receipt.Holder),
		Time:   receipt.Time,
		Total:  amountString(receipt.Total),
		Assets: assets,
		Transfer: TransferView{
			Token:  receipt.Transfer.Token,
			From:   account(receipt.Transfer.From),
			To:     account(receipt.Transfer.To),
			Amount: amountString(receipt.Transfer.Amount),
		},
		Events: evts,
	}
}
