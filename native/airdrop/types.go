package airdrop

import "math/big"

// Payout is the metadata of the most recent settlement of a record.
type Payout struct {
	Time   uint64   `json:"time"`
	Amount *big.Int `json:"amount"`
}

// GlobalLedger is the single engine-wide accounting record.
type GlobalLedger struct {
	AccrualStartTime uint64   `json:"accrualStartTime"`
	TotalDistributed *big.Int `json:"totalDistributed"`
	LastHolder       [20]byte `json:"lastHolder"`
	LastDistribution Payout   `json:"lastDistribution"`
}

// AssetAccrual tracks what has been settled for a single asset.
type AssetAccrual struct {
	CumulativeSettled *big.Int `json:"cumulativeSettled"`
	LastSettlement    Payout   `json:"lastSettlement"`
	// AccruedUntil is the window boundary up to which rewards were settled.
	// Partial windows carry over to the next settlement.
	AccruedUntil uint64 `json:"accruedUntil"`
}

// HolderAccrual tracks what a holder address has received in total.
type HolderAccrual struct {
	CumulativeReceived *big.Int `json:"cumulativeReceived"`
	LastDistribution   Payout   `json:"lastDistribution"`
}

// AssetPayout is one asset's contribution to a settlement.
type AssetPayout struct {
	AssetID string   `json:"assetId"`
	Amount  *big.Int `json:"amount"`
}

// TransferInstruction asks the reward ledger to move Amount of Token from the
// treasury to the holder. No other funds are attached.
type TransferInstruction struct {
	Token  string   `json:"token"`
	From   [20]byte `json:"from"`
	To     [20]byte `json:"to"`
	Amount *big.Int `json:"amount"`
}

// Receipt is the outcome of a successful distribution.
type Receipt struct {
	Holder   [20]byte            `json:"holder"`
	Time     uint64              `json:"time"`
	Total    *big.Int            `json:"total"`
	Assets   []AssetPayout       `json:"assets"`
	Transfer TransferInstruction `json:"transfer"`
}

// HolderSummary is the read-only projection returned for a holder.
type HolderSummary struct {
	CumulativeReceived *big.Int `json:"cumulativeReceived"`
	LastAmount         *big.Int `json:"lastAmount"`
	LastTime           uint64   `json:"lastTime"`
	// NextDropTime is zero once every held asset reached its lifetime cap.
	NextDropTime   uint64   `json:"nextDropTime"`
	NextDropAmount *big.Int `json:"nextDropAmount"`
	// PendingAmount can be claimed right now.
	PendingAmount *big.Int `json:"pendingAmount"`
	// LifetimeRemaining is the cap of the current holding minus what the
	// holder already received, floored at zero.
	LifetimeRemaining *big.Int `json:"lifetimeRemaining"`
	Assets            int      `json:"assets"`
}

func cloneAmount(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

func (p Payout) clone() Payout {
	return Payout{Time: p.Time, Amount: cloneAmount(p.Amount)}
}

// Clone returns a deep copy of the ledger.
func (g *GlobalLedger) Clone() *GlobalLedger {
	if g == nil {
		return nil
	}
	clone := *g
	clone.TotalDistributed = cloneAmount(g.TotalDistributed)
	clone.LastDistribution = g.LastDistribution.clone()
	return &clone
}

// Clone returns a deep copy of the asset record.
func (a *AssetAccrual) Clone() *AssetAccrual {
	if a == nil {
		return nil
	}
	clone := *a
	clone.CumulativeSettled = cloneAmount(a.CumulativeSettled)
	clone.LastSettlement = a.LastSettlement.clone()
	return &clone
}

// Clone returns a deep copy of the holder record.
func (h *HolderAccrual) Clone() *HolderAccrual {
	if h == nil {
		return nil
	}
	clone := *h
	clone.CumulativeReceived = cloneAmount(h.CumulativeReceived)
	clone.LastDistribution = h.LastDistribution.clone()
	return &clone
}

func newAssetAccrual() *AssetAccrual {
	return &AssetAccrual{CumulativeSettled: big.NewInt(0), LastSettlement: Payout{Amount: big.NewInt(0)}}
}

func newHolderAccrual() *HolderAccrual {
	return &HolderAccrual{CumulativeReceived: big.NewInt(0), LastDistribution: Payout{Amount: big.NewInt(0)}}
}
