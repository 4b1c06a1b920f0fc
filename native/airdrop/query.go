package airdrop

import (
	"context"
	"math/big"
)

// Global returns the global ledger.
func (e *Engine) Global() (*GlobalLedger, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	ledger, err := e.loadGlobal()
	if err != nil {
		return nil, err
	}
	return ledger.Clone(), nil
}

// Asset returns the accrual record for id, or a zero record if the asset never
// settled.
func (e *Engine) Asset(id string) (*AssetAccrual, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	record, err := e.loadAsset(id)
	if err != nil {
		return nil, err
	}
	return record.Clone(), nil
}

// Holder projects the holder's accounting against the assets they hold now.
func (e *Engine) Holder(ctx context.Context, holder [20]byte) (*HolderSummary, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	assets, err := e.ownedAssets(ctx, holder)
	if err != nil {
		return nil, err
	}
	ledger, err := e.loadGlobal()
	if err != nil {
		return nil, err
	}
	record, err := e.loadHolder(holder)
	if err != nil {
		return nil, err
	}

	now := e.now()
	records := make([]*AssetAccrual, 0, len(assets))
	pending := big.NewInt(0)
	for _, id := range assets {
		asset, err := e.loadAsset(id)
		if err != nil {
			return nil, err
		}
		records = append(records, asset)
		acc, err := pendingReward(e.params, ledger.AccrualStartTime, asset, now)
		if err != nil {
			return nil, err
		}
		if pending, err = addChecked(pending, acc.amount); err != nil {
			return nil, err
		}
	}

	summary := &HolderSummary{
		CumulativeReceived: cloneAmount(record.CumulativeReceived),
		LastAmount:         cloneAmount(record.LastDistribution.Amount),
		LastTime:           record.LastDistribution.Time,
		NextDropAmount:     big.NewInt(0),
		PendingAmount:      pending,
		LifetimeRemaining:  e.lifetimeRemaining(len(assets), record.CumulativeReceived),
		Assets:             len(assets),
	}
	if pending.Sign() > 0 {
		summary.NextDropTime = now
		summary.NextDropAmount = new(big.Int).Set(pending)
		return summary, nil
	}
	summary.NextDropTime, summary.NextDropAmount, err = e.nextDrop(ledger.AccrualStartTime, records)
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// nextDrop returns the earliest time an uncapped asset becomes eligible and
// the amount all assets eligible at that instant would add. Zero time means
// every asset is capped.
func (e *Engine) nextDrop(start uint64, records []*AssetAccrual) (uint64, *big.Int, error) {
	var next uint64
	amount := big.NewInt(0)
	for _, asset := range records {
		if capped(e.params, asset) {
			continue
		}
		eligible := nextEligibleTime(e.params, start, asset)
		if next != 0 && eligible > next {
			continue
		}
		if next == 0 || eligible < next {
			next = eligible
			amount = big.NewInt(0)
		}
		headroom, err := remainingCap(e.params, asset)
		if err != nil {
			return 0, nil, err
		}
		quantum := e.params.Quantum
		if headroom.ToBig().Cmp(quantum) < 0 {
			quantum = headroom.ToBig()
		}
		if amount, err = addChecked(amount, quantum); err != nil {
			return 0, nil, err
		}
	}
	return next, amount, nil
}

func (e *Engine) lifetimeRemaining(assets int, received *big.Int) *big.Int {
	ceiling := new(big.Int).Mul(e.params.LifetimeCap, big.NewInt(int64(assets)))
	remaining := ceiling.Sub(ceiling, cloneAmount(received))
	if remaining.Sign() < 0 {
		return big.NewInt(0)
	}
	return remaining
}
