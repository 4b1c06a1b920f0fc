package airdrop

import (
	"fmt"
	"math"
	"math/big"

	"github.com/holiman/uint256"
)

// accrual is the reward an asset has earned but not yet settled.
type accrual struct {
	amount  *big.Int
	windows uint64
	// until is the window boundary a settlement advances the asset to.
	until uint64
}

func effectiveBaseline(start uint64, rec *AssetAccrual) uint64 {
	if rec != nil && rec.AccruedUntil > start {
		return rec.AccruedUntil
	}
	return start
}

// pendingReward computes what the asset can settle at now. A window only
// counts once strictly more than one full window has elapsed since the
// baseline, and the result never exceeds the asset's remaining cap.
func pendingReward(p Params, start uint64, rec *AssetAccrual, now uint64) (accrual, error) {
	baseline := effectiveBaseline(start, rec)
	out := accrual{amount: big.NewInt(0), until: baseline}

	headroom, err := remainingCap(p, rec)
	if err != nil {
		return out, err
	}
	if headroom.IsZero() {
		return out, nil
	}
	if now <= baseline || now-baseline <= p.Window {
		return out, nil
	}

	windows := (now - baseline) / p.Window
	quantum, overflow := uint256.FromBig(p.Quantum)
	if overflow {
		return out, ErrAmountOverflow
	}
	raw, overflow := new(uint256.Int).MulOverflow(quantum, uint256.NewInt(windows))
	if overflow || raw.Gt(headroom) {
		raw = headroom
	}

	out.amount = raw.ToBig()
	out.windows = windows
	out.until = baseline + windows*p.Window
	return out, nil
}

// remainingCap returns LifetimeCap - CumulativeSettled, rejecting records that
// already violate the cap instead of wrapping around.
func remainingCap(p Params, rec *AssetAccrual) (*uint256.Int, error) {
	limit, overflow := uint256.FromBig(p.LifetimeCap)
	if overflow {
		return nil, ErrAmountOverflow
	}
	settled := new(uint256.Int)
	if rec != nil && rec.CumulativeSettled != nil {
		if rec.CumulativeSettled.Sign() < 0 {
			return nil, fmt.Errorf("%w: negative settled amount", ErrCapExceeded)
		}
		if settled, overflow = uint256.FromBig(rec.CumulativeSettled); overflow {
			return nil, ErrAmountOverflow
		}
	}
	if settled.Gt(limit) {
		return nil, fmt.Errorf("%w: settled %s above cap %s", ErrCapExceeded, settled.Dec(), limit.Dec())
	}
	return new(uint256.Int).Sub(limit, settled), nil
}

func capped(p Params, rec *AssetAccrual) bool {
	if rec == nil || rec.CumulativeSettled == nil {
		return false
	}
	return rec.CumulativeSettled.Cmp(p.LifetimeCap) >= 0
}

// nextEligibleTime is the earliest time the asset can accrue another window.
func nextEligibleTime(p Params, start uint64, rec *AssetAccrual) uint64 {
	baseline := effectiveBaseline(start, rec)
	if baseline > math.MaxUint64-p.Window {
		return math.MaxUint64
	}
	return baseline + p.Window
}

// addChecked sums two non-negative amounts in 256-bit space.
func addChecked(a, b *big.Int) (*big.Int, error) {
	x, overflow := uint256.FromBig(cloneAmount(a))
	if overflow {
		return nil, ErrAmountOverflow
	}
	y, overflow := uint256.FromBig(cloneAmount(b))
	if overflow {
		return nil, ErrAmountOverflow
	}
	sum, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, ErrAmountOverflow
	}
	return sum.ToBig(), nil
}
