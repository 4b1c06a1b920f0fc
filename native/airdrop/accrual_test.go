package airdrop

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

const t0 uint64 = 1_700_000_000

func quanta(n int64) *big.Int {
	return new(big.Int).Mul(DefaultQuantum, big.NewInt(n))
}

func TestPendingRewardStrictWindowBoundary(t *testing.T) {
	params := DefaultParams()

	acc, err := pendingReward(params, t0, newAssetAccrual(), t0+params.Window)
	require.NoError(t, err)
	require.Zero(t, acc.amount.Sign())

	acc, err = pendingReward(params, t0, newAssetAccrual(), t0+params.Window+1)
	require.NoError(t, err)
	require.Zero(t, DefaultQuantum.Cmp(acc.amount))
	require.Equal(t, uint64(1), acc.windows)
	require.Equal(t, t0+params.Window, acc.until)
}

func TestPendingRewardQuantization(t *testing.T) {
	params := DefaultParams()
	cases := []struct {
		elapsed uint64
		want    *big.Int
	}{
		{elapsed: 0, want: big.NewInt(0)},
		{elapsed: 899, want: big.NewInt(0)},
		{elapsed: 901, want: quanta(1)},
		{elapsed: 1799, want: quanta(1)},
		{elapsed: 1800, want: quanta(2)},
		{elapsed: 900*7 + 450, want: quanta(7)},
	}
	for _, tc := range cases {
		acc, err := pendingReward(params, t0, newAssetAccrual(), t0+tc.elapsed)
		require.NoError(t, err)
		require.Zerof(t, tc.want.Cmp(acc.amount), "elapsed %d: want %s got %s", tc.elapsed, tc.want, acc.amount)
	}
}

func TestPendingRewardClampsToCap(t *testing.T) {
	params := DefaultParams()

	acc, err := pendingReward(params, t0, newAssetAccrual(), t0+params.Window*50)
	require.NoError(t, err)
	require.Zero(t, params.LifetimeCap.Cmp(acc.amount))

	record := newAssetAccrual()
	record.CumulativeSettled = quanta(19)
	record.AccruedUntil = t0 + params.Window*19
	acc, err = pendingReward(params, t0, record, t0+params.Window*40)
	require.NoError(t, err)
	require.Zero(t, quanta(1).Cmp(acc.amount))
}

func TestPendingRewardCappedAssetIsZero(t *testing.T) {
	params := DefaultParams()
	record := newAssetAccrual()
	record.CumulativeSettled = new(big.Int).Set(params.LifetimeCap)

	acc, err := pendingReward(params, t0, record, math.MaxUint64)
	require.NoError(t, err)
	require.Zero(t, acc.amount.Sign())
	require.True(t, capped(params, record))
}

func TestPendingRewardRejectsCorruptRecord(t *testing.T) {
	params := DefaultParams()
	record := newAssetAccrual()
	record.CumulativeSettled = new(big.Int).Add(params.LifetimeCap, big.NewInt(1))

	_, err := pendingReward(params, t0, record, t0+params.Window*2)
	require.ErrorIs(t, err, ErrCapExceeded)
}

func TestPendingRewardUsesLaterOfStartAndBaseline(t *testing.T) {
	params := DefaultParams()
	record := newAssetAccrual()
	record.AccruedUntil = t0 - 10_000

	acc, err := pendingReward(params, t0, record, t0+params.Window)
	require.NoError(t, err)
	require.Zero(t, acc.amount.Sign())

	require.Equal(t, t0+params.Window, nextEligibleTime(params, t0, record))
	record.AccruedUntil = t0 + params.Window*3
	require.Equal(t, t0+params.Window*4, nextEligibleTime(params, t0, record))
}

func TestNextEligibleTimeSaturates(t *testing.T) {
	params := DefaultParams()
	record := newAssetAccrual()
	record.AccruedUntil = math.MaxUint64 - 1
	require.Equal(t, uint64(math.MaxUint64), nextEligibleTime(params, 0, record))
}

func TestAddCheckedOverflow(t *testing.T) {
	limit := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	_, err := addChecked(limit, big.NewInt(1))
	require.ErrorIs(t, err, ErrAmountOverflow)

	sum, err := addChecked(nil, big.NewInt(5))
	require.NoError(t, err)
	require.Equal(t, int64(5), sum.Int64())
}

func TestParamsValidate(t *testing.T) {
	params := DefaultParams()
	require.NoError(t, params.Validate())
	require.Zero(t, quanta(DefaultWindowLimit).Cmp(params.LifetimeCap))

	broken := params.Clone()
	broken.Window = 0
	require.Error(t, broken.Validate())

	broken = params.Clone()
	broken.Treasury = [20]byte{}
	require.Error(t, broken.Validate())

	broken = params.Clone()
	broken.Quantum = big.NewInt(0)
	require.Error(t, broken.Validate())
}
