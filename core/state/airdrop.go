package state

import (
	"fmt"
	"math/big"
	"strings"

	"nftdrop/native/airdrop"
)

type storedPayout struct {
	Time   uint64
	Amount *big.Int
}

func newStoredPayout(p airdrop.Payout) storedPayout {
	return storedPayout{Time: p.Time, Amount: nonNil(p.Amount)}
}

func (s storedPayout) toPayout() airdrop.Payout {
	return airdrop.Payout{Time: s.Time, Amount: nonNil(s.Amount)}
}

type storedGlobal struct {
	AccrualStartTime uint64
	TotalDistributed *big.Int
	LastHolder       [20]byte
	LastDistribution storedPayout
}

type storedAsset struct {
	CumulativeSettled *big.Int
	LastSettlement    storedPayout
	AccruedUntil      uint64
}

type storedHolder struct {
	CumulativeReceived *big.Int
	LastDistribution   storedPayout
}

func nonNil(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

func checkNonNegative(field string, v *big.Int) error {
	if v != nil && v.Sign() < 0 {
		return fmt.Errorf("airdrop state: negative %s", field)
	}
	return nil
}

// AirdropGlobalGet loads the global ledger. The boolean reports whether the
// engine has been initialized.
func (m *Manager) AirdropGlobalGet() (*airdrop.GlobalLedger, bool, error) {
	stored := new(storedGlobal)
	ok, err := m.getRLP(airdropGlobalKey, stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return &airdrop.GlobalLedger{
		AccrualStartTime: stored.AccrualStartTime,
		TotalDistributed: nonNil(stored.TotalDistributed),
		LastHolder:       stored.LastHolder,
		LastDistribution: stored.LastDistribution.toPayout(),
	}, true, nil
}

// AirdropGlobalPut persists the global ledger.
func (m *Manager) AirdropGlobalPut(ledger *airdrop.GlobalLedger) error {
	if ledger == nil {
		return fmt.Errorf("airdrop state: nil global ledger")
	}
	if err := checkNonNegative("total distributed", ledger.TotalDistributed); err != nil {
		return err
	}
	return m.putRLP(airdropGlobalKey, &storedGlobal{
		AccrualStartTime: ledger.AccrualStartTime,
		TotalDistributed: nonNil(ledger.TotalDistributed),
		LastHolder:       ledger.LastHolder,
		LastDistribution: newStoredPayout(ledger.LastDistribution),
	})
}

func sanitizeAssetID(id string) (string, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return "", fmt.Errorf("airdrop state: asset id required")
	}
	return trimmed, nil
}

// AirdropAssetGet loads the accrual record for an asset. Unknown assets report
// false without error.
func (m *Manager) AirdropAssetGet(id string) (*airdrop.AssetAccrual, bool, error) {
	sanitized, err := sanitizeAssetID(id)
	if err != nil {
		return nil, false, err
	}
	stored := new(storedAsset)
	ok, err := m.getRLP(airdropAssetKey(sanitized), stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return &airdrop.AssetAccrual{
		CumulativeSettled: nonNil(stored.CumulativeSettled),
		LastSettlement:    stored.LastSettlement.toPayout(),
		AccruedUntil:      stored.AccruedUntil,
	}, true, nil
}

// AirdropAssetPut persists the accrual record for an asset.
func (m *Manager) AirdropAssetPut(id string, record *airdrop.AssetAccrual) error {
	sanitized, err := sanitizeAssetID(id)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("airdrop state: nil asset record")
	}
	if err := checkNonNegative("settled amount", record.CumulativeSettled); err != nil {
		return err
	}
	return m.putRLP(airdropAssetKey(sanitized), &storedAsset{
		CumulativeSettled: nonNil(record.CumulativeSettled),
		LastSettlement:    newStoredPayout(record.LastSettlement),
		AccruedUntil:      record.AccruedUntil,
	})
}

// AirdropHolderGet loads the accrual record for a holder.
func (m *Manager) AirdropHolderGet(holder [20]byte) (*airdrop.HolderAccrual, bool, error) {
	stored := new(storedHolder)
	ok, err := m.getRLP(airdropHolderKey(holder), stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return &airdrop.HolderAccrual{
		CumulativeReceived: nonNil(stored.CumulativeReceived),
		LastDistribution:   stored.LastDistribution.toPayout(),
	}, true, nil
}

// AirdropHolderPut persists the accrual record for a holder.
func (m *Manager) AirdropHolderPut(holder [20]byte, record *airdrop.HolderAccrual) error {
	if record == nil {
		return fmt.Errorf("airdrop state: nil holder record")
	}
	if err := checkNonNegative("received amount", record.CumulativeReceived); err != nil {
		return err
	}
	return m.putRLP(airdropHolderKey(holder), &storedHolder{
		CumulativeReceived: nonNil(record.CumulativeReceived),
		LastDistribution:   newStoredPayout(record.LastDistribution),
	})
}
