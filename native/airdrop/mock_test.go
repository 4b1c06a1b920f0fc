package airdrop

import (
	"context"
	"errors"
)

type mockState struct {
	global  *GlobalLedger
	assets  map[string]*AssetAccrual
	holders map[[20]byte]*HolderAccrual
	writes  int
	failPut error
}

func newMockState() *mockState {
	return &mockState{
		assets:  make(map[string]*AssetAccrual),
		holders: make(map[[20]byte]*HolderAccrual),
	}
}

func (m *mockState) AirdropGlobalGet() (*GlobalLedger, bool, error) {
	if m.global == nil {
		return nil, false, nil
	}
	return m.global.Clone(), true, nil
}

func (m *mockState) AirdropGlobalPut(ledger *GlobalLedger) error {
	if m.failPut != nil {
		return m.failPut
	}
	m.writes++
	m.global = ledger.Clone()
	return nil
}

func (m *mockState) AirdropAssetGet(id string) (*AssetAccrual, bool, error) {
	record, ok := m.assets[id]
	if !ok {
		return nil, false, nil
	}
	return record.Clone(), true, nil
}

func (m *mockState) AirdropAssetPut(id string, record *AssetAccrual) error {
	if m.failPut != nil {
		return m.failPut
	}
	m.writes++
	m.assets[id] = record.Clone()
	return nil
}

func (m *mockState) AirdropHolderGet(holder [20]byte) (*HolderAccrual, bool, error) {
	record, ok := m.holders[holder]
	if !ok {
		return nil, false, nil
	}
	return record.Clone(), true, nil
}

func (m *mockState) AirdropHolderPut(holder [20]byte, record *HolderAccrual) error {
	if m.failPut != nil {
		return m.failPut
	}
	m.writes++
	m.holders[holder] = record.Clone()
	return nil
}

type mockDirectory struct {
	owned map[[20]byte][]string
	err   error
}

func newMockDirectory() *mockDirectory {
	return &mockDirectory{owned: make(map[[20]byte][]string)}
}

func (d *mockDirectory) OwnedAssets(_ context.Context, collection string, holder [20]byte) ([]string, error) {
	if d.err != nil {
		return nil, d.err
	}
	if collection != DefaultCollection {
		return nil, errors.New("unknown collection")
	}
	return append([]string(nil), d.owned[holder]...), nil
}

type testClock struct{ now uint64 }

func (c *testClock) Now() uint64 { return c.now }

func addr(b byte) [20]byte {
	var out [20]byte
	out[19] = b
	return out
}
