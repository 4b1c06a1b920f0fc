package state

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"nftdrop/storage"
)

func newTestManager(t *testing.T) (*Manager, *storage.MemDB) {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(db.Close)
	return NewManager(db), db
}

func TestManagerJournalCommit(t *testing.T) {
	mgr, db := newTestManager(t)

	require.NoError(t, mgr.KVPut([]byte("genesis"), uint64(7)))
	require.Equal(t, 1, mgr.Dirty())
	require.Zero(t, db.Len())

	var value uint64
	ok, err := mgr.KVGet([]byte("genesis"), &value)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(7), value)

	require.NoError(t, mgr.Commit())
	require.Zero(t, mgr.Dirty())
	require.Equal(t, 1, db.Len())

	fresh := NewManager(db)
	value = 0
	ok, err = fresh.KVGet([]byte("genesis"), &value)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(7), value)
}

func TestManagerDiscard(t *testing.T) {
	mgr, db := newTestManager(t)
	require.NoError(t, mgr.KVPut([]byte("k"), "v"))
	mgr.Discard()

	ok, err := mgr.KVGet([]byte("k"), nil)
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, mgr.Commit())
	require.Zero(t, db.Len())
}

func TestManagerKVRejectsEmptyKey(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.Error(t, mgr.KVPut(nil, uint64(1)))
	_, err := mgr.KVGet(nil, nil)
	require.Error(t, err)
}

func TestTokenRegistryAndBalances(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.RegisterToken("drop", "Drop Token", 6))
	require.Error(t, mgr.RegisterToken("DROP", "Again", 6))
	require.Error(t, mgr.RegisterToken(" ", "Blank", 6))
	require.True(t, mgr.TokenExists("Drop"))
	require.False(t, mgr.TokenExists("OTHER"))

	meta, err := mgr.Token("drop")
	require.NoError(t, err)
	require.Equal(t, "DROP", meta.Symbol)
	require.Equal(t, uint8(6), meta.Decimals)

	list, err := mgr.TokenList()
	require.NoError(t, err)
	require.Equal(t, []string{"DROP"}, list)

	account := make([]byte, 20)
	account[0] = 0xaa
	balance, err := mgr.Balance(account, "DROP")
	require.NoError(t, err)
	require.Zero(t, balance.Sign())

	require.NoError(t, mgr.SetBalance(account, "drop", big.NewInt(1234)))
	balance, err = mgr.Balance(account, "DROP")
	require.NoError(t, err)
	require.Equal(t, int64(1234), balance.Int64())

	require.Error(t, mgr.SetBalance(account, "DROP", big.NewInt(-1)))
	require.Error(t, mgr.SetBalance(account, "NOPE", big.NewInt(1)))
}
