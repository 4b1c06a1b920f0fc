package bank

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"nftdrop/core/events"
	"nftdrop/core/state"
	"nftdrop/storage"
)

func newTestLedger(t *testing.T) (*Ledger, *events.Recorder) {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(db.Close)
	ledger := NewLedger(state.NewManager(db))
	recorder := &events.Recorder{}
	ledger.SetEmitter(recorder)
	require.NoError(t, ledger.EnsureToken("DROP", "Drop", 6))
	require.NoError(t, ledger.EnsureToken("drop", "Drop", 6))
	return ledger, recorder
}

func TestTransferMovesFunds(t *testing.T) {
	ledger, recorder := newTestLedger(t)
	treasury, holder := [20]byte{0x01}, [20]byte{0x02}

	require.NoError(t, ledger.Mint("DROP", treasury, big.NewInt(1_000)))
	require.NoError(t, ledger.Transfer("drop", treasury, holder, big.NewInt(400)))

	balance, err := ledger.Balance("DROP", treasury)
	require.NoError(t, err)
	require.Equal(t, int64(600), balance.Int64())
	balance, err = ledger.Balance("DROP", holder)
	require.NoError(t, err)
	require.Equal(t, int64(400), balance.Int64())

	evts := recorder.Drain()
	require.Len(t, evts, 1)
	payload := evts[0].Event()
	require.Equal(t, events.TypeTokenTransferred, payload.Type)
	require.Equal(t, "400", payload.Attribute("amount"))
	require.Equal(t, "DROP", payload.Attribute("token"))
}

func TestTransferInsufficientBalance(t *testing.T) {
	ledger, recorder := newTestLedger(t)
	treasury, holder := [20]byte{0x01}, [20]byte{0x02}
	require.NoError(t, ledger.Mint("DROP", treasury, big.NewInt(10)))

	err := ledger.Transfer("DROP", treasury, holder, big.NewInt(11))
	require.ErrorIs(t, err, ErrInsufficientBalance)
	require.Empty(t, recorder.Drain())

	balance, err := ledger.Balance("DROP", treasury)
	require.NoError(t, err)
	require.Equal(t, int64(10), balance.Int64())
}

func TestTransferRejectsBadInput(t *testing.T) {
	ledger, _ := newTestLedger(t)
	a, b := [20]byte{0x01}, [20]byte{0x02}

	require.ErrorIs(t, ledger.Transfer("OTHER", a, b, big.NewInt(1)), ErrUnknownToken)
	require.ErrorIs(t, ledger.Transfer("DROP", a, b, big.NewInt(0)), ErrInvalidAmount)
	require.ErrorIs(t, ledger.Transfer("DROP", a, b, nil), ErrInvalidAmount)
	require.ErrorIs(t, ledger.Mint("DROP", a, new(big.Int).Lsh(big.NewInt(1), 300)), ErrInvalidAmount)
}

func TestTransferToSelfKeepsBalance(t *testing.T) {
	ledger, _ := newTestLedger(t)
	a := [20]byte{0x05}
	require.NoError(t, ledger.Mint("DROP", a, big.NewInt(50)))
	require.NoError(t, ledger.Transfer("DROP", a, a, big.NewInt(50)))

	balance, err := ledger.Balance("DROP", a)
	require.NoError(t, err)
	require.Equal(t, int64(50), balance.Int64())
}
