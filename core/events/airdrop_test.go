package events

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"nftdrop/crypto"
)

func TestAirdropDistributedAttributes(t *testing.T) {
	var receiver [20]byte
	receiver[19] = 9
	evt := AirdropDistributed{Receiver: receiver, Amount: big.NewInt(42), Assets: 3, Time: 1000}.Event()

	require.Equal(t, TypeAirdropDistributed, evt.Type)
	require.Equal(t, "airdrop", evt.Attribute("action"))
	require.Equal(t, crypto.HolderAddress(receiver).String(), evt.Attribute("receiver"))
	require.Equal(t, "42", evt.Attribute("airdrop_amount"))
	require.Equal(t, "3", evt.Attribute("assets"))
	require.Equal(t, "1000", evt.Attribute("time"))
}

func TestRecorderDrain(t *testing.T) {
	rec := &Recorder{}
	rec.Emit(AirdropInitialized{StartTime: 5})
	rec.Emit(nil)
	rec.Emit(TokenTransferred{Token: "DROP", Amount: nil})

	drained := rec.Drain()
	require.Len(t, drained, 2)
	require.Empty(t, rec.Drain())

	payloads := Payloads(drained)
	require.Equal(t, TypeAirdropInitialized, payloads[0].Type)
	require.Equal(t, "0", payloads[1].Attribute("amount"))
}
