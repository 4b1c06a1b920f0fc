package state

import ethcrypto "github.com/ethereum/go-ethereum/crypto"

// Every key is hashed with keccak256 before it reaches the store, so prefixes
// only need to be unique among themselves.
var (
	tokenPrefix         = []byte("token:")
	tokenListKey        = ethcrypto.Keccak256([]byte("token-list"))
	balancePrefix       = []byte("balance:")
	airdropGlobalKey    = ethcrypto.Keccak256([]byte("airdrop/global"))
	airdropAssetPrefix  = []byte("airdrop/asset/")
	airdropHolderPrefix = []byte("airdrop/holder/")
)

func prefixedKey(prefix []byte, parts ...[]byte) []byte {
	size := len(prefix)
	for _, part := range parts {
		size += len(part)
	}
	buf := make([]byte, 0, size)
	buf = append(buf, prefix...)
	for _, part := range parts {
		buf = append(buf, part...)
	}
	return ethcrypto.Keccak256(buf)
}

func tokenMetadataKey(symbol string) []byte {
	return prefixedKey(tokenPrefix, []byte(symbol))
}

func balanceKey(addr []byte, symbol string) []byte {
	return prefixedKey(balancePrefix, []byte(symbol), []byte{':'}, addr)
}

func airdropAssetKey(id string) []byte {
	return prefixedKey(airdropAssetPrefix, []byte(id))
}

func airdropHolderKey(holder [20]byte) []byte {
	return prefixedKey(airdropHolderPrefix, holder[:])
}

func kvKey(key []byte) []byte {
	return ethcrypto.Keccak256(key)
}
