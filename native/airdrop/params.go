package airdrop

import (
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"nftdrop/crypto"
)

// ModuleName identifies the airdrop module; its account is derived from it.
const ModuleName = "airdrop"

const (
	// DefaultWindow is the accrual window. Production deployments run monthly
	// windows; the network currently runs the 15 minute test cadence.
	DefaultWindow uint64 = 15 * 60
	// DefaultWindowLimit is the number of windows an asset may ever accrue.
	DefaultWindowLimit = 20
	// DefaultRewardToken is the symbol of the token paid out by the treasury.
	DefaultRewardToken = "DROP"
	// DefaultCollection is the asset collection whose holders are eligible.
	DefaultCollection = "genesis-collection"
)

var (
	// DefaultQuantum is paid per asset per elapsed window (5.1M with 6 decimals).
	DefaultQuantum = big.NewInt(5_100_000_000_000)
	// DefaultTreasury funds every distribution.
	DefaultTreasury = common.HexToAddress("0x0d5c6b0a21f3e8a0a5c9b6f8d0c2a4e3f1b7c9d2")
)

// Params holds the build-time constants of the engine.
type Params struct {
	Window      uint64
	Quantum     *big.Int
	LifetimeCap *big.Int
	Treasury    [20]byte
	RewardToken string
	Collection  string
	// Module is recorded as the placeholder last receiver at initialization.
	Module [20]byte
}

// DefaultParams returns the constants the network is built with.
func DefaultParams() Params {
	return Params{
		Window:      DefaultWindow,
		Quantum:     new(big.Int).Set(DefaultQuantum),
		LifetimeCap: new(big.Int).Mul(DefaultQuantum, big.NewInt(DefaultWindowLimit)),
		Treasury:    DefaultTreasury,
		RewardToken: DefaultRewardToken,
		Collection:  DefaultCollection,
		Module:      crypto.ModuleAddress(ModuleName),
	}
}

// Validate ensures the parameters are internally consistent.
func (p Params) Validate() error {
	if p.Window == 0 {
		return errors.New("airdrop params: window must be positive")
	}
	if p.Quantum == nil || p.Quantum.Sign() <= 0 {
		return errors.New("airdrop params: quantum must be positive")
	}
	if p.LifetimeCap == nil || p.LifetimeCap.Sign() <= 0 {
		return errors.New("airdrop params: lifetime cap must be positive")
	}
	if p.LifetimeCap.BitLen() > 256 {
		return errors.New("airdrop params: lifetime cap exceeds 256 bits")
	}
	if p.Treasury == ([20]byte{}) {
		return errors.New("airdrop params: treasury not configured")
	}
	if strings.TrimSpace(p.RewardToken) == "" {
		return errors.New("airdrop params: reward token not configured")
	}
	if strings.TrimSpace(p.Collection) == "" {
		return errors.New("airdrop params: collection not configured")
	}
	return nil
}

// Clone returns a deep copy of the parameters.
func (p Params) Clone() Params {
	out := p
	out.Quantum = cloneAmount(p.Quantum)
	out.LifetimeCap = cloneAmount(p.LifetimeCap)
	return out
}
