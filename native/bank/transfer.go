package bank

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"

	"nftdrop/core/events"
)

var (
	// ErrInsufficientBalance is returned when the sender cannot cover a transfer.
	ErrInsufficientBalance = errors.New("bank: insufficient balance")
	// ErrUnknownToken is returned for transfers of unregistered tokens.
	ErrUnknownToken = errors.New("bank: unknown token")
	// ErrInvalidAmount rejects negative, zero or oversized amounts.
	ErrInvalidAmount = errors.New("bank: invalid amount")
)

type ledgerState interface {
	RegisterToken(symbol, name string, decimals uint8) error
	TokenExists(symbol string) bool
	Balance(addr []byte, symbol string) (*big.Int, error)
	SetBalance(addr []byte, symbol string, amount *big.Int) error
}

// Ledger moves reward tokens between accounts held in state.
type Ledger struct {
	state   ledgerState
	emitter events.Emitter
}

// NewLedger constructs a ledger over the provided state.
func NewLedger(state ledgerState) *Ledger {
	return &Ledger{state: state, emitter: events.NoopEmitter{}}
}

// SetEmitter configures the emitter notified of executed transfers.
func (l *Ledger) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		l.emitter = events.NoopEmitter{}
		return
	}
	l.emitter = emitter
}

// EnsureToken registers symbol unless it already exists.
func (l *Ledger) EnsureToken(symbol, name string, decimals uint8) error {
	if l == nil || l.state == nil {
		return fmt.Errorf("bank: state manager required")
	}
	if l.state.TokenExists(symbol) {
		return nil
	}
	return l.state.RegisterToken(symbol, name, decimals)
}

// Balance returns the balance of addr in token.
func (l *Ledger) Balance(token string, addr [20]byte) (*big.Int, error) {
	if l == nil || l.state == nil {
		return nil, fmt.Errorf("bank: state manager required")
	}
	return l.state.Balance(addr[:], normalizeToken(token))
}

// Mint credits amount of token to addr out of thin air. It is only used to
// fund the treasury at genesis.
func (l *Ledger) Mint(token string, to [20]byte, amount *big.Int) error {
	symbol, value, err := l.prepare(token, amount)
	if err != nil {
		return err
	}
	current, err := l.balance(symbol, to)
	if err != nil {
		return err
	}
	next, overflow := new(uint256.Int).AddOverflow(current, value)
	if overflow {
		return fmt.Errorf("%w: balance overflow", ErrInvalidAmount)
	}
	return l.state.SetBalance(to[:], symbol, next.ToBig())
}

// Transfer moves amount of token from one account to another.
func (l *Ledger) Transfer(token string, from, to [20]byte, amount *big.Int) error {
	symbol, value, err := l.prepare(token, amount)
	if err != nil {
		return err
	}
	fromBalance, err := l.balance(symbol, from)
	if err != nil {
		return err
	}
	if fromBalance.Lt(value) {
		return fmt.Errorf("%w: have %s, need %s", ErrInsufficientBalance, fromBalance.Dec(), value.Dec())
	}
	if from == to {
		l.emitter.Emit(events.TokenTransferred{Token: symbol, From: from, To: to, Amount: value.ToBig()})
		return nil
	}
	toBalance, err := l.balance(symbol, to)
	if err != nil {
		return err
	}
	credited, overflow := new(uint256.Int).AddOverflow(toBalance, value)
	if overflow {
		return fmt.Errorf("%w: balance overflow", ErrInvalidAmount)
	}
	debited := new(uint256.Int).Sub(fromBalance, value)
	if err := l.state.SetBalance(from[:], symbol, debited.ToBig()); err != nil {
		return err
	}
	if err := l.state.SetBalance(to[:], symbol, credited.ToBig()); err != nil {
		return err
	}
	l.emitter.Emit(events.TokenTransferred{Token: symbol, From: from, To: to, Amount: value.ToBig()})
	return nil
}

func (l *Ledger) prepare(token string, amount *big.Int) (string, *uint256.Int, error) {
	if l == nil || l.state == nil {
		return "", nil, fmt.Errorf("bank: state manager required")
	}
	symbol := normalizeToken(token)
	if symbol == "" || !l.state.TokenExists(symbol) {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownToken, token)
	}
	if amount == nil || amount.Sign() <= 0 {
		return "", nil, ErrInvalidAmount
	}
	value, overflow := uint256.FromBig(amount)
	if overflow {
		return "", nil, ErrInvalidAmount
	}
	return symbol, value, nil
}

func (l *Ledger) balance(symbol string, addr [20]byte) (*uint256.Int, error) {
	current, err := l.state.Balance(addr[:], symbol)
	if err != nil {
		return nil, err
	}
	value, overflow := uint256.FromBig(current)
	if overflow {
		return nil, fmt.Errorf("bank: stored balance exceeds 256 bits")
	}
	return value, nil
}

func normalizeToken(token string) string {
	return strings.ToUpper(strings.TrimSpace(token))
}
