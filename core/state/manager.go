package state

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/rlp"

	"nftdrop/storage"
)

// Manager reads and writes engine state on top of a key-value store. Writes are
// journaled in memory and only reach the backing store on Commit, so a failed
// invocation can be rolled back with Discard.
//
// Manager is not safe for concurrent use; the host serializes invocations.
type Manager struct {
	db      storage.Database
	journal map[string][]byte
	order   []string
}

// NewManager creates a state manager operating on the provided store.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db, journal: make(map[string][]byte)}
}

type TokenMetadata struct {
	Symbol   string
	Name     string
	Decimals uint8
}

// get returns nil without error when the key is absent.
func (m *Manager) get(key []byte) ([]byte, error) {
	if value, ok := m.journal[string(key)]; ok {
		return append([]byte(nil), value...), nil
	}
	data, err := m.db.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (m *Manager) put(key, value []byte) error {
	if len(key) == 0 {
		return fmt.Errorf("state: key must not be empty")
	}
	k := string(key)
	if _, ok := m.journal[k]; !ok {
		m.order = append(m.order, k)
	}
	m.journal[k] = append([]byte(nil), value...)
	return nil
}

func (m *Manager) putRLP(key []byte, value interface{}) error {
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return err
	}
	return m.put(key, encoded)
}

// getRLP decodes the value under key into out and reports whether it existed.
func (m *Manager) getRLP(key []byte, out interface{}) (bool, error) {
	data, err := m.get(key)
	if err != nil {
		return false, err
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := rlp.DecodeBytes(data, out); err != nil {
		return false, err
	}
	return true, nil
}

// Dirty returns the number of keys written since the last Commit or Discard.
func (m *Manager) Dirty() int {
	return len(m.journal)
}

// Commit flushes journaled writes to the backing store in one batch.
func (m *Manager) Commit() error {
	if len(m.journal) == 0 {
		return nil
	}
	batch := m.db.NewBatch()
	for _, k := range m.order {
		batch.Put([]byte(k), m.journal[k])
	}
	if err := batch.Write(); err != nil {
		return fmt.Errorf("state: commit: %w", err)
	}
	m.Discard()
	return nil
}

// Discard drops every journaled write.
func (m *Manager) Discard() {
	m.journal = make(map[string][]byte)
	m.order = nil
}

func (m *Manager) loadTokenList() ([]string, error) {
	var list []string
	ok, err := m.getRLP(tokenListKey, &list)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []string{}, nil
	}
	return list, nil
}

func (m *Manager) loadTokenMetadata(symbol string) (*TokenMetadata, error) {
	meta := new(TokenMetadata)
	ok, err := m.getRLP(tokenMetadataKey(symbol), meta)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return meta, nil
}

// RegisterToken stores the metadata for a token and records it in the token
// index.
func (m *Manager) RegisterToken(symbol, name string, decimals uint8) error {
	normalized := strings.ToUpper(strings.TrimSpace(symbol))
	if normalized == "" {
		return fmt.Errorf("token symbol must not be empty")
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("token %s: name must not be empty", normalized)
	}
	if existing, err := m.loadTokenMetadata(normalized); err != nil {
		return err
	} else if existing != nil {
		return fmt.Errorf("token %s already registered", normalized)
	}

	list, err := m.loadTokenList()
	if err != nil {
		return err
	}
	list = append(list, normalized)
	sort.Strings(list)
	if err := m.putRLP(tokenListKey, list); err != nil {
		return err
	}
	return m.putRLP(tokenMetadataKey(normalized), &TokenMetadata{
		Symbol:   normalized,
		Name:     name,
		Decimals: decimals,
	})
}

// Token retrieves metadata for a registered token.
func (m *Manager) Token(symbol string) (*TokenMetadata, error) {
	normalized := strings.ToUpper(strings.TrimSpace(symbol))
	return m.loadTokenMetadata(normalized)
}

// TokenList returns all registered token symbols in sorted order.
func (m *Manager) TokenList() ([]string, error) {
	return m.loadTokenList()
}

// TokenExists reports whether the provided token symbol is registered.
func (m *Manager) TokenExists(symbol string) bool {
	meta, err := m.Token(symbol)
	return err == nil && meta != nil
}

// SetBalance stores an account balance for the provided token.
func (m *Manager) SetBalance(addr []byte, symbol string, amount *big.Int) error {
	if len(addr) == 0 {
		return fmt.Errorf("address must not be empty")
	}
	if amount == nil {
		amount = big.NewInt(0)
	}
	if amount.Sign() < 0 {
		return fmt.Errorf("negative balance not allowed")
	}
	normalized := strings.ToUpper(strings.TrimSpace(symbol))
	if normalized == "" {
		return fmt.Errorf("token symbol must not be empty")
	}
	if meta, err := m.loadTokenMetadata(normalized); err != nil {
		return err
	} else if meta == nil {
		return fmt.Errorf("token %s not registered", normalized)
	}
	return m.putRLP(balanceKey(addr, normalized), amount)
}

// Balance retrieves a token balance for the provided account and token.
func (m *Manager) Balance(addr []byte, symbol string) (*big.Int, error) {
	amount := new(big.Int)
	ok, err := m.getRLP(balanceKey(addr, strings.ToUpper(strings.TrimSpace(symbol))), amount)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	return amount, nil
}

// KVPut stores the provided value under the supplied key using RLP encoding.
// The key is hashed with keccak256 before it reaches the store.
func (m *Manager) KVPut(key []byte, value interface{}) error {
	if len(key) == 0 {
		return fmt.Errorf("kv: key must not be empty")
	}
	return m.putRLP(kvKey(key), value)
}

// KVGet retrieves the value stored under the supplied key and decodes it into
// the provided destination. The boolean return value indicates whether the key
// existed in state.
func (m *Manager) KVGet(key []byte, out interface{}) (bool, error) {
	if len(key) == 0 {
		return false, fmt.Errorf("kv: key must not be empty")
	}
	if out == nil {
		data, err := m.get(kvKey(key))
		return len(data) > 0, err
	}
	return m.getRLP(kvKey(key), out)
}
