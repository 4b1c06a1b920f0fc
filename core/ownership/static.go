package ownership

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"nftdrop/crypto"
)

// ErrInvalidAssignment is returned for blank collections or asset ids.
var ErrInvalidAssignment = errors.New("ownership: collection and asset id required")

// Fixture is the YAML layout of a static ownership file:
//
//	collections:
//	  genesis-collection:
//	    drop1...: ["1", "7"]
type Fixture struct {
	Collections map[string]map[string][]string `yaml:"collections"`
}

// Static is an in-memory directory. Assets keep the order in which they were
// assigned to their current owner.
type Static struct {
	mu     sync.RWMutex
	owners map[string]map[string][20]byte
	held   map[string]map[[20]byte][]string
}

// NewStatic returns an empty directory.
func NewStatic() *Static {
	return &Static{
		owners: make(map[string]map[string][20]byte),
		held:   make(map[string]map[[20]byte][]string),
	}
}

// LoadStaticFile reads a YAML fixture from path.
func LoadStaticFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ownership: read fixture: %w", err)
	}
	return ParseStatic(data)
}

// ParseStatic builds a directory from YAML fixture bytes. Holders within a
// collection are applied in sorted key order so the result is deterministic.
func ParseStatic(data []byte) (*Static, error) {
	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("ownership: decode fixture: %w", err)
	}
	dir := NewStatic()
	for _, collection := range sortedKeys(fixture.Collections) {
		holders := fixture.Collections[collection]
		for _, holder := range sortedKeys(holders) {
			raw, err := crypto.ParseHolder(strings.TrimSpace(holder))
			if err != nil {
				return nil, fmt.Errorf("ownership: collection %s: holder %q: %w", collection, holder, err)
			}
			for _, assetID := range holders[holder] {
				if err := dir.Assign(collection, assetID, raw); err != nil {
					return nil, err
				}
			}
		}
	}
	return dir, nil
}

// Assign records holder as the owner of assetID, removing it from the
// previous owner's holdings.
func (s *Static) Assign(collection, assetID string, holder [20]byte) error {
	collection = strings.TrimSpace(collection)
	assetID = strings.TrimSpace(assetID)
	if collection == "" || assetID == "" {
		return ErrInvalidAssignment
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	owners, ok := s.owners[collection]
	if !ok {
		owners = make(map[string][20]byte)
		s.owners[collection] = owners
		s.held[collection] = make(map[[20]byte][]string)
	}
	held := s.held[collection]
	if previous, ok := owners[assetID]; ok {
		if previous == holder {
			return nil
		}
		held[previous] = without(held[previous], assetID)
		if len(held[previous]) == 0 {
			delete(held, previous)
		}
	}
	owners[assetID] = holder
	held[holder] = append(held[holder], assetID)
	return nil
}

// OwnedAssets implements airdrop.OwnershipDirectory.
func (s *Static) OwnedAssets(_ context.Context, collection string, holder [20]byte) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	held, ok := s.held[strings.TrimSpace(collection)]
	if !ok {
		return nil, nil
	}
	return append([]string(nil), held[holder]...), nil
}

func without(ids []string, target string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
