package airdrop

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"nftdrop/core/events"
)

type engineState interface {
	AirdropGlobalGet() (*GlobalLedger, bool, error)
	AirdropGlobalPut(ledger *GlobalLedger) error
	AirdropAssetGet(id string) (*AssetAccrual, bool, error)
	AirdropAssetPut(id string, record *AssetAccrual) error
	AirdropHolderGet(holder [20]byte) (*HolderAccrual, bool, error)
	AirdropHolderPut(holder [20]byte, record *HolderAccrual) error
}

// OwnershipDirectory resolves the assets a holder currently owns. The returned
// order must be stable for identical inputs.
type OwnershipDirectory interface {
	OwnedAssets(ctx context.Context, collection string, holder [20]byte) ([]string, error)
}

// Engine settles window-based rewards for asset holders.
type Engine struct {
	params    Params
	state     engineState
	directory OwnershipDirectory
	emitter   events.Emitter
	nowFn     func() uint64
}

// NewEngine constructs an airdrop engine with default dependencies.
func NewEngine(params Params) *Engine {
	return &Engine{
		params:  params.Clone(),
		emitter: events.NoopEmitter{},
		nowFn:   wallClock,
	}
}

func wallClock() uint64 {
	return uint64(time.Now().Unix())
}

// Params returns a copy of the engine parameters.
func (e *Engine) Params() Params { return e.params.Clone() }

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetDirectory configures the ownership directory.
func (e *Engine) SetDirectory(directory OwnershipDirectory) { e.directory = directory }

// SetEmitter configures the event emitter used by the engine.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetNowFunc overrides the time source. The host supplies its clock here.
func (e *Engine) SetNowFunc(now func() uint64) {
	if now == nil {
		e.nowFn = wallClock
		return
	}
	e.nowFn = now
}

func (e *Engine) now() uint64 {
	if e == nil || e.nowFn == nil {
		return wallClock()
	}
	return e.nowFn()
}

func (e *Engine) emit(evt events.Event) {
	if e == nil || evt == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(evt)
}

// Initialize starts the accrual clock. It fails if the ledger already exists.
func (e *Engine) Initialize() (*GlobalLedger, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if _, ok, err := e.state.AirdropGlobalGet(); err != nil {
		return nil, err
	} else if ok {
		return nil, ErrAlreadyInitialized
	}
	ledger := &GlobalLedger{
		AccrualStartTime: e.now(),
		TotalDistributed: big.NewInt(0),
		LastHolder:       e.params.Module,
		LastDistribution: Payout{Amount: big.NewInt(0)},
	}
	if err := e.state.AirdropGlobalPut(ledger); err != nil {
		return nil, err
	}
	e.emit(events.AirdropInitialized{Module: e.params.Module, StartTime: ledger.AccrualStartTime})
	return ledger.Clone(), nil
}

// ownedAssets queries the directory and normalises the result: identifiers are
// trimmed, blanks dropped and duplicates collapsed keeping the first position.
func (e *Engine) ownedAssets(ctx context.Context, holder [20]byte) ([]string, error) {
	if e.directory == nil {
		return nil, errNilDirectory
	}
	listed, err := e.directory.OwnedAssets(ctx, e.params.Collection, holder)
	if err != nil {
		return nil, fmt.Errorf("airdrop: list owned assets: %w", err)
	}
	seen := make(map[string]struct{}, len(listed))
	out := make([]string, 0, len(listed))
	for _, id := range listed {
		trimmed := strings.TrimSpace(id)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil, ErrNoAssetsOwned
	}
	return out, nil
}

func (e *Engine) loadGlobal() (*GlobalLedger, error) {
	ledger, ok, err := e.state.AirdropGlobalGet()
	if err != nil {
		return nil, err
	}
	if !ok || ledger == nil {
		return nil, ErrNotInitialized
	}
	return ledger, nil
}

func (e *Engine) loadAsset(id string) (*AssetAccrual, error) {
	record, ok, err := e.state.AirdropAssetGet(id)
	if err != nil {
		return nil, err
	}
	if !ok || record == nil {
		return newAssetAccrual(), nil
	}
	return record, nil
}

func (e *Engine) loadHolder(holder [20]byte) (*HolderAccrual, error) {
	record, ok, err := e.state.AirdropHolderGet(holder)
	if err != nil {
		return nil, err
	}
	if !ok || record == nil {
		return newHolderAccrual(), nil
	}
	return record, nil
}

type assetUpdate struct {
	id     string
	record *AssetAccrual
	amount *big.Int
}

type settlementPlan struct {
	updates []assetUpdate
	total   *big.Int
}

// plan computes every asset update without writing anything.
func (e *Engine) plan(ledger *GlobalLedger, assets []string, now uint64) (*settlementPlan, error) {
	out := &settlementPlan{total: big.NewInt(0)}
	for _, id := range assets {
		record, err := e.loadAsset(id)
		if err != nil {
			return nil, err
		}
		pending, err := pendingReward(e.params, ledger.AccrualStartTime, record, now)
		if err != nil {
			return nil, fmt.Errorf("asset %s: %w", id, err)
		}
		if pending.amount.Sign() == 0 {
			continue
		}
		updated := record.Clone()
		updated.CumulativeSettled = new(big.Int).Add(updated.CumulativeSettled, pending.amount)
		updated.LastSettlement = Payout{Time: now, Amount: new(big.Int).Set(pending.amount)}
		updated.AccruedUntil = pending.until
		if updated.CumulativeSettled.Cmp(e.params.LifetimeCap) > 0 {
			return nil, fmt.Errorf("%w: asset %s", ErrCapExceeded, id)
		}
		total, err := addChecked(out.total, pending.amount)
		if err != nil {
			return nil, err
		}
		out.total = total
		out.updates = append(out.updates, assetUpdate{id: id, record: updated, amount: pending.amount})
	}
	return out, nil
}

// Distribute settles every asset the caller holds and returns the transfer
// the host must execute. Nothing is written when no asset has accrued.
func (e *Engine) Distribute(ctx context.Context, caller [20]byte) (*Receipt, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	assets, err := e.ownedAssets(ctx, caller)
	if err != nil {
		return nil, err
	}
	ledger, err := e.loadGlobal()
	if err != nil {
		return nil, err
	}
	now := e.now()
	plan, err := e.plan(ledger, assets, now)
	if err != nil {
		return nil, err
	}
	if plan.total.Sign() == 0 {
		return nil, ErrNoPendingReward
	}

	holder, err := e.loadHolder(caller)
	if err != nil {
		return nil, err
	}
	totalDistributed, err := addChecked(ledger.TotalDistributed, plan.total)
	if err != nil {
		return nil, err
	}
	received, err := addChecked(holder.CumulativeReceived, plan.total)
	if err != nil {
		return nil, err
	}

	payouts := make([]AssetPayout, 0, len(plan.updates))
	for _, update := range plan.updates {
		if err := e.state.AirdropAssetPut(update.id, update.record); err != nil {
			return nil, err
		}
		payouts = append(payouts, AssetPayout{AssetID: update.id, Amount: new(big.Int).Set(update.amount)})
	}

	ledger = ledger.Clone()
	ledger.TotalDistributed = totalDistributed
	ledger.LastHolder = caller
	ledger.LastDistribution = Payout{Time: now, Amount: new(big.Int).Set(plan.total)}
	if err := e.state.AirdropGlobalPut(ledger); err != nil {
		return nil, err
	}

	holder = holder.Clone()
	holder.CumulativeReceived = received
	holder.LastDistribution = Payout{Time: now, Amount: new(big.Int).Set(plan.total)}
	if err := e.state.AirdropHolderPut(caller, holder); err != nil {
		return nil, err
	}

	e.emit(events.AirdropDistributed{Receiver: caller, Amount: plan.total, Assets: len(payouts), Time: now})
	return &Receipt{
		Holder: caller,
		Time:   now,
		Total:  new(big.Int).Set(plan.total),
		Assets: payouts,
		Transfer: TransferInstruction{
			Token:  e.params.RewardToken,
			From:   e.params.Treasury,
			To:     caller,
			Amount: new(big.Int).Set(plan.total),
		},
	}, nil
}
