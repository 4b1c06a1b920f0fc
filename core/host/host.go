// Package host runs the airdrop engine behind a transactional boundary. Every
// invocation is serialized and either commits all of its writes, including
// the reward transfer, or none of them.
package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"nftdrop/core/events"
	"nftdrop/core/state"
	"nftdrop/core/types"
	"nftdrop/crypto"
	"nftdrop/native/airdrop"
	"nftdrop/native/bank"
	"nftdrop/observability"
	"nftdrop/observability/telemetry"
	"nftdrop/storage"
)

var genesisFundedKey = []byte("genesis/treasury-funded")

// rewardDecimals is the display precision registered for the reward token.
const rewardDecimals = 6

// Config bundles the dependencies of a Host.
type Config struct {
	Params    airdrop.Params
	Store     storage.Database
	Directory airdrop.OwnershipDirectory
	// Clock defaults to the wall clock.
	Clock  clockwork.Clock
	Logger *slog.Logger
	// TreasuryFunding is minted to the treasury once, on the first
	// successful Instantiate.
	TreasuryFunding *big.Int
}

// Host dispatches messages to the engine.
type Host struct {
	mu       sync.Mutex
	params   airdrop.Params
	state    *state.Manager
	engine   *airdrop.Engine
	ledger   *bank.Ledger
	recorder *events.Recorder
	sink     events.Emitter
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *observability.AirdropMetrics
	funding  *big.Int
}

// New wires the engine, state and reward ledger over cfg.Store.
func New(cfg Config) (*Host, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("host: store required")
	}
	if cfg.Directory == nil {
		return nil, fmt.Errorf("host: ownership directory required")
	}
	if err := cfg.Params.Validate(); err != nil {
		return nil, err
	}
	h := &Host{
		params:   cfg.Params.Clone(),
		state:    state.NewManager(cfg.Store),
		recorder: &events.Recorder{},
		sink:     events.NoopEmitter{},
		clock:    cfg.Clock,
		logger:   cfg.Logger,
		metrics:  observability.Airdrop(),
		funding:  big.NewInt(0),
	}
	if h.clock == nil {
		h.clock = clockwork.NewRealClock()
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if cfg.TreasuryFunding != nil {
		h.funding = new(big.Int).Set(cfg.TreasuryFunding)
	}

	h.engine = airdrop.NewEngine(h.params)
	h.engine.SetState(h.state)
	h.engine.SetDirectory(cfg.Directory)
	h.engine.SetEmitter(h.recorder)
	h.engine.SetNowFunc(h.now)

	h.ledger = bank.NewLedger(h.state)
	h.ledger.SetEmitter(h.recorder)
	return h, nil
}

// SetEventSink receives the events of every committed invocation.
func (h *Host) SetEventSink(sink events.Emitter) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if sink == nil {
		h.sink = events.NoopEmitter{}
		return
	}
	h.sink = sink
}

// Params returns the compiled-in engine constants.
func (h *Host) Params() airdrop.Params { return h.params.Clone() }

func (h *Host) now() uint64 {
	return uint64(h.clock.Now().Unix())
}

// commit flushes the journal and forwards the buffered events. On error the
// journal and events are dropped.
func (h *Host) commit() ([]*types.Event, error) {
	if err := h.state.Commit(); err != nil {
		h.rollback()
		return nil, err
	}
	evts := h.recorder.Drain()
	for _, evt := range evts {
		h.sink.Emit(evt)
	}
	return events.Payloads(evts), nil
}

func (h *Host) rollback() {
	h.state.Discard()
	h.recorder.Drain()
}

// Instantiate starts the accrual clock and applies genesis treasury funding.
func (h *Host) Instantiate(ctx context.Context) (*GlobalView, error) {
	_, span := telemetry.Tracer().Start(ctx, "host.Instantiate")
	defer span.End()

	h.mu.Lock()
	defer h.mu.Unlock()

	ledger, err := h.instantiate()
	if err != nil {
		h.rollback()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if _, err := h.commit(); err != nil {
		return nil, fmt.Errorf("host: commit instantiate: %w", err)
	}
	h.logger.Info("airdrop instantiated",
		slog.Uint64("accrualStartTime", ledger.AccrualStartTime),
		slog.String("treasury", account(h.params.Treasury)),
		slog.String("rewardToken", h.params.RewardToken))
	return newGlobalView(ledger), nil
}

func (h *Host) instantiate() (*airdrop.GlobalLedger, error) {
	ledger, err := h.engine.Initialize()
	if err != nil {
		return nil, err
	}
	if err := h.ledger.EnsureToken(h.params.RewardToken, h.params.RewardToken, rewardDecimals); err != nil {
		return nil, err
	}
	funded, err := h.state.KVGet(genesisFundedKey, nil)
	if err != nil {
		return nil, err
	}
	if !funded && h.funding.Sign() > 0 {
		if err := h.ledger.Mint(h.params.RewardToken, h.params.Treasury, h.funding); err != nil {
			return nil, fmt.Errorf("host: fund treasury: %w", err)
		}
		if err := h.state.KVPut(genesisFundedKey, ledger.AccrualStartTime); err != nil {
			return nil, err
		}
	}
	return ledger, nil
}

// Execute dispatches a state-changing message on behalf of caller.
func (h *Host) Execute(ctx context.Context, caller [20]byte, msg ExecuteMsg) (*SettlementView, error) {
	if err := msg.validate(); err != nil {
		return nil, err
	}
	if msg.Receive != nil {
		h.metrics.RecordRejection("unauthorized")
		return nil, airdrop.ErrUnauthorized
	}
	return h.Distribute(ctx, caller)
}

// Distribute settles the caller's assets and pays the total from the treasury.
func (h *Host) Distribute(ctx context.Context, caller [20]byte) (*SettlementView, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "host.Distribute")
	defer span.End()
	span.SetAttributes(attribute.String("holder", account(caller)))

	h.mu.Lock()
	defer h.mu.Unlock()

	receipt, err := h.distribute(ctx, caller)
	if err != nil {
		h.rollback()
		h.metrics.RecordRejection(rejectionReason(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	evts, err := h.commit()
	if err != nil {
		h.metrics.RecordRejection("commit")
		return nil, fmt.Errorf("host: commit distribution: %w", err)
	}

	h.metrics.RecordDistribution(receipt.Total, len(receipt.Assets), h.clock.Now())
	span.SetAttributes(attribute.String("amount", receipt.Total.String()), attribute.Int("assets", len(receipt.Assets)))
	h.logger.Info("airdrop distributed",
		slog.String("holder", account(caller)),
		slog.String("amount", receipt.Total.String()),
		slog.Int("assets", len(receipt.Assets)),
		slog.Uint64("time", receipt.Time))
	return newSettlementView(receipt, evts), nil
}

func (h *Host) distribute(ctx context.Context, caller [20]byte) (*airdrop.Receipt, error) {
	receipt, err := h.engine.Distribute(ctx, caller)
	if err != nil {
		return nil, err
	}
	transfer := receipt.Transfer
	if err := h.ledger.Transfer(transfer.Token, transfer.From, transfer.To, transfer.Amount); err != nil {
		h.logger.Error("airdrop transfer failed",
			slog.String("holder", account(caller)),
			slog.String("amount", amountString(transfer.Amount)),
			slog.Any("error", err))
		return nil, fmt.Errorf("host: transfer reward: %w", err)
	}
	return receipt, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, airdrop.ErrNoAssetsOwned):
		return "no_assets"
	case errors.Is(err, airdrop.ErrNoPendingReward):
		return "no_pending"
	case errors.Is(err, airdrop.ErrNotInitialized):
		return "not_initialized"
	case errors.Is(err, bank.ErrInsufficientBalance):
		return "insufficient_treasury"
	default:
		return "error"
	}
}

// QueryGlobal returns the global ledger.
func (h *Host) QueryGlobal(ctx context.Context) (*GlobalView, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ledger, err := h.engine.Global()
	h.metrics.RecordQuery("global", err)
	if err != nil {
		return nil, err
	}
	return newGlobalView(ledger), nil
}

// QueryAsset returns the accrual record of an asset, zero if it never settled.
func (h *Host) QueryAsset(ctx context.Context, tokenID string) (*AssetView, error) {
	id := strings.TrimSpace(tokenID)
	if id == "" {
		return nil, ErrInvalidMessage
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	record, err := h.engine.Asset(id)
	h.metrics.RecordQuery("asset", err)
	if err != nil {
		return nil, err
	}
	return newAssetView(id, record), nil
}

// QueryHolder projects a holder's accounting at the host's current time.
func (h *Host) QueryHolder(ctx context.Context, holder [20]byte) (*HolderView, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	summary, err := h.engine.Holder(ctx, holder)
	h.metrics.RecordQuery("holder", err)
	if err != nil {
		return nil, err
	}
	return newHolderView(holder, summary), nil
}

// Query dispatches a query message and returns the JSON encoded result.
func (h *Host) Query(ctx context.Context, msg QueryMsg) ([]byte, error) {
	if err := msg.validate(); err != nil {
		return nil, err
	}
	var (
		result any
		err    error
	)
	switch {
	case msg.Global != nil:
		result, err = h.QueryGlobal(ctx)
	case msg.Asset != nil:
		result, err = h.QueryAsset(ctx, msg.Asset.TokenID)
	default:
		var holder [20]byte
		holder, err = crypto.ParseHolder(strings.TrimSpace(msg.Holder.Account))
		if err != nil {
			return nil, fmt.Errorf("%w: account: %v", ErrInvalidMessage, err)
		}
		result, err = h.QueryHolder(ctx, holder)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(result)
}

// TreasuryBalance reports the reward token balance held by the treasury.
func (h *Host) TreasuryBalance() (*big.Int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ledger.Balance(h.params.RewardToken, h.params.Treasury)
}
