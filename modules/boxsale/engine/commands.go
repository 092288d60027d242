package engine

import (
	"encoding/json"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/boxsale/common"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/eligibility"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/entity"
	"github.com/gaze-network/boxsale/pkg/decimals"
	"github.com/gaze-network/uint128"
)

// Command is one journaled state transition. Commands are JSON encoded into the journal and
// replayed in order on startup, so Apply must only depend on the state and the payload.
type Command interface {
	Name() string
	Apply(state *State) (any, error)
}

var commandFactories = map[string]func() Command{
	"deposit":              func() Command { return &DepositCommand{} },
	"credential.whitelist": func() Command { return &AddWhitelistCommand{} },
	"credential.mint":      func() Command { return &MintCredentialsCommand{} },
	"credential.approval":  func() Command { return &SetCredentialApprovalCommand{} },
	"key.approval":         func() Command { return &SetKeyApprovalCommand{} },
	"sale.whitelist":       func() Command { return &SetWhitelistCommand{} },
	"sale.stake":           func() Command { return &StakeCommand{} },
	"sale.unstake":         func() Command { return &UnstakeCommand{} },
	"sale.tickets":         func() Command { return &BuyTicketCommand{} },
	"sale.request_seed":    func() Command { return &RequestSeedCommand{} },
	"sale.allocate":        func() Command { return &AllocateCommand{} },
	"sale.claim":           func() Command { return &ClaimCommand{} },
	"oracle.resolve":       func() Command { return &ResolveSeedCommand{} },
	"box.register_items":   func() Command { return &RegisterItemsCommand{} },
	"box.lockup":           func() Command { return &SetLockupCommand{} },
	"box.claim_items":      func() Command { return &ClaimItemsCommand{} },
	"box.buy_keys":         func() Command { return &BuyKeysCommand{} },
}

// DecodeCommand restores a journaled command.
func DecodeCommand(name string, payload []byte) (Command, error) {
	factory, ok := commandFactories[name]
	if !ok {
		return nil, errors.Wrapf(errs.InvalidArgument, "unknown command %q", name)
	}
	cmd := factory()
	if err := json.Unmarshal(payload, cmd); err != nil {
		return nil, errors.Wrapf(err, "invalid %s payload", name)
	}
	return cmd, nil
}

// parseAmount parses a base unit amount.
func parseAmount(field, s string) (uint128.Uint128, error) {
	if s == "" {
		return uint128.Zero, nil
	}
	amount, err := decimals.ToUint128(s, 0)
	if err != nil {
		return uint128.Zero, errors.Wrapf(err, "invalid %s", field)
	}
	return amount, nil
}

// DepositCommand credits an account with funds entering the ledger.
type DepositCommand struct {
	Currency common.Address `json:"currency"`
	Account  common.Address `json:"account"`
	Amount   string         `json:"amount"`
}

func (c *DepositCommand) Name() string { return "deposit" }

func (c *DepositCommand) Apply(state *State) (any, error) {
	amount, err := parseAmount("amount", c.Amount)
	if err != nil {
		return nil, err
	}
	if err := state.Bank.Mint(c.Currency, c.Account, amount); err != nil {
		return nil, errors.WithStack(err)
	}
	state.Emit(entity.Event{
		Type:    entity.EventDeposited,
		Address: c.Account,
		Attributes: map[string]string{
			"currency": c.Currency.Hex(),
			"amount":   amount.String(),
		},
	})
	return state.Bank.BalanceOf(c.Currency, c.Account), nil
}

type AddWhitelistCommand struct {
	Collection common.Address   `json:"collection"`
	Caller     common.Address   `json:"caller"`
	Holders    []common.Address `json:"holders"`
}

func (c *AddWhitelistCommand) Name() string { return "credential.whitelist" }

func (c *AddWhitelistCommand) Apply(state *State) (any, error) {
	collection, err := state.Collection(c.Collection)
	if err != nil {
		return nil, err
	}
	added, err := collection.AddWhitelist(c.Caller, c.Holders)
	return added, errors.WithStack(err)
}

type MintCredentialsCommand struct {
	Collection common.Address `json:"collection"`
	Caller     common.Address `json:"caller"`
}

func (c *MintCredentialsCommand) Name() string { return "credential.mint" }

func (c *MintCredentialsCommand) Apply(state *State) (any, error) {
	collection, err := state.Collection(c.Collection)
	if err != nil {
		return nil, err
	}
	minted, err := collection.MintToWhitelist(c.Caller)
	return minted, errors.WithStack(err)
}

// SetCredentialApprovalCommand lets operator (usually a sale escrow) move the holder's credentials.
type SetCredentialApprovalCommand struct {
	Collection common.Address `json:"collection"`
	Holder     common.Address `json:"holder"`
	Operator   common.Address `json:"operator"`
	Approved   bool           `json:"approved"`
}

func (c *SetCredentialApprovalCommand) Name() string { return "credential.approval" }

func (c *SetCredentialApprovalCommand) Apply(state *State) (any, error) {
	collection, err := state.Collection(c.Collection)
	if err != nil {
		return nil, err
	}
	collection.SetApprovalForAll(c.Holder, c.Operator, c.Approved)
	state.Emit(entity.Event{
		Type:    entity.EventApprovalSet,
		Address: c.Holder,
		Attributes: map[string]string{
			"collection": c.Collection.Hex(),
			"operator":   c.Operator.Hex(),
			"approved":   strconv.FormatBool(c.Approved),
		},
	})
	return nil, nil
}

// SetKeyApprovalCommand lets operator (usually the mystery box) burn the holder's keys.
type SetKeyApprovalCommand struct {
	Holder   common.Address `json:"holder"`
	Operator common.Address `json:"operator"`
	Approved bool           `json:"approved"`
}

func (c *SetKeyApprovalCommand) Name() string { return "key.approval" }

func (c *SetKeyApprovalCommand) Apply(state *State) (any, error) {
	state.KeyLedger.SetApprovalForAll(c.Holder, c.Operator, c.Approved)
	state.Emit(entity.Event{
		Type:    entity.EventApprovalSet,
		Address: c.Holder,
		Attributes: map[string]string{
			"collection": "keys",
			"operator":   c.Operator.Hex(),
			"approved":   strconv.FormatBool(c.Approved),
		},
	})
	return nil, nil
}

type WhitelistSource struct {
	Collection common.Address `json:"collection"`
	Kind       string         `json:"kind"`
}

type SetWhitelistCommand struct {
	Instance string            `json:"instance"`
	Caller   common.Address    `json:"caller"`
	Sources  []WhitelistSource `json:"sources"`
	Mode     string            `json:"mode"`
}

func (c *SetWhitelistCommand) Name() string { return "sale.whitelist" }

func (c *SetWhitelistCommand) Apply(state *State) (any, error) {
	sale, err := state.Sale(c.Instance)
	if err != nil {
		return nil, err
	}
	mode, err := eligibility.ParseMode(c.Mode)
	if err != nil {
		return nil, err
	}
	refs := make([]eligibility.SourceRef, 0, len(c.Sources))
	for _, source := range c.Sources {
		kind, err := eligibility.ParseKind(source.Kind)
		if err != nil {
			return nil, err
		}
		refs = append(refs, eligibility.SourceRef{Address: source.Collection, Kind: kind})
	}
	if err := sale.SetWhitelist(state, c.Caller, refs, mode); err != nil {
		return nil, errors.WithStack(err)
	}
	// the escrow must be able to hold consumed credentials
	for _, ref := range refs {
		collection, err := state.Collection(ref.Address)
		if err != nil {
			return nil, err
		}
		if err := collection.SetStaking(collection.Owner, sale.Escrow); err != nil {
			return nil, errors.WithStack(err)
		}
	}
	return nil, nil
}

type StakeCommand struct {
	Instance string         `json:"instance"`
	Address  common.Address `json:"address"`
	Amount   string         `json:"amount"`
}

func (c *StakeCommand) Name() string { return "sale.stake" }

func (c *StakeCommand) Apply(state *State) (any, error) {
	sale, err := state.Sale(c.Instance)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount("amount", c.Amount)
	if err != nil {
		return nil, err
	}
	booking, err := sale.Stake(state, c.Address, amount)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return *booking, nil
}

type UnstakeCommand struct {
	Instance string         `json:"instance"`
	Address  common.Address `json:"address"`
	Amount   string         `json:"amount"`
}

func (c *UnstakeCommand) Name() string { return "sale.unstake" }

func (c *UnstakeCommand) Apply(state *State) (any, error) {
	sale, err := state.Sale(c.Instance)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount("amount", c.Amount)
	if err != nil {
		return nil, err
	}
	booking, err := sale.Unstake(state, c.Address, amount)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return *booking, nil
}

type BuyTicketCommand struct {
	Instance string         `json:"instance"`
	Address  common.Address `json:"address"`
	Count    uint64         `json:"count"`
	Value    string         `json:"value"`
}

func (c *BuyTicketCommand) Name() string { return "sale.tickets" }

func (c *BuyTicketCommand) Apply(state *State) (any, error) {
	sale, err := state.Sale(c.Instance)
	if err != nil {
		return nil, err
	}
	value, err := parseAmount("value", c.Value)
	if err != nil {
		return nil, err
	}
	booking, err := sale.BuyTicket(state, c.Address, c.Count, value)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return *booking, nil
}

type RequestSeedCommand struct {
	Instance string         `json:"instance"`
	Caller   common.Address `json:"caller"`
	Fee      string         `json:"fee"`
}

func (c *RequestSeedCommand) Name() string { return "sale.request_seed" }

func (c *RequestSeedCommand) Apply(state *State) (any, error) {
	sale, err := state.Sale(c.Instance)
	if err != nil {
		return nil, err
	}
	fee, err := parseAmount("fee", c.Fee)
	if err != nil {
		return nil, err
	}
	height, err := sale.RequestSeed(state, c.Caller, fee)
	return height, errors.WithStack(err)
}

type AllocateCommand struct {
	Instance string `json:"instance"`
}

func (c *AllocateCommand) Name() string { return "sale.allocate" }

func (c *AllocateCommand) Apply(state *State) (any, error) {
	sale, err := state.Sale(c.Instance)
	if err != nil {
		return nil, err
	}
	result, err := sale.Allocate(state)
	return result, errors.WithStack(err)
}

type ClaimCommand struct {
	Instance string         `json:"instance"`
	Address  common.Address `json:"address"`
}

func (c *ClaimCommand) Name() string { return "sale.claim" }

func (c *ClaimCommand) Apply(state *State) (any, error) {
	sale, err := state.Sale(c.Instance)
	if err != nil {
		return nil, err
	}
	settlement, err := sale.Claim(state, c.Address)
	return settlement, errors.WithStack(err)
}

// ResolveSeedCommand is the oracle callback delivering the seed requested at Height.
type ResolveSeedCommand struct {
	Height int64  `json:"height"`
	Seed   string `json:"seed"`
}

func (c *ResolveSeedCommand) Name() string { return "oracle.resolve" }

func (c *ResolveSeedCommand) Apply(state *State) (any, error) {
	seed, err := decimals.ToUint256(c.Seed)
	if err != nil {
		return nil, errors.Wrap(err, "invalid seed")
	}
	if err := state.LocalOracle.Resolve(c.Height, seed); err != nil {
		return nil, errors.WithStack(err)
	}
	state.Emit(entity.Event{
		Type:    entity.EventSeedResolved,
		Address: state.LocalOracle.Address(),
		Attributes: map[string]string{
			"height": strconv.FormatInt(c.Height, 10),
			"seed":   seed.Hex(),
		},
	})
	return nil, nil
}

type RegisterItemsCommand struct {
	Caller     common.Address `json:"caller"`
	URIs       []string       `json:"uris"`
	Quantities []uint64       `json:"quantities"`
}

func (c *RegisterItemsCommand) Name() string { return "box.register_items" }

func (c *RegisterItemsCommand) Apply(state *State) (any, error) {
	if err := state.Box.RegisterItems(state, c.Caller, c.URIs, c.Quantities); err != nil {
		return nil, errors.WithStack(err)
	}
	return state.Box.TotalItems(), nil
}

type SetLockupCommand struct {
	Caller common.Address `json:"caller"`
	Lockup int64          `json:"lockup"`
}

func (c *SetLockupCommand) Name() string { return "box.lockup" }

func (c *SetLockupCommand) Apply(state *State) (any, error) {
	return nil, errors.WithStack(state.Box.SetLockup(state, c.Caller, c.Lockup))
}

type ClaimItemsCommand struct {
	Holder    common.Address `json:"holder"`
	Recipient common.Address `json:"recipient"`
	Instance  string         `json:"instance"`
	Count     uint64         `json:"count"`
}

func (c *ClaimItemsCommand) Name() string { return "box.claim_items" }

func (c *ClaimItemsCommand) Apply(state *State) (any, error) {
	recipient := c.Recipient
	if recipient == (common.Address{}) {
		recipient = c.Holder
	}
	ids, err := state.Box.ClaimItems(state, c.Holder, recipient, c.Instance, c.Count)
	return ids, errors.WithStack(err)
}

type BuyKeysCommand struct {
	Buyer common.Address `json:"buyer"`
	Count uint64         `json:"count"`
	Value string         `json:"value"`
}

func (c *BuyKeysCommand) Name() string { return "box.buy_keys" }

func (c *BuyKeysCommand) Apply(state *State) (any, error) {
	value, err := parseAmount("value", c.Value)
	if err != nil {
		return nil, err
	}
	fee, err := state.Box.BuyKeys(state, c.Buyer, c.Count, value)
	return fee, errors.WithStack(err)
}
