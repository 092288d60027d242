package engine

import (
	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/boxsale/common"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/gaze-network/boxsale/modules/boxsale/config"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/eligibility"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/keys"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/mysterybox"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/payment"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/randomness"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/subscription"
	"github.com/gaze-network/boxsale/pkg/decimals"
	"github.com/gaze-network/uint128"
	"github.com/samber/lo"
)

const (
	// NativeDecimals is the precision of the native coin.
	NativeDecimals = 18

	DefaultBoxName = "mysterybox"
)

// Derived account namespaces.
const (
	escrowNamespace = "boxsale/escrow"
	boxNamespace    = "boxsale/mysterybox"
	oracleNamespace = "boxsale/oracle"
)

// EscrowAddress returns the account holding the funds of a sale.
func EscrowAddress(instance string) common.Address {
	return common.DeriveAddress(escrowNamespace, instance)
}

// Bootstrap builds the genesis state from configuration. The journal is replayed on top of it,
// so the configuration of a deployment must not change once commands have been journaled.
func Bootstrap(conf config.Config) (*State, error) {
	owner, err := common.ParseAddress(conf.Owner)
	if err != nil {
		return nil, errors.Wrap(err, "invalid owner")
	}
	paymentRecipient, err := optionalAddress(conf.PaymentRecipient, owner)
	if err != nil {
		return nil, errors.Wrap(err, "invalid payment recipient")
	}
	treasuryRecipient, err := optionalAddress(conf.TreasuryRecipient, owner)
	if err != nil {
		return nil, errors.Wrap(err, "invalid treasury recipient")
	}

	oracle, err := newOracle(conf.Oracle)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	box, err := newBox(conf.MysteryBox, owner, paymentRecipient, treasuryRecipient)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	keyLedger := keys.NewLedger(owner, conf.Keys.HardCap)
	keyLedger.AddMinter(box.Address)

	state := NewState(owner, payment.NewBank(), oracle, keyLedger, box)

	items := conf.MysteryBox.Items
	if len(items) > 0 {
		uris := lo.Map(items, func(item config.ItemConfig, _ int) string { return item.URI })
		quantities := lo.Map(items, func(item config.ItemConfig, _ int) uint64 { return item.Quantity })
		if err := box.RegisterItems(state, owner, uris, quantities); err != nil {
			return nil, errors.Wrap(err, "failed to register items")
		}
	}

	for _, collectionConf := range conf.Collections {
		if err := addCollection(state, collectionConf); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	for _, saleConf := range conf.Sales {
		sale, err := newSale(state, saleConf, paymentRecipient, treasuryRecipient)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if err := state.AddSale(sale); err != nil {
			return nil, errors.WithStack(err)
		}
		keyLedger.AddMinter(sale.Escrow)
		if _, err := box.Wire(state, sale.Name(), mysterybox.Subscription, sale.Config.PoolSize); err != nil {
			return nil, errors.Wrapf(err, "failed to wire sale %s", sale.Name())
		}
	}
	if conf.MysteryBox.DirectSale > 0 {
		if _, err := box.Wire(state, mysterybox.DirectSale, mysterybox.Direct, conf.MysteryBox.DirectSale); err != nil {
			return nil, errors.Wrap(err, "failed to wire direct sale")
		}
	}
	wired := lo.SumBy(box.Ranges(), func(r mysterybox.Range) uint64 { return r.Size() })
	if hardCap := conf.Keys.HardCap; hardCap != 0 && hardCap < wired {
		return nil, errors.Wrapf(errs.InvalidArgument, "key hard cap %d is below the %d wired items", hardCap, wired)
	}

	for _, balance := range conf.Balances {
		if err := addBalance(state, balance); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	if err := state.VerifyTotals(); err != nil {
		return nil, errors.WithStack(err)
	}
	return state.Clone(state.Block()), nil
}

func optionalAddress(s string, fallback common.Address) (common.Address, error) {
	if s == "" {
		return fallback, nil
	}
	return common.ParseAddress(s)
}

func newOracle(conf config.OracleConfig) (*randomness.LocalOracle, error) {
	address, err := optionalAddress(conf.Address, common.DeriveAddress(oracleNamespace, "local"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid oracle address")
	}
	fee, err := decimals.ToUint128(utils.Default(conf.Fee, "0"), NativeDecimals)
	if err != nil {
		return nil, errors.Wrap(err, "invalid oracle fee")
	}
	return randomness.NewLocalOracle(address, fee), nil
}

func newBox(conf config.MysteryBoxConfig, owner, paymentRecipient, treasuryRecipient common.Address) (*mysterybox.Box, error) {
	name := utils.Default(conf.Name, DefaultBoxName)
	address, err := optionalAddress(conf.Address, common.DeriveAddress(boxNamespace, name))
	if err != nil {
		return nil, errors.Wrap(err, "invalid mystery box address")
	}
	quote, err := optionalAddress(conf.Quote, common.NativeCurrency)
	if err != nil {
		return nil, errors.Wrap(err, "invalid mystery box quote")
	}
	price, err := decimals.ToUint128(utils.Default(conf.Price, "0"), quoteDecimals(quote, conf.Decimals))
	if err != nil {
		return nil, errors.Wrap(err, "invalid mystery box price")
	}
	box, err := mysterybox.New(mysterybox.Config{
		Name:              name,
		Owner:             owner,
		Quote:             quote,
		Price:             price,
		ProtocolFeeRate:   conf.ProtocolFeeRate,
		Launch:            conf.Launch,
		Lockup:            conf.Lockup,
		PaymentRecipient:  paymentRecipient,
		TreasuryRecipient: treasuryRecipient,
	}, address)
	if err != nil {
		return nil, errors.Wrap(err, "invalid mystery box")
	}
	return box, nil
}

func addCollection(state *State, conf config.CollectionConfig) error {
	address, err := common.ParseAddress(conf.Address)
	if err != nil {
		return errors.Wrap(err, "invalid collection address")
	}
	holders := make([]common.Address, 0, len(conf.Holders))
	for _, s := range conf.Holders {
		holder, err := common.ParseAddress(s)
		if err != nil {
			return errors.Wrapf(err, "invalid holder of collection %s", conf.Name)
		}
		holders = append(holders, holder)
	}

	collection := eligibility.NewCollection(address, state.Owner, conf.Name)
	if _, err := collection.AddWhitelist(state.Owner, holders); err != nil {
		return errors.WithStack(err)
	}
	if _, err := collection.MintToWhitelist(state.Owner); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(state.AddCollection(collection))
}

func newSale(state *State, conf config.SaleConfig, paymentRecipient, treasuryRecipient common.Address) (*subscription.Sale, error) {
	strategy, err := subscription.ParseStrategy(conf.Strategy)
	if err != nil {
		return nil, errors.Wrapf(err, "sale %s", conf.Name)
	}
	quote, err := optionalAddress(conf.Quote, common.NativeCurrency)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid quote of sale %s", conf.Name)
	}
	unit := quoteDecimals(quote, conf.Decimals)
	prices := make([]uint128.Uint128, 3)
	for i, price := range []string{conf.RatePrice, conf.EvenPrice, conf.TicketPrice} {
		if prices[i], err = decimals.ToUint128(utils.Default(price, "0"), unit); err != nil {
			return nil, errors.Wrapf(err, "invalid price of sale %s", conf.Name)
		}
	}
	mode, err := eligibility.ParseMode(conf.Mode)
	if err != nil {
		return nil, errors.Wrapf(err, "sale %s", conf.Name)
	}

	escrow := EscrowAddress(conf.Name)
	whitelist := make([]eligibility.SourceRef, 0, len(conf.Whitelist))
	for _, source := range conf.Whitelist {
		address, err := common.ParseAddress(source.Collection)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid whitelist of sale %s", conf.Name)
		}
		kind, err := eligibility.ParseKind(source.Kind)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid whitelist of sale %s", conf.Name)
		}
		collection, err := state.Collection(address)
		if err != nil {
			return nil, errors.Wrapf(err, "whitelist of sale %s", conf.Name)
		}
		if err := collection.SetStaking(state.Owner, escrow); err != nil {
			return nil, errors.WithStack(err)
		}
		whitelist = append(whitelist, eligibility.SourceRef{Address: address, Kind: kind})
	}

	sale, err := subscription.NewSale(subscription.Config{
		Name:              conf.Name,
		Strategy:          strategy,
		Owner:             state.Owner,
		Quote:             quote,
		RatePrice:         prices[0],
		EvenPrice:         prices[1],
		TicketPrice:       prices[2],
		PoolSize:          conf.PoolSize,
		ShareRate:         conf.ShareRate,
		MaxTicket:         conf.MaxTicket,
		PerTicket:         conf.PerTicket,
		PlatformFeeRate:   conf.PlatformFeeRate,
		ProtocolFeeRate:   state.Box.Config.ProtocolFeeRate,
		Launch:            conf.Launch,
		Close:             conf.Close,
		ClaimStart:        conf.ClaimStart,
		PaymentRecipient:  paymentRecipient,
		TreasuryRecipient: treasuryRecipient,
		Whitelist:         whitelist,
		Mode:              mode,
	}, escrow)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return sale, nil
}

func addBalance(state *State, conf config.BalanceConfig) error {
	currency, err := optionalAddress(conf.Currency, common.NativeCurrency)
	if err != nil {
		return errors.Wrap(err, "invalid balance currency")
	}
	account, err := common.ParseAddress(conf.Account)
	if err != nil {
		return errors.Wrap(err, "invalid balance account")
	}
	amount, err := decimals.ToUint128(conf.Amount, quoteDecimals(currency, conf.Decimals))
	if err != nil {
		return errors.Wrapf(errs.InvalidArgument, "invalid balance amount %q", conf.Amount)
	}
	return errors.WithStack(state.Bank.Mint(currency, account, amount))
}

// quoteDecimals returns the configured precision, or the native precision for the native coin.
func quoteDecimals(quote common.Address, configured uint16) uint16 {
	if quote == common.NativeCurrency && configured == 0 {
		return NativeDecimals
	}
	return configured
}
