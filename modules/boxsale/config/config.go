package config

import "time"

type Config struct {
	// Genesis and BlockTime derive the ledger height from wall clock time.
	Genesis   int64         `mapstructure:"genesis"`
	BlockTime time.Duration `mapstructure:"block_time"`

	Owner             string `mapstructure:"owner"`
	PaymentRecipient  string `mapstructure:"payment_recipient"`
	TreasuryRecipient string `mapstructure:"treasury_recipient"`

	Oracle      OracleConfig       `mapstructure:"oracle"`
	Keys        KeysConfig         `mapstructure:"keys"`
	MysteryBox  MysteryBoxConfig   `mapstructure:"mystery_box"`
	Collections []CollectionConfig `mapstructure:"collections"`
	Sales       []SaleConfig       `mapstructure:"sales"`
	Balances    []BalanceConfig    `mapstructure:"balances"`
	Report      ReportConfig       `mapstructure:"report"`
	Webhook     WebhookConfig      `mapstructure:"webhook"`

	APIHandlers []string `mapstructure:"api_handlers"`
}

type OracleConfig struct {
	Address string `mapstructure:"address"`
	Fee     string `mapstructure:"fee"` // native coin, decimal units

	// AutoResolve makes the engine resolve its own randomness requests. Local deployments only.
	AutoResolve     bool          `mapstructure:"auto_resolve"`
	ResolveInterval time.Duration `mapstructure:"resolve_interval"`
}

type KeysConfig struct {
	HardCap uint64 `mapstructure:"hard_cap"`
}

type ItemConfig struct {
	URI      string `mapstructure:"uri"`
	Quantity uint64 `mapstructure:"quantity"`
}

type MysteryBoxConfig struct {
	Name            string       `mapstructure:"name"`
	Address         string       `mapstructure:"address"`
	Quote           string       `mapstructure:"quote"`
	Decimals        uint16       `mapstructure:"decimals"`
	Price           string       `mapstructure:"price"`
	ProtocolFeeRate uint64       `mapstructure:"protocol_fee_rate"`
	Launch          int64        `mapstructure:"launch"`
	Lockup          int64        `mapstructure:"lockup"`
	DirectSale      uint64       `mapstructure:"direct_sale"`
	Items           []ItemConfig `mapstructure:"items"`
}

type CollectionConfig struct {
	Address string   `mapstructure:"address"`
	Name    string   `mapstructure:"name"`
	Holders []string `mapstructure:"holders"`
}

type WhitelistConfig struct {
	Collection string `mapstructure:"collection"`
	Kind       string `mapstructure:"kind"`
}

type SaleConfig struct {
	Name     string `mapstructure:"name"`
	Strategy string `mapstructure:"strategy"`
	Quote    string `mapstructure:"quote"`
	Decimals uint16 `mapstructure:"decimals"`

	RatePrice   string `mapstructure:"rate_price"`
	EvenPrice   string `mapstructure:"even_price"`
	TicketPrice string `mapstructure:"ticket_price"`

	PoolSize        uint64 `mapstructure:"pool_size"`
	ShareRate       uint64 `mapstructure:"share_rate"`
	MaxTicket       uint64 `mapstructure:"max_ticket"`
	PerTicket       uint64 `mapstructure:"per_ticket"`
	PlatformFeeRate uint64 `mapstructure:"platform_fee_rate"`

	Launch     int64 `mapstructure:"launch"`
	Close      int64 `mapstructure:"close"`
	ClaimStart int64 `mapstructure:"claim_start"`

	Whitelist []WhitelistConfig `mapstructure:"whitelist"`
	Mode      string            `mapstructure:"mode"`
}

type BalanceConfig struct {
	Currency string `mapstructure:"currency"`
	Decimals uint16 `mapstructure:"decimals"`
	Account  string `mapstructure:"account"`
	Amount   string `mapstructure:"amount"`
}

type ReportConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
	Region   string        `mapstructure:"region"`
	Bucket   string        `mapstructure:"bucket"`
	Prefix   string        `mapstructure:"prefix"`
	Endpoint string        `mapstructure:"endpoint"` // S3 compatible storage, optional
}

// WebhookConfig pushes the events of every applied command to an HTTP endpoint.
type WebhookConfig struct {
	Enabled bool              `mapstructure:"enabled"`
	URL     string            `mapstructure:"url"`
	Headers map[string]string `mapstructure:"headers"`
	Timeout time.Duration     `mapstructure:"timeout"`
	Debug   bool              `mapstructure:"debug"`
}
