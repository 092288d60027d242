package entity

// Event types.
const (
	EventStaked          = "subscription.staked"
	EventUnstaked        = "subscription.unstaked"
	EventTicketsBought   = "subscription.tickets.bought"
	EventSeedRequested   = "subscription.seed.requested"
	EventAllocated       = "subscription.allocated"
	EventClaimed         = "subscription.claimed"
	EventWhitelistSet    = "subscription.whitelist.set"
	EventSeedResolved    = "oracle.seed.resolved"
	EventItemsRegistered = "mysterybox.items.registered"
	EventRangeWired      = "mysterybox.range.wired"
	EventLockupSet       = "mysterybox.lockup.set"
	EventItemsClaimed    = "mysterybox.items.claimed"
	EventKeysBought      = "mysterybox.keys.bought"
	EventDeposited       = "payment.deposited"
	EventApprovalSet     = "credential.approval.set"
)
