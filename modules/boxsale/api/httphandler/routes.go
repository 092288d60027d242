package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/boxsale/v1")

	r.Get("/info", h.GetInfo)
	r.Get("/events/:address", h.GetEvents)

	// operator commands
	r.Post("/deposits", h.Deposit)
	r.Post("/oracle/resolve", h.ResolveSeed)
	r.Post("/keys/approval", h.SetKeyApproval)

	credentials := r.Group("/credentials/:collection")
	credentials.Post("/whitelist", h.AddCollectionWhitelist)
	credentials.Post("/mint", h.MintCredentials)
	credentials.Post("/approval", h.SetCredentialApproval)

	sales := r.Group("/sales/:instance")
	sales.Get("/", h.GetSale)
	sales.Get("/bookings/:index", h.GetBooking)
	sales.Get("/deposits/:address", h.GetDepositIndex)
	sales.Get("/wins/:address", h.GetMyWin)
	sales.Get("/least-fund", h.GetLeastFund)
	sales.Post("/stake", h.Stake)
	sales.Post("/unstake", h.Unstake)
	sales.Post("/tickets", h.BuyTicket)
	sales.Post("/request-seed", h.RequestSeed)
	sales.Post("/claim", h.Claim)
	sales.Post("/whitelist", h.SetSaleWhitelist)
	sales.Post("/allocate", h.Allocate)

	box := r.Group("/mysterybox")
	box.Get("/items", h.GetItems)
	box.Get("/items/:id", h.GetItem)
	box.Get("/ranges/:instance", h.GetRange)
	box.Post("/claim-items", h.ClaimItems)
	box.Post("/keys", h.BuyKeys)
	box.Post("/items", h.RegisterItems)
	box.Post("/lockup", h.SetLockup)
	return nil
}
