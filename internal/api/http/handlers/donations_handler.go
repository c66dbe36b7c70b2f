package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/institute-service/internal/api/dto"
	"github.com/spec-kit/institute-service/internal/auth"
	"github.com/spec-kit/institute-service/internal/service"
)

// DonationsHandler exposes donations, their transactions and donors.
type DonationsHandler struct {
	donations *service.DonationService
}

// NewDonationsHandler constructs handler.
func NewDonationsHandler(donations *service.DonationService) *DonationsHandler {
	return &DonationsHandler{donations: donations}
}

// CreateTransaction handles POST /api/transactions, the public donation form.
func (h *DonationsHandler) CreateTransaction(c *fiber.Ctx) error {
	var req dto.TransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	res, err := h.donations.Donate(c.UserContext(), req.Input())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewDonationResponse(res))
}

// Donate handles POST /api/donations for a signed-in donor.
func (h *DonationsHandler) Donate(c *fiber.Ctx) error {
	var req dto.TransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	identity, _ := auth.IdentityFromContext(c)
	res, err := h.donations.DonateAs(c.UserContext(), identity.UID, req.Input())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewDonationResponse(res))
}

// ListTransactions handles GET /api/transactions.
func (h *DonationsHandler) ListTransactions(c *fiber.Ctx) error {
	txns, err := h.donations.ListTransactions(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"transactions": dto.NewTransactionResponses(txns)})
}

// GetTransaction handles GET /api/transactions/:tid.
func (h *DonationsHandler) GetTransaction(c *fiber.Ctx) error {
	tid, err := parseID(c, "tid")
	if err != nil {
		return err
	}
	txn, err := h.donations.GetTransaction(c.UserContext(), tid)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"transaction": dto.NewTransactionResponse(txn)})
}

// ListDonors handles GET /api/donors.
func (h *DonationsHandler) ListDonors(c *fiber.Ctx) error {
	donors, err := h.donations.ListDonors(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"donors": dto.NewDonorResponses(donors)})
}
