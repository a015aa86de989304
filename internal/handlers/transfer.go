package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"schedpay/internal/calendar"
	"schedpay/internal/logging"
	"schedpay/internal/models"
	"schedpay/internal/services/transfer"
	"schedpay/internal/utils/pagination"
	"schedpay/internal/utils/response"
)

type transferRequest struct {
	OriginAccount      string          `json:"originAccount" validate:"required,notblank,max=64"`
	DestinationAccount string          `json:"destinationAccount" validate:"required,notblank,max=64"`
	Amount             decimal.Decimal `json:"amount" validate:"required,positive_decimal,decimal_max,decimal_places"`
	ScheduledDate      calendar.Date   `json:"scheduledDate" validate:"required"`
}

func (r transferRequest) input() transfer.CreateInput {
	return transfer.CreateInput{
		OriginAccount:      r.OriginAccount,
		DestinationAccount: r.DestinationAccount,
		Amount:             r.Amount,
		ScheduledDate:      r.ScheduledDate,
	}
}

type transferResponse struct {
	ID                 uuid.UUID     `json:"id"`
	OriginAccount      string        `json:"originAccount"`
	DestinationAccount string        `json:"destinationAccount"`
	Amount             string        `json:"amount"`
	ScheduledDate      calendar.Date `json:"scheduledDate"`
	Fee                string        `json:"fee"`
	FeeRule            string        `json:"feeRule"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

func newTransferResponse(t *models.Transfer) transferResponse {
	return transferResponse{
		ID:                 t.ID,
		OriginAccount:      t.OriginAccount,
		DestinationAccount: t.DestinationAccount,
		Amount:             t.Amount.StringFixed(2),
		ScheduledDate:      t.ScheduledDate,
		Fee:                t.Fee.StringFixed(2),
		FeeRule:            t.FeeRule,
		CreatedAt:          t.CreatedAt.UTC(),
		UpdatedAt:          t.UpdatedAt.UTC(),
	}
}

// TransferHandler exposes the scheduled transfer endpoints.
type TransferHandler struct {
	service transfer.Service
	logger  *zap.Logger
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(s transfer.Service, logger *zap.Logger) *TransferHandler {
	return &TransferHandler{service: s, logger: logging.OrNop(logger)}
}

// Create handles POST /api/transactions.
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var req transferRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	t, err := h.service.Create(c.UserContext(), req.input())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return response.Created(c, newTransferResponse(t))
}

// List handles GET /api/transactions.
func (h *TransferHandler) List(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	transfers, total, err := h.service.List(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	p.Total = total
	out := make([]transferResponse, 0, len(transfers))
	for i := range transfers {
		out = append(out, newTransferResponse(&transfers[i]))
	}
	return response.Success(c, pagination.Response(p, out))
}

// Get handles GET /api/transactions/:id.
func (h *TransferHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid transfer ID")
	}

	t, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return response.Success(c, newTransferResponse(t))
}

// Update handles PUT /api/transactions/:id.
func (h *TransferHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid transfer ID")
	}

	var req transferRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	t, err := h.service.Update(c.UserContext(), id, req.input())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return response.Success(c, newTransferResponse(t))
}

// Delete handles DELETE /api/transactions/:id.
func (h *TransferHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid transfer ID")
	}

	existed, err := h.service.Delete(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if !existed {
		return response.NotFound(c, "Transfer not found")
	}
	return response.NoContent(c)
}
