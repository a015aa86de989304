package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"schedpay/internal/calendar"
	"schedpay/internal/logging"
	"schedpay/internal/services/fee"
	"schedpay/internal/services/transfer"
	"schedpay/internal/utils/response"
)

type quoteRequest struct {
	Amount        decimal.Decimal `json:"amount" validate:"required,positive_decimal,decimal_max,decimal_places"`
	ScheduledDate calendar.Date   `json:"scheduledDate" validate:"required"`
}

type quoteResponse struct {
	Amount        string        `json:"amount"`
	ScheduledDate calendar.Date `json:"scheduledDate"`
	Fee           string        `json:"fee"`
	FeeRule       string        `json:"feeRule"`
	LeadDays      int           `json:"leadDays"`
}

type ruleResponse struct {
	Code        string  `json:"code"`
	Tier        string  `json:"tier"`
	AmountAbove string  `json:"amountAbove"`
	AmountUpTo  *string `json:"amountUpTo"`
	MinDays     int     `json:"minDays"`
	MaxDays     *int    `json:"maxDays"`
	Rate        string  `json:"rate"`
	Flat        string  `json:"flat"`
}

func newRuleResponse(r fee.Rule) ruleResponse {
	out := ruleResponse{
		Code:        r.Code,
		Tier:        r.Tier,
		AmountAbove: r.AmountAbove.StringFixed(2),
		MinDays:     r.MinDays,
		Rate:        r.Rate.String(),
		Flat:        r.Flat.StringFixed(2),
	}
	if r.AmountUpTo != nil {
		upTo := r.AmountUpTo.StringFixed(2)
		out.AmountUpTo = &upTo
	}
	if r.MaxDays != fee.Unbounded {
		maxDays := r.MaxDays
		out.MaxDays = &maxDays
	}
	return out
}

// FeeHandler publishes the fee schedule and quotes fees without scheduling.
type FeeHandler struct {
	service transfer.Service
	logger  *zap.Logger
}

func NewFeeHandler(s transfer.Service, logger *zap.Logger) *FeeHandler {
	return &FeeHandler{service: s, logger: logging.OrNop(logger)}
}

// Rules handles GET /api/fees/rules.
func (h *FeeHandler) Rules(c *fiber.Ctx) error {
	rules := fee.Schedule()
	out := make([]ruleResponse, 0, len(rules))
	for _, r := range rules {
		out = append(out, newRuleResponse(r))
	}
	return response.Success(c, fiber.Map{"rules": out})
}

// Quote handles POST /api/fees/quote.
func (h *FeeHandler) Quote(c *fiber.Ctx) error {
	var req quoteRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	outcome := h.service.Quote(c.UserContext(), req.Amount, req.ScheduledDate)
	if err := outcome.Err(); err != nil {
		return respondError(c, h.logger, err)
	}

	return response.Success(c, quoteResponse{
		Amount:        req.Amount.StringFixed(2),
		ScheduledDate: req.ScheduledDate,
		Fee:           outcome.Fee.StringFixed(2),
		FeeRule:       outcome.Rule,
		LeadDays:      outcome.LeadDays,
	})
}
