package handlers

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"schedpay/internal/calendar"
	"schedpay/internal/repositories"
	"schedpay/internal/services/fee"
	"schedpay/internal/utils/response"
	"schedpay/internal/utils/validation"
)

// respondError renders err with the status its kind maps to. Unknown errors
// are logged and reported as 500 without detail.
func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	if errs, ok := validation.AsErrors(err); ok {
		return response.ValidationError(c, errs.Details())
	}
	if r, ok := fee.AsRejection(err); ok {
		return response.BusinessError(c, string(r.Reason), r.Error())
	}
	if errors.Is(err, repositories.ErrTransferNotFound) {
		return response.NotFound(c, "Transfer not found")
	}

	log.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return response.ServerError(c)
}

// parseBody decodes a JSON request into dst and validates it. Every failure
// is returned as validation.Errors.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	ct := c.Get(fiber.HeaderContentType)
	if !strings.HasPrefix(ct, fiber.MIMEApplicationJSON) {
		return validation.Field("body", "Content-Type must be application/json")
	}
	if err := c.BodyParser(dst); err != nil {
		return decodeError(err)
	}
	return validation.Struct(dst)
}

// decodeError attributes a JSON decoding failure to the field that caused it.
// Decimal amounts are the only other custom-decoded field.
func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError

	switch {
	case errors.Is(err, calendar.ErrInvalidDate):
		return validation.Field("scheduledDate", "must be a valid date in YYYY-MM-DD format")
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return validation.Field(typeErr.Field, "has an invalid type")
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return validation.Field("body", "must be a valid JSON object")
	default:
		return validation.Field("amount", "must be a decimal number")
	}
}

// ErrorHandler is the application-wide Fiber error handler.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return response.Error(c, fe.Code, fe.Message)
		}
		return respondError(c, log, err)
	}
}
