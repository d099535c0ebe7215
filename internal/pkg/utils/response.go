package utils

import (
	stderrors "errors"

	"github.com/gofiber/fiber/v2"
	"github.com/location-gateway/internal/domain"
	"github.com/location-gateway/internal/pkg/errors"
)

type ErrorResponse struct {
	Error *errors.AppError `json:"error"`
}

// SendSuccess writes data as the bare JSON body with status 200.
func SendSuccess(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(data)
}

func SendError(c *fiber.Ctx, err error) error {
	appErr := ToAppError(err)
	return c.Status(appErr.StatusCode).JSON(ErrorResponse{
		Error: appErr,
	})
}

// ToAppError classifies err: AppError as is, upstream failures as 502, the rest as 500.
func ToAppError(err error) *errors.AppError {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	if stderrors.Is(err, domain.ErrUpstream) {
		return errors.ErrUpstream
	}
	return errors.ErrInternalServer
}
