package middleware

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/khabarhub/newsdesk/internal/logger"
	"github.com/khabarhub/newsdesk/internal/newsstore"
)

// Validator is a struct that holds the validator instance
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	v := validator.New()
	return &Validator{validate: v}
}

// Validate validates the request body against the provided struct
func (v *Validator) Validate(s interface{}) error {
	return v.validate.Struct(s)
}

// FieldErrors flattens validation failures into field → failed tag.
func FieldErrors(err error) map[string]string {
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
	}
	return fields
}

// ErrorHandler maps failures to the response envelope. Typed store
// failures get their own status codes; everything else is a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
	case errors.Is(err, newsstore.ErrValidation):
		code = fiber.StatusBadRequest
	case errors.Is(err, newsstore.ErrDuplicateSlug):
		code = fiber.StatusConflict
	case errors.Is(err, newsstore.ErrNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, newsstore.ErrPermissionDenied):
		code = fiber.StatusForbidden
	case errors.Is(err, newsstore.ErrUpstreamFailure):
		code = fiber.StatusBadGateway
	}

	logger.Get().Error().
		Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", code).
		Msg("HTTP error")

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"msg":     err.Error(),
	})
}
