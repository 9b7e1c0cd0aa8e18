package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/vidyamath/api/internal/model"
	"github.com/vidyamath/api/pkg/response"
)

func formatValidationErrors(err error) interface{} {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		errors := make(map[string]string)
		for _, e := range validationErrors {
			errors[e.Field()] = e.Tag()
		}
		return errors
	}
	return nil
}

// problemError maps a rejected problem to a 400 with the rejection kind in
// the details, so clients can distinguish a missing field from a bad grade.
func problemError(c *fiber.Ctx, err error) error {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		details := map[string]string{"kind": verr.Kind}
		if verr.Field != "" {
			details["field"] = verr.Field
		}
		return response.ValidationError(c, verr.Error(), details)
	}
	return response.ServiceError(c, err.Error())
}
