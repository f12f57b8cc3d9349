package handlers

import (
	"fmt"

	"travelbooking/internal/domain"
	"travelbooking/internal/domain/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the domain tags used in request bodies to gin's
// validator engine. Call once before serving.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("passenger_title", func(fl validator.FieldLevel) bool {
		return domain.IsPassengerTitle(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		return models.IsPaymentMethod(fl.Field().String())
	})
}
