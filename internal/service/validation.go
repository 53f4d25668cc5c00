package service

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/sabha-admin-api/internal/models"
)

// NewValidator returns a validator that reports JSON field names and knows the domain tags.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("call_status", func(fl validator.FieldLevel) bool {
		return models.CallStatus(fl.Field().String()).Valid()
	})
	return v
}
