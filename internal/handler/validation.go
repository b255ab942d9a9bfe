package handler

import (
	"go-ppm-dashboard/internal/model"
	"go-ppm-dashboard/pkg/validator"
)

// Enum tags used on model.Product and model.ProductPatch
func init() {
	if err := validator.RegisterEnum("lifecycle", func(v string) bool {
		return model.Lifecycle(v).Valid()
	}); err != nil {
		panic(err)
	}
	if err := validator.RegisterEnum("product_status", func(v string) bool {
		return model.Status(v).Valid()
	}); err != nil {
		panic(err)
	}
}
