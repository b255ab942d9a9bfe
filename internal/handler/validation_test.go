package handler

import (
	"testing"

	"go-ppm-dashboard/internal/model"
	"go-ppm-dashboard/pkg/validator"
)

func TestProductEnumTags(t *testing.T) {
	cases := []struct {
		name    string
		product model.Product
		wantErr bool
	}{
		{"minimal", model.Product{ID: "P1"}, false},
		{"missing id", model.Product{Model: "M1"}, true},
		{"negative cost", model.Product{ID: "P1", TargetCost: -1}, true},
		{"bad status", model.Product{ID: "P1", Status: "retired"}, true},
		{"bad lifecycle", model.Product{ID: "P1", Lifecycle: "eol"}, true},
		{"valid enums", model.Product{ID: "P1", Status: model.StatusActive, Lifecycle: model.LifecycleSustaining}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := validator.ValidateStruct(tc.product)
			if got := len(errs) > 0; got != tc.wantErr {
				t.Fatalf("want error=%v got=%v (%v)", tc.wantErr, got, errs)
			}
		})
	}
}

func TestPatchStatusTag(t *testing.T) {
	bad := model.Status("gone")
	if err := validator.FirstError(model.ProductPatch{Status: &bad}); err == nil {
		t.Fatalf("expected error for unknown status")
	}
	ok := model.StatusDeprecated
	if err := validator.FirstError(model.ProductPatch{Status: &ok}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
