package validator

import "testing"

type paint struct {
	Name   string  `validate:"required"`
	Colour string  `validate:"omitempty,colour"`
	Shade  *string `validate:"omitempty,colour"`
	Litres float64 `validate:"gte=0"`
}

func TestRegisterEnum(t *testing.T) {
	if err := RegisterEnum("colour", func(v string) bool { return v == "red" || v == "blue" }); err != nil {
		t.Fatalf("register: %v", err)
	}
	blue, green := "blue", "green"

	cases := []struct {
		name    string
		in      paint
		wantErr bool
	}{
		{"minimal", paint{Name: "p"}, false},
		{"missing name", paint{Colour: "red"}, true},
		{"negative litres", paint{Name: "p", Litres: -1}, true},
		{"known colour", paint{Name: "p", Colour: "red", Shade: &blue}, false},
		{"unknown colour", paint{Name: "p", Colour: "green"}, true},
		{"unknown pointer colour", paint{Name: "p", Shade: &green}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := ValidateStruct(tc.in)
			if got := len(errs) > 0; got != tc.wantErr {
				t.Fatalf("want error=%v got=%v (%v)", tc.wantErr, got, errs)
			}
		})
	}
}

func TestFirstError(t *testing.T) {
	if err := FirstError(paint{}); err == nil {
		t.Fatalf("want error for missing name")
	}
	if err := FirstError(paint{Name: "p"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRegisterEnumRejectsEmptyTag(t *testing.T) {
	if err := RegisterEnum("", func(string) bool { return true }); err == nil {
		t.Fatalf("want error for empty tag")
	}
}
