package validation

import "testing"

func TestValidEmail(t *testing.T) {
	valid := []string{"owner@garage.test", "a.b+tag@example.co.in", "x@y.z"}
	for _, s := range valid {
		if !ValidEmail(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	invalid := []string{"", "plain", "@no-local.test", "no-at.test", "two words@x.test", "Owner <owner@garage.test>"}
	for _, s := range invalid {
		if ValidEmail(s) {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestFieldValidators(t *testing.T) {
	v := Violations{}
	Required("name", "  ", v)
	PositiveFloat("price", 0, v)
	NonNegativeFloat("margin", -1, v)
	RangeFloat("gst", 120, 0, 100, v)
	Email("email", "nope", v)
	MinLen("password", "abc", 6, v)
	if len(v) != 6 {
		t.Fatalf("expected 6 violations, got %d: %+v", len(v), v)
	}
	if v["name"] != "required" || v["price"] != "must_be_positive" || v["password"] != "too_short" {
		t.Fatalf("unexpected messages: %+v", v)
	}

	clean := Violations{}
	Required("name", "Brake pad", clean)
	PositiveFloat("price", 10, clean)
	NonNegativeFloat("margin", 0, clean)
	RangeFloat("gst", 18, 0, 100, clean)
	Email("email", "owner@garage.test", clean)
	MinLen("password", "secret1", 6, clean)
	if !clean.Empty() {
		t.Fatalf("expected no violations: %+v", clean)
	}
}
