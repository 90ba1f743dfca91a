package http

import (
	"strings"
	"testing"
)

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestValidator_PANTag(t *testing.T) {
	cv := NewValidator()
	type payload struct {
		PAN string `validate:"pan"`
	}

	for pan, ok := range map[string]bool{
		"ABCDE1234F": true,
		"ZZZZZ0000Z": true,
		"abcde1234f": false, // lowercase
		"ABCD1234F":  false, // 4 letters
		"ABCDE123F":  false, // 3 digits
		"ABCDE12345": false, // no trailing letter
		"":           false,
	} {
		err := cv.Validate(&payload{PAN: pan})
		if ok && err != nil {
			t.Errorf("pan %q: unexpected error %v", pan, err)
		}
		if !ok && err == nil {
			t.Errorf("pan %q: expected error", pan)
		}
	}
}

func TestValidator_PostalCodeTag(t *testing.T) {
	cv := NewValidator()
	type payload struct {
		Code string `validate:"postalcode"`
	}

	for code, ok := range map[string]bool{
		"560001":  true,
		"110099":  true,
		"060001":  false, // leading zero
		"56001":   false, // 5 digits
		"5600011": false, // 7 digits
		"56000a":  false,
	} {
		err := cv.Validate(&payload{Code: code})
		if ok && err != nil {
			t.Errorf("postal %q: unexpected error %v", code, err)
		}
		if !ok && err == nil {
			t.Errorf("postal %q: expected error", code)
		}
	}
}

func TestToFieldErrors(t *testing.T) {
	cv := NewValidator()

	req := submitApplicationReq{
		FullName:     "Al", // below min=3
		DateOfBirth:  "31-01-1995",
		PAN:          "not-a-pan",
		AnnualIncome: 0,
		Email:        "not-an-email",
		Phone:        "12345",
		Profession:   professionReq{Type: "FREELANCE", Company: "Acme"},
		Address:      addressReq{Line1: "x", City: "y", State: "z", PostalCode: "00001"},
		CardType:     "AMEX",
	}
	err := cv.Validate(&req)
	if err == nil {
		t.Fatal("expected validation errors")
	}

	details := ToFieldErrors(err)
	for _, want := range []struct{ field, msg string }{
		{"FullName", "at least 3"},
		{"DateOfBirth", "YYYY-MM-DD"},
		{"PAN", "valid PAN"},
		{"AnnualIncome", "required"},
		{"Email", "valid email"},
		{"Phone", "exactly 10"},
		{"Type", "must be one of"},
		{"PostalCode", "postal code"},
		{"CardType", "must be one of"},
	} {
		if !containsFieldMsg(details, want.field, want.msg) {
			t.Errorf("missing detail for %s (%q) in %+v", want.field, want.msg, details)
		}
	}
}
