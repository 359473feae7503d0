package service

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateInputUsesJSONFieldNames(t *testing.T) {
	err := validateInput(ChangePasswordInput{NewPassword: "short"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	fields := map[string]string{}
	for _, f := range verr.Fields {
		fields[f.Field] = f.Message
	}
	if fields["userId"] != "userId is required" || fields["oldPassword"] != "oldPassword is required" {
		t.Fatalf("unexpected required messages: %+v", fields)
	}
	if fields["newPassword"] != "newPassword must be at least 8 characters" {
		t.Fatalf("unexpected min message: %+v", fields)
	}
	if !strings.HasPrefix(err.Error(), "validation failed: ") {
		t.Fatalf("unexpected error text: %s", err.Error())
	}
}

func TestValidateInputAcceptsValidSignup(t *testing.T) {
	if err := validateInput(SignupInput{Email: "a@x.com", Password: "Secure123"}); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}
}

func TestValidateInputCountsPasswordBytes(t *testing.T) {
	err := validateInput(SignupInput{Email: "mb@x.com", Password: strings.Repeat("é", 40)})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != "password" || verr.Fields[0].Message != "password must be at most 72 bytes" {
		t.Fatalf("unexpected fields: %+v", verr.Fields)
	}
	if err := validateInput(SignupInput{Email: "mb@x.com", Password: strings.Repeat("é", 36)}); err != nil {
		t.Fatalf("expected 72 byte password to pass, got %v", err)
	}
}
