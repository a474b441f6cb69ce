package validation

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
)

type signupPayload struct {
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email" binding:"required,email"`
	Birth    string `json:"date_of_birth" binding:"omitempty,date"`
	Role     string `json:"role" binding:"role"`
}

func TestToDetailsUsesJSONNames(t *testing.T) {
	Init()

	err := binding.Validator.ValidateStruct(&signupPayload{Username: "a@b", Email: "nope", Birth: "31/12/1990", Role: "root"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	details := ToDetails(err)
	for _, field := range []string{"username", "email", "date_of_birth", "role"} {
		if _, ok := details[field]; !ok {
			t.Fatalf("expected detail for %s, got %v", field, details)
		}
	}
	if details["email"] != "must be a valid email" {
		t.Fatalf("unexpected email message %q", details["email"])
	}
}

func TestValidPayloadPasses(t *testing.T) {
	Init()
	err := binding.Validator.ValidateStruct(&signupPayload{Username: "alice", Email: "a@x.com", Birth: "1990-12-31", Role: "staff"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("")
	if err != nil || d != nil {
		t.Fatalf("expected nil date for empty input, got %v %v", d, err)
	}
	d, err = ParseDate("1990-05-01")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Year() != 1990 || d.Month() != 5 || d.Day() != 1 {
		t.Fatalf("unexpected date %v", d)
	}
	if _, err := ParseDate("01/05/1990"); err == nil {
		t.Fatal("expected error for wrong layout")
	}
}
