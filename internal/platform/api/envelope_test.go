package api

import (
	"encoding/json"
	"testing"
)

func TestOKEnvelope(t *testing.T) {
	b, err := json.Marshal(OK().With("data", []int{1, 2}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["success"] != true {
		t.Error("expected success true")
	}
	if _, ok := out["data"]; !ok {
		t.Error("expected data field")
	}
}

func TestFailEnvelope(t *testing.T) {
	r := Fail("appointment not found")
	if r["success"] != false {
		t.Error("expected success false")
	}
	if r["message"] != "appointment not found" {
		t.Errorf("unexpected message: %v", r["message"])
	}
}

func TestValidator(t *testing.T) {
	type dto struct {
		Name string `validate:"required"`
	}
	v := NewValidator()
	if err := v.Validate(&dto{Name: "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := v.Validate(&dto{}); err == nil {
		t.Error("expected validation error for missing name")
	}
}
