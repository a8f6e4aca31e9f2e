package validator

import (
	"strings"
	"testing"
)

func TestCheckCollectsAllViolations(t *testing.T) {
	errs := Check(map[string]string{
		"name":     "a",
		"email":    "bad",
		"password": "12",
	}, RegisterRules)

	if len(errs) != 3 {
		t.Fatalf("expected 3 violations, got %d: %v", len(errs), errs)
	}
	for _, field := range []string{"name", "email", "password"} {
		if errs[field] == "" {
			t.Errorf("expected violation for %s", field)
		}
	}
	if !strings.Contains(errs["password"], "at least 6") {
		t.Errorf("password message should reference the minimum length, got %q", errs["password"])
	}
}

func TestCheckValidPayload(t *testing.T) {
	errs := Check(map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "secret123",
	}, RegisterRules)

	if errs.HasErrors() {
		t.Fatalf("expected no violations, got %v", errs)
	}
}

func TestCheckRequiredBeatsMinLen(t *testing.T) {
	errs := Check(map[string]string{"title": "   ", "content": ""}, PostRules)

	if len(errs) != 2 {
		t.Fatalf("expected 2 violations, got %v", errs)
	}
	if !strings.Contains(errs["title"], "required") {
		t.Errorf("whitespace-only title should be reported as required, got %q", errs["title"])
	}
}

func TestCheckTrimsBeforeLengthCheck(t *testing.T) {
	errs := Check(map[string]string{"title": "  ab  ", "content": "long enough"}, PostRules)

	if errs["title"] == "" {
		t.Fatal("expected title min-length violation after trimming")
	}
	if errs["content"] != "" {
		t.Fatalf("content should pass, got %q", errs["content"])
	}
}

func TestCheckOptionalFieldSkippedWhenEmpty(t *testing.T) {
	rules := []Rule{{Field: "nickname", MinLen: 3}}
	if errs := Check(map[string]string{}, rules); errs.HasErrors() {
		t.Fatalf("empty optional field should not violate, got %v", errs)
	}
}
