package domain

import "testing"

func TestLabelPattern(t *testing.T) {
	pattern := LabelPattern([]string{LabelVirtualMachine, LabelApp})
	if pattern != ":App:VirtualMachine" {
		t.Fatalf("unexpected pattern %s", pattern)
	}
	if LabelPattern(nil) != "" {
		t.Fatalf("expected empty pattern for no labels")
	}
}

func TestValidateLabels(t *testing.T) {
	if err := ValidateLabels([]string{LabelApp, LabelIDC}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateLabels([]string{"App) DETACH DELETE (x"}); err == nil {
		t.Fatalf("expected error for unknown label")
	}
}
