package tools_test

import (
	"context"
	"errors"
	"testing"

	"github.com/toolchat/toolchat/internal/tools"
)

func stubTool(name string) tools.Tool {
	return tools.Tool{
		Name:        name,
		Description: "stub",
		InputSchema: map[string]interface{}{"type": "object", "properties": map[string]interface{}{}},
		Execute: func(_ context.Context, _ map[string]interface{}) (string, error) {
			return "{}", nil
		},
	}
}

func TestRegistryDuplicateName(t *testing.T) {
	r := tools.NewRegistry()
	if err := r.Register(stubTool("calculator")); err != nil {
		t.Fatal(err)
	}

	err := r.Register(stubTool("calculator"))
	var dup *tools.DuplicateToolError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateToolError, got %v", err)
	}
	if dup.Name != "calculator" {
		t.Errorf("dup.Name = %q", dup.Name)
	}
	if r.Len() != 1 {
		t.Errorf("failed register must not grow registry, len = %d", r.Len())
	}
}

func TestRegistryResolveUnknown(t *testing.T) {
	r := tools.NewRegistry()

	_, err := r.Resolve("nope")
	var unknown *tools.UnknownToolError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownToolError, got %v", err)
	}
}

func TestRegistryListStableOrder(t *testing.T) {
	r := tools.NewRegistry()
	names := []string{"calculator", "create_note", "get_current_time", "system_info"}
	for _, n := range names {
		if err := r.Register(stubTool(n)); err != nil {
			t.Fatal(err)
		}
	}

	first := r.List()
	second := r.List()
	if len(first) != len(names) || len(second) != len(names) {
		t.Fatalf("list lengths = %d, %d, want %d", len(first), len(second), len(names))
	}
	for i, n := range names {
		if first[i].Name != n {
			t.Errorf("first[%d] = %q, want %q (registration order)", i, first[i].Name, n)
		}
		if second[i].Name != first[i].Name {
			t.Errorf("List() not idempotent at %d: %q vs %q", i, second[i].Name, first[i].Name)
		}
	}
}

func TestRegisterAllStopsAtFirstFailure(t *testing.T) {
	r := tools.NewRegistry()
	err := r.RegisterAll(stubTool("a"), stubTool("a"), stubTool("b"))
	if err == nil {
		t.Fatal("expected error on duplicate")
	}
	if _, err := r.Resolve("b"); err == nil {
		t.Error("tool after the failing one must not be registered")
	}
}
