package tools_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/toolchat/toolchat/internal/service"
	"github.com/toolchat/toolchat/internal/tools"
)

func mustUnmarshal(t *testing.T, s string) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, s)
	}
	return out
}

// ─── Calculator ───────────────────────────────────────────────────────────────

func TestCalculator(t *testing.T) {
	calc := tools.CalculatorTool()

	tests := []struct {
		op   string
		a, b float64
		want float64
	}{
		{"add", 2, 3, 5},
		{"subtract", 10, 4, 6},
		{"multiply", 25, 8, 200},
		{"divide", 100, 5, 20},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			out, err := calc.Execute(context.Background(), map[string]interface{}{
				"operation": tt.op, "a": tt.a, "b": tt.b,
			})
			if err != nil {
				t.Fatal(err)
			}
			got := mustUnmarshal(t, out)
			if got["result"] != tt.want {
				t.Errorf("result = %v, want %v", got["result"], tt.want)
			}
		})
	}
}

func TestCalculatorFaults(t *testing.T) {
	calc := tools.CalculatorTool()

	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"divide by zero", map[string]interface{}{"operation": "divide", "a": float64(1), "b": float64(0)}, "divide by zero"},
		{"unknown operation", map[string]interface{}{"operation": "modulo", "a": float64(1), "b": float64(2)}, "unknown operation"},
		{"non-numeric operand", map[string]interface{}{"operation": "add", "a": "x", "b": float64(2)}, "expected a number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.Execute(context.Background(), tt.args)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want substring %q", err, tt.want)
			}
		})
	}
}

// ─── Notes ────────────────────────────────────────────────────────────────────

func TestNotesToolsFlow(t *testing.T) {
	ctx := context.Background()
	store := service.NewMemoryNotes()

	create := tools.CreateNoteTool(store)
	out, err := create.Execute(ctx, map[string]interface{}{"title": "Test", "content": "Hello World"})
	if err != nil {
		t.Fatal(err)
	}
	created := mustUnmarshal(t, out)
	id, _ := created["id"].(string)
	if id != "note-1" {
		t.Errorf("first note id = %q, want note-1", id)
	}

	get := tools.GetNoteTool(store)
	out, err = get.Execute(ctx, map[string]interface{}{"id": id})
	if err != nil {
		t.Fatal(err)
	}
	fetched := mustUnmarshal(t, out)
	if fetched["title"] != "Test" || fetched["content"] != "Hello World" {
		t.Errorf("fetched = %v", fetched)
	}

	list := tools.ListNotesTool(store)
	out, err = list.Execute(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, id) {
		t.Errorf("list output %q should include %q", out, id)
	}

	del := tools.DeleteNoteTool(store)
	if _, err := del.Execute(ctx, map[string]interface{}{"id": id}); err != nil {
		t.Fatal(err)
	}
	if _, err := get.Execute(ctx, map[string]interface{}{"id": id}); err == nil {
		t.Error("get after delete should fail")
	}
	if _, err := del.Execute(ctx, map[string]interface{}{"id": "note-99"}); err == nil {
		t.Error("deleting an unknown note should fail")
	}
}

// ─── Time ─────────────────────────────────────────────────────────────────────

func TestCurrentTimeTool(t *testing.T) {
	tool := tools.CurrentTimeTool()

	out, err := tool.Execute(context.Background(), map[string]interface{}{"timezone": "Asia/Tokyo"})
	if err != nil {
		t.Fatal(err)
	}
	got := mustUnmarshal(t, out)
	if got["timezone"] != "Asia/Tokyo" {
		t.Errorf("timezone = %v", got["timezone"])
	}
	for _, key := range []string{"datetime", "date", "time", "day_of_week"} {
		if got[key] == "" || got[key] == nil {
			t.Errorf("missing %q in %v", key, got)
		}
	}

	// Empty timezone defaults to UTC
	out, err = tool.Execute(context.Background(), map[string]interface{}{})
	if err != nil {
		t.Fatal(err)
	}
	if got := mustUnmarshal(t, out); got["timezone"] != "UTC" {
		t.Errorf("default timezone = %v, want UTC", got["timezone"])
	}

	if _, err := tool.Execute(context.Background(), map[string]interface{}{"timezone": "Mars/Olympus"}); err == nil {
		t.Error("unknown timezone should fail")
	}
}

func TestListTimezonesTool(t *testing.T) {
	out, err := tools.ListTimezonesTool().Execute(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	got := mustUnmarshal(t, out)
	zones, ok := got["common_timezones"].([]interface{})
	if !ok || len(zones) == 0 {
		t.Fatalf("common_timezones missing: %v", got)
	}
	if zones[0] != "UTC" {
		t.Errorf("first zone = %v, want UTC", zones[0])
	}
}

// ─── System info ──────────────────────────────────────────────────────────────

func TestSystemInfoTool(t *testing.T) {
	out, err := tools.SystemInfoTool().Execute(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	got := mustUnmarshal(t, out)
	for _, key := range []string{"os", "arch", "go_version", "timestamp_utc"} {
		if got[key] == "" || got[key] == nil {
			t.Errorf("missing %q in %v", key, got)
		}
	}
}
