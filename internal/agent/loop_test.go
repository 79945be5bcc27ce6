package agent_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/toolchat/toolchat/internal/agent"
	"github.com/toolchat/toolchat/internal/chat"
	"github.com/toolchat/toolchat/internal/service"
	"github.com/toolchat/toolchat/internal/tools"
)

// scriptedModel plays back a fixed sequence of responses, one per round.
// It records every request it receives for later assertions.
type scriptedModel struct {
	responses []*agent.ModelResponse
	errs      []error
	requests  []agent.ModelRequest
	round     int
}

func (m *scriptedModel) Complete(_ context.Context, req agent.ModelRequest) (*agent.ModelResponse, error) {
	m.requests = append(m.requests, req)
	i := m.round
	m.round++
	if i < len(m.errs) && m.errs[i] != nil {
		return nil, m.errs[i]
	}
	if i >= len(m.responses) {
		return nil, fmt.Errorf("script exhausted at round %d", i+1)
	}
	return m.responses[i], nil
}

// callsForever requests the same tool every round, never finishing.
type callsForever struct {
	name  string
	round atomic.Int64
}

func (m *callsForever) Complete(_ context.Context, _ agent.ModelRequest) (*agent.ModelResponse, error) {
	n := m.round.Add(1)
	return &agent.ModelResponse{
		ToolCalls: []chat.ToolCall{{
			CallID:    fmt.Sprintf("call_%d", n),
			Name:      m.name,
			Arguments: map[string]interface{}{},
		}},
	}, nil
}

func finalText(text string) *agent.ModelResponse {
	return &agent.ModelResponse{Text: text}
}

func toolCalls(calls ...chat.ToolCall) *agent.ModelResponse {
	return &agent.ModelResponse{ToolCalls: calls}
}

func echoTool(name string) tools.Tool {
	return tools.Tool{
		Name:        name,
		Description: "echoes its value argument",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"value": map[string]interface{}{"type": "string"},
			},
		},
		Execute: func(_ context.Context, input map[string]interface{}) (string, error) {
			value, _ := input["value"].(string)
			return "echo:" + value, nil
		},
	}
}

func newLoop(t *testing.T, model agent.ModelClient, maxRounds int, toolset ...tools.Tool) *agent.Loop {
	t.Helper()
	registry := tools.NewRegistry()
	if err := registry.RegisterAll(toolset...); err != nil {
		t.Fatal(err)
	}
	executor := tools.NewExecutor(registry, 0)
	return agent.NewLoop(model, registry, executor, "You are a helpful assistant.", maxRounds)
}

// ─── Plain answer, no tools ───────────────────────────────────────────────────

func TestRespondDirectAnswer(t *testing.T) {
	model := &scriptedModel{responses: []*agent.ModelResponse{finalText("Hi there!")}}
	loop := newLoop(t, model, 10, echoTool("echo"))
	transcript := chat.NewTranscript()

	res, err := loop.Respond(context.Background(), transcript, "Hello")
	if err != nil {
		t.Fatal(err)
	}
	if res.Reply != "Hi there!" || res.Rounds != 1 || len(res.ToolsUsed) != 0 {
		t.Errorf("res = %+v", res)
	}

	// user turn + assistant turn
	if transcript.Len() != 2 {
		t.Fatalf("transcript len = %d, want 2", transcript.Len())
	}
	turns := transcript.Turns()
	if turns[0].Role != chat.RoleUser || turns[0].Text != "Hello" {
		t.Errorf("turns[0] = %+v", turns[0])
	}
	if turns[1].Role != chat.RoleAssistant || turns[1].Text != "Hi there!" {
		t.Errorf("turns[1] = %+v", turns[1])
	}
}

// ─── Single tool round ────────────────────────────────────────────────────────

func TestRespondWithOneToolRound(t *testing.T) {
	model := &scriptedModel{responses: []*agent.ModelResponse{
		toolCalls(chat.ToolCall{CallID: "call_1", Name: "echo", Arguments: map[string]interface{}{"value": "ping"}}),
		finalText("The tool said echo:ping."),
	}}
	loop := newLoop(t, model, 10, echoTool("echo"))
	transcript := chat.NewTranscript()

	res, err := loop.Respond(context.Background(), transcript, "Use the echo tool")
	if err != nil {
		t.Fatal(err)
	}
	if res.Rounds != 2 {
		t.Errorf("rounds = %d, want 2", res.Rounds)
	}
	if len(res.ToolsUsed) != 1 || res.ToolsUsed[0] != "echo" {
		t.Errorf("tools used = %v", res.ToolsUsed)
	}

	// user, assistant(call), tool, assistant(final)
	turns := transcript.Turns()
	if len(turns) != 4 {
		t.Fatalf("transcript len = %d, want 4", len(turns))
	}
	if turns[2].Role != chat.RoleTool || turns[2].Result == nil {
		t.Fatalf("turns[2] = %+v", turns[2])
	}
	if turns[2].Result.CallID != "call_1" || turns[2].Result.Content != "echo:ping" {
		t.Errorf("tool result = %+v", turns[2].Result)
	}
	if turns[2].Result.IsError {
		t.Error("result should not be an error")
	}

	// The second request must include the tool result turn.
	second := model.requests[1]
	if len(second.Turns) != 3 {
		t.Errorf("second request turns = %d, want 3", len(second.Turns))
	}
}

// ─── Batch ordering ───────────────────────────────────────────────────────────

func TestRespondBatchResultsFollowEmissionOrder(t *testing.T) {
	calls := []chat.ToolCall{
		{CallID: "call_a", Name: "echo", Arguments: map[string]interface{}{"value": "a"}},
		{CallID: "call_b", Name: "echo", Arguments: map[string]interface{}{"value": "b"}},
		{CallID: "call_c", Name: "echo", Arguments: map[string]interface{}{"value": "c"}},
	}
	model := &scriptedModel{responses: []*agent.ModelResponse{
		toolCalls(calls...),
		finalText("done"),
	}}
	loop := newLoop(t, model, 10, echoTool("echo"))
	transcript := chat.NewTranscript()

	if _, err := loop.Respond(context.Background(), transcript, "run three"); err != nil {
		t.Fatal(err)
	}

	turns := transcript.Turns()
	// user, assistant, 3 tool turns, assistant
	if len(turns) != 6 {
		t.Fatalf("transcript len = %d, want 6", len(turns))
	}
	for i, want := range []string{"call_a", "call_b", "call_c"} {
		got := turns[2+i]
		if got.Role != chat.RoleTool || got.Result.CallID != want {
			t.Errorf("turns[%d] call_id = %v, want %s", 2+i, got.Result, want)
		}
	}
}

// ─── Tool faults feed back, never abort ───────────────────────────────────────

func TestRespondToolFaultContinuesLoop(t *testing.T) {
	failing := tools.Tool{
		Name:        "flaky",
		Description: "always fails",
		InputSchema: map[string]interface{}{"type": "object", "properties": map[string]interface{}{}},
		Execute: func(_ context.Context, _ map[string]interface{}) (string, error) {
			return "", errors.New("backend unavailable")
		},
	}
	model := &scriptedModel{responses: []*agent.ModelResponse{
		toolCalls(chat.ToolCall{CallID: "call_1", Name: "flaky", Arguments: map[string]interface{}{}}),
		finalText("The tool failed, sorry."),
	}}
	loop := newLoop(t, model, 10, failing)
	transcript := chat.NewTranscript()

	res, err := loop.Respond(context.Background(), transcript, "try it")
	if err != nil {
		t.Fatal(err)
	}
	if res.Reply != "The tool failed, sorry." {
		t.Errorf("reply = %q", res.Reply)
	}

	turns := transcript.Turns()
	result := turns[2].Result
	if result == nil || !result.IsError {
		t.Fatalf("expected error result, got %+v", result)
	}
	if !strings.Contains(result.Content, "backend unavailable") {
		t.Errorf("result content = %q", result.Content)
	}
}

func TestRespondUnknownToolFedBack(t *testing.T) {
	model := &scriptedModel{responses: []*agent.ModelResponse{
		toolCalls(chat.ToolCall{CallID: "call_1", Name: "no_such_tool", Arguments: map[string]interface{}{}}),
		finalText("I cannot use that tool."),
	}}
	loop := newLoop(t, model, 10, echoTool("echo"))
	transcript := chat.NewTranscript()

	if _, err := loop.Respond(context.Background(), transcript, "go"); err != nil {
		t.Fatal(err)
	}

	result := transcript.Turns()[2].Result
	if result == nil || !result.IsError || !strings.Contains(result.Content, "unknown tool") {
		t.Errorf("result = %+v", result)
	}
}

// ─── Model endpoint failure is terminal ───────────────────────────────────────

func TestRespondModelEndpointFailure(t *testing.T) {
	model := &scriptedModel{errs: []error{errors.New("connection refused")}}
	loop := newLoop(t, model, 10, echoTool("echo"))
	transcript := chat.NewTranscript()

	_, err := loop.Respond(context.Background(), transcript, "hello")
	var endpointErr *agent.ModelEndpointError
	if !errors.As(err, &endpointErr) {
		t.Fatalf("err = %v, want *ModelEndpointError", err)
	}
	// The user turn stays appended; nothing after it.
	if transcript.Len() != 1 {
		t.Errorf("transcript len = %d, want 1", transcript.Len())
	}
}

// ─── Malformed responses ──────────────────────────────────────────────────────

func TestRespondRejectsDuplicateCallIDs(t *testing.T) {
	model := &scriptedModel{responses: []*agent.ModelResponse{
		toolCalls(
			chat.ToolCall{CallID: "call_1", Name: "echo", Arguments: map[string]interface{}{}},
			chat.ToolCall{CallID: "call_1", Name: "echo", Arguments: map[string]interface{}{}},
		),
	}}
	loop := newLoop(t, model, 10, echoTool("echo"))

	_, err := loop.Respond(context.Background(), chat.NewTranscript(), "go")
	var malformed *agent.MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want *MalformedResponseError", err)
	}
}

func TestRespondRejectsMissingCallID(t *testing.T) {
	model := &scriptedModel{responses: []*agent.ModelResponse{
		toolCalls(chat.ToolCall{Name: "echo", Arguments: map[string]interface{}{}}),
	}}
	loop := newLoop(t, model, 10, echoTool("echo"))

	_, err := loop.Respond(context.Background(), chat.NewTranscript(), "go")
	var malformed *agent.MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want *MalformedResponseError", err)
	}
}

// ─── Round bound ──────────────────────────────────────────────────────────────

func TestRespondRoundLimit(t *testing.T) {
	model := &callsForever{name: "echo"}
	loop := newLoop(t, model, 3, echoTool("echo"))
	transcript := chat.NewTranscript()

	res, err := loop.Respond(context.Background(), transcript, "loop forever")

	var limitErr *agent.RoundLimitError
	if !errors.As(err, &limitErr) {
		t.Fatalf("err = %v, want *RoundLimitError", err)
	}
	if limitErr.Rounds != 3 {
		t.Errorf("limit = %d, want 3", limitErr.Rounds)
	}
	if res == nil {
		t.Fatal("result should accompany the round limit error")
	}
	if res.Rounds != limitErr.Rounds {
		t.Errorf("result rounds = %d, error rounds = %d, want equal", res.Rounds, limitErr.Rounds)
	}
	if !strings.Contains(res.Reply, "limit") {
		t.Errorf("reply = %q", res.Reply)
	}
	// 3 dispatched rounds worth of tool use.
	if len(res.ToolsUsed) != 3 {
		t.Errorf("tools used = %v", res.ToolsUsed)
	}

	// Transcript ends on the synthesized assistant turn.
	last, ok := transcript.Last()
	if !ok || last.Role != chat.RoleAssistant || last.Text != res.Reply {
		t.Errorf("last turn = %+v", last)
	}
}

// ─── End-to-end scenarios with the real tools ─────────────────────────────────

func TestRespondCalculatorScenario(t *testing.T) {
	model := &scriptedModel{responses: []*agent.ModelResponse{
		toolCalls(chat.ToolCall{
			CallID: "call_1",
			Name:   "calculator",
			Arguments: map[string]interface{}{
				"operation": "multiply", "a": float64(25), "b": float64(8),
			},
		}),
		finalText("25 times 8 is 200."),
	}}
	loop := newLoop(t, model, 10, tools.CalculatorTool())
	transcript := chat.NewTranscript()

	res, err := loop.Respond(context.Background(), transcript, "What's 25 times 8?")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Reply, "200") {
		t.Errorf("reply = %q", res.Reply)
	}

	result := transcript.Turns()[2].Result
	if result.IsError || !strings.Contains(result.Content, "200") {
		t.Errorf("tool result = %+v", result)
	}
}

func TestRespondNotesScenario(t *testing.T) {
	store := service.NewMemoryNotes()
	model := &scriptedModel{responses: []*agent.ModelResponse{
		toolCalls(chat.ToolCall{
			CallID: "call_1",
			Name:   "create_note",
			Arguments: map[string]interface{}{
				"title": "Test", "content": "Hello World",
			},
		}),
		finalText("Created note-1."),
		toolCalls(chat.ToolCall{CallID: "call_2", Name: "list_notes", Arguments: map[string]interface{}{}}),
		finalText("You have one note: Test."),
	}}
	loop := newLoop(t, model, 10,
		tools.CreateNoteTool(store), tools.ListNotesTool(store))
	transcript := chat.NewTranscript()

	ctx := context.Background()
	if _, err := loop.Respond(ctx, transcript, "Create a note titled 'Test' with content 'Hello World'"); err != nil {
		t.Fatal(err)
	}
	if _, err := loop.Respond(ctx, transcript, "List all my notes"); err != nil {
		t.Fatal(err)
	}

	// The list_notes result in the second user turn must include the note
	// created in the first.
	turns := transcript.Turns()
	listResult := turns[len(turns)-2].Result
	if listResult == nil || !strings.Contains(listResult.Content, "note-1") {
		t.Errorf("list result = %+v", listResult)
	}
	if !strings.Contains(listResult.Content, "Hello World") {
		t.Errorf("list result content = %q", listResult.Content)
	}
}

// ─── Cancellation ─────────────────────────────────────────────────────────────

func TestRespondCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	model := &scriptedModel{responses: []*agent.ModelResponse{finalText("never")}}
	loop := newLoop(t, model, 10, echoTool("echo"))
	transcript := chat.NewTranscript()

	if _, err := loop.Respond(ctx, transcript, "hello"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if transcript.Len() != 0 {
		t.Errorf("transcript len = %d, want 0", transcript.Len())
	}
	if len(model.requests) != 0 {
		t.Errorf("model should not be called, got %d requests", len(model.requests))
	}
}
