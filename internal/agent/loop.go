// Package agent drives the multi-turn tool-calling loop: send transcript
// plus tool schemas to the model, dispatch any requested tool calls, feed
// results back, repeat until the model produces a final answer or the
// round limit is hit.
package agent

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/toolchat/toolchat/internal/chat"
	"github.com/toolchat/toolchat/internal/tools"
)

// Loop is the per-process orchestrator. It is stateless across calls; all
// conversation state lives in the transcript passed to Respond, so any
// number of sessions can share one Loop.
type Loop struct {
	model     ModelClient
	registry  *tools.Registry
	executor  *tools.Executor
	system    string
	maxRounds int
}

// Result summarizes one completed user turn.
type Result struct {
	Reply     string
	Rounds    int
	ToolsUsed []string
}

func NewLoop(model ModelClient, registry *tools.Registry, executor *tools.Executor, system string, maxRounds int) *Loop {
	if maxRounds <= 0 {
		maxRounds = 10
	}
	return &Loop{
		model:     model,
		registry:  registry,
		executor:  executor,
		system:    system,
		maxRounds: maxRounds,
	}
}

// Respond appends userText to the transcript and runs model rounds until a
// final answer. Tool failures are fed back to the model and never abort the
// loop; model endpoint failures and malformed responses terminate the turn
// with the transcript left at the last fully appended turn.
//
// When the round limit is hit, Respond appends a synthesized final turn,
// and returns it together with a *RoundLimitError so the caller can report
// the bound to the front-end.
func (l *Loop) Respond(ctx context.Context, transcript *chat.Transcript, userText string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := transcript.Append(chat.NewUserTurn(userText)); err != nil {
		return nil, err
	}

	var toolsUsed []string

	for round := 1; ; round++ {
		resp, err := l.model.Complete(ctx, ModelRequest{
			System: l.system,
			Turns:  transcript.Turns(),
			Tools:  l.registry.List(),
		})
		if err != nil {
			return nil, &ModelEndpointError{Err: err}
		}

		log.Debug().
			Int("round", round).
			Int("tool_calls", len(resp.ToolCalls)).
			Str("text_preview", preview(resp.Text, 80)).
			Msg("model round")

		if !resp.HasToolCalls() {
			if err := transcript.Append(chat.NewAssistantTurn(resp.Text, nil, resp.Raw)); err != nil {
				return nil, err
			}
			return &Result{Reply: resp.Text, Rounds: round, ToolsUsed: toolsUsed}, nil
		}

		if err := checkCallIDs(resp.ToolCalls); err != nil {
			return nil, err
		}

		// Round bound: refuse to dispatch further, close the turn with a
		// synthesized answer so the transcript stays well formed.
		if round > l.maxRounds {
			reply := fmt.Sprintf(
				"I was unable to finish: the tool call limit (%d rounds) was reached before a final answer.",
				l.maxRounds)
			if err := transcript.Append(chat.NewAssistantTurn(reply, nil, nil)); err != nil {
				return nil, err
			}
			// Rounds counts completed dispatch rounds, matching the error.
			res := &Result{Reply: reply, Rounds: l.maxRounds, ToolsUsed: toolsUsed}
			return res, &RoundLimitError{Rounds: l.maxRounds}
		}

		if err := transcript.Append(chat.NewAssistantTurn(resp.Text, resp.ToolCalls, resp.Raw)); err != nil {
			return nil, err
		}

		results, err := l.dispatch(ctx, resp.ToolCalls)
		if err != nil {
			return nil, err
		}
		for i, res := range results {
			if err := transcript.Append(chat.NewToolTurn(res)); err != nil {
				return nil, err
			}
			toolsUsed = append(toolsUsed, resp.ToolCalls[i].Name)
		}
	}
}

// dispatch executes a round's tool calls concurrently but returns results
// in the order the model emitted the calls, so the appended transcript is
// independent of execution interleaving.
func (l *Loop) dispatch(ctx context.Context, calls []chat.ToolCall) ([]chat.ToolResult, error) {
	results := make([]chat.ToolResult, len(calls))

	g, gctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		i, call := i, call
		g.Go(func() error {
			results[i] = l.executor.Execute(gctx, call)
			return nil
		})
	}
	// Executor converts every fault into a result, so Wait only fails on a
	// context-level problem.
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// checkCallIDs rejects a response reusing a call_id within one round;
// result correlation would be ambiguous otherwise.
func checkCallIDs(calls []chat.ToolCall) error {
	seen := make(map[string]bool, len(calls))
	for _, call := range calls {
		if call.CallID == "" {
			return &MalformedResponseError{Reason: "tool call missing call_id"}
		}
		if seen[call.CallID] {
			return &MalformedResponseError{Reason: "duplicate call_id " + call.CallID}
		}
		seen[call.CallID] = true
	}
	return nil
}

func preview(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
