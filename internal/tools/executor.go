package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/toolchat/toolchat/internal/chat"
)

// Executor resolves, validates and runs tool calls. Every fault class
// (unknown tool, bad arguments, handler error, panic, timeout) becomes an
// error-status ToolResult; Execute never fails in a way that would abort
// the conversation. The executor itself holds no state.
type Executor struct {
	registry *Registry
	timeout  time.Duration
}

// NewExecutor creates an executor. timeout bounds each handler invocation;
// zero means no bound.
func NewExecutor(registry *Registry, timeout time.Duration) *Executor {
	return &Executor{registry: registry, timeout: timeout}
}

// Execute runs one tool call and returns its result, carrying the call's
// correlation id.
func (e *Executor) Execute(ctx context.Context, call chat.ToolCall) chat.ToolResult {
	start := time.Now()

	tool, err := e.registry.Resolve(call.Name)
	if err != nil {
		log.Warn().Str("tool", call.Name).Str("call_id", call.CallID).Msg("unknown tool requested")
		return errorResult(call.CallID, err)
	}

	if err := validateInput(tool, call.Arguments); err != nil {
		log.Warn().Err(err).Str("tool", call.Name).Msg("tool argument validation failed")
		return errorResult(call.CallID, err)
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	out, err := e.invoke(ctx, tool, call.Arguments)

	log.Debug().
		Str("tool", call.Name).
		Str("call_id", call.CallID).
		Dur("duration", time.Since(start)).
		Bool("error", err != nil).
		Msg("tool executed")

	if err != nil {
		return errorResult(call.CallID, err)
	}
	return chat.ToolResult{CallID: call.CallID, Content: out}
}

// invoke runs the handler in its own goroutine so a stalled tool cannot
// hold the session past the execution budget. Panics are converted to
// errors at the goroutine boundary.
func (e *Executor) invoke(ctx context.Context, tool Tool, input map[string]interface{}) (string, error) {
	type outcome struct {
		out string
		err error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- outcome{err: fmt.Errorf("tool %s panicked: %v", tool.Name, rec)}
			}
		}()
		out, err := tool.Execute(ctx, input)
		done <- outcome{out: out, err: err}
	}()

	select {
	case o := <-done:
		return o.out, o.err
	case <-ctx.Done():
		return "", fmt.Errorf("tool %s: %w", tool.Name, ctx.Err())
	}
}

func errorResult(callID string, err error) chat.ToolResult {
	return chat.ToolResult{CallID: callID, Content: err.Error(), IsError: true}
}
