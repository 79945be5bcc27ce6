// Package tools defines the Tool type, the process-wide registry and the
// executor that runs tool calls on behalf of the orchestration loop.
package tools

import "context"

// Tool represents a callable function the LLM can invoke. InputSchema is a
// JSON Schema fragment ({"type":"object","properties":...,"required":...})
// and is never mutated after registration.
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]interface{}
	Execute     func(ctx context.Context, input map[string]interface{}) (string, error)
}
