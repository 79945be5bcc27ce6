package agent

import (
	"context"

	"github.com/toolchat/toolchat/internal/chat"
	"github.com/toolchat/toolchat/internal/tools"
)

// ModelRequest carries one round's input: the full transcript so far plus
// the stable tool schema list.
type ModelRequest struct {
	System string
	Turns  []chat.Turn
	Tools  []tools.Tool
}

// ModelResponse is the model's answer to one round. Exactly two shapes:
// final text (no tool calls), or one or more tool calls optionally
// accompanied by partial text. Raw holds the provider's own message payload
// so the adapter can replay the assistant turn verbatim in later rounds.
type ModelResponse struct {
	Text      string
	ToolCalls []chat.ToolCall
	Raw       interface{}
}

// HasToolCalls reports whether the response requests tool dispatch.
func (r *ModelResponse) HasToolCalls() bool {
	return len(r.ToolCalls) > 0
}

// ModelClient is the model endpoint contract. Implementations own transport
// framing and authentication; Complete blocks for one round trip.
type ModelClient interface {
	Complete(ctx context.Context, req ModelRequest) (*ModelResponse, error)
}
