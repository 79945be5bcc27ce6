// Package chat holds the conversation transcript shared between the
// orchestration loop and the model adapter. The transcript is append-only:
// turns are never edited or removed once accepted.
package chat

import "time"

// Role discriminates the three kinds of conversation turns.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a single tool invocation requested by the model.
type ToolCall struct {
	CallID    string
	Name      string
	Arguments map[string]interface{}
}

// ToolResult is the outcome of executing one ToolCall. IsError covers
// unknown tools, argument validation failures and handler faults alike;
// the loop feeds all of them back to the model instead of aborting.
type ToolResult struct {
	CallID  string
	Content string
	IsError bool
}

// Turn is one entry in the transcript.
//
// Exactly one shape per role:
//   - user: Text
//   - assistant: Text and/or ToolCalls; Raw optionally carries the
//     provider's own message payload so the adapter can replay it verbatim
//   - tool: a single Result correlated to a prior assistant ToolCall
type Turn struct {
	Role      Role
	Text      string
	ToolCalls []ToolCall
	Result    *ToolResult
	Raw       interface{}
	CreatedAt time.Time
}

// NewUserTurn builds a user turn from raw input text.
func NewUserTurn(text string) Turn {
	return Turn{Role: RoleUser, Text: text, CreatedAt: time.Now().UTC()}
}

// NewAssistantTurn builds an assistant turn; calls may be nil for a plain
// text answer.
func NewAssistantTurn(text string, calls []ToolCall, raw interface{}) Turn {
	return Turn{
		Role:      RoleAssistant,
		Text:      text,
		ToolCalls: calls,
		Raw:       raw,
		CreatedAt: time.Now().UTC(),
	}
}

// NewToolTurn builds a tool turn carrying one result.
func NewToolTurn(res ToolResult) Turn {
	r := res
	return Turn{Role: RoleTool, Result: &r, CreatedAt: time.Now().UTC()}
}
