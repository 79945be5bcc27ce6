package chat

import (
	"errors"
	"fmt"
)

var (
	// ErrOrphanToolResult is returned when a tool turn does not correlate
	// to a pending tool call from the preceding assistant turn.
	ErrOrphanToolResult = errors.New("tool result does not match any pending tool call")

	// ErrDuplicateToolResult is returned when a call_id is answered twice.
	ErrDuplicateToolResult = errors.New("tool call already has a result")
)

// Transcript is the ordered, append-only turn sequence for one session.
// It is not safe for concurrent use; the owning session serializes access.
type Transcript struct {
	turns   []Turn
	pending map[string]bool // call_ids awaiting a tool result
}

func NewTranscript() *Transcript {
	return &Transcript{pending: make(map[string]bool)}
}

// Append validates the turn against the transcript invariants and adds it.
// A tool turn must answer exactly one pending call_id from the most recent
// assistant turn; an assistant turn with tool calls resets the pending set.
func (t *Transcript) Append(turn Turn) error {
	switch turn.Role {
	case RoleUser:
		t.turns = append(t.turns, turn)
	case RoleAssistant:
		t.pending = make(map[string]bool, len(turn.ToolCalls))
		for _, tc := range turn.ToolCalls {
			t.pending[tc.CallID] = true
		}
		t.turns = append(t.turns, turn)
	case RoleTool:
		if turn.Result == nil {
			return fmt.Errorf("tool turn missing result")
		}
		id := turn.Result.CallID
		pending, known := t.pending[id]
		if !known {
			return fmt.Errorf("%w: call_id %q", ErrOrphanToolResult, id)
		}
		if !pending {
			return fmt.Errorf("%w: call_id %q", ErrDuplicateToolResult, id)
		}
		t.pending[id] = false
		t.turns = append(t.turns, turn)
	default:
		return fmt.Errorf("unknown turn role %q", turn.Role)
	}
	return nil
}

// Turns returns a copy of the turn sequence.
func (t *Transcript) Turns() []Turn {
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

func (t *Transcript) Len() int {
	return len(t.turns)
}

// Last returns the most recent turn, or false for an empty transcript.
func (t *Transcript) Last() (Turn, bool) {
	if len(t.turns) == 0 {
		return Turn{}, false
	}
	return t.turns[len(t.turns)-1], true
}
