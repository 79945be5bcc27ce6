package agent

import "fmt"

// ModelEndpointError wraps a transport-level failure talking to the model
// endpoint (network, auth, rate limit). It terminates the current user turn;
// it is never retried silently inside the loop.
type ModelEndpointError struct {
	Err error
}

func (e *ModelEndpointError) Error() string {
	return fmt.Sprintf("model endpoint: %v", e.Err)
}

func (e *ModelEndpointError) Unwrap() error { return e.Err }

// RoundLimitError reports that the loop hit the configured maximum number
// of tool-dispatch rounds for one user turn.
type RoundLimitError struct {
	Rounds int
}

func (e *RoundLimitError) Error() string {
	return fmt.Sprintf("tool round limit reached after %d rounds", e.Rounds)
}

// MalformedResponseError reports a model response that violates the tool
// calling contract, e.g. two tool calls sharing a call_id.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed model response: %s", e.Reason)
}
