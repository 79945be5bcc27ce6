package models

// ChatRequest for POST /api/v1/chat. SessionID empty means "start a new
// session"; the response carries the id to continue with.
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
	Timeout   int    `json:"timeout,omitempty"` // seconds, whole user turn
}

func (r *ChatRequest) SetDefaults() {
	if r.Timeout == 0 {
		r.Timeout = 300
	}
	if r.Timeout < 10 {
		r.Timeout = 10
	}
	if r.Timeout > 600 {
		r.Timeout = 600
	}
}
