package models

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// ChatResponse is returned by POST /api/v1/chat. Status is "success" for a
// final answer and "round_limit" when the loop closed the turn at the
// configured bound.
type ChatResponse struct {
	Status    string   `json:"status"`
	SessionID string   `json:"session_id"`
	Reply     string   `json:"reply"`
	Rounds    int      `json:"rounds"`
	ToolsUsed []string `json:"tools_used,omitempty"`
}

// ToolInfo describes one registered tool for GET /api/v1/tools.
type ToolInfo struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

// ToolListResponse is returned by GET /api/v1/tools.
type ToolListResponse struct {
	Tools []ToolInfo `json:"tools"`
	Count int        `json:"count"`
}
