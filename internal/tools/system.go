package tools

import (
	"context"
	"runtime"
	"time"
)

// SystemInfoTool reports basic host and runtime information.
func SystemInfoTool() Tool {
	return Tool{
		Name:        "system_info",
		Description: "Get basic system and runtime information",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
		Execute: func(_ context.Context, _ map[string]interface{}) (string, error) {
			return marshalJSON(map[string]interface{}{
				"os":            runtime.GOOS,
				"arch":          runtime.GOARCH,
				"go_version":    runtime.Version(),
				"num_cpu":       runtime.NumCPU(),
				"timestamp_utc": time.Now().UTC().Format(time.RFC3339),
			})
		},
	}
}
