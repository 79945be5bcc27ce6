package tools

import (
	"context"
	"fmt"
	"time"
)

var commonTimezones = []string{
	"UTC",
	"America/New_York",
	"America/Los_Angeles",
	"America/Chicago",
	"Europe/London",
	"Europe/Paris",
	"Asia/Tokyo",
	"Asia/Shanghai",
	"Australia/Sydney",
}

// CurrentTimeTool reports the current time in an IANA timezone.
func CurrentTimeTool() Tool {
	return Tool{
		Name:        "get_current_time",
		Description: "Get current time in a specific timezone",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"timezone": map[string]interface{}{
					"type":        "string",
					"description": "Timezone name (e.g., 'UTC', 'America/New_York', 'Asia/Tokyo'). Defaults to 'UTC'",
					"default":     "UTC",
				},
			},
		},
		Execute: func(_ context.Context, input map[string]interface{}) (string, error) {
			tz, _ := input["timezone"].(string)
			if tz == "" {
				tz = "UTC"
			}

			loc, err := time.LoadLocation(tz)
			if err != nil {
				return "", fmt.Errorf("unknown timezone: %s", tz)
			}

			now := time.Now().In(loc)
			return marshalJSON(map[string]interface{}{
				"timezone":    tz,
				"datetime":    now.Format(time.RFC3339),
				"date":        now.Format("2006-01-02"),
				"time":        now.Format("15:04:05"),
				"day_of_week": now.Weekday().String(),
			})
		},
	}
}

// ListTimezonesTool lists the curated set of common timezones.
func ListTimezonesTool() Tool {
	return Tool{
		Name:        "list_timezones",
		Description: "List common available timezones",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
		Execute: func(_ context.Context, _ map[string]interface{}) (string, error) {
			return marshalJSON(map[string]interface{}{
				"common_timezones": commonTimezones,
				"count":            len(commonTimezones),
			})
		},
	}
}
