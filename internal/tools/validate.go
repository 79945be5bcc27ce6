package tools

import (
	"encoding/json"
	"math"
)

// validateInput checks a tool call's arguments against the tool's declared
// input schema: every required field present, declared primitive types
// coercible. Unknown properties pass through untouched; tools that care
// reject them in their handler.
func validateInput(t Tool, input map[string]interface{}) error {
	if t.InputSchema == nil {
		return nil
	}
	if input == nil {
		input = map[string]interface{}{}
	}

	for _, field := range requiredFields(t.InputSchema) {
		if _, present := input[field]; !present {
			return &ArgumentError{Tool: t.Name, Field: field, Reason: "is required"}
		}
	}

	props, ok := t.InputSchema["properties"].(map[string]interface{})
	if !ok {
		return nil
	}
	for field, value := range input {
		def, ok := props[field].(map[string]interface{})
		if !ok {
			continue
		}
		want, ok := def["type"].(string)
		if !ok {
			continue
		}
		if !typeMatches(value, want) {
			return &ArgumentError{Tool: t.Name, Field: field, Reason: "has wrong type, expected " + want}
		}
	}
	return nil
}

// requiredFields tolerates both []string (schemas built in Go) and
// []interface{} (schemas decoded from JSON).
func requiredFields(schema map[string]interface{}) []string {
	switch req := schema["required"].(type) {
	case []string:
		return req
	case []interface{}:
		out := make([]string, 0, len(req))
		for _, f := range req {
			if s, ok := f.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func typeMatches(value interface{}, want string) bool {
	switch want {
	case "string":
		_, ok := value.(string)
		return ok
	case "number":
		return isNumber(value)
	case "integer":
		return isInteger(value)
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "object":
		_, ok := value.(map[string]interface{})
		return ok
	case "array":
		_, ok := value.([]interface{})
		return ok
	case "null":
		return value == nil
	}
	return true
}

func isNumber(value interface{}) bool {
	switch v := value.(type) {
	case float32, float64:
		return true
	case int, int8, int16, int32, int64:
		return true
	case uint, uint8, uint16, uint32, uint64:
		return true
	case json.Number:
		_, err := v.Float64()
		return err == nil
	}
	return false
}

func isInteger(value interface{}) bool {
	switch v := value.(type) {
	case int, int8, int16, int32, int64:
		return true
	case uint, uint8, uint16, uint32, uint64:
		return true
	case float32:
		return math.Trunc(float64(v)) == float64(v)
	case float64:
		return math.Trunc(v) == v
	case json.Number:
		_, err := v.Int64()
		return err == nil
	}
	return false
}
