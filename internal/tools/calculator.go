package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

// CalculatorTool performs basic arithmetic. Division by zero is a handler
// fault the executor reports back to the model as an error result.
func CalculatorTool() Tool {
	return Tool{
		Name:        "calculator",
		Description: "Perform basic arithmetic operations (add, subtract, multiply, divide)",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"operation": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"add", "subtract", "multiply", "divide"},
					"description": "The arithmetic operation to perform",
				},
				"a": map[string]interface{}{
					"type":        "number",
					"description": "First number",
				},
				"b": map[string]interface{}{
					"type":        "number",
					"description": "Second number",
				},
			},
			"required": []string{"operation", "a", "b"},
		},
		Execute: func(_ context.Context, input map[string]interface{}) (string, error) {
			operation, _ := input["operation"].(string)
			a, err := toFloat(input["a"])
			if err != nil {
				return "", fmt.Errorf("a: %w", err)
			}
			b, err := toFloat(input["b"])
			if err != nil {
				return "", fmt.Errorf("b: %w", err)
			}

			var result float64
			switch operation {
			case "add":
				result = a + b
			case "subtract":
				result = a - b
			case "multiply":
				result = a * b
			case "divide":
				if b == 0 {
					return "", fmt.Errorf("cannot divide by zero")
				}
				result = a / b
			default:
				return "", fmt.Errorf("unknown operation: %s", operation)
			}

			out, err := json.Marshal(map[string]interface{}{
				"operation": operation,
				"a":         a,
				"b":         b,
				"result":    result,
			})
			if err != nil {
				return "", fmt.Errorf("marshal result: %w", err)
			}
			return string(out), nil
		},
	}
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	}
	return 0, fmt.Errorf("expected a number, got %T", v)
}
