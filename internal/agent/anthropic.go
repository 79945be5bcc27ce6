package agent

import (
	"context"
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog/log"
	"github.com/toolchat/toolchat/internal/chat"
	"github.com/toolchat/toolchat/internal/tools"
)

// AnthropicClient implements ModelClient against Anthropic Claude or a
// compatible provider behind a custom base URL.
type AnthropicClient struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

func NewAnthropicClient(apiKey, model, baseURL string) *AnthropicClient {
	if model == "" {
		model = "claude-sonnet-4-6"
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &AnthropicClient{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: 4096,
	}
}

// Complete sends the transcript plus tool schemas and parses the response
// into the tagged ModelResponse shape.
func (c *AnthropicClient) Complete(ctx context.Context, req ModelRequest) (*ModelResponse, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.F(anthropic.Model(c.model)),
		MaxTokens: anthropic.F(int64(c.maxTokens)),
		Messages:  anthropic.F(buildMessages(req.Turns)),
	}
	if len(req.Tools) > 0 {
		params.Tools = anthropic.F(buildToolParams(req.Tools))
	}
	if req.System != "" {
		params.System = anthropic.F([]anthropic.TextBlockParam{
			anthropic.NewTextBlock(req.System),
		})
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, err
	}

	var out ModelResponse
	for _, block := range resp.Content {
		switch b := block.AsUnion().(type) {
		case anthropic.TextBlock:
			out.Text += b.Text
		case anthropic.ToolUseBlock:
			var input map[string]interface{}
			if err := json.Unmarshal(b.Input, &input); err != nil {
				log.Warn().Err(err).Str("tool", b.Name).Msg("failed to parse tool input")
				input = map[string]interface{}{}
			}
			out.ToolCalls = append(out.ToolCalls, chat.ToolCall{
				CallID:    b.ID,
				Name:      b.Name,
				Arguments: input,
			})
		}
	}
	out.Raw = resp.ToParam()
	return &out, nil
}

func buildToolParams(ts []tools.Tool) []anthropic.ToolUnionUnionParam {
	params := make([]anthropic.ToolUnionUnionParam, len(ts))
	for i, t := range ts {
		schema := map[string]interface{}{
			"type": "object",
		}
		if props, ok := t.InputSchema["properties"]; ok {
			schema["properties"] = props
		}
		if required, ok := t.InputSchema["required"]; ok {
			schema["required"] = required
		}
		params[i] = anthropic.ToolParam{
			Name:        anthropic.String(t.Name),
			Description: anthropic.String(t.Description),
			InputSchema: anthropic.F[interface{}](schema),
		}
	}
	return params
}

// buildMessages converts the transcript to provider messages. Consecutive
// tool turns collapse into a single user message so the model receives a
// whole round's results together. Assistant turns created from an earlier
// response replay the provider's own payload.
//
// A cancelled round can leave an assistant turn whose tool calls never got
// result turns; the provider rejects any request where a tool_use block is
// not answered. Unanswered call_ids therefore get a synthesized error
// tool_result so the session stays usable after a cancellation.
func buildMessages(turns []chat.Turn) []anthropic.MessageParam {
	var messages []anthropic.MessageParam
	var pendingResults []anthropic.ContentBlockParamUnion
	var openCalls []string
	answered := make(map[string]bool)

	flushResults := func() {
		if len(pendingResults) > 0 {
			messages = append(messages, anthropic.NewUserMessage(pendingResults...))
			pendingResults = nil
		}
	}

	// closeRound answers any still-open call_ids with an error result, then
	// flushes the accumulated results as one user message.
	closeRound := func() {
		for _, id := range openCalls {
			if !answered[id] {
				pendingResults = append(pendingResults, anthropic.NewToolResultBlock(
					id, "tool call was cancelled before it produced a result", true))
			}
		}
		openCalls = nil
		flushResults()
	}

	for _, turn := range turns {
		switch turn.Role {
		case chat.RoleUser:
			closeRound()
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(turn.Text)))
		case chat.RoleAssistant:
			closeRound()
			answered = make(map[string]bool)
			for _, tc := range turn.ToolCalls {
				openCalls = append(openCalls, tc.CallID)
			}
			if raw, ok := turn.Raw.(anthropic.MessageParam); ok {
				messages = append(messages, raw)
			} else {
				messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(turn.Text)))
			}
		case chat.RoleTool:
			if turn.Result != nil {
				answered[turn.Result.CallID] = true
				pendingResults = append(pendingResults,
					anthropic.NewToolResultBlock(turn.Result.CallID, turn.Result.Content, turn.Result.IsError))
			}
		}
	}
	closeRound()
	return messages
}
