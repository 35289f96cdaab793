package openai

import (
	"context"
	"fmt"
	"time"

	openaisdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"

	"github.com/r26D/openai-ex-pipeline/ai"
)

// CreateTurn runs one exchange through the Responses API. The returned
// history is the request history plus the turn's output messages.
func (c *Client) CreateTurn(ctx context.Context, history []ai.Message, opts ai.TurnOptions) (ai.Turn, []ai.Message, error) {
	inputItems, err := toResponsesInput(history)
	if err != nil {
		return ai.Turn{}, nil, fmt.Errorf("failed to convert messages: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = DefaultModel
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(model),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: inputItems,
		},
	}
	if opts.Instructions != "" {
		params.Instructions = openaisdk.Opt(opts.Instructions)
	}
	if opts.Temperature != nil {
		params.Temperature = openaisdk.Opt(*opts.Temperature)
	}
	if opts.MaxOutputTokens != nil {
		params.MaxOutputTokens = openaisdk.Opt(int64(*opts.MaxOutputTokens))
	}
	if len(opts.VectorStoreIDs) > 0 {
		params.Tools = []responses.ToolUnionParam{
			{
				OfFileSearch: &responses.FileSearchToolParam{
					VectorStoreIDs: opts.VectorStoreIDs,
				},
			},
		}
	}

	resp, err := c.sdk.Responses.New(ctx, params)
	if err != nil {
		return ai.Turn{}, nil, err
	}

	turn := fromResponse(resp, history)

	newHistory := make([]ai.Message, 0, len(history)+len(turn.Output))
	newHistory = append(newHistory, history...)
	newHistory = append(newHistory, turn.Output...)

	return turn, newHistory, nil
}

// DeleteTurn deletes a stored response by ID.
func (c *Client) DeleteTurn(ctx context.Context, turnID string) error {
	return c.sdk.Responses.Delete(ctx, turnID)
}

func toResponsesInput(msgs []ai.Message) (responses.ResponseInputParam, error) {
	result := make(responses.ResponseInputParam, 0, len(msgs))
	for _, msg := range msgs {
		switch m := msg.(type) {
		case ai.UserMessage:
			result = append(result, inputMessage("user", m.Content))
		case ai.SystemMessage:
			result = append(result, inputMessage("system", m.Content))
		case ai.AIMessage:
			result = append(result, responses.ResponseInputItemUnionParam{
				OfOutputMessage: &responses.ResponseOutputMessageParam{
					Content: []responses.ResponseOutputMessageContentUnionParam{
						{
							OfOutputText: &responses.ResponseOutputTextParam{
								Text:        m.Content,
								Annotations: []responses.ResponseOutputTextAnnotationUnionParam{},
							},
						},
					},
				},
			})
		default:
			return nil, fmt.Errorf("unsupported message type: %T", msg)
		}
	}
	return result, nil
}

func inputMessage(role string, content string) responses.ResponseInputItemUnionParam {
	contentParts := []responses.ResponseInputContentUnionParam{
		responses.ResponseInputContentParamOfInputText(content),
	}
	return responses.ResponseInputItemUnionParam{
		OfInputMessage: &responses.ResponseInputItemMessageParam{
			Role:    role,
			Content: responses.ResponseInputMessageContentListParam(contentParts),
		},
	}
}

func fromResponse(resp *responses.Response, request []ai.Message) ai.Turn {
	meta := ai.Response{
		ID:      resp.ID,
		Object:  "response",
		Created: int64(resp.CreatedAt),
		Model:   string(resp.Model),
		Usage: ai.Usage{
			PromptTokens:     int(resp.Usage.InputTokens),
			CompletionTokens: int(resp.Usage.OutputTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}

	var output []ai.Message
	for _, outputItem := range resp.Output {
		if outputItem.Type != "message" || outputItem.Role != "assistant" {
			continue
		}
		var content string
		for _, contentItem := range outputItem.Content {
			if contentItem.Type == "output_text" && contentItem.Text != "" {
				if content != "" {
					content += "\n"
				}
				content += contentItem.Text
			}
		}
		output = append(output, ai.AIMessage{
			Role:     ai.AssistantRole,
			Content:  content,
			Response: meta,
		})
	}

	return ai.Turn{
		ID:        resp.ID,
		Request:   request,
		Output:    output,
		Usage:     meta.Usage,
		CreatedAt: time.Unix(int64(resp.CreatedAt), 0),
	}
}
