package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"replog/app/client/extraction"

	_ "embed"

	"github.com/sashabaranov/go-openai"
)

//go:embed extract_prompt_template.txt
var extractPromptTemplate string

type llmResponse struct {
	Reply       string            `json:"reply"`
	UpdatedForm map[string]string `json:"updated_form"`
}

func (s *Service) callLLM(ctx context.Context, message string) (*extraction.Result, error) {
	prompt := strings.ReplaceAll(extractPromptTemplate, "{message}", message)

	ctx, cancel := context.WithTimeout(ctx, maxReasonDuration)
	defer cancel()

	aiResponse, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.cfg.OpenAI.Model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature:         defaultTemperature,
			MaxCompletionTokens: 1000,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(aiResponse.Choices) == 0 {
		return nil, fmt.Errorf("no chat completion found")
	}

	result := aiResponse.Choices[0].Message.Content
	result = strings.Trim(result, "`")
	result = strings.TrimSpace(result)
	result = strings.TrimPrefix(result, "json")
	result = strings.TrimSpace(result)

	var response llmResponse
	if err = json.Unmarshal([]byte(result), &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	reply := strings.TrimSpace(response.Reply)
	if reply == "" {
		reply = extraction.FallbackReply
	}

	form := response.UpdatedForm
	for key, value := range form {
		if strings.TrimSpace(value) == "" {
			delete(form, key)
		}
	}
	if len(form) == 0 {
		form = nil
	}

	return &extraction.Result{
		Reply:       reply,
		UpdatedForm: form,
	}, nil
}
