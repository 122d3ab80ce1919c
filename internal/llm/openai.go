package llm

import (
	"context"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient speaks the OpenAI-compatible chat-completions protocol,
// pointed at whichever router the configuration names.
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient instantiates a client with the given bearer token and API host.
func NewOpenAIClient(apiToken, apiHost string) *OpenAIClient {
	openAIConfig := openai.DefaultConfig(apiToken)
	openAIConfig.BaseURL = apiHost
	client := openai.NewClientWithConfig(openAIConfig)
	return &OpenAIClient{client: client}
}

// CreateChatCompletion sends the full conversation and returns the single
// completion text. Non-2xx responses surface with their status and body
// context preserved; a response with no choices is malformed.
func (c *OpenAIClient) CreateChatCompletion(ctx context.Context, request *CreateChatCompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(request.Messages))
	for _, message := range request.Messages {
		messages = append(messages, openai.ChatCompletionMessage{Role: message.Role, Content: message.Content})
	}
	openAIRequest := openai.ChatCompletionRequest{
		Model:       request.Model,
		Messages:    messages,
		MaxTokens:   request.MaxTokens,
		Temperature: request.Temperature,
		TopP:        request.TopP,
	}
	response, err := c.client.CreateChatCompletion(ctx, openAIRequest)
	if err != nil {
		return "", errors.Wrap(err, "creating chat completion")
	}
	if len(response.Choices) == 0 {
		return "", errors.Errorf("chat completion returned no choices: %+v", response)
	}
	return response.Choices[0].Message.Content, nil
}
