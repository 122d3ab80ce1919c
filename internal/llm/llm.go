// Package llm abstracts the remote text-completion service.
package llm

import (
	"context"
)

// Message is an ordered {role, content} pair sent to the model.
type Message struct {
	Role    string
	Content string
}

// CreateChatCompletionRequest carries the full conversation so far plus
// the generation parameters.
type CreateChatCompletionRequest struct {
	Model       string
	Messages    []*Message
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// Client turns a message sequence into a single model-generated reply.
// One attempt per call, no retry: the caller owns failure handling.
type Client interface {
	CreateChatCompletion(context.Context, *CreateChatCompletionRequest) (string, error)
}
