package genai

import (
	"context"
	"fmt"
	"io"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// ModelLister lists provider models.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// LangChainClient generates text through langchaingo's Google AI backend. Model
// listing is delegated because langchaingo does not expose it.
type LangChainClient struct {
	llm    llms.Model
	lister ModelLister
}

// NewLangChainClient builds a langchaingo-backed client.
func NewLangChainClient(ctx context.Context, apiKey string, lister ModelLister) (*LangChainClient, error) {
	llm, err := googleai.New(ctx, googleai.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("genai: create langchain googleai client: %w", err)
	}
	return &LangChainClient{llm: llm, lister: lister}, nil
}

// GenerateText runs a single-prompt completion against model.
func (c *LangChainClient) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, c.llm, prompt, llms.WithModel(model))
}

// ListModels delegates to the Gemini SDK client.
func (c *LangChainClient) ListModels(ctx context.Context) ([]string, error) {
	return c.lister.ListModels(ctx)
}

// Close closes the delegated lister when it holds resources.
func (c *LangChainClient) Close() error {
	if closer, ok := c.lister.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
