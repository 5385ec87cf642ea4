// Package genai wraps the external generative-text providers behind a small
// interface so the roadmap generator can be exercised with scripted fakes.
package genai

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Client is a plain text-completion collaborator: no streaming, no tools.
type Client interface {
	GenerateText(ctx context.Context, model, prompt string) (string, error)
	ListModels(ctx context.Context) ([]string, error)
}

// Options selects and configures a provider.
type Options struct {
	Provider string
	APIKey   string
}

// Providers
const (
	ProviderGemini    = "gemini"
	ProviderLangChain = "langchain"
)

// New builds the client for opts.Provider. The returned client also implements
// io.Closer and should be closed on shutdown.
func New(ctx context.Context, opts Options) (Client, error) {
	if opts.APIKey == "" {
		return nil, errors.New("genai: api key is required")
	}

	gemini, err := NewGeminiClient(ctx, opts.APIKey)
	if err != nil {
		return nil, err
	}

	switch opts.Provider {
	case "", ProviderGemini:
		return gemini, nil
	case ProviderLangChain:
		lc, err := NewLangChainClient(ctx, opts.APIKey, gemini)
		if err != nil {
			_ = gemini.Close()
			return nil, err
		}
		return lc, nil
	default:
		_ = gemini.Close()
		return nil, fmt.Errorf("genai: unknown provider %q", opts.Provider)
	}
}

// Close closes c when it holds resources.
func Close(c Client) error {
	if closer, ok := c.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
