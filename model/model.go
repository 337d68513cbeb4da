// Package model defines the text generation abstraction used for response
// phrasing. CareMesh treats natural-language generation as an opaque
// text-producing service: orchestration decisions never depend on generated
// text, only on deterministic classification. Concrete providers live in the
// openai and anthropic subpackages.
package model

import (
	"context"
	"fmt"
)

// Generator produces advisory or conversational text for a prompt. It is the
// single seam between CareMesh and any LLM provider.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)

	// Info returns information about the generator implementation.
	Info() Info
}

// Info contains metadata about a generator implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// MockGenerator is a lightweight in-memory Generator useful for tests and
// examples. Register canned responses per prompt; unknown prompts yield a
// deterministic fallback.
type MockGenerator struct {
	info      Info
	responses map[string]string
}

// NewMockGenerator constructs a MockGenerator.
func NewMockGenerator(name string) *MockGenerator {
	return &MockGenerator{
		info:      Info{Name: name, Provider: "mock"},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for a prompt.
func (m *MockGenerator) AddResponse(prompt, response string) { m.responses[prompt] = response }

// Generate implements Generator.
func (m *MockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	if resp, ok := m.responses[prompt]; ok {
		return resp, nil
	}
	return fmt.Sprintf("Mock response to: %s", prompt), nil
}

// Info implements Generator.
func (m *MockGenerator) Info() Info { return m.info }
