package tts

import (
	"errors"

	"github.com/jmalicki/voiceover/internal/config"
)

type EngineType string

const (
	EngineSystem EngineType = "system"
	EngineEdge   EngineType = "edge"
	EngineOpenAI EngineType = "openai"
)

// NewProvider returns the Provider for an engine name.
func NewProvider(engine EngineType, cfg *config.Config) (Provider, error) {
	switch engine {
	case EngineSystem:
		return NewSystemProvider(), nil
	case EngineEdge:
		return NewEdgeProvider(), nil
	case EngineOpenAI:
		return NewOpenAIProvider(cfg), nil
	default:
		return nil, errors.New("unsupported TTS engine")
	}
}
