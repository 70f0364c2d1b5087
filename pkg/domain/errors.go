package domain

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// AgentFallbackMessage is what a specialist's slot shows in the transcript
// when its generation failed for any reason.
const AgentFallbackMessage = "I encountered an error while processing your request. Please try again later."

// OrchestratorFallbackMessage is the orchestrator's counterpart.
const OrchestratorFallbackMessage = "I encountered an error while coordinating the agent responses. Please try again later."

type GenerationErrorKind string

const (
	// GenerationErrorConfig covers missing or inactive agent, model, or
	// orchestrator configuration.
	GenerationErrorConfig GenerationErrorKind = "config"
	// GenerationErrorProvider covers everything the hosted completion API
	// can do wrong: network, quota, malformed response.
	GenerationErrorProvider GenerationErrorKind = "provider"
)

// GenerationError keeps the failure kind visible to callers and tests; only
// the presentation edge turns it into a fallback message.
type GenerationError struct {
	Kind GenerationErrorKind
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (%s): %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func NewConfigError(err error) *GenerationError {
	return &GenerationError{Kind: GenerationErrorConfig, Err: err}
}

func NewProviderError(err error) *GenerationError {
	return &GenerationError{Kind: GenerationErrorProvider, Err: err}
}
