package narrative

import "context"

// emptyCompletion is returned (and cached) when a backend answers with no
// content at all; it is not an error.
const emptyCompletion = "No analysis could be generated at this time."

// Backend is a single-prompt completion capability. The two bindings
// (OpenAI chat completions and Gemini generate-content) are interchangeable;
// which one is active is a configuration decision.
//
// Complete propagates transport and parse errors raw; containment happens
// one level up in the Generator.
type Backend interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}
