package genai

import "context"

// Completer is the opaque text-completion contract of the external
// generative content service. Implementations must return errors
// classified as *ServiceError so the retry loop can branch on kind.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
