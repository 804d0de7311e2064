package ports

import "context"

// Prompt is one model request: fixed system instructions plus the user utterance.
type Prompt struct {
	System string
	User   string
}

// Completer is the LLM boundary. Implementations send the prompt to a model and
// return its raw text response. The pipeline stays correct no matter what text
// comes back; callers bound the call with the context.
type Completer interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, prompt Prompt) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, prompt Prompt) (string, error) {
	return f(ctx, prompt)
}
