package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/valet/internal/pipeline"
	"github.com/aretw0/valet/pkg/domain"
	"github.com/aretw0/valet/pkg/ports"
)

const assistantPrompt = "You are a helpful personal assistant. Answer the user's question clearly and concisely in plain text."

// Query answers open-ended questions through the configured model.
type Query struct {
	completer ports.Completer
}

// NewQuery creates the general-query provider. The completer may be nil, in
// which case queries get a canned reply.
func NewQuery(completer ports.Completer) *Query {
	return &Query{completer: completer}
}

type generalQueryArgs struct {
	QueryText string `mapstructure:"query_text"`
}

// GeneralQuery forwards the question to the model and returns its answer.
func (q *Query) GeneralQuery(ctx context.Context, entities map[string]any) (string, error) {
	var args generalQueryArgs
	if err := decode(entities, &args); err != nil {
		return "", err
	}

	if q.completer == nil {
		return fmt.Sprintf("Regarding your query: %s... I'm still learning to handle general conversation.", args.QueryText), nil
	}

	answer, err := q.completer.Complete(ctx, ports.Prompt{System: assistantPrompt, User: args.QueryText})
	if err != nil {
		return "", domain.Failf(domain.FailureLLMUnavailable, "%s", pipeline.MsgLLMUnavailable)
	}
	return strings.TrimSpace(answer), nil
}
