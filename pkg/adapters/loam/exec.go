package loam

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/valet/pkg/domain"
)

// execProvider runs a pack document's exec template through the shell.
type execProvider struct {
	intent   string
	template string
	keys     []string
	runner   Runner
}

func newExecProvider(intent, template string, keys []string, runner Runner) *execProvider {
	return &execProvider{
		intent:   intent,
		template: template,
		keys:     keys,
		runner:   runner,
	}
}

// Invoke substitutes the validated entities into the template and executes it.
func (p *execProvider) Invoke(ctx context.Context, entities map[string]any) (string, error) {
	if p.runner == nil {
		return "", domain.Failf(domain.FailureProvider, "The '%s' command has no runner configured.", p.intent)
	}

	out, err := p.runner.Run(ctx, "sh", "-c", p.render(entities))
	out = strings.TrimSpace(out)

	if errors.Is(err, context.DeadlineExceeded) {
		return "", domain.Failf(domain.FailureProvider, "The '%s' command timed out.", p.intent)
	}
	if err != nil {
		detail := out
		if detail == "" {
			detail = err.Error()
		}
		return "", domain.Failf(domain.FailureProvider, "Command failed:\n%s", detail)
	}
	if out == "" {
		return "Done.", nil
	}
	return out, nil
}

// render replaces {key} placeholders with shell-quoted entity values. Only
// declared keys substitute; other braces (e.g. ${HOME}) pass through intact.
// Absent values substitute as an empty quoted string.
func (p *execProvider) render(entities map[string]any) string {
	cmd := p.template
	for _, key := range p.keys {
		placeholder := "{" + key + "}"
		if !strings.Contains(cmd, placeholder) {
			continue
		}
		text := ""
		if value, ok := entities[key]; ok && value != nil {
			text = fmt.Sprintf("%v", value)
		}
		cmd = strings.ReplaceAll(cmd, placeholder, shellQuote(text))
	}
	return cmd
}

// shellQuote wraps s in single quotes for safe interpolation into sh -c.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
