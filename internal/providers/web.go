package providers

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/aretw0/valet/pkg/domain"
	"github.com/aretw0/valet/pkg/ports"
)

const searchBase = "https://www.google.com/search?q="

const searchSummaryPrompt = "You are a research assistant. Answer the user's query concisely in plain text, as a short factual summary."

// Web opens websites and runs searches in the user's browser. With a
// configured Completer, summarized searches are answered by the model instead
// of scraping result pages.
type Web struct {
	runner    CommandRunner
	completer ports.Completer
	goos      string
}

// NewWeb creates the web provider group. The completer may be nil.
func NewWeb(runner CommandRunner, completer ports.Completer) *Web {
	return &Web{runner: runner, completer: completer, goos: runtime.GOOS}
}

type openWebsiteArgs struct {
	URL string `mapstructure:"url"`
}

// OpenWebsite opens a URL in the default browser, defaulting to https for
// bare hostnames.
func (w *Web) OpenWebsite(ctx context.Context, entities map[string]any) (string, error) {
	var args openWebsiteArgs
	if err := decode(entities, &args); err != nil {
		return "", err
	}

	url := args.URL
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}
	if err := w.openBrowser(ctx, url); err != nil {
		return "", domain.Failf(domain.FailureProvider, "Sorry, I couldn't open %s.", url)
	}
	return fmt.Sprintf("Opening %s.", url), nil
}

type searchArgs struct {
	Query     string `mapstructure:"query"`
	Summarize bool   `mapstructure:"summarize"`
}

// SearchInfo opens a search results tab, or answers directly via the model
// when a summary was asked for.
func (w *Web) SearchInfo(ctx context.Context, entities map[string]any) (string, error) {
	var args searchArgs
	if err := decode(entities, &args); err != nil {
		return "", err
	}

	searchURL := searchBase + strings.ReplaceAll(args.Query, " ", "+")

	if !args.Summarize {
		if err := w.openBrowser(ctx, searchURL); err != nil {
			return "", domain.Failf(domain.FailureProvider, "Sorry, I couldn't open a browser for that search.")
		}
		return fmt.Sprintf("I've opened a browser tab with search results for %s.", args.Query), nil
	}

	if w.completer != nil {
		answer, err := w.completer.Complete(ctx, ports.Prompt{
			System: searchSummaryPrompt,
			User:   args.Query,
		})
		if err == nil {
			return fmt.Sprintf("Here's what I found about %s: %s", args.Query, strings.TrimSpace(answer)), nil
		}
	}

	// No model available: fall back to opening the results like a plain search.
	if err := w.openBrowser(ctx, searchURL); err != nil {
		return "", domain.Failf(domain.FailureProvider, "Sorry, I couldn't open a browser for that search.")
	}
	return fmt.Sprintf("Could not extract a concise summary. Opened search results for '%s' in browser: %s", args.Query, searchURL), nil
}

func (w *Web) openBrowser(ctx context.Context, url string) error {
	var err error
	switch w.goos {
	case "darwin":
		_, err = w.runner.Run(ctx, "open", url)
	case "windows":
		_, err = w.runner.Run(ctx, "cmd", "/C", "start", "", url)
	default:
		_, err = w.runner.Run(ctx, "xdg-open", url)
	}
	return err
}
