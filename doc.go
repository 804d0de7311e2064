/*
Package valet is a command understanding and dispatch pipeline for building
voice and text personal assistants.

It turns a free-form utterance into a structured command via a language model,
validates the command against a typed intent schema, and routes it to a
capability provider, folding every failure mode into one uniform Result.

# Concept

Valet separates what the user means (the intent schema) from how it gets done
(the provider registry). The engine manages model calls, entity validation,
clarification turns, and session memory, while your application ("Host")
supplies the language model and any custom capabilities. This Hexagonal
Architecture lets Valet sit behind any interface: CLI, HTTP server, or MCP
agent infrastructure.

# Key Features

  - Uniform Results: model errors, bad JSON, unknown intents, and provider
    panics all surface as a classified Result, never as a fault.
  - Hexagonal Architecture: core logic is decoupled from adapters (model
    clients, state stores, transports).
  - Session Memory: multi-turn clarification and conversation history with
    pluggable persistence ("memory" or Redis).
  - Strict Contracts: entities are type-checked against the schema before any
    provider runs.

# Usage

Initialize the assistant, wire a language model, and dispatch turns.

	package main

	import (
		"bufio"
		"context"
		"fmt"
		"os"

		"github.com/aretw0/valet"
		"github.com/aretw0/valet/pkg/adapters/openai"
	)

	func main() {
		assistant, err := valet.New(
			valet.WithCompleter(openai.New(os.Getenv("OPENAI_API_KEY"))),
		)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Main loop: read an utterance, dispatch, print the reply.
		ctx := context.Background()
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			res := assistant.Dispatch(ctx, "local", scanner.Text())
			fmt.Println(res.Text())
			if res.OK && res.Response == "Goodbye!" {
				break
			}
		}
	}

Without a model, Execute still runs structured commands directly:

	res := assistant.Execute(ctx, "local", "create_file", map[string]any{
		"filepath": "notes",
		"content":  "remember the milk",
	})
*/
package valet
