/*
Package domain contains the core domain models for the valet pipeline.

It defines the value types that flow through command understanding and dispatch,
kept pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - Command: A structured intent (name + entities) extracted from one utterance.
  - Outcome: The tagged result of validating a candidate command.
  - Result: The uniform success/failure shape returned for every turn.
  - State: The persisted conversation state of a session (turn counter, pending
    clarification, bounded history).
*/
package domain
