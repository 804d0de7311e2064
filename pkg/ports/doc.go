/*
Package ports defines the driven ports (interfaces) for the valet pipeline.

These interfaces decouple the dispatcher from external implementations, allowing
it to work with different model backends, capability providers, and state stores.

# Key Interfaces

  - Completer: The LLM boundary; turns a prompt into raw response text.
  - Provider: A capability provider executing the side effect for one intent.
  - StateStore: Persists and loads per-session conversation State.
  - DistributedLocker: Coordinates session access across replicas.
*/
package ports
