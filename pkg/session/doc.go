/*
Package session implements conversation state management and persistence
orchestration.

It provides the single-writer-per-turn discipline the pipeline relies on:
per-session locks (reference counted, garbage collected when idle), optional
distributed locking for multi-replica deployments, and turn sequencing so a
stale in-flight turn can never overwrite state a newer turn already owns.
*/
package session
