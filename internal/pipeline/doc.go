/*
Package pipeline implements the command understanding and dispatch pipeline.

One turn flows through it as: sanitize the utterance, complete it against the
model with a schema-derived system prompt, parse the semi-structured response,
validate against the schema, resolve a provider from the registry, execute.
Every failure mode collapses into a uniform domain.Result at the Dispatcher
boundary; no model or provider misbehavior propagates as a fault.
*/
package pipeline
