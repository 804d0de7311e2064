/*
Package observability provides tools for monitoring the dispatch pipeline.

It includes Prometheus collectors exposed as lifecycle hooks, a logging hook
set for auditing turns, and a helper for combining hook sets.
*/
package observability
