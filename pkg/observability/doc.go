/*
Package observability provides tools for monitoring a nuex store.

It includes Prometheus metrics fed by lifecycle hooks and a trace writer that prints every
guarded write as a terminal line, indented while a mutation is committing.
*/
package observability
