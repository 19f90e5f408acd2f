// Package registry implements the bounded subscriber set the streaming
// server fans Signal Data and Context packets out to: a single
// mutex-guarded registry of remote (address, port) sinks with health
// counters, timeouts, and admission policy.
package registry
