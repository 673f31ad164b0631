// Package main hosts the podscribe CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, builds the shared
// logger, and hands off to the internal pipelines: transcribe, merge and
// fetch each wrap one package, while status, doctor and config are
// read-only helpers. Flags only override configuration values for the
// current invocation.
package main
