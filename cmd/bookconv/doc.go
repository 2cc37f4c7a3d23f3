// Package main hosts the bookconv CLI entrypoint and command graph.
//
// The Cobra-based command tree resolves configuration once, then hands off to
// internal/convertrun for the interactive import and batch conversion flow.
// Readiness reporting and configuration scaffolding live here as thin
// renderers over internal/preflight and internal/config.
//
// Keep this package lean: add behavior to the internal packages first, then
// surface it through dedicated commands or flags here.
package main
