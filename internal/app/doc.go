// Package app is the composition root of ebs.
//
// Setup loads the configuration, then builds the slog logger, the
// OpenTelemetry tracer provider, the catalog client and (when enabled) the
// SQLite search history. The resulting catalog.Service is layered:
//
//	catalog.Client              HTTP calls, health recording, spans
//	  history.Recorder          records successful searches (record_history)
//	    history.Source          local previous searches (previous_searches = "local")
//
// Run hands that service to the TUI. The CLI subcommands call Setup directly
// with LogWriter set to stderr.
//
// Configuration errors are fatal. Catalog failures never are: the results
// pipeline turns them into message rows and the health store drives the
// offline hint in the header.
package app
