// Package report implements the report emitter collaborator spec.md §6
// describes as external to the core: it accepts an orchestrator.Report
// and renders it as JSON, CSV, Markdown, or HTML, writing to a file when
// given a path or to standard output otherwise. A separate WriteConsole
// prints a colored, human-oriented summary (via lipgloss) independent of
// those four machine-readable formats.
package report
