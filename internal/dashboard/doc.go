// Package dashboard implements spec.md §6's dashboard HTTP surface: a
// scan registry keyed by UUIDv4 plus REST endpoints, a websocket
// live-progress upgrade, and three HTML pages. It is a collaborator, not
// part of the scan engine — it drives orchestrator.Run the same way the
// CLI does, through the same RunConfig.
package dashboard
