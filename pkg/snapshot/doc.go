// Package snapshot assembles the point-in-time export of a request's
// collector state plus environment facts, and renders it for its three
// consumers:
//
//   - Build produces the composite Snapshot value.
//   - RenderPanel/InstallPanel emit the inline <script> configuration
//     for the client-side panel, plus the optional HTML comment block.
//   - ExportToResult grafts the snapshot into an XML result tree for
//     machine-readable API responses.
//
// All three are single-shot: they run once at response-finalization
// time, after request code has finished feeding the collector.
package snapshot
