// Package widgets contains dumb render primitives for the dashboard.
//
// Allowed here:
// - stateless drawing and composition helpers (tile chrome, the span grid,
//   popup overlay)
//
// Not allowed here:
// - key handling, layout state, or persistence
package widgets
