// Package scroll implements the offset state machine behind a collapsible
// header: which vertical drags and flings the header claims, how its offset
// is clamped to the measured header height, and how a fling decays.
//
// Allowed here:
// - offset/bounds bookkeeping, decay physics, frame pacing, commit ordering
//
// Not allowed here:
// - rendering, terminal input, persistence backends
package scroll
