// Package core holds the shared conversational state primitives used by both
// front ends: the per-process ThreadState carried across dispatches and the
// capacity-bounded query history that gives the reasoning engine short-term
// continuity.
package core
