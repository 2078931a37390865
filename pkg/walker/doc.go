// Package walker implements the sequential form walker: an index into a
// static question list plus the answers recorded so far.
//
// States are awaiting(i) for every question index and complete. Confirming
// awaiting(i) with an answer moves to awaiting(i+1), or to complete when i is
// the last index, at which point the answer set is JSON-encoded and written
// to the configured store under a single key. There is no backward
// navigation and no cancellation; a missing answer just keeps submission
// disabled (ErrNoAnswer).
package walker
