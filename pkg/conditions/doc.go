// Package conditions reads and mutates Kubernetes metav1.Condition lists on
// resource status objects.
//
// Reads go through Condition, which returns a copy of the named condition or
// an Unknown default when it is absent. Writes go through Mut, which inserts
// a missing condition exactly once, keeps the list sorted by type without
// duplicates, and returns a Handle. Every setter on a Handle only advances
// LastTransitionTime when status, reason, message or observed generation
// actually change, so a reconciler can set conditions unconditionally on
// every pass without producing status churn.
//
// The helpers Set, MarkTrue, MarkReady and friends are built on
// the same path.
package conditions
