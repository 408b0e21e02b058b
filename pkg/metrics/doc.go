// Package metrics defines and registers Prometheus metrics for kube-observe,
// covering condition transitions, reconciliation counts and durations, and the
// number of managed observations.
package metrics
