// Package indexer registers controller-runtime field indexes on Observation
// resources so that Pod and Node events can be mapped back to the
// Observations watching them without a full list.
package indexer
