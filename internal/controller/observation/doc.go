// Package observation contains the controller that mirrors conditions of
// Pods and Nodes into Observation resources.
package observation
