// Package discovery waits for the CustomResourceDefinitions kube-observe
// depends on to be established before the controllers start.
package discovery
