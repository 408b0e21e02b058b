package system

import "fmt"

// Set via -ldflags "-X github.com/telekom/kube-observe/internal/system.Version=...".
var Name = "kube-observe"
var Version = "<unset>"
var Commit = "<unset>"
var Repository = "https://github.com/telekom/kube-observe"

func PrettyInfo() string {
	return fmt.Sprintf(`
===========================================================================
Application: %s
Version %s
Source: %s/tree/%s
===========================================================================
`, Name, Version, Repository, Commit)
}

// UserAgent returns the user agent the manager reports to the API server.
func UserAgent() string {
	return fmt.Sprintf("%s/%s (%s)", Name, Version, Commit)
}
