/*
Copyright © 2026 Deutsche Telekom AG
*/
package main

import "github.com/telekom/kube-observe/cmd"

func main() {
	cmd.Execute()
}
