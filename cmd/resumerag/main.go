// Command resumerag serves resume matching over HTTP and drives a running
// service from the terminal.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
