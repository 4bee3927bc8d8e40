// Command tourgen expands tour frequency choices from CSV files without a
// database and prints the canonical tour label spaces.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
