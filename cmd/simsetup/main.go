// Command simsetup builds, checks and submits simulation testbench setups.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
