// Command devicectl is a thin CLI front end for a device.Session: read
// and write object dictionary entries, drive the EtherCAT state
// machine, and move files to and from a connected device.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
