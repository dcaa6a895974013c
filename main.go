// Command disketch replays a packet capture through a simulated
// measurement topology and reports heavy-hitter detection accuracy.
package main

import (
	"fmt"
	"os"

	"github.com/disketch/disketch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
