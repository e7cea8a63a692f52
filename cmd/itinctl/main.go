// Command itinctl runs the itinerary scheduler over a JSON file of stops.
package main

import (
	"fmt"
	"os"

	"github.com/pkordes/tripplanner/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
