// Package cli implements itinctl, an offline front end to the itinerary core.
// Every command reads a JSON array of stops, runs one pure operation on it
// and prints the result as JSON. Nothing is written back to the input file.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pkordes/tripplanner/internal/domain"
	"github.com/pkordes/tripplanner/internal/itinerary"
)

// inputOptions are the flags shared by every subcommand.
type inputOptions struct {
	file     string
	day      int
	dayStart string
}

func (o *inputOptions) bind(fs *pflag.FlagSet, dayUsage string) {
	fs.StringVarP(&o.file, "file", "f", "", `JSON array of stops ("-" reads stdin)`)
	fs.IntVarP(&o.day, "day", "d", 0, dayUsage)
	fs.StringVar(&o.dayStart, "day-start", "", `"HH:MM" start for days whose first stop has no time (default 09:00)`)
}

func (o *inputOptions) validate() error {
	if o.day < 0 {
		return fmt.Errorf("--day must be positive, got %d", o.day)
	}
	if o.dayStart != "" && !itinerary.ValidClock(o.dayStart) {
		return fmt.Errorf("--day-start %q is not HH:MM", o.dayStart)
	}
	return nil
}

// NewRootCmd creates the top-level "itinctl" command and registers all subcommands.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "itinctl",
		Short:         "Reorder, retime and check a day-by-day itinerary",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newOptimizeCmd(),
		newPropagateCmd(),
		newMoveCmd(),
		newConflictsCmd(),
		newAnalyzeCmd(),
		newRouteCmd(),
	)

	return root
}

// loadStops reads the stop snapshot named by opts.file.
func loadStops(cmd *cobra.Command, opts *inputOptions) ([]domain.Stop, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.file == "" {
		return nil, errors.New("--file is required")
	}

	var r io.Reader
	if opts.file == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(opts.file)
		if err != nil {
			return nil, fmt.Errorf("opening stops file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var stops []domain.Stop
	if err := json.NewDecoder(r).Decode(&stops); err != nil {
		return nil, fmt.Errorf("decoding stops: %w", err)
	}

	seen := make(map[uuid.UUID]bool, len(stops))
	for i, s := range stops {
		if s.ID == uuid.Nil {
			return nil, fmt.Errorf("stop %d (%q) has no id", i, s.Name)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("duplicate stop id %s", s.ID)
		}
		seen[s.ID] = true
		if s.Day < 1 {
			return nil, fmt.Errorf("stop %q: day must be >= 1", s.Name)
		}
	}
	return stops, nil
}

// selectedDays is opts.day when set, otherwise every day in stops.
func selectedDays(stops []domain.Stop, opts *inputOptions) []int {
	if opts.day > 0 {
		return []int{opts.day}
	}
	return itinerary.Days(stops)
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
