package cli

import (
	"github.com/spf13/cobra"

	"github.com/pkordes/tripplanner/internal/itinerary"
)

func newConflictsCmd() *cobra.Command {
	opts := &inputOptions{}

	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "List overlaps, past-midnight stops and over-long days",
		RunE: func(cmd *cobra.Command, args []string) error {
			stops, err := loadStops(cmd, opts)
			if err != nil {
				return err
			}
			conflicts := []itinerary.ScheduleConflict{}
			for _, day := range selectedDays(stops, opts) {
				conflicts = append(conflicts, itinerary.DetectConflicts(itinerary.DayStops(stops, day), day)...)
			}
			return writeJSON(cmd, conflicts)
		},
	}

	opts.bind(cmd.Flags(), "day to check (default: every day)")
	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	opts := &inputOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score days on distance, variety and time fit",
		RunE: func(cmd *cobra.Command, args []string) error {
			stops, err := loadStops(cmd, opts)
			if err != nil {
				return err
			}
			analyses := []itinerary.DayAnalysis{}
			for _, day := range selectedDays(stops, opts) {
				analyses = append(analyses, itinerary.AnalyzeDay(itinerary.DayStops(stops, day), day))
			}
			return writeJSON(cmd, analyses)
		},
	}

	opts.bind(cmd.Flags(), "day to analyze (default: every day)")
	return cmd
}

func newRouteCmd() *cobra.Command {
	opts := &inputOptions{}

	cmd := &cobra.Command{
		Use:   "route",
		Short: "Print the map path of each day",
		RunE: func(cmd *cobra.Command, args []string) error {
			stops, err := loadStops(cmd, opts)
			if err != nil {
				return err
			}
			routes := []itinerary.DayRoute{}
			for _, day := range selectedDays(stops, opts) {
				routes = append(routes, itinerary.RouteForDay(itinerary.DayStops(stops, day), day))
			}
			return writeJSON(cmd, routes)
		},
	}

	opts.bind(cmd.Flags(), "day to draw (default: every day)")
	return cmd
}
