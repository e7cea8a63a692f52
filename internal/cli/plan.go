package cli

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pkordes/tripplanner/internal/domain"
	"github.com/pkordes/tripplanner/internal/itinerary"
)

// planResult is a batch plus the snapshot it produces once applied.
type planResult struct {
	Batch itinerary.Batch `json:"batch"`
	Stops []domain.Stop   `json:"stops"`
}

func printPlan(cmd *cobra.Command, stops []domain.Stop, batch itinerary.Batch) error {
	after := itinerary.ApplyAdjustments(itinerary.ApplyUpdates(stops, batch.Updates), batch.Adjustments)
	return writeJSON(cmd, planResult{Batch: batch, Stops: sortedByDay(after)})
}

func sortedByDay(stops []domain.Stop) []domain.Stop {
	out := make([]domain.Stop, 0, len(stops))
	for _, day := range itinerary.Days(stops) {
		out = append(out, itinerary.DayStops(stops, day)...)
	}
	return out
}

func newOptimizeCmd() *cobra.Command {
	opts := &inputOptions{}

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Reorder stops to cut travel and retime them",
		RunE: func(cmd *cobra.Command, args []string) error {
			stops, err := loadStops(cmd, opts)
			if err != nil {
				return err
			}
			if opts.day > 0 {
				return printPlan(cmd, stops, itinerary.PlanOptimizeDay(stops, opts.day, opts.dayStart))
			}
			return printPlan(cmd, stops, itinerary.PlanOptimizeTrip(stops, opts.dayStart))
		},
	}

	opts.bind(cmd.Flags(), "day to optimize (default: every day)")
	return cmd
}

func newPropagateCmd() *cobra.Command {
	opts := &inputOptions{}

	cmd := &cobra.Command{
		Use:   "propagate",
		Short: "Recompute start and end times of a day in its current order",
		RunE: func(cmd *cobra.Command, args []string) error {
			stops, err := loadStops(cmd, opts)
			if err != nil {
				return err
			}
			if opts.day == 0 {
				return errors.New("--day is required")
			}
			batch := itinerary.PlanRetime(stops, opts.day, itinerary.PropagateOptions{DayStart: opts.dayStart})
			return printPlan(cmd, stops, batch)
		},
	}

	opts.bind(cmd.Flags(), "day to retime")
	return cmd
}

func newMoveCmd() *cobra.Command {
	opts := &inputOptions{}
	var (
		stopID     string
		targetStop string
		index      int
		swap       bool
		resolution string
	)

	cmd := &cobra.Command{
		Use:   "move",
		Short: "Move a stop onto another stop's slot or to a day",
		Example: `  itinctl move -f stops.json --stop <id> --target-stop <id>
  itinctl move -f stops.json --stop <id> --day 2 --index 0
  itinctl move -f stops.json --stop <id> --target-stop <id> --swap`,
		RunE: func(cmd *cobra.Command, args []string) error {
			stops, err := loadStops(cmd, opts)
			if err != nil {
				return err
			}

			// Kind is left empty unless swapping; PlanMove infers reorder or move_to_day.
			req := itinerary.MoveRequest{
				DayStart:   opts.dayStart,
				Resolution: itinerary.Resolution(resolution),
			}
			switch req.Resolution {
			case "", itinerary.ResolutionAutoAdjust, itinerary.ResolutionManualReview, itinerary.ResolutionAcceptAsIs:
			default:
				return fmt.Errorf("unsupported --resolution %q", resolution)
			}

			if req.StopID, err = uuid.Parse(stopID); err != nil {
				return fmt.Errorf("--stop: %w", err)
			}

			switch {
			case targetStop != "":
				id, err := uuid.Parse(targetStop)
				if err != nil {
					return fmt.Errorf("--target-stop: %w", err)
				}
				req.Target.StopID = &id
				if swap {
					req.Kind = itinerary.MoveSwap
				}
			case opts.day > 0:
				if swap {
					return errors.New("--swap needs --target-stop")
				}
				req.Target.Day = opts.day
				if cmd.Flags().Changed("index") {
					req.Target.Index = &index
				}
			default:
				return errors.New("--target-stop or --day is required")
			}

			batch, err := itinerary.PlanMove(stops, req)
			if err != nil {
				return err
			}
			return printPlan(cmd, stops, batch)
		},
	}

	opts.bind(cmd.Flags(), "destination day when no --target-stop is given")
	cmd.Flags().StringVar(&stopID, "stop", "", "id of the stop being moved")
	cmd.Flags().StringVar(&targetStop, "target-stop", "", "id of the stop whose slot is taken")
	cmd.Flags().IntVar(&index, "index", 0, "position on --day (default: end of day)")
	cmd.Flags().BoolVar(&swap, "swap", false, "exchange positions with --target-stop")
	cmd.Flags().StringVar(&resolution, "resolution", "", "auto_adjust, manual_review or accept_as_is")
	_ = cmd.MarkFlagRequired("stop")
	return cmd
}
