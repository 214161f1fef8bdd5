package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexradu95/tangle/internal/graph"
	"github.com/alexradu95/tangle/pkg/types"
)

var todayDay string

func newTodayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show the daily note and everything created on a day",
		Long: `Today resolves the daily note for a calendar day, creating it if it
does not exist yet, and lists the objects linked to it.

Example:
  tangle today
  tangle today --day 2025-01-15`,
		RunE: runToday,
	}

	cmd.Flags().StringVar(&todayDay, "day", "", "calendar day as YYYY-MM-DD (default: today, UTC)")
	return cmd
}

func runToday(cmd *cobra.Command, args []string) error {
	day := todayDay
	if day == "" {
		day = time.Now().UTC().Format(types.DayFormat)
	}

	return withService(cmd, func(svc *graph.Service) error {
		note, err := svc.GetOrCreateDailyNote(day)
		if err != nil {
			return err
		}

		entries, err := svc.Timeline().DailyNoteTimeline(note.ID)
		if err != nil {
			return err
		}

		if flags.jsonMode {
			return printJSON(cmd.OutOrStdout(), struct {
				Note    *types.Object   `json:"note"`
				Entries []*types.Object `json:"entries"`
			}{note, entries})
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s)\n", note.Title, note.ID)
		if len(entries) == 0 {
			fmt.Fprintln(out, "Nothing created on this day yet")
			return nil
		}
		printObjectTable(out, entries)
		return nil
	})
}
