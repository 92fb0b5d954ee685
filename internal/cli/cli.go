package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/campus-events/internal/cache"
	"github.com/pfrederiksen/campus-events/internal/calendar"
	"github.com/pfrederiksen/campus-events/internal/feed"
	"github.com/pfrederiksen/campus-events/internal/service"
)

var (
	flagFeedURL string
	flagMaxAge  time.Duration
	flagFormat  string
	flagVerbose bool

	flagDays     int
	flagNextWeek bool
	flagOutput   string
)

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "campus-events",
		Short: "Query the campus events feed",
		Long: `A CLI tool to query campus events from the university RSS feed.
Events are fetched on demand, normalized, and answered from an in-memory
snapshot; dates and times are extracted from the feed text.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if flagVerbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

			format := strings.ToLower(flagFormat)
			if format != string(FormatText) && format != string(FormatJSON) {
				return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&flagFeedURL, "feed-url", feed.DefaultURL, "Events feed URL")
	cmd.PersistentFlags().DurationVar(&flagMaxAge, "max-age", cache.DefaultMaxAge, "Snapshot staleness window")
	cmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newUpcomingCmd(),
		newSearchCmd(),
		newOnCmd(),
		newRangeCmd(),
		newTimeOfDayCmd(),
		newWeekCmd(),
		newWeekendCmd(),
		newCategoriesCmd(),
		newCategoryCmd(),
		newDetailsCmd(),
		newExportCmd(),
	)

	return cmd
}

// newService wires a one-shot service over the configured feed.
func newService() *service.Service {
	fetch := service.NewFeedFetch(feed.NewClient(), flagFeedURL)
	c := cache.New(fetch, cache.WithMaxAge(flagMaxAge))
	return service.New(c)
}

func format() OutputFormat {
	return OutputFormat(strings.ToLower(flagFormat))
}

func newUpcomingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List events in the coming days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := newService().UpcomingEvents(cmd.Context(), flagDays)
			if err != nil {
				return err
			}
			return WriteEvents(cmd.OutOrStdout(), events, format(), flagVerbose)
		},
	}
	cmd.Flags().IntVar(&flagDays, "days", 7, "Days ahead to include")
	return cmd
}

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search events by keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := newService().SearchEvents(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return WriteEvents(cmd.OutOrStdout(), events, format(), flagVerbose)
		},
	}
}

func newOnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "on <date>",
		Short: "List events on a date (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := newService().EventsByDate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return WriteEvents(cmd.OutOrStdout(), events, format(), flagVerbose)
		},
	}
}

func newRangeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "range <start> <end>",
		Short: "List events overlapping a date range",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := newService().EventsByDateRange(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return WriteEvents(cmd.OutOrStdout(), events, format(), flagVerbose)
		},
	}
}

func newTimeOfDayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "timeofday <date> <morning|afternoon|evening>",
		Short: "List events on a date by time of day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := newService().EventsByTimeOfDay(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return WriteEvents(cmd.OutOrStdout(), events, format(), flagVerbose)
		},
	}
}

func newWeekCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "week",
		Short: "List events this week (Monday through Sunday)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := newService()
			list := svc.EventsThisWeek
			if flagNextWeek {
				list = svc.EventsNextWeek
			}
			events, err := list(cmd.Context())
			if err != nil {
				return err
			}
			return WriteEvents(cmd.OutOrStdout(), events, format(), flagVerbose)
		},
	}
	cmd.Flags().BoolVar(&flagNextWeek, "next", false, "List next week instead")
	return cmd
}

func newWeekendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "weekend [date]",
		Short: "List events on the coming weekend",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := ""
			if len(args) == 1 {
				date = args[0]
			}
			events, err := newService().WeekendEvents(cmd.Context(), date)
			if err != nil {
				return err
			}
			return WriteEvents(cmd.OutOrStdout(), events, format(), flagVerbose)
		},
	}
}

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List event categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := newService().EventCategories(cmd.Context())
			if err != nil {
				return err
			}
			return WriteCategories(cmd.OutOrStdout(), groups, format())
		},
	}
}

func newCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "category <name>",
		Short: "List events matching a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := newService().EventsByCategory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return WriteEvents(cmd.OutOrStdout(), events, format(), flagVerbose)
		},
	}
}

func newDetailsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "details <id-or-title>",
		Short: "Show full details for one event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			evt, err := newService().EventDetails(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if evt == nil {
				return fmt.Errorf("no event matches %q", args[0])
			}
			return WriteDetail(cmd.OutOrStdout(), evt, format())
		},
	}
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <id-or-title>",
		Short: "Export one event as an iCalendar file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			evt, err := newService().EventDetails(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if evt == nil {
				return fmt.Errorf("no event matches %q", args[0])
			}

			ics, err := calendar.ICS(evt, time.Now())
			if err != nil {
				return fmt.Errorf("exporting %q: %w", evt.Title, err)
			}

			if flagOutput == "" {
				fmt.Fprint(cmd.OutOrStdout(), ics)
				return nil
			}
			if err := os.WriteFile(flagOutput, []byte(ics), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", flagOutput, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", flagOutput, len(ics))
			return nil
		},
	}
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Write to file instead of stdout")
	return cmd
}
