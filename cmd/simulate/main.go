package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/aliskhannn/study-review-bot/internal/simulate"
	"github.com/aliskhannn/study-review-bot/internal/srs"
)

const dateLayout = "2006-01-02"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		sessions   string
		start      string
		thresholds = srs.DefaultThresholds()
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Replay study session outcomes through the review scheduler",
		Example: `  simulate --sessions "9/1,9/1,9/1,2/8,8/2"
  simulate --sessions "1/9,2/8,3/7" --start 2025-01-01 --growth-factor 2`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := simulate.ParseSessions(sessions)
			if err != nil {
				return err
			}

			startAt := time.Now()
			if start != "" {
				startAt, err = time.ParseInLocation(dateLayout, start, time.Local)
				if err != nil {
					return fmt.Errorf("parse --start: %w", err)
				}
			}

			scheduler, err := srs.NewScheduler(thresholds)
			if err != nil {
				return err
			}

			return printSteps(cmd.OutOrStdout(), simulate.Replay(scheduler, parsed, startAt))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&sessions, "sessions", "", `comma-separated correct/incorrect tallies, e.g. "9/1,8/2"`)
	flags.StringVar(&start, "start", "", "date of the first session (YYYY-MM-DD), today by default")
	flags.Float64Var(&thresholds.GrowthFactor, "growth-factor", thresholds.GrowthFactor, "base interval growth per review")
	flags.IntVar(&thresholds.MaxIntervalDays, "max-interval", thresholds.MaxIntervalDays, "longest interval in days")
	flags.Float64Var(&thresholds.SpikeSessionMax, "spike-session-max", thresholds.SpikeSessionMax, "session accuracy at or below which a spike fires")
	_ = cmd.MarkFlagRequired("sessions")

	return cmd
}

func printSteps(out io.Writer, steps []simulate.Step) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tDATE\tSESSION\tACC\tCUM\tREVIEWS\tMODE\tTRANSITION\tINTERVAL\tDUE")

	for _, s := range steps {
		st := s.Outcome.State
		mode := srs.ModeOf(&st)
		modeText := mode.Kind.String()
		if mode.Kind == srs.Recovering {
			modeText = fmt.Sprintf("%s #%d", modeText, st.Attempt())
		}

		fmt.Fprintf(w, "%d\t%s\t%d/%d\t%.0f%%\t%.1f%%\t%d\t%s\t%s\t%dd\t%s\n",
			s.Number,
			s.StudiedAt.Format(dateLayout),
			s.Session.Correct, s.Session.Correct+s.Session.Incorrect,
			s.Accuracy*100,
			s.Cumulative*100,
			st.ReviewCount,
			modeText,
			s.Outcome.Transition,
			s.Outcome.IntervalDays,
			st.DueAt.Format(dateLayout),
		)
	}

	return w.Flush()
}
