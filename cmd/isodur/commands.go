package main

import (
	"fmt"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"timeduration/internal/duration"
	"timeduration/internal/interval"
	appLog "timeduration/internal/log"
	"timeduration/internal/schedule"
)

// looksLikeInterval reports whether s should be parsed as an interval
// rather than a duration.
func looksLikeInterval(s string) bool {
	return strings.HasPrefix(s, "R") || strings.Contains(s, interval.Solidus) || strings.Contains(s, interval.DoubleHyphen)
}

// parseInterval parses s and applies the configured designator unless s
// already names one.
func (a *app) parseInterval(s string) (*interval.Interval, error) {
	iv, err := interval.Parse(s)
	if err != nil {
		return nil, errors.Wrapf(err, "parse interval %q", s)
	}
	if !strings.Contains(s, interval.Solidus) && !strings.Contains(s, interval.DoubleHyphen) {
		if err := iv.SetDesignator(a.conf.Designator); err != nil {
			return nil, err
		}
	}
	return iv, nil
}

func (a *app) display(t time.Time) string {
	loc, err := a.conf.Location()
	if err != nil {
		appLog.Warn("falling back to UTC", "err", err)
		loc = time.UTC
	}
	return t.In(loc).Format(time.RFC3339Nano)
}

func newParseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse LITERAL...",
		Short: "Parse durations or intervals and print their fields",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, s := range args {
				if looksLikeInterval(s) {
					iv, err := a.parseInterval(s)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s\tinterval\tstart=%s end=%s repetitions=%d designator=%s span=%s\n",
						s, iv.Start().Kind(), iv.End().Kind(), iv.RepetitionCount(), iv.Designator(), iv.Duration())
					continue
				}

				d, err := duration.Parse(s)
				if err != nil {
					return errors.Wrapf(err, "parse %q", s)
				}
				if d.IsInstant() {
					fmt.Fprintf(out, "%s\tinstant\t%s\n", s, a.display(d.Time()))
					continue
				}
				fmt.Fprintf(out, "%s\t%s\tms=%d iso=%s date=%s time=%s years=%d months=%d days=%d\n",
					s, d.Form(), d.UnixMilli(), d.ISOString(), d.DateString(), d.TimeString(),
					d.FullYear(), d.Month(), d.Date())
			}
			return nil
		},
	}
}

func newFormatCmd(a *app) *cobra.Command {
	var between bool

	cmd := &cobra.Command{
		Use:   "format MILLIS | --between START END",
		Short: "Format a millisecond offset, or the span between two instants, as a duration",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var d duration.Duration
			if between {
				if len(args) != 2 {
					return errors.New("--between needs two instants")
				}
				start, err := duration.ParseInstant(args[0])
				if err != nil {
					return err
				}
				end, err := duration.ParseInstant(args[1])
				if err != nil {
					return err
				}
				d = duration.FromMillis(end.UnixMilli() - start.UnixMilli())
			} else {
				ms, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return errors.Wrapf(err, "parse millis %q", args[0])
				}
				d = duration.FromMillis(ms)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", d.ISOString(), d.DateString(), d.TimeString())
			return nil
		},
	}
	cmd.Flags().BoolVar(&between, "between", false, "Format END minus START")
	return cmd
}

func newIterateCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "iterate INTERVAL",
		Short: "Print the occurrences of a repeating interval",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			iv, err := a.parseInterval(args[0])
			if err != nil {
				return err
			}
			if limit <= 0 {
				limit = a.conf.MaxOccurrences
			}

			it := iv.Iterator()
			defer it.Close()
			for it.Next() {
				if it.Index() >= limit {
					appLog.Info("iterate: limit reached", "limit", limit)
					break
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", it.Index(), a.display(it.Value()))
			}
			return it.Err()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum occurrences to print (defaults to max_occurrences)")
	return cmd
}

func newIncludesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "includes INTERVAL INSTANT",
		Short: "Report whether an instant falls inside an interval",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			iv, err := a.parseInterval(args[0])
			if err != nil {
				return err
			}
			t, err := duration.ParseInstant(args[1])
			if err != nil {
				return err
			}
			ok, err := iv.Includes(t)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		},
	}
}

func newNextCmd(a *app) *cobra.Command {
	var (
		after string
		rule  bool
	)

	cmd := &cobra.Command{
		Use:   "next INTERVAL",
		Short: "Print the next occurrence of a repeating interval",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			iv, err := a.parseInterval(args[0])
			if err != nil {
				return err
			}

			if rule {
				opt, err := schedule.ToROption(iv)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), opt.String())
				return nil
			}

			from := time.Now()
			if after != "" {
				if from, err = duration.ParseInstant(after); err != nil {
					return err
				}
			}
			next := schedule.New(iv).Next(from)
			if next.IsZero() {
				return errors.Errorf("no occurrence of %s after %s", iv, a.display(from))
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.display(next))
			return nil
		},
	}
	cmd.Flags().StringVar(&after, "after", "", "Instant to search from (defaults to now)")
	cmd.Flags().BoolVar(&rule, "rrule", false, "Print the interval as an RFC 5545 RRULE instead")
	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch INTERVAL",
		Short: "Log every occurrence of a repeating interval as it happens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			iv, err := a.parseInterval(args[0])
			if err != nil {
				return err
			}

			// Root context with cancellation on SIGINT/SIGTERM.
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			c := cron.New()
			if _, err := schedule.Register(c, iv, func() {
				appLog.Info("occurrence", "interval", iv, "at", a.display(time.Now()))
				fmt.Fprintln(cmd.OutOrStdout(), a.display(time.Now()))
			}); err != nil {
				return err
			}

			appLog.Info("watch started", "interval", iv)
			c.Start()
			<-ctx.Done()

			// Wait for running jobs before exiting.
			<-c.Stop().Done()
			appLog.Info("watch stopped")
			return nil
		},
	}
}

