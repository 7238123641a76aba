package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"timeduration/internal/duration"
	"timeduration/internal/ics"
	appLog "timeduration/internal/log"
)

func newICSCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ics",
		Short: "Read and write iCalendar data as ISO-8601 intervals",
	}
	cmd.AddCommand(newICSExpandCmd(a), newICSIntervalsCmd(a), newICSExportCmd(a))
	return cmd
}

// sources returns the ICS sources named on the command line, or the
// configured calendars when none are given.
func (a *app) sources(args []string) []ics.Source {
	if len(args) == 0 {
		out := make([]ics.Source, 0, len(a.conf.Calendars))
		for _, c := range a.conf.Calendars {
			out = append(out, ics.Source{ID: c.ID, Location: c.Location})
		}
		return out
	}
	out := make([]ics.Source, 0, len(args))
	for i, loc := range args {
		out = append(out, ics.Source{ID: "arg" + strconv.Itoa(i), Location: loc})
	}
	return out
}

// loadEvents fetches and parses every source. A source that fails is
// logged and skipped so one broken calendar does not hide the others.
func (a *app) loadEvents(cmd *cobra.Command, srcs []ics.Source, timeout time.Duration) ([]ics.ParsedEvent, error) {
	if len(srcs) == 0 {
		return nil, errors.New("no calendars configured or given")
	}

	loader := ics.NewLoader(timeout)
	var events []ics.ParsedEvent
	for _, src := range srcs {
		body, err := loader.Load(cmd.Context(), src)
		if err != nil {
			appLog.Error("load calendar", err, "source", src.ID)
			continue
		}
		parsed, err := ics.ParseICS(src, body)
		if err != nil {
			appLog.Error("parse calendar", err, "source", src.ID)
			continue
		}
		appLog.Debug("calendar parsed", "source", src.ID, "events", len(parsed))
		events = append(events, parsed...)
	}
	return events, nil
}

func newICSExpandCmd(a *app) *cobra.Command {
	var (
		from    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "expand [LOCATION...]",
		Short: "List event occurrences within the configured window",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := a.loadEvents(cmd, a.sources(args), timeout)
			if err != nil {
				return err
			}

			start := time.Now().UTC()
			if from != "" {
				if start, err = duration.ParseInstant(from); err != nil {
					return err
				}
			}
			loc, err := a.conf.Location()
			if err != nil {
				return err
			}

			res, err := ics.ExpandOccurrences(events, ics.ExpandConfig{
				DisplayLocation:        loc,
				RangeStart:             start,
				RangeEnd:               a.conf.Window.AddTo(start),
				MaxOccurrencesPerEvent: a.conf.MaxOccurrences,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, occ := range res.Occurrences {
				span := duration.FromMillis(occ.End.UnixMilli() - occ.Start.UnixMilli())
				fmt.Fprintf(out, "%s\t%s\t%s\t%d\t%s\n",
					occ.Start.Format(time.RFC3339), span.ISOString(), occ.UID, occ.Index, occ.Summary)
			}
			if len(res.TruncatedEvents) > 0 {
				appLog.Warn("some events were truncated", "uids", res.TruncatedEvents)
			}
			appLog.Info("ics expand done", "events", len(events), "occurrences", len(res.Occurrences))
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Window start instant (defaults to now)")
	cmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "HTTP timeout per calendar")
	return cmd
}

func newICSIntervalsCmd(a *app) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "intervals [LOCATION...]",
		Short: "Print each event as an ISO-8601 interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := a.loadEvents(cmd, a.sources(args), timeout)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, ev := range events {
				iv, err := ev.Recurrence()
				if err != nil {
					// Events without an expressible RRULE fall back to a
					// single start/length interval.
					if iv, err = ev.Interval(); err != nil {
						appLog.Warn("event has no interval form", "uid", ev.UID, "err", err)
						continue
					}
				}
				if err := iv.SetDesignator(a.conf.Designator); err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\t%s\t%s\n", ev.UID, iv.ISOString(), ev.Summary)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "HTTP timeout per calendar")
	return cmd
}

func newICSExportCmd(a *app) *cobra.Command {
	var summary string

	cmd := &cobra.Command{
		Use:   "export INTERVAL...",
		Short: "Write intervals as an iCalendar document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events := make([]ics.ExportEvent, 0, len(args))
			for i, s := range args {
				iv, err := a.parseInterval(s)
				if err != nil {
					return err
				}
				events = append(events, ics.ExportEvent{
					UID:      fmt.Sprintf("isodur-%d", i),
					Summary:  summary,
					Interval: iv,
				})
			}

			body, err := ics.ExportCalendar(events)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), body)
			return nil
		},
	}
	cmd.Flags().StringVar(&summary, "summary", "", "SUMMARY for every exported event")
	return cmd
}
