package main

import (
	"context"
	"errors"
	"fmt"

	"f1seasonbot/pkg/engine"
	"f1seasonbot/pkg/render"

	"github.com/spf13/cobra"
)

type queryFlags struct {
	year  int
	round int
}

func (f queryFlags) yearPtr() *int {
	if f.year == 0 {
		return nil
	}
	return &f.year
}

func (f queryFlags) roundPtr() *int {
	if f.round == 0 {
		return nil
	}
	return &f.round
}

func newQueryCmd(configDir *string) *cobra.Command {
	var flags queryFlags

	cmd := &cobra.Command{
		Use:   "query {races|next|standings|teams|results|schedule}",
		Short: "Query the season from the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().IntVar(&flags.year, "year", 0, "season, the current one when unset")
	cmd.PersistentFlags().IntVar(&flags.round, "round", 0, "round number, the latest when unset")

	run := func(fn func(ctx context.Context, e *engine.Engine, f queryFlags) (string, error)) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			rt, err := setup(*configDir)
			if err != nil {
				return err
			}
			out, err := fn(cmd.Context(), rt.engine, flags)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "races",
			Short: "List the season calendar",
			RunE: run(func(ctx context.Context, e *engine.Engine, f queryFlags) (string, error) {
				races, err := e.ListRaces(ctx, f.yearPtr())
				return render.Races(races, render.Options{}), err
			}),
		},
		&cobra.Command{
			Use:   "next",
			Short: "Show the next race",
			RunE: run(func(ctx context.Context, e *engine.Engine, f queryFlags) (string, error) {
				race, err := e.NextRace(ctx, f.yearPtr())
				return render.Race(race) + "\n", err
			}),
		},
		&cobra.Command{
			Use:   "standings",
			Short: "Show the driver standings",
			RunE: run(func(ctx context.Context, e *engine.Engine, f queryFlags) (string, error) {
				rows, err := e.DriverStandings(ctx, f.yearPtr(), f.roundPtr())
				return render.DriverStandings(rows, render.Options{}), err
			}),
		},
		&cobra.Command{
			Use:   "teams",
			Short: "Show the constructor standings",
			RunE: run(func(ctx context.Context, e *engine.Engine, f queryFlags) (string, error) {
				rows, err := e.TeamStandings(ctx, f.yearPtr(), f.roundPtr())
				return render.TeamStandings(rows, render.Options{}), err
			}),
		},
		&cobra.Command{
			Use:   "results",
			Short: "Show race results, the last race when --round is unset",
			RunE: run(func(ctx context.Context, e *engine.Engine, f queryFlags) (string, error) {
				if f.round == 0 {
					rows, err := e.LastResults(ctx, f.yearPtr())
					return render.Results(rows, render.Options{}), err
				}
				rows, err := e.ResultsByRound(ctx, f.yearPtr(), f.round)
				return render.Results(rows, render.Options{}), err
			}),
		},
		&cobra.Command{
			Use:   "schedule",
			Short: "Show the session schedule of a round",
			RunE: run(func(ctx context.Context, e *engine.Engine, f queryFlags) (string, error) {
				if f.round == 0 {
					return "", errors.New("--round is required")
				}
				schedule, err := e.Schedule(ctx, f.yearPtr(), f.round)
				return render.Schedule(schedule), err
			}),
		},
	)
	return cmd
}
